// Package project holds the in-memory tree of one yWriter 7 project and reads
// and writes the native .yw7 file.
//
// The XML tree that was loaded is retained next to the model. Saving merges the
// model back into that tree, so elements the model does not know about pass
// through untouched. Each command loads a project, mutates it and saves it once.
package project
