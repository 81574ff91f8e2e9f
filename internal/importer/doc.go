// Package importer creates a new project from a document that carries no
// section markers.
//
// A document with at least one level 3 heading is read as an outline:
// headings become chapters and scenes and the remaining paragraphs become
// their descriptions. Any other document is read as work in progress, with
// the paragraphs becoming scene content.
package importer
