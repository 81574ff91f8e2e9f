// Package workflow runs the ywbridge commands against project files.
//
// The Manager turns a Request into one complete command: it assigns a session
// ID, takes the project lock, loads the project, renders or parses the
// document through the flavor engine, backs the project up before it is
// rewritten, saves it atomically, and appends the outcome to the conversion
// journal. Non-fatal findings travel back in the Outcome's report; fatal ones
// are returned as errors that classify with errors.Is against the faults
// sentinels.
//
// A write-back either rewrites the whole project consistently or leaves it
// untouched. Split documents may be written back once per generation; the
// journal rejects a second write-back with faults.ErrRepeatedSplit.
package workflow
