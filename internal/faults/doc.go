// Package faults defines the error taxonomy shared by every conversion
// command and the warning report surfaced at the end of each one.
//
// Fatal conditions are exported sentinels (ErrMalformedProject,
// ErrMarkerIntegrity, ErrTargetExists, ...) paired with typed errors that
// carry the offending path or marker and unwrap to their sentinel, so callers
// classify with errors.Is and inspect with errors.As. Wrap adds stage and
// operation context without losing that classification.
//
// Content-level anomalies (unknown identifiers, bad ratings, unusable language
// codes) are not returned as errors. They are recorded on a Report and the
// command keeps going; the CLI renders the report once the command finishes.
package faults
