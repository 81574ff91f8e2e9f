// Package logging assembles structured slog loggers and formatting helpers used
// across ywbridge commands.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so workflow code can tag log
// lines with the session ID, project, document, and flavor of the running
// command. Console output goes to stderr so command results on stdout stay
// machine readable; when a log directory is configured every record is also
// appended in JSON to a daily ywbridge-<date>.log file, and CleanupOldLogs
// prunes files past the retention window. The package also provides a no-op
// logger for tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup to ensure new
// components emit data with the same shape and routing guarantees as the rest
// of the system.
package logging
