package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"ywbridge/internal/faults"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
)

const (
	ansiReset  = "\x1b[0m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

const statusLabelWidth = 10

func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	base := fmt.Sprintf("%-*s %s", statusLabelWidth, label+":", message)
	if colorize {
		if color := statusKindColor(kind); color != "" {
			return color + base + ansiReset
		}
	}
	return base
}

func statusKindColor(kind statusKind) string {
	switch kind {
	case statusOK:
		return ansiGreen
	case statusWarn:
		return ansiYellow
	case statusInfo:
		return ansiBlue
	default:
		return ""
	}
}

func severityKind(s faults.Severity) statusKind {
	if s == faults.SeverityWarning {
		return statusWarn
	}
	return statusInfo
}

// renderReport prints the findings of a command as a table followed by the
// one-line summary.
func renderReport(out io.Writer, report *faults.Report, colorize bool) {
	entries := report.Entries()
	if len(entries) > 0 {
		rows := make([][]string, 0, len(entries))
		for _, e := range entries {
			rows = append(rows, []string{string(e.Severity), e.Code, e.Subject, e.Message})
		}
		severity := textColumn("Severity")
		if colorize {
			severity.paint = func(s string) string {
				return statusKindColor(severityKind(faults.Severity(s))) + s + ansiReset
			}
		}
		fmt.Fprintln(out, renderTable([]column{
			severity,
			textColumn("Code"),
			textColumn("Subject"),
			wrappedColumn("Message", wrapMessage),
		}, rows))
	}
	kind := statusOK
	for _, e := range entries {
		if e.Severity == faults.SeverityWarning {
			kind = statusWarn
			break
		}
	}
	fmt.Fprintln(out, renderStatusLine("Summary", kind, report.Summary(), colorize))
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
