package faults

import (
	"errors"
	"fmt"
	"strings"
)

// Severity classifies a report entry.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityNotice  Severity = "notice"
)

// Entry is one non-fatal finding collected while a command runs.
type Entry struct {
	Severity Severity
	Code     string
	Subject  string
	Message  string
	Err      error
}

// Report collects non-fatal findings for the summary shown when a command
// finishes. The zero value is ready to use; a nil Report discards entries.
type Report struct {
	entries []Entry
}

// Warn records a warning with a short machine-readable code.
func (r *Report) Warn(code, subject, format string, args ...any) {
	r.add(Entry{Severity: SeverityWarning, Code: code, Subject: subject, Message: fmt.Sprintf(format, args...)})
}

// Notice records an informational entry, such as created scenes.
func (r *Report) Notice(code, subject, format string, args ...any) {
	r.add(Entry{Severity: SeverityNotice, Code: code, Subject: subject, Message: fmt.Sprintf(format, args...)})
}

// Recover records a recovered error as a warning. The code is derived from
// the error's sentinel when it has one.
func (r *Report) Recover(subject string, err error) {
	if err == nil {
		return
	}
	r.add(Entry{Severity: SeverityWarning, Code: codeFor(err), Subject: subject, Message: err.Error(), Err: err})
}

// Entries returns the recorded findings in insertion order.
func (r *Report) Entries() []Entry {
	if r == nil {
		return nil
	}
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Len returns the number of recorded findings.
func (r *Report) Len() int {
	if r == nil {
		return 0
	}
	return len(r.entries)
}

// HasCode reports whether any entry carries code.
func (r *Report) HasCode(code string) bool {
	if r == nil {
		return false
	}
	for _, e := range r.entries {
		if e.Code == code {
			return true
		}
	}
	return false
}

// Merge appends all entries of other.
func (r *Report) Merge(other *Report) {
	if r == nil || other == nil {
		return
	}
	r.entries = append(r.entries, other.entries...)
}

// Summary renders a one-line digest such as "2 warnings, 1 notice".
func (r *Report) Summary() string {
	if r.Len() == 0 {
		return "no warnings"
	}
	var warnings, notices int
	for _, e := range r.entries {
		if e.Severity == SeverityNotice {
			notices++
		} else {
			warnings++
		}
	}
	parts := make([]string, 0, 2)
	if warnings > 0 {
		parts = append(parts, plural(warnings, "warning"))
	}
	if notices > 0 {
		parts = append(parts, plural(notices, "notice"))
	}
	return strings.Join(parts, ", ")
}

func (r *Report) add(e Entry) {
	if r == nil {
		return
	}
	r.entries = append(r.entries, e)
}

// Codes used in report entries.
const (
	CodeUnknownIdentifier = "unknown_identifier"
	CodeInvalidLanguage   = "invalid_language"
	CodeRating            = "rating_out_of_range"
	CodeStatus            = "unknown_status"
	CodeSplit             = "scenes_split"
	CodeNewEntity         = "entity_created"
	CodeDeletedEntity     = "entity_deleted"
	CodeLossy             = "lossy_markup"
	CodeOther             = "other"
)

func codeFor(err error) string {
	switch {
	case errors.Is(err, ErrUnknownIdentifier):
		return CodeUnknownIdentifier
	case errors.Is(err, ErrInvalidLanguageCode):
		return CodeInvalidLanguage
	default:
		return CodeOther
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
