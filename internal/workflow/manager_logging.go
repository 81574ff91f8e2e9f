package workflow

import (
	"errors"
	"log/slog"

	"ywbridge/internal/faults"
	"ywbridge/internal/logging"
)

// logReport writes every report entry to the log. Warnings carry the
// event_type, hint, and impact fields; notices are logged at info level.
func logReport(logger *slog.Logger, report *faults.Report) {
	for _, entry := range report.Entries() {
		attrs := []logging.Attr{
			logging.String("subject", entry.Subject),
			logging.String("detail", entry.Message),
		}
		if entry.Severity == faults.SeverityNotice {
			logger.Info("project changed", logging.Args(append(attrs, logging.String(logging.FieldEventType, entry.Code))...)...)
			continue
		}
		attrs = append(attrs,
			logging.String(logging.FieldErrorHint, hintFor(entry.Code)),
			logging.String(logging.FieldImpact, impactFor(entry.Code)),
		)
		logging.WarnWithContext(logger, "recovered from document problem", entry.Code, attrs...)
	}
}

// logFailure records a fatal command error with a hint derived from its
// classification.
func logFailure(logger *slog.Logger, err error) {
	logging.ErrorWithContext(logger, "command failed", "command_failed",
		logging.Error(err),
		logging.String(logging.FieldErrorHint, ErrorHint(err)),
	)
}

// ErrorHint returns the next step a user should take after err.
func ErrorHint(err error) string {
	switch {
	case errors.Is(err, faults.ErrMalformedProject):
		return "open the project in yWriter and save it again"
	case errors.Is(err, faults.ErrMarkerIntegrity):
		return "restore the section markers or generate the document again"
	case errors.Is(err, faults.ErrTargetExists):
		return "move the existing file away or pass --force"
	case errors.Is(err, faults.ErrRepeatedSplit):
		return "generate the document again before editing it further"
	case errors.Is(err, faults.ErrLocked):
		return "close yWriter or wait for the other command to finish"
	case errors.Is(err, faults.ErrUnsupportedFlavor):
		return "run 'ywbridge flavors' for the supported document names"
	case errors.Is(err, faults.ErrReadOnlyFlavor):
		return "reports are generated only; edit a writable flavor instead"
	case errors.Is(err, faults.ErrInvalidDocument):
		return "check that the file is an OpenDocument file saved by an office suite"
	}
	return "check logs for details"
}

func hintFor(code string) string {
	switch code {
	case faults.CodeUnknownIdentifier:
		return "rows and sections must keep the identifiers of a generated document"
	case faults.CodeInvalidLanguage:
		return "use codes such as en-US in the document language settings"
	case faults.CodeRating:
		return "ratings range from 1 to 6"
	case faults.CodeStatus:
		return "use Outline, Draft, 1st Edit, 2nd Edit, or Done"
	}
	return "review the summary"
}

func impactFor(code string) string {
	switch code {
	case faults.CodeUnknownIdentifier:
		return "the row or section was not written back"
	case faults.CodeInvalidLanguage:
		return "the language was replaced by the no-language sentinel"
	case faults.CodeRating:
		return "the rating was reset"
	case faults.CodeStatus:
		return "the scene status was kept"
	}
	return "command completed with warnings"
}
