package faults

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMalformedProject    = errors.New("malformed project")
	ErrMarkerIntegrity     = errors.New("section marker integrity violated")
	ErrUnknownIdentifier   = errors.New("unknown identifier")
	ErrTargetExists        = errors.New("target already exists")
	ErrInvalidLanguageCode = errors.New("invalid language code")
	ErrRepeatedSplit       = errors.New("split document already written back")
	ErrLocked              = errors.New("project is locked")
	ErrUnsupportedFlavor   = errors.New("unsupported document flavor")
	ErrReadOnlyFlavor      = errors.New("document flavor is read-only")
	ErrInvalidDocument     = errors.New("invalid document")
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrInvalidDocument
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Fatal reports whether err must abort the command as a whole. Unknown
// identifiers and language code problems are recovered locally instead.
func Fatal(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, ErrUnknownIdentifier) && !errors.Is(err, ErrInvalidLanguageCode)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "conversion failure"
	}
	return strings.Join(parts, ": ")
}
