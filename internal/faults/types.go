package faults

import "fmt"

// MalformedProjectError reports a native project file that is structurally
// unusable. Nothing is loaded when it is returned.
type MalformedProjectError struct {
	Path   string
	Reason string
	Err    error
}

func (e *MalformedProjectError) Error() string {
	msg := "malformed project"
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MalformedProjectError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrMalformedProject, e.Err}
	}
	return []error{ErrMalformedProject}
}

// MarkerIntegrityError reports a section marker that was edited, duplicated,
// moved or removed. The whole write-back is aborted.
type MarkerIntegrityError struct {
	Marker string
	Reason string
}

func (e *MarkerIntegrityError) Error() string {
	if e.Marker == "" {
		return fmt.Sprintf("section marker integrity violated: %s", e.Reason)
	}
	return fmt.Sprintf("section marker %q: %s", e.Marker, e.Reason)
}

func (e *MarkerIntegrityError) Unwrap() error { return ErrMarkerIntegrity }

// UnknownIdentifierError reports a row or section whose identifier does not
// resolve in the project. The row or section is skipped.
type UnknownIdentifierError struct {
	Marker string
	Where  string
}

func (e *UnknownIdentifierError) Error() string {
	if e.Where != "" {
		return fmt.Sprintf("unknown identifier %s in %s", e.Marker, e.Where)
	}
	return fmt.Sprintf("unknown identifier %s", e.Marker)
}

func (e *UnknownIdentifierError) Unwrap() error { return ErrUnknownIdentifier }

// TargetExistsError reports that an import would overwrite an existing file.
type TargetExistsError struct {
	Path string
}

func (e *TargetExistsError) Error() string {
	return fmt.Sprintf("target already exists: %s", e.Path)
}

func (e *TargetExistsError) Unwrap() error { return ErrTargetExists }

// InvalidLanguageCodeError reports a language/country pair that failed the
// well-formedness check and was replaced by the "no language" sentinel.
type InvalidLanguageCodeError struct {
	Language    string
	Country     string
	Replacement string
}

func (e *InvalidLanguageCodeError) Error() string {
	return fmt.Sprintf("invalid language code %q/%q, using %s", e.Language, e.Country, e.Replacement)
}

func (e *InvalidLanguageCodeError) Unwrap() error { return ErrInvalidLanguageCode }
