package faults_test

import (
	"errors"
	"strings"
	"testing"

	"ywbridge/internal/faults"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := faults.Wrap(faults.ErrInvalidDocument, "writeback", "read", "content.xml missing", base)
	if !errors.Is(err, faults.ErrInvalidDocument) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"writeback", "read", "content.xml missing"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestTypedErrorsUnwrapToSentinels(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		marker error
		fatal  bool
	}{
		{"malformed", &faults.MalformedProjectError{Path: "a.yw7", Reason: "no PROJECT"}, faults.ErrMalformedProject, true},
		{"marker", &faults.MarkerIntegrityError{Marker: "ScID:1", Reason: "duplicate"}, faults.ErrMarkerIntegrity, true},
		{"unknown", &faults.UnknownIdentifierError{Marker: "ScID:9"}, faults.ErrUnknownIdentifier, false},
		{"exists", &faults.TargetExistsError{Path: "b.yw7"}, faults.ErrTargetExists, true},
		{"language", &faults.InvalidLanguageCodeError{Language: "x", Replacement: "zxx"}, faults.ErrInvalidLanguageCode, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.marker) {
				t.Fatalf("expected %v to unwrap to %v", tt.err, tt.marker)
			}
			if got := faults.Fatal(tt.err); got != tt.fatal {
				t.Fatalf("Fatal(%v) = %v, want %v", tt.err, got, tt.fatal)
			}
		})
	}
}

func TestMalformedProjectKeepsCause(t *testing.T) {
	cause := errors.New("unexpected EOF")
	err := error(&faults.MalformedProjectError{Path: "x.yw7", Err: cause})
	if !errors.Is(err, cause) || !errors.Is(err, faults.ErrMalformedProject) {
		t.Fatalf("expected both cause and sentinel, got %v", err)
	}
}

func TestReportSummary(t *testing.T) {
	var r faults.Report
	if r.Summary() != "no warnings" {
		t.Fatalf("unexpected empty summary %q", r.Summary())
	}
	r.Warn(faults.CodeRating, "ScID:1", "rating %q out of range", "9")
	r.Recover("ScID:2", &faults.UnknownIdentifierError{Marker: "ScID:2"})
	r.Notice(faults.CodeSplit, "ScID:1", "new scenes created")

	if r.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", r.Len())
	}
	if !r.HasCode(faults.CodeUnknownIdentifier) {
		t.Fatal("expected recovered error to be classified as unknown identifier")
	}
	if got := r.Summary(); got != "2 warnings, 1 notice" {
		t.Fatalf("unexpected summary %q", got)
	}

	var nilReport *faults.Report
	nilReport.Warn("x", "", "ignored")
	if nilReport.Len() != 0 {
		t.Fatal("nil report should discard entries")
	}
}
