package main

import (
	"bytes"
	"strings"
	"testing"

	"ywbridge/internal/faults"
)

func TestRenderStatusLine(t *testing.T) {
	plain := renderStatusLine("Updated", statusOK, "novel.yw7", false)
	if plain != "Updated:   novel.yw7" {
		t.Fatalf("unexpected line %q", plain)
	}
	colored := renderStatusLine("Updated", statusOK, "novel.yw7", true)
	if !strings.HasPrefix(colored, ansiGreen) || !strings.HasSuffix(colored, ansiReset) {
		t.Fatalf("expected green line, got %q", colored)
	}
}

func TestRenderReport(t *testing.T) {
	var buf bytes.Buffer
	renderReport(&buf, &faults.Report{}, false)
	if got := buf.String(); !strings.Contains(got, "no warnings") || strings.Contains(got, "SEVERITY") {
		t.Fatalf("unexpected empty report %q", got)
	}

	report := &faults.Report{}
	report.Warn(faults.CodeRating, "ScID:3", "rating %d out of range", 9)
	report.Notice(faults.CodeNewEntity, "CrID:4", "character created")
	buf.Reset()
	renderReport(&buf, report, false)
	got := buf.String()
	for _, want := range []string{"SEVERITY", "rating_out_of_range", "ScID:3", "character created", "1 warning, 1 notice"} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in %q", want, got)
		}
	}
}

func TestRenderTableColumns(t *testing.T) {
	if got := renderTable(nil, [][]string{{"x"}}); got != "" {
		t.Fatalf("expected no table without columns, got %q", got)
	}
	severity := textColumn("Severity")
	severity.paint = func(s string) string { return "<" + s + ">" }
	got := renderTable([]column{severity, countColumn("Count")}, [][]string{{"warning", "3"}, {"notice"}})
	for _, want := range []string{"SEVERITY", "COUNT", "<warning>", "<notice>", "3"} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in %q", want, got)
		}
	}
}
