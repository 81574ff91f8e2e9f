package journal_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"ywbridge/internal/journal"
	"ywbridge/internal/testsupport"
)

func TestOpenCreatesSchemaAndReopens(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)
	if store.Path() != cfg.JournalPath() {
		t.Fatalf("unexpected journal path: %q", store.Path())
	}
	ctx := context.Background()
	ev := &journal.Event{SessionID: "s1", Kind: journal.KindGenerate, ProjectPath: "/p/novel.yw7"}
	if err := store.Record(ctx, ev); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := journal.Open(cfg)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	events, err := reopened.History(ctx, "", 0)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(events) != 1 || events[0].SessionID != "s1" {
		t.Fatalf("expected persisted event, got %#v", events)
	}
}

func TestRecordAssignsIDAndTimestamp(t *testing.T) {
	store := testsupport.MustOpenJournal(t, testsupport.NewConfig(t))
	ev := &journal.Event{
		SessionID:      "s1",
		Kind:           journal.KindWriteBack,
		ProjectPath:    "/p/novel.yw7",
		DocumentPath:   "/p/novel_manuscript.odt",
		Flavor:         "manuscript",
		DocumentDigest: "abc",
		Split:          true,
		Warnings:       2,
	}
	if err := store.Record(context.Background(), ev); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if ev.ID == 0 {
		t.Fatal("expected event ID to be assigned")
	}
	if ev.CreatedAt.IsZero() {
		t.Fatal("expected timestamp to be set")
	}

	last, err := store.LastForDocument(context.Background(), "/p/novel_manuscript.odt")
	if err != nil {
		t.Fatalf("LastForDocument failed: %v", err)
	}
	if last == nil {
		t.Fatal("expected event")
	}
	if last.ID != ev.ID || !last.Split || last.Warnings != 2 || last.Flavor != "manuscript" || last.DocumentDigest != "abc" {
		t.Fatalf("unexpected event: %#v", last)
	}
	if last.ProjectDigest != "" {
		t.Fatalf("expected empty project digest, got %q", last.ProjectDigest)
	}
	if !last.SplitApplied() {
		t.Fatal("expected split write-back to report SplitApplied")
	}
}

func TestRecordRejectsIncompleteEvents(t *testing.T) {
	store := testsupport.MustOpenJournal(t, testsupport.NewConfig(t))
	tests := []struct {
		name string
		ev   *journal.Event
	}{
		{"nil", nil},
		{"no session", &journal.Event{Kind: journal.KindImport, ProjectPath: "/p.yw7"}},
		{"no kind", &journal.Event{SessionID: "s", ProjectPath: "/p.yw7"}},
		{"no project", &journal.Event{SessionID: "s", Kind: journal.KindImport}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := store.Record(context.Background(), tc.ev); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestLastForDocumentFollowsNewestEvent(t *testing.T) {
	store := testsupport.MustOpenJournal(t, testsupport.NewConfig(t))
	ctx := context.Background()
	doc := "/p/novel_manuscript.odt"

	last, err := store.LastForDocument(ctx, doc)
	if err != nil {
		t.Fatalf("LastForDocument failed: %v", err)
	}
	if last != nil {
		t.Fatalf("expected no history, got %#v", last)
	}

	sequence := []*journal.Event{
		{SessionID: "a", Kind: journal.KindGenerate, ProjectPath: "/p/novel.yw7", DocumentPath: doc},
		{SessionID: "b", Kind: journal.KindWriteBack, ProjectPath: "/p/novel.yw7", DocumentPath: doc, Split: true},
		{SessionID: "c", Kind: journal.KindGenerate, ProjectPath: "/p/novel.yw7", DocumentPath: doc},
	}
	wantApplied := []bool{false, true, false}
	for i, ev := range sequence {
		if err := store.Record(ctx, ev); err != nil {
			t.Fatalf("Record %d failed: %v", i, err)
		}
		last, err := store.LastForDocument(ctx, doc)
		if err != nil {
			t.Fatalf("LastForDocument failed: %v", err)
		}
		if last.SessionID != ev.SessionID {
			t.Fatalf("step %d: expected session %q, got %q", i, ev.SessionID, last.SessionID)
		}
		if last.SplitApplied() != wantApplied[i] {
			t.Fatalf("step %d: SplitApplied = %v", i, last.SplitApplied())
		}
	}
}

func TestHistoryFiltersAndLimits(t *testing.T) {
	store := testsupport.MustOpenJournal(t, testsupport.NewConfig(t))
	ctx := context.Background()
	for i, projectPath := range []string{"/a.yw7", "/b.yw7", "/a.yw7", "/a.yw7"} {
		ev := &journal.Event{SessionID: string(rune('w' + i)), Kind: journal.KindGenerate, ProjectPath: projectPath}
		if err := store.Record(ctx, ev); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	all, err := store.History(ctx, "", 0)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(all) != 4 || all[0].SessionID != "z" {
		t.Fatalf("expected newest first across projects, got %d events", len(all))
	}

	limited, err := store.History(ctx, "/a.yw7", 2)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("expected 2 events, got %d", len(limited))
	}
	if limited[0].SessionID != "z" || limited[1].SessionID != "y" {
		t.Fatalf("unexpected order: %q, %q", limited[0].SessionID, limited[1].SessionID)
	}
}

func TestPruneRemovesOldEvents(t *testing.T) {
	store := testsupport.MustOpenJournal(t, testsupport.NewConfig(t))
	ctx := context.Background()
	now := time.Now().UTC()
	old := &journal.Event{SessionID: "old", Kind: journal.KindGenerate, ProjectPath: "/a.yw7", CreatedAt: now.Add(-48 * time.Hour)}
	fresh := &journal.Event{SessionID: "new", Kind: journal.KindGenerate, ProjectPath: "/a.yw7", CreatedAt: now}
	for _, ev := range []*journal.Event{old, fresh} {
		if err := store.Record(ctx, ev); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}
	removed, err := store.Prune(ctx, now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 pruned event, got %d", removed)
	}
	events, err := store.History(ctx, "", 0)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(events) != 1 || events[0].SessionID != "new" {
		t.Fatalf("unexpected remaining events: %#v", events)
	}
}

func TestOpenRejectsForeignSchemaVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	store, err := journal.OpenPath(path)
	if err != nil {
		t.Fatalf("OpenPath: %v", err)
	}
	if err := journal.SetSchemaVersionForTest(store, 99); err != nil {
		t.Fatalf("set version: %v", err)
	}
	store.Close()

	_, err = journal.OpenPath(path)
	if !errors.Is(err, journal.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}
