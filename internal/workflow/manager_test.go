package workflow_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofrs/flock"

	"ywbridge/internal/config"
	"ywbridge/internal/document"
	"ywbridge/internal/faults"
	"ywbridge/internal/fileutil"
	"ywbridge/internal/journal"
	"ywbridge/internal/odf"
	"ywbridge/internal/testsupport"
	"ywbridge/internal/workflow"
)

type fixture struct {
	cfg     *config.Config
	journal *journal.Store
	manager *workflow.Manager
	project string
	dir     string
}

func newFixture(t *testing.T, opts ...testsupport.ConfigOption) *fixture {
	t.Helper()
	cfg := testsupport.NewConfig(t, opts...)
	f := &fixture{cfg: cfg, dir: testsupport.ProjectDir(t, cfg)}
	f.project = testsupport.WriteProject(t, f.dir, "novel", testsupport.SampleProject())

	var managerOpts []workflow.ManagerOption
	if cfg.Journal.Enabled {
		f.journal = testsupport.MustOpenJournal(t, cfg)
		managerOpts = append(managerOpts, workflow.WithJournal(f.journal))
	}
	clock := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	managerOpts = append(managerOpts, workflow.WithClock(func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}))
	f.manager = workflow.NewManager(cfg, nil, managerOpts...)
	return f
}

func (f *fixture) generate(t *testing.T, flavorName string, overwrite bool) *workflow.Outcome {
	t.Helper()
	out, err := f.manager.Generate(context.Background(), workflow.Request{Project: f.project, Flavor: flavorName, Overwrite: overwrite})
	if err != nil {
		t.Fatalf("generate %s: %v", flavorName, err)
	}
	return out
}

func (f *fixture) writeBack(t *testing.T, docPath string) *workflow.Outcome {
	t.Helper()
	out, err := f.manager.WriteBack(context.Background(), workflow.Request{Document: docPath})
	if err != nil {
		t.Fatalf("write back %s: %v", docPath, err)
	}
	return out
}

func TestGenerateWritesDocumentAndJournal(t *testing.T) {
	f := newFixture(t)
	out := f.generate(t, "manuscript", false)

	want := filepath.Join(f.dir, "novel_manuscript.odt")
	if out.DocumentPath != want {
		t.Fatalf("unexpected document path %q", out.DocumentPath)
	}
	if !testsupport.Exists(t, want) {
		t.Fatal("document not written")
	}
	if out.SessionID == "" || out.Operation != workflow.OpGenerate || out.Flavor != "manuscript" {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if testsupport.Exists(t, f.project+workflow.LockSuffix) {
		t.Fatal("lock file left behind")
	}

	events, err := f.manager.History(context.Background(), f.project, 0)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected one journal event, got %d", len(events))
	}
	ev := events[0]
	if ev.Kind != journal.KindGenerate || ev.SessionID != out.SessionID || ev.DocumentPath != want {
		t.Fatalf("unexpected event %+v", ev)
	}
	if ev.DocumentDigest == "" || ev.ProjectDigest == "" {
		t.Fatalf("expected digests, got %+v", ev)
	}
}

func TestGenerateRefusesExistingDocument(t *testing.T) {
	f := newFixture(t)
	f.generate(t, "scenelist", false)

	_, err := f.manager.Generate(context.Background(), workflow.Request{Project: f.project, Flavor: "scenelist"})
	if !errors.Is(err, faults.ErrTargetExists) {
		t.Fatalf("expected ErrTargetExists, got %v", err)
	}
	f.generate(t, "scenelist", true)
}

func TestGenerateUnknownFlavor(t *testing.T) {
	f := newFixture(t)
	_, err := f.manager.Generate(context.Background(), workflow.Request{Project: f.project, Flavor: "poems"})
	if !errors.Is(err, faults.ErrUnsupportedFlavor) {
		t.Fatalf("expected ErrUnsupportedFlavor, got %v", err)
	}
}

func TestWriteBackUnchangedDocumentKeepsProject(t *testing.T) {
	f := newFixture(t)
	before := testsupport.LoadProject(t, f.project)
	doc := f.generate(t, "manuscript", false).DocumentPath

	out := f.writeBack(t, doc)
	if out.Result == nil || out.Result.Split {
		t.Fatalf("unexpected result %+v", out.Result)
	}
	if out.BackupPath == "" || !testsupport.Exists(t, out.BackupPath) {
		t.Fatalf("expected backup, got %q", out.BackupPath)
	}
	data, err := fileutil.ReadCompressed(out.BackupPath)
	if err != nil {
		t.Fatalf("read backup: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("empty backup")
	}

	after := testsupport.LoadProject(t, f.project)
	for id, sc := range before.Scenes {
		got := after.Scenes[id]
		if got == nil || got.Title != sc.Title || got.Content != sc.Content {
			t.Fatalf("scene %s changed: %+v", id, got)
		}
	}
	if len(after.Scenes) != len(before.Scenes) {
		t.Fatalf("scene count changed: %d", len(after.Scenes))
	}
}

func TestSplitWriteBackIsAcceptedOnce(t *testing.T) {
	f := newFixture(t)
	doc := f.generate(t, "manuscript", false).DocumentPath

	store := odf.NewStore("")
	text, err := store.ReadText(doc)
	if err != nil {
		t.Fatalf("read document: %v", err)
	}
	var arrival *document.Section
	for _, sec := range text.Sections() {
		if sec.Name == "ScID:1" {
			arrival = sec
		}
	}
	if arrival == nil {
		t.Fatal("scene section not found")
	}
	arrival.Blocks = append(arrival.Blocks,
		document.Heading(3, "Night Watch"),
		document.NewParagraph(document.RoleBody, "Nobody slept."),
	)
	if err := store.WriteText(doc, text); err != nil {
		t.Fatalf("write edited document: %v", err)
	}

	out := f.writeBack(t, doc)
	if !out.Result.Split || !out.Report.HasCode(faults.CodeSplit) {
		t.Fatalf("expected split, got %+v", out.Result)
	}
	p := testsupport.LoadProject(t, f.project)
	if len(p.Scenes) != 3 {
		t.Fatalf("expected a new scene, got %d scenes", len(p.Scenes))
	}
	saved := testsupport.ReadFile(t, f.project)

	_, err = f.manager.WriteBack(context.Background(), workflow.Request{Document: doc})
	if !errors.Is(err, faults.ErrRepeatedSplit) {
		t.Fatalf("expected ErrRepeatedSplit, got %v", err)
	}
	if testsupport.ReadFile(t, f.project) != saved {
		t.Fatal("project modified by rejected write-back")
	}

	f.generate(t, "manuscript", true)
	if out := f.writeBack(t, doc); out.Result.Split {
		t.Fatal("regenerated document should not split again")
	}
}

func TestWriteBackRefusesLockedProject(t *testing.T) {
	f := newFixture(t)
	doc := f.generate(t, "scenelist", false).DocumentPath

	held := flock.New(f.project + workflow.LockSuffix)
	ok, err := held.TryLock()
	if err != nil || !ok {
		t.Fatalf("take lock: ok=%v err=%v", ok, err)
	}
	_, err = f.manager.WriteBack(context.Background(), workflow.Request{Document: doc})
	if !errors.Is(err, faults.ErrLocked) {
		t.Fatalf("expected ErrLocked while another command holds the lock, got %v", err)
	}
	if err := held.Unlock(); err != nil {
		t.Fatalf("unlock: %v", err)
	}

	testsupport.WriteFile(t, f.project+".lock", "")
	_, err = f.manager.WriteBack(context.Background(), workflow.Request{Document: doc})
	if !errors.Is(err, faults.ErrLocked) {
		t.Fatalf("expected ErrLocked while yWriter has the project open, got %v", err)
	}
}

func TestWriteBackRejectsReportsAndPlainDocuments(t *testing.T) {
	f := newFixture(t)
	xref := f.generate(t, "xref", false).DocumentPath

	_, err := f.manager.WriteBack(context.Background(), workflow.Request{Document: xref})
	if !errors.Is(err, faults.ErrReadOnlyFlavor) {
		t.Fatalf("expected ErrReadOnlyFlavor, got %v", err)
	}
	_, err = f.manager.WriteBack(context.Background(), workflow.Request{Document: filepath.Join(f.dir, "draft.odt")})
	if !errors.Is(err, faults.ErrUnsupportedFlavor) {
		t.Fatalf("expected ErrUnsupportedFlavor, got %v", err)
	}
}

func TestWriteBackPrunesBackups(t *testing.T) {
	f := newFixture(t, testsupport.WithBackupKeep(1))
	doc := f.generate(t, "scenelist", false).DocumentPath

	first := f.writeBack(t, doc)
	second := f.writeBack(t, doc)
	if len(second.Pruned) != 1 || second.Pruned[0] != first.BackupPath {
		t.Fatalf("expected first backup pruned, got %v", second.Pruned)
	}
	backups, err := fileutil.ListBackups(f.project)
	if err != nil {
		t.Fatalf("list backups: %v", err)
	}
	if len(backups) != 1 || backups[0] != second.BackupPath {
		t.Fatalf("unexpected backups %v", backups)
	}
}

func TestWriteBackWithoutBackupsOrJournal(t *testing.T) {
	f := newFixture(t, testsupport.WithoutBackups(), testsupport.WithoutJournal())
	doc := f.generate(t, "characters", false).DocumentPath

	out := f.writeBack(t, doc)
	if out.BackupPath != "" {
		t.Fatalf("unexpected backup %q", out.BackupPath)
	}
	backups, err := fileutil.ListBackups(f.project)
	if err != nil {
		t.Fatalf("list backups: %v", err)
	}
	if len(backups) != 0 {
		t.Fatalf("unexpected backups %v", backups)
	}
	if _, err := f.manager.History(context.Background(), "", 0); err == nil {
		t.Fatal("expected history to fail without a journal")
	}
}

func TestConvertImportsPlainDocument(t *testing.T) {
	f := newFixture(t)
	draft := filepath.Join(f.dir, "voyage.odt")
	store := odf.NewStore("")
	err := store.WriteText(draft, &document.Text{
		Language: "en",
		Country:  "US",
		Body: []document.Block{
			document.Heading(2, "Departure"),
			document.NewParagraph(document.RoleBody, "The ship left the harbor before dawn with the whole crew aboard."),
		},
	})
	if err != nil {
		t.Fatalf("write draft: %v", err)
	}

	out, err := f.manager.Convert(context.Background(), draft)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if out.Operation != workflow.OpImport || out.ProjectPath != filepath.Join(f.dir, "voyage.yw7") {
		t.Fatalf("unexpected outcome %+v", out)
	}
	p := testsupport.LoadProject(t, out.ProjectPath)
	if p.Title != "Voyage" || len(p.ChapterOrder) != 1 || len(p.Scenes) != 1 {
		t.Fatalf("unexpected project %q with %d chapters and %d scenes", p.Title, len(p.ChapterOrder), len(p.Scenes))
	}

	_, err = f.manager.Convert(context.Background(), draft)
	var exists *faults.TargetExistsError
	if !errors.As(err, &exists) {
		t.Fatalf("expected TargetExistsError, got %v", err)
	}
}

func TestConvertWritesBackFlavorDocuments(t *testing.T) {
	f := newFixture(t)
	doc := f.generate(t, "charlist", false).DocumentPath
	out, err := f.manager.Convert(context.Background(), doc)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if out.Operation != workflow.OpWriteBack || out.Flavor != "charlist" {
		t.Fatalf("unexpected outcome %+v", out)
	}
}

func TestCrossReference(t *testing.T) {
	f := newFixture(t)
	p, xref, err := f.manager.CrossReference(context.Background(), f.project)
	if err != nil {
		t.Fatalf("cross reference: %v", err)
	}
	if p.Title != "Harbor Lights" {
		t.Fatalf("unexpected project %q", p.Title)
	}
	if got := xref.CharacterScenes["1"]; len(got) != 2 {
		t.Fatalf("expected Ann in two scenes, got %v", got)
	}
}

func TestHintsCoverFatalErrors(t *testing.T) {
	for _, err := range []error{faults.ErrLocked, faults.ErrRepeatedSplit, faults.ErrMarkerIntegrity, &faults.TargetExistsError{Path: "x"}} {
		if hint := workflow.ErrorHint(err); hint == "check logs for details" {
			t.Fatalf("missing hint for %v", err)
		}
	}
	if hint := workflow.ErrorHint(errors.New("boom")); hint != "check logs for details" {
		t.Fatalf("unexpected fallback hint %q", hint)
	}
}
