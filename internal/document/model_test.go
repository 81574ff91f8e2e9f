package document_test

import (
	"errors"
	"os"
	"testing"

	"ywbridge/internal/document"
)

func TestAppendMergesRuns(t *testing.T) {
	p := &document.Paragraph{}
	p.Append(document.Run{Text: "a"})
	p.Append(document.Run{Text: "b"})
	p.Append(document.Run{Text: "c", Italic: true})
	p.Append(document.Run{Text: "note", Note: true})
	p.Append(document.Run{Text: ""})

	if len(p.Runs) != 3 {
		t.Fatalf("expected 3 runs, got %d: %+v", len(p.Runs), p.Runs)
	}
	if p.Text() != "abc" {
		t.Fatalf("unexpected text %q", p.Text())
	}
	if notes := p.Notes(); len(notes) != 1 || notes[0] != "note" {
		t.Fatalf("unexpected notes %v", notes)
	}
}

func TestFlattenAndSections(t *testing.T) {
	doc := &document.Text{Body: []document.Block{
		document.Heading(1, "Part"),
		&document.Section{Name: "ChID:1", Blocks: []document.Block{
			&document.Section{Name: "ScID:1", Blocks: []document.Block{
				document.NewParagraph(document.RoleBody, "one"),
			}},
			document.NewParagraph(document.RoleBody, "two"),
		}},
	}}
	paras := doc.Paragraphs()
	if len(paras) != 3 || paras[2].Text() != "two" {
		t.Fatalf("unexpected paragraphs %+v", paras)
	}
	sections := doc.Sections()
	if len(sections) != 2 || sections[0].Name != "ChID:1" || sections[1].Name != "ScID:1" {
		t.Fatalf("unexpected sections %+v", sections)
	}
}

func TestMemoryStore(t *testing.T) {
	store := document.NewMemoryStore()
	if _, err := store.ReadText("x.odt"); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
	sheet := &document.Sheet{Name: "List"}
	sheet.AddRow("ID", "Name")
	if err := store.WriteSheet("x.ods", sheet); err != nil {
		t.Fatal(err)
	}
	got, err := store.ReadSheet("x.ods")
	if err != nil {
		t.Fatal(err)
	}
	if h := got.Header(); len(h) != 2 || h[1] != "Name" {
		t.Fatalf("unexpected header %v", h)
	}
}
