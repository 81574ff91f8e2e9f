package importer

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	xlang "golang.org/x/text/language"

	"ywbridge/internal/document"
	"ywbridge/internal/faults"
	"ywbridge/internal/flavor"
	"ywbridge/internal/langspan"
	"ywbridge/internal/language"
	"ywbridge/internal/markup"
	"ywbridge/internal/project"
)

// Mode is the import grammar selected for a document.
type Mode int

const (
	ModeWorkInProgress Mode = iota
	ModeOutline
)

func (m Mode) String() string {
	if m == ModeOutline {
		return "outline"
	}
	return "work in progress"
}

const (
	sceneDivider = "* * *"
	// lowWordCount is the word count below which imported scenes stay in
	// Outline status.
	lowWordCount = 10
)

// Result describes an imported project.
type Result struct {
	Project     *project.Project
	ProjectPath string
	Mode        Mode
	Languages   []string
}

// ProjectPath returns the project file an import of docPath creates.
func ProjectPath(docPath string) string {
	return strings.TrimSuffix(docPath, filepath.Ext(docPath)) + ".yw7"
}

// Import reads the document at docPath and builds a new project from it.
// The project is not saved. An existing project file at the target path
// yields a *faults.TargetExistsError.
func Import(store document.Store, docPath string, report *faults.Report) (*Result, error) {
	if d, _, ok := flavor.FromPath(docPath); ok {
		if !d.Writable {
			return nil, faults.Wrap(faults.ErrReadOnlyFlavor, "import", d.Name, "generated reports cannot be imported", nil)
		}
		return nil, faults.Wrap(faults.ErrUnsupportedFlavor, "import", d.Name, "document belongs to an existing project; write it back instead", nil)
	}
	target := ProjectPath(docPath)
	if _, err := os.Stat(target); err == nil {
		return nil, &faults.TargetExistsError{Path: target}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, faults.Wrap(faults.ErrTargetExists, "import", target, "cannot check target", err)
	}

	doc, err := store.ReadText(docPath)
	if err != nil {
		return nil, faults.Wrap(faults.ErrInvalidDocument, "import", docPath, "", err)
	}
	name := strings.TrimSuffix(filepath.Base(docPath), filepath.Ext(docPath))
	p, mode := Build(doc, name, report)
	return &Result{
		Project:     p,
		ProjectPath: target,
		Mode:        mode,
		Languages:   langspan.Sync(langspan.VariableCodec{}, p),
	}, nil
}

// DetectMode selects outline mode for documents with a level 3 heading.
func DetectMode(doc *document.Text) Mode {
	for _, para := range doc.Paragraphs() {
		if para.Role == document.RoleHeading && para.Level == 3 {
			return ModeOutline
		}
	}
	return ModeWorkInProgress
}

// Build converts doc to a project. name is the document file name without
// extension; it titles the project when the document metadata does not.
func Build(doc *document.Text, name string, report *faults.Report) (*project.Project, Mode) {
	title := strings.TrimSpace(doc.Title)
	if title == "" {
		title = TitleFromName(name)
	}
	p := project.New(title)
	p.Author = strings.TrimSpace(doc.Author)
	p.Desc = strings.TrimSpace(doc.Desc)
	if doc.Language != "" {
		loc, err := language.CheckLocale(doc.Language, doc.Country)
		report.Recover("document", err)
		if err == nil {
			p.LanguageCode, p.CountryCode = loc.Language, loc.Country
		}
	}

	mode := DetectMode(doc)
	b := &builder{p: p}
	if mode == ModeOutline {
		b.outline(doc.Paragraphs())
	} else {
		b.workInProgress(doc.Paragraphs())
	}
	return p, mode
}

// TitleFromName turns a file name such as "my_first-novel" into "My First
// Novel".
func TitleFromName(name string) string {
	name = strings.NewReplacer("_", " ", "-", " ").Replace(name)
	return cases.Title(xlang.Und).String(strings.Join(strings.Fields(name), " "))
}

type builder struct {
	p       *project.Project
	chapter *project.Chapter
	scene   *project.Scene
	lines   []string
	scenes  int
}

func (b *builder) newChapter(para *document.Paragraph) {
	b.finishScene()
	ch := b.p.NewChapter("")
	ch.Title = strings.TrimSpace(para.Text())
	ch.BeginsSection = para.Level == 1
	b.chapter = ch
}

// ensureChapter opens an untitled chapter for text preceding the first
// heading.
func (b *builder) ensureChapter() {
	if b.chapter == nil {
		b.chapter = b.p.NewChapter("")
	}
}

func (b *builder) newScene() *project.Scene {
	b.ensureChapter()
	b.scenes++
	sc := b.p.NewScene(b.chapter.ID, "")
	sc.Title = "Scene " + strconv.Itoa(b.scenes)
	b.scene = sc
	b.lines = nil
	return sc
}

func (b *builder) finishScene() {
	if b.scene == nil {
		return
	}
	for len(b.lines) > 0 && strings.TrimSpace(b.lines[len(b.lines)-1]) == "" {
		b.lines = b.lines[:len(b.lines)-1]
	}
	b.scene.SetContent(strings.Join(b.lines, "\n"))
	if b.scene.WordCount < lowWordCount {
		b.scene.Status = project.StatusOutline
	} else {
		b.scene.Status = project.StatusDraft
	}
	b.scene, b.lines = nil, nil
}

func isHeading(para *document.Paragraph, levels ...int) bool {
	if para.Role != document.RoleHeading {
		return false
	}
	for _, l := range levels {
		if para.Level == l {
			return true
		}
	}
	return false
}

func (b *builder) workInProgress(paras []*document.Paragraph) {
	for _, para := range paras {
		switch {
		case isHeading(para, 1, 2):
			b.newChapter(para)
		case para.Role == document.RoleDivider || strings.Contains(para.Text(), sceneDivider):
			b.finishScene()
		default:
			if b.scene == nil {
				if strings.TrimSpace(para.Text()) == "" && len(para.Notes()) == 0 {
					continue
				}
				sc := b.newScene()
				if len(para.Runs) > 0 && para.Runs[0].Note {
					sc.Title = strings.TrimSpace(para.Runs[0].Text)
					para = &document.Paragraph{Role: para.Role, Runs: para.Runs[1:]}
					if len(para.Runs) == 0 {
						continue
					}
				}
			}
			if para.Role == document.RoleHeading {
				para = &document.Paragraph{Role: document.RoleBody, Runs: para.Runs}
			}
			b.lines = append(b.lines, markup.EncodeParagraph(para))
		}
	}
	b.finishScene()
}

func (b *builder) outline(paras []*document.Paragraph) {
	var desc []*document.Paragraph
	flush := func() {
		text := markup.Encode(desc)
		desc = nil
		switch {
		case b.scene != nil:
			b.scene.Desc = text
		case b.chapter != nil:
			b.chapter.Desc = text
		case text != "" && b.p.Desc == "":
			b.p.Desc = text
		}
	}
	for _, para := range paras {
		switch {
		case isHeading(para, 1, 2):
			flush()
			b.newChapter(para)
		case isHeading(para, 3):
			flush()
			b.ensureChapter()
			sc := b.p.NewScene(b.chapter.ID, "")
			sc.Title = strings.TrimSpace(para.Text())
			sc.Status = project.StatusOutline
			b.scene = sc
		default:
			desc = append(desc, &document.Paragraph{Role: bodyRole(para.Role), Runs: para.Runs})
		}
	}
	flush()
}

// bodyRole keeps the quotation and list roles and maps the rest to body.
func bodyRole(r document.Role) document.Role {
	if r == document.RoleQuotation || r == document.RoleList {
		return r
	}
	return document.RoleBody
}
