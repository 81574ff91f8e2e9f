package flavor

import (
	"fmt"
	"path/filepath"
	"strings"

	"ywbridge/internal/document"
	"ywbridge/internal/faults"
	"ywbridge/internal/langspan"
	"ywbridge/internal/language"
	"ywbridge/internal/project"
)

// Env carries the collaborators of one command.
type Env struct {
	// ProjectName is the project file name without extension. Generated
	// links between documents are relative to it.
	ProjectName string
	// Codec records languages; VariableCodec when nil.
	Codec langspan.Codec
	// Fallback is the locale used when the project carries none.
	Fallback language.Locale
	// Report collects non-fatal findings; may be nil.
	Report *faults.Report
}

func (e Env) codec() langspan.Codec {
	if e.Codec == nil {
		return langspan.VariableCodec{}
	}
	return e.Codec
}

func (e Env) link(d string, marker string) string {
	return fmt.Sprintf("%s_%s.odt#%s%%7Cregion", e.ProjectName, d, marker)
}

// Result summarizes a write-back.
type Result struct {
	// Split is set when the split grammar created chapters or scenes.
	Split bool
	// Created and Deleted list entity or scene markers.
	Created []string
	Deleted []string
	// Updated counts the nodes whose fields were written.
	Updated int
	// Languages lists language tags registered by this write-back.
	Languages []string
}

// EnvFor returns an Env for the project stored at projectPath.
func EnvFor(projectPath string, fallback language.Locale, report *faults.Report) Env {
	base := filepath.Base(projectPath)
	return Env{
		ProjectName: strings.TrimSuffix(base, filepath.Ext(base)),
		Fallback:    fallback,
		Report:      report,
	}
}

// Generate renders p as flavor d and writes it to path.
func Generate(store document.Store, p *project.Project, d *Descriptor, path string, env Env) error {
	if d.Format == FormatSheet {
		sheet, err := RenderSheet(p, d, env)
		if err != nil {
			return err
		}
		return store.WriteSheet(path, sheet)
	}
	doc, err := RenderText(p, d, env)
	if err != nil {
		return err
	}
	return store.WriteText(path, doc)
}

// WriteBack reads the document at path and applies it to p. p is left
// untouched when an error is returned.
func WriteBack(store document.Store, p *project.Project, d *Descriptor, path string, env Env) (*Result, error) {
	if !d.Writable {
		return nil, faults.Wrap(faults.ErrReadOnlyFlavor, "write-back", d.Name, "", nil)
	}
	if d.Format == FormatSheet {
		sheet, err := store.ReadSheet(path)
		if err != nil {
			return nil, faults.Wrap(faults.ErrInvalidDocument, "read", path, "", err)
		}
		return ApplySheet(p, d, sheet, env)
	}
	doc, err := store.ReadText(path)
	if err != nil {
		return nil, faults.Wrap(faults.ErrInvalidDocument, "read", path, "", err)
	}
	return ApplyText(p, d, doc, env)
}

// RenderText renders p as the text flavor d.
func RenderText(p *project.Project, d *Descriptor, env Env) (*document.Text, error) {
	if d.Format != FormatText {
		return nil, faults.Wrap(faults.ErrUnsupportedFlavor, "render", d.Name, "not a text flavor", nil)
	}
	loc, invalid := env.codec().Locale(p, env.Fallback)
	if invalid != nil {
		env.Report.Recover("project", invalid)
	}
	doc := &document.Text{
		Title:    p.Title,
		Author:   p.Author,
		Desc:     p.Desc,
		Language: loc.Language,
		Country:  loc.Country,
	}
	r := &textRenderer{p: p, d: d, env: env}
	switch d.Layout {
	case LayoutChapters:
		doc.Body = r.chapters()
	case LayoutEntities:
		doc.Body = r.entities()
	case LayoutXref:
		doc.Body = renderXref(p, BuildCrossReference(p))
	default:
		return nil, faults.Wrap(faults.ErrUnsupportedFlavor, "render", d.Name, "layout has no text rendering", nil)
	}
	return doc, nil
}

// RenderSheet renders p as the sheet flavor d.
func RenderSheet(p *project.Project, d *Descriptor, env Env) (*document.Sheet, error) {
	switch d.Layout {
	case LayoutEntityList:
		return renderEntityList(p, d), nil
	case LayoutSceneList:
		return renderSceneList(p, d, env), nil
	case LayoutPlotList:
		return renderPlotList(p, d, env), nil
	}
	return nil, faults.Wrap(faults.ErrUnsupportedFlavor, "render", d.Name, "not a sheet flavor", nil)
}

// ApplyText applies an edited text document of flavor d to p.
func ApplyText(p *project.Project, d *Descriptor, doc *document.Text, env Env) (*Result, error) {
	if !d.Writable {
		return nil, faults.Wrap(faults.ErrReadOnlyFlavor, "write-back", d.Name, "", nil)
	}
	tp := newTextParser(p, d, env)
	var err error
	switch {
	case d.Layout == LayoutEntities:
		err = tp.entities(doc.Body)
	case d.Markers == MarkVisible:
		err = tp.visible(doc.Paragraphs())
	case d.Layout == LayoutChapters:
		err = tp.sections(doc.Body, noParent)
	default:
		err = faults.Wrap(faults.ErrUnsupportedFlavor, "write-back", d.Name, "", nil)
	}
	if err == nil {
		err = tp.checkMissing()
	}
	if err != nil {
		return nil, err
	}

	res := &Result{}
	for _, change := range tp.plan {
		change()
	}
	res.Updated = len(tp.plan)
	if d.Split {
		res.Split = splitScenes(p, tp.touched, res, env.Report)
	}
	if d.Layout == LayoutChapters {
		applyDocumentLocale(p, doc, env.Report)
	}
	res.Languages = langspan.Sync(env.codec(), p)
	return res, nil
}

// ApplySheet applies an edited sheet of flavor d to p.
func ApplySheet(p *project.Project, d *Descriptor, sheet *document.Sheet, env Env) (*Result, error) {
	if !d.Writable {
		return nil, faults.Wrap(faults.ErrReadOnlyFlavor, "write-back", d.Name, "", nil)
	}
	header := sheetHeader(p, d)
	if err := checkHeader(sheet, header); err != nil {
		return nil, err
	}
	switch d.Layout {
	case LayoutEntityList:
		return applyEntityList(p, d, sheet, env)
	case LayoutSceneList:
		return applySceneList(p, d, sheet, env)
	case LayoutPlotList:
		return applyPlotList(p, d, sheet, env)
	}
	return nil, faults.Wrap(faults.ErrUnsupportedFlavor, "write-back", d.Name, "not a sheet flavor", nil)
}

// applyDocumentLocale stores the document default language in the project
// when it passes validation.
func applyDocumentLocale(p *project.Project, doc *document.Text, report *faults.Report) {
	if doc.Language == "" {
		return
	}
	loc, err := language.CheckLocale(doc.Language, doc.Country)
	if err != nil {
		report.Recover("document", err)
		return
	}
	if loc.IsNone() {
		return
	}
	p.LanguageCode, p.CountryCode = loc.Language, loc.Country
}
