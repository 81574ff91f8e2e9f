package flavor

import (
	"errors"
	"regexp"
	"slices"
	"strings"

	"ywbridge/internal/document"
	"ywbridge/internal/faults"
	"ywbridge/internal/ident"
	"ywbridge/internal/markup"
	"ywbridge/internal/project"
)

// textParser validates a text document against the project and collects
// the resulting changes. Nothing is applied until the whole document passed.
type textParser struct {
	p     *project.Project
	d     *Descriptor
	env   Env
	table *ident.Table

	plan    []func()
	touched map[string]bool

	// position and last enforce book order of visible scene markers.
	position map[string]int
	last     int
}

func newTextParser(p *project.Project, d *Descriptor, env Env) *textParser {
	tp := &textParser{
		p:        p,
		d:        d,
		env:      env,
		table:    d.table(p),
		touched:  make(map[string]bool),
		position: make(map[string]int),
		last:     -1,
	}
	for _, v := range d.view(p) {
		for _, sc := range v.scenes {
			tp.position[sc.ID] = len(tp.position)
		}
	}
	return tp
}

// claim resolves m. Unknown identifiers are reported and yield false with a
// nil error; the caller skips the section.
func (tp *textParser) claim(m, parent ident.Marker) (bool, error) {
	return claimMarker(tp.table, m, parent, tp.d.Name+" document", tp.env.Report)
}

func claimMarker(t *ident.Table, m, parent ident.Marker, where string, report *faults.Report) (bool, error) {
	err := t.Claim(m, parent)
	if err == nil {
		return true, nil
	}
	var unknown *faults.UnknownIdentifierError
	if errors.As(err, &unknown) {
		unknown.Where = where
		report.Recover(m.String(), unknown)
		return false, nil
	}
	return false, err
}

func (tp *textParser) checkMissing() error {
	kind := tp.d.required()
	if kind == "" {
		return nil
	}
	if missing := tp.table.Unclaimed(kind); len(missing) > 0 {
		return &faults.MarkerIntegrityError{Marker: missing[0].String(), Reason: "section missing from the document"}
	}
	return nil
}

// sectionMarker accepts a section name that is exactly one marker.
func sectionMarker(name string) (ident.Marker, bool) {
	name = strings.TrimSpace(name)
	m, ok := ident.ParseMarker(name)
	if !ok || m.String() != name {
		return ident.Marker{}, false
	}
	return m, true
}

func (tp *textParser) sections(blocks []document.Block, chapter ident.Marker) error {
	var (
		heading    string
		hasHeading bool
	)
	for _, b := range blocks {
		switch v := b.(type) {
		case *document.Paragraph:
			if v.Role == document.RoleHeading && v.Level == 3 {
				heading, hasHeading = strings.TrimSpace(v.Text()), true
			}
		case *document.Section:
			m, ok := sectionMarker(v.Name)
			if !ok {
				if err := tp.sections(v.Blocks, chapter); err != nil {
					return err
				}
				continue
			}
			switch m.Kind {
			case ident.KindChapter:
				claimed, err := tp.claim(m, noParent)
				if err != nil {
					return err
				}
				if !claimed {
					continue
				}
				if tp.d.ChapterDesc {
					tp.chapterDesc(m.ID, v.Blocks)
				}
				if err := tp.sections(v.Blocks, m); err != nil {
					return err
				}
			case ident.KindScene:
				claimed, err := tp.claim(m, chapter)
				if err != nil {
					return err
				}
				if claimed {
					tp.scene(m.ID, document.Flatten(v.Blocks), heading, hasHeading)
				}
			}
			hasHeading = false
		}
	}
	return nil
}

func (tp *textParser) chapterDesc(id string, blocks []document.Block) {
	var (
		title string
		body  []*document.Paragraph
	)
	titled := false
	for _, para := range document.Flatten(blocks) {
		if para.Role == document.RoleHeading {
			if !titled {
				title, titled = strings.TrimSpace(para.Text()), true
			}
			continue
		}
		body = append(body, para)
	}
	desc := markup.Encode(body)
	ch := tp.p.Chapters[id]
	tp.plan = append(tp.plan, func() {
		if title != "" {
			ch.Title = title
		}
		ch.Desc = desc
	})
}

func (tp *textParser) scene(id string, paras []*document.Paragraph, heading string, hasHeading bool) {
	sc := tp.p.Scenes[id]
	title, titled := heading, hasHeading && tp.d.SceneTitle == TitleHeading
	if tp.d.SceneTitle == TitleAnnotation {
		title, titled, paras = takeTitle(paras)
	}
	switch tp.d.Scenes {
	case BodyContent:
		content := tp.encodeContent(paras)
		tp.touched[id] = true
		tp.plan = append(tp.plan, func() {
			if titled {
				sc.Title = title
			}
			sc.SetContent(content)
		})
	case BodyDescription:
		desc := markup.Encode(paras)
		tp.plan = append(tp.plan, func() {
			if titled {
				sc.Title = title
			}
			sc.Desc = desc
		})
	}
}

var titleNotePattern = regexp.MustCompile(`^~\s*(.*?)\s*~$`)

// takeTitle removes the "~ Title ~" annotation from the first paragraph.
func takeTitle(paras []*document.Paragraph) (string, bool, []*document.Paragraph) {
	if len(paras) == 0 {
		return "", false, paras
	}
	first := paras[0]
	for i, r := range first.Runs {
		if !r.Note {
			continue
		}
		match := titleNotePattern.FindStringSubmatch(strings.TrimSpace(r.Text))
		if match == nil {
			continue
		}
		runs := slices.Concat(first.Runs[:i], first.Runs[i+1:])
		stripped := &document.Paragraph{Role: first.Role, Level: first.Level, Runs: runs}
		return match[1], true, slices.Concat([]*document.Paragraph{stripped}, paras[1:])
	}
	return "", false, paras
}

// encodeContent converts scene paragraphs to native text. In split flavors
// headings and dividers become the separator lines of the split grammar.
func (tp *textParser) encodeContent(paras []*document.Paragraph) string {
	lines := make([]string, 0, len(paras))
	for _, para := range paras {
		switch para.Role {
		case document.RoleHeading:
			if !tp.d.Split || para.Level > 3 {
				continue
			}
			prefix := partSeparator
			switch para.Level {
			case 2:
				prefix = chapterSeparator
			case 3:
				prefix = sceneSeparator
			}
			lines = append(lines, prefix+" "+strings.TrimSpace(para.Text()))
		case document.RoleDivider:
			if !tp.d.Split {
				continue
			}
			rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(para.Text()), dividerText))
			lines = append(lines, strings.TrimSpace(sceneSeparator+" "+rest))
		default:
			lines = append(lines, markup.EncodeParagraph(para))
		}
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

var (
	openMarker  = regexp.MustCompile(`^\[(ScID:[0-9]+)\]$`)
	closeMarker = regexp.MustCompile(`^\[/ScID\]$`)
)

// visible parses documents that carry "[ScID:n]" … "[/ScID]" paragraphs.
func (tp *textParser) visible(paras []*document.Paragraph) error {
	var (
		open   ident.Marker
		inside bool
		body   []*document.Paragraph
	)
	for _, para := range paras {
		text := strings.TrimSpace(para.Text())
		if match := openMarker.FindStringSubmatch(text); match != nil {
			m, _ := ident.ParseMarker(match[1])
			if inside {
				return &faults.MarkerIntegrityError{Marker: m.String(), Reason: "opened inside " + open.String()}
			}
			open, inside, body = m, true, nil
			continue
		}
		if closeMarker.MatchString(text) {
			if !inside {
				return &faults.MarkerIntegrityError{Marker: text, Reason: "closes no open scene"}
			}
			if err := tp.visibleScene(open, body); err != nil {
				return err
			}
			inside = false
			continue
		}
		if strings.Contains(text, "[ScID") || strings.Contains(text, "[/ScID") {
			return &faults.MarkerIntegrityError{Marker: text, Reason: "marker line was altered"}
		}
		if inside {
			body = append(body, para)
		}
	}
	if inside {
		return &faults.MarkerIntegrityError{Marker: open.String(), Reason: "not terminated"}
	}
	return nil
}

func (tp *textParser) visibleScene(m ident.Marker, body []*document.Paragraph) error {
	claimed, err := tp.claim(m, noParent)
	if err != nil || !claimed {
		return err
	}
	pos := tp.position[m.ID]
	if pos < tp.last {
		return &faults.MarkerIntegrityError{Marker: m.String(), Reason: "scenes reordered"}
	}
	tp.last = pos
	tp.scene(m.ID, body, "", false)
	return nil
}

func (tp *textParser) entities(blocks []document.Block) error {
	for _, b := range blocks {
		sec, ok := b.(*document.Section)
		if !ok {
			continue
		}
		m, ok := sectionMarker(sec.Name)
		if !ok {
			if err := tp.entities(sec.Blocks); err != nil {
				return err
			}
			continue
		}
		if m.Kind != tp.d.Entity {
			continue
		}
		claimed, err := tp.claim(m, noParent)
		if err != nil {
			return err
		}
		if !claimed {
			continue
		}
		if m.Kind == ident.KindCharacter {
			tp.character(m.ID, sec.Blocks)
			continue
		}
		el := worldElement(tp.p, m.Kind, m.ID)
		desc := encodeText(sec.Blocks)
		tp.plan = append(tp.plan, func() { el.Desc = desc })
	}
	return nil
}

func (tp *textParser) character(id string, blocks []document.Block) {
	cr := tp.p.Characters[id]
	for _, b := range blocks {
		sub, ok := b.(*document.Section)
		if !ok {
			continue
		}
		m, name, ok := ident.ParseSub(sub.Name)
		if !ok || m.Kind != ident.KindCharacter || m.ID != id {
			continue
		}
		for _, part := range characterParts {
			if part.name != name {
				continue
			}
			field, text := part.field(cr), encodeText(sub.Blocks)
			tp.plan = append(tp.plan, func() { *field = text })
		}
	}
}

// encodeText converts the non-heading paragraphs of blocks to native text.
func encodeText(blocks []document.Block) string {
	var body []*document.Paragraph
	for _, para := range document.Flatten(blocks) {
		if para.Role != document.RoleHeading {
			body = append(body, para)
		}
	}
	return markup.Encode(body)
}
