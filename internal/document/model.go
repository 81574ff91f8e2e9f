package document

import "strings"

// Role is the structural role of a paragraph.
type Role int

const (
	RoleBody Role = iota
	RoleHeading
	RoleQuotation
	RoleList
	// RoleMarker paragraphs carry visible section markers such as "[ScID:1]".
	RoleMarker
	// RoleDivider paragraphs separate scenes ("* * *").
	RoleDivider
)

func (r Role) String() string {
	switch r {
	case RoleHeading:
		return "heading"
	case RoleQuotation:
		return "quotation"
	case RoleList:
		return "list"
	case RoleMarker:
		return "marker"
	case RoleDivider:
		return "divider"
	default:
		return "body"
	}
}

// Run is a span of uniformly formatted text.
type Run struct {
	Text   string
	Italic bool
	Bold   bool
	// Lang is a language tag such as "de-DE"; empty means the document
	// default.
	Lang string
	// Note marks an annotation (comment) rather than visible text.
	Note bool
}

// SameFormat reports whether two runs can be merged.
func (r Run) SameFormat(o Run) bool {
	return r.Italic == o.Italic && r.Bold == o.Bold && r.Lang == o.Lang && r.Note == o.Note
}

// Block is a Paragraph or a Section.
type Block interface {
	block()
}

// Paragraph is one paragraph of a Text.
type Paragraph struct {
	Role  Role
	Level int
	Runs  []Run
}

func (*Paragraph) block() {}

// NewParagraph returns a paragraph with a single plain run.
func NewParagraph(role Role, text string) *Paragraph {
	p := &Paragraph{Role: role}
	if text != "" {
		p.Runs = []Run{{Text: text}}
	}
	return p
}

// Heading returns a heading paragraph of the given level.
func Heading(level int, text string) *Paragraph {
	p := NewParagraph(RoleHeading, text)
	p.Level = level
	return p
}

// Annotation returns a body paragraph holding a single annotation.
func Annotation(text string) *Paragraph {
	return &Paragraph{Role: RoleBody, Runs: []Run{{Text: text, Note: true}}}
}

// Text returns the visible text of the paragraph, without annotations.
func (p *Paragraph) Text() string {
	var b strings.Builder
	for _, r := range p.Runs {
		if !r.Note {
			b.WriteString(r.Text)
		}
	}
	return b.String()
}

// Notes returns the annotation runs of the paragraph.
func (p *Paragraph) Notes() []string {
	var out []string
	for _, r := range p.Runs {
		if r.Note {
			out = append(out, r.Text)
		}
	}
	return out
}

// Append adds a run, merging it into the last run when formats match.
func (p *Paragraph) Append(r Run) {
	if r.Text == "" {
		return
	}
	if n := len(p.Runs); n > 0 && !r.Note && p.Runs[n-1].SameFormat(r) {
		p.Runs[n-1].Text += r.Text
		return
	}
	p.Runs = append(p.Runs, r)
}

// Section is a named region. Section names carry identifier markers.
type Section struct {
	Name   string
	Blocks []Block
}

func (*Section) block() {}

// Text is a rich-text document.
type Text struct {
	Title    string
	Author   string
	Desc     string
	Language string
	Country  string
	Body     []Block
}

// Paragraphs returns every paragraph in document order, descending into
// sections.
func (t *Text) Paragraphs() []*Paragraph {
	return Flatten(t.Body)
}

// Flatten lists the paragraphs of blocks in order.
func Flatten(blocks []Block) []*Paragraph {
	var out []*Paragraph
	for _, b := range blocks {
		switch v := b.(type) {
		case *Paragraph:
			out = append(out, v)
		case *Section:
			out = append(out, Flatten(v.Blocks)...)
		}
	}
	return out
}

// Sections returns every section in document order, outer before inner.
func (t *Text) Sections() []*Section {
	var out []*Section
	var walk func([]Block)
	walk = func(blocks []Block) {
		for _, b := range blocks {
			if s, ok := b.(*Section); ok {
				out = append(out, s)
				walk(s.Blocks)
			}
		}
	}
	walk(t.Body)
	return out
}

// Cell is one spreadsheet cell. Link, when set, makes the cell a hyperlink.
type Cell struct {
	Text string
	Link string
}

// Sheet is a single-table spreadsheet. The first row holds the column
// headers.
type Sheet struct {
	Name string
	Rows [][]Cell
}

// AddRow appends a row of plain cells.
func (s *Sheet) AddRow(values ...string) {
	row := make([]Cell, len(values))
	for i, v := range values {
		row[i] = Cell{Text: v}
	}
	s.Rows = append(s.Rows, row)
}

// Header returns the first row as text.
func (s *Sheet) Header() []string {
	if len(s.Rows) == 0 {
		return nil
	}
	out := make([]string, len(s.Rows[0]))
	for i, c := range s.Rows[0] {
		out[i] = strings.TrimSpace(c.Text)
	}
	return out
}
