package odf

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"

	"ywbridge/internal/document"
)

type tristate int

const (
	unset tristate = iota
	on
	off
)

type styleDef struct {
	parent string
	italic tristate
	bold   tristate
	lang   string
}

// styleSheet resolves named and automatic styles through their parents.
type styleSheet struct {
	defs        map[string]*styleDef
	defaultLang string
}

func loadStyles(docs ...*xmlquery.Node) *styleSheet {
	s := &styleSheet{defs: make(map[string]*styleDef)}
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		for _, container := range []string{"office:styles", "office:automatic-styles"} {
			if c := descendant(doc, container); c != nil {
				s.scan(c)
			}
		}
	}
	return s
}

func (s *styleSheet) scan(container *xmlquery.Node) {
	for c := container.FirstChild; c != nil; c = c.NextSibling {
		switch {
		case is(c, "style:default-style"):
			if attr(c, "style:family") == "paragraph" {
				if tag := langTag(firstChild(c, "style:text-properties")); tag != "" {
					s.defaultLang = tag
				}
			}
		case is(c, "style:style"):
			name := attr(c, "style:name")
			if name == "" {
				continue
			}
			def := &styleDef{parent: attr(c, "style:parent-style-name")}
			if props := firstChild(c, "style:text-properties"); props != nil {
				def.italic = italicOf(attr(props, "fo:font-style"))
				def.bold = boldOf(attr(props, "fo:font-weight"))
				def.lang = langTag(props)
			}
			s.defs[name] = def
		}
	}
}

func italicOf(v string) tristate {
	switch v {
	case "italic", "oblique":
		return on
	case "normal":
		return off
	}
	return unset
}

func boldOf(v string) tristate {
	switch v {
	case "":
		return unset
	case "bold":
		return on
	case "normal":
		return off
	}
	if n, err := strconv.Atoi(v); err == nil {
		if n >= 600 {
			return on
		}
		return off
	}
	return unset
}

func langTag(props *xmlquery.Node) string {
	lang := attr(props, "fo:language")
	if lang == "" {
		return ""
	}
	country := attr(props, "fo:country")
	if country == "" || country == "none" {
		return lang
	}
	return lang + "-" + country
}

type format struct {
	italic bool
	bold   bool
	lang   string
}

// apply layers the resolved properties of style over f.
func (s *styleSheet) apply(f format, style string) format {
	var italic, bold tristate
	lang := ""
	for name, depth := style, 0; name != "" && depth < 16; depth++ {
		switch name {
		case styleEmphasis:
			if italic == unset {
				italic = on
			}
		case styleStrong:
			if bold == unset {
				bold = on
			}
		}
		def, ok := s.defs[name]
		if !ok {
			break
		}
		if italic == unset {
			italic = def.italic
		}
		if bold == unset {
			bold = def.bold
		}
		if lang == "" {
			lang = def.lang
		}
		name = def.parent
	}
	if italic != unset {
		f.italic = italic == on
	}
	if bold != unset {
		f.bold = bold == on
	}
	if lang != "" {
		f.lang = lang
	}
	return f
}

var knownParagraphStyles = regexp.MustCompile(`^(Heading_20_[1-9]|Quotations|List_20_Bullet|scene_20_mark|Text_20_body|First_20_line_20_indent)$`)

// base follows the parent chain of a paragraph style to the first style
// this package writes.
func (s *styleSheet) base(style string) string {
	for depth := 0; style != "" && depth < 16; depth++ {
		if knownParagraphStyles.MatchString(style) {
			return style
		}
		def, ok := s.defs[style]
		if !ok {
			return style
		}
		style = def.parent
	}
	return ""
}

type textReader struct {
	styles *styleSheet
}

func readText(parts map[string][]byte) (*document.Text, error) {
	content, err := parse("content.xml", parts["content.xml"])
	if err != nil {
		return nil, err
	}
	var stylesDoc, metaDoc *xmlquery.Node
	if data, ok := parts["styles.xml"]; ok {
		if stylesDoc, err = parse("styles.xml", data); err != nil {
			return nil, err
		}
	}
	if data, ok := parts["meta.xml"]; ok {
		if metaDoc, err = parse("meta.xml", data); err != nil {
			return nil, err
		}
	}

	r := &textReader{styles: loadStyles(stylesDoc, content)}
	doc := &document.Text{}
	readMeta(doc, metaDoc)
	if r.styles.defaultLang != "" {
		loc := strings.SplitN(r.styles.defaultLang, "-", 2)
		doc.Language = loc[0]
		if len(loc) == 2 {
			doc.Country = loc[1]
		}
	}
	body := descendant(content, "office:text")
	if body == nil {
		return doc, nil
	}
	doc.Body = r.blocks(body)
	return doc, nil
}

func readMeta(doc *document.Text, meta *xmlquery.Node) {
	if meta == nil {
		return
	}
	text := func(expr string) string {
		if n := xmlquery.FindOne(meta, expr); n != nil {
			return strings.TrimSpace(n.InnerText())
		}
		return ""
	}
	doc.Title = text("//office:meta/dc:title")
	doc.Desc = text("//office:meta/dc:description")
	doc.Author = text("//office:meta/meta:initial-creator")
	if doc.Author == "" {
		doc.Author = text("//office:meta/dc:creator")
	}
	if tag := text("//office:meta/dc:language"); tag != "" {
		lang, country, _ := strings.Cut(tag, "-")
		doc.Language, doc.Country = lang, country
	}
}

func (r *textReader) blocks(n *xmlquery.Node) []document.Block {
	var out []document.Block
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch {
		case is(c, "text:section"):
			out = append(out, &document.Section{Name: attr(c, "text:name"), Blocks: r.blocks(c)})
		case is(c, "text:h"), is(c, "text:p"):
			out = append(out, r.paragraph(c))
		case is(c, "text:list"):
			for _, p := range r.list(c) {
				out = append(out, p)
			}
		}
	}
	return out
}

func (r *textReader) list(n *xmlquery.Node) []*document.Paragraph {
	var out []*document.Paragraph
	for item := n.FirstChild; item != nil; item = item.NextSibling {
		if !is(item, "text:list-item") && !is(item, "text:list-header") {
			continue
		}
		for c := item.FirstChild; c != nil; c = c.NextSibling {
			switch {
			case is(c, "text:p"), is(c, "text:h"):
				p := r.paragraph(c)
				p.Role = document.RoleList
				out = append(out, p)
			case is(c, "text:list"):
				out = append(out, r.list(c)...)
			}
		}
	}
	return out
}

func (r *textReader) paragraph(n *xmlquery.Node) *document.Paragraph {
	style := attr(n, "text:style-name")
	p := &document.Paragraph{Role: document.RoleBody}
	switch base := r.styles.base(style); {
	case strings.HasPrefix(base, styleHeadingBase):
		p.Role = document.RoleHeading
		p.Level, _ = strconv.Atoi(strings.TrimPrefix(base, styleHeadingBase))
	case base == styleQuotation:
		p.Role = document.RoleQuotation
	case base == styleList:
		p.Role = document.RoleList
	case base == styleMarker:
		p.Role = document.RoleMarker
	}
	if is(n, "text:h") {
		p.Role = document.RoleHeading
		if level, err := strconv.Atoi(attr(n, "text:outline-level")); err == nil {
			p.Level = level
		}
		if p.Level == 0 {
			p.Level = 1
		}
	}

	// A paragraph style in the document language marks no span.
	base := r.styles.apply(format{}, style)
	if base.lang == r.styles.defaultLang {
		base.lang = ""
	}
	r.inline(p, n, base)
	if p.Role == document.RoleHeading && p.Level == 4 && strings.TrimSpace(p.Text()) == dividerText {
		p.Role = document.RoleDivider
		p.Level = 0
		p.Runs = []document.Run{{Text: dividerText}}
	}
	return p
}

var collapsible = regexp.MustCompile(`[ \t\r\n]+`)

func (r *textReader) inline(p *document.Paragraph, n *xmlquery.Node, f format) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case xmlquery.TextNode, xmlquery.CharDataNode:
			p.Append(document.Run{Text: collapsible.ReplaceAllString(c.Data, " "), Italic: f.italic, Bold: f.bold, Lang: f.lang})
			continue
		case xmlquery.ElementNode:
		default:
			continue
		}
		switch {
		case is(c, "text:span"):
			r.inline(p, c, r.span(f, attr(c, "text:style-name")))
		case is(c, "text:s"):
			count := 1
			if v, err := strconv.Atoi(attr(c, "text:c")); err == nil && v > 0 {
				count = v
			}
			p.Append(document.Run{Text: strings.Repeat(" ", count), Italic: f.italic, Bold: f.bold, Lang: f.lang})
		case is(c, "text:tab"):
			p.Append(document.Run{Text: "\t", Italic: f.italic, Bold: f.bold, Lang: f.lang})
		case is(c, "text:line-break"):
			p.Append(document.Run{Text: "\n", Italic: f.italic, Bold: f.bold, Lang: f.lang})
		case is(c, "office:annotation"):
			p.Runs = append(p.Runs, document.Run{Text: r.noteText(c), Note: true})
		case is(c, "text:note"):
			if note := strings.TrimSpace(r.noteText(firstChild(c, "text:note-body"))); note != "" {
				p.Runs = append(p.Runs, document.Run{Text: "@fn " + note, Note: true})
			}
		case is(c, "office:annotation-end"), is(c, "text:bookmark"), is(c, "text:bookmark-start"),
			is(c, "text:bookmark-end"), is(c, "text:soft-page-break"), is(c, "text:reference-mark"):
		default:
			r.inline(p, c, f)
		}
	}
}

func (r *textReader) noteText(n *xmlquery.Node) string {
	if n == nil {
		return ""
	}
	var lines []string
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if is(c, "text:p") || is(c, "text:h") {
			q := &document.Paragraph{}
			r.inline(q, c, format{})
			lines = append(lines, q.Text())
		}
	}
	return strings.Join(lines, "\n")
}

// span resolves the format inside a text:span. Office suites stamp the
// document language on spans they create for other reasons; that language
// is kept only on the language styles this package writes.
func (r *textReader) span(f format, style string) format {
	next := r.styles.apply(f, style)
	if next.lang != f.lang && next.lang == r.styles.defaultLang && !strings.HasPrefix(style, langStylePrefix) {
		next.lang = f.lang
	}
	return next
}

// plainText returns the visible text below n without formatting.
func plainText(n *xmlquery.Node) string {
	r := &textReader{styles: &styleSheet{defs: map[string]*styleDef{}}}
	p := &document.Paragraph{}
	r.inline(p, n, format{})
	return p.Text()
}
