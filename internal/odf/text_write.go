package odf

import (
	"strconv"
	"strings"
	"time"

	"github.com/antchfx/xmlquery"

	"ywbridge/internal/document"
)

type textWriter struct {
	loc       locale
	author    string
	now       time.Time
	langs     map[string]bool
	langOrder []string
	prevBody  bool
}

func buildContent(doc *document.Text, author string, now time.Time) []byte {
	w := &textWriter{loc: localeOf(doc), author: author, now: now, langs: make(map[string]bool)}
	content := root("office:document-content")
	auto := add(content, "office:automatic-styles")
	body := add(add(content, "office:body"), "office:text")
	w.blocks(body, doc.Body)

	sect := add(auto, "style:style", "style:name", "Sect1", "style:family", "section")
	add(sect, "style:section-properties", "style:editable", "false")
	for _, tag := range w.langOrder {
		st := add(auto, "style:style", "style:name", langStyle(tag), "style:family", "text")
		lang, country, _ := strings.Cut(tag, "-")
		props := []string{"fo:language", lang}
		if country != "" {
			props = append(props, "fo:country", country)
		}
		add(st, "style:text-properties", props...)
	}
	return render(content)
}

func (w *textWriter) blocks(parent *xmlquery.Node, blocks []document.Block) {
	for _, b := range blocks {
		switch v := b.(type) {
		case *document.Section:
			sect := add(parent, "text:section", "text:style-name", "Sect1", "text:name", v.Name)
			w.prevBody = false
			w.blocks(sect, v.Blocks)
		case *document.Paragraph:
			w.paragraph(parent, v)
		}
	}
}

func (w *textWriter) paragraph(parent *xmlquery.Node, p *document.Paragraph) {
	var el *xmlquery.Node
	switch p.Role {
	case document.RoleHeading:
		level := min(max(p.Level, 1), 4)
		el = add(parent, "text:h", "text:style-name", headingStyle(level), "text:outline-level", strconv.Itoa(level))
	case document.RoleDivider:
		el = add(parent, "text:p", "text:style-name", headingStyle(4))
		addText(el, dividerText)
		w.prevBody = false
		return
	case document.RoleQuotation:
		el = add(parent, "text:p", "text:style-name", styleQuotation)
	case document.RoleList:
		el = add(parent, "text:p", "text:style-name", styleList)
	case document.RoleMarker:
		el = add(parent, "text:p", "text:style-name", styleMarker)
	default:
		style := styleBody
		if w.prevBody {
			style = styleIndent
		}
		el = add(parent, "text:p", "text:style-name", style)
	}
	w.prevBody = p.Role == document.RoleBody

	collapse := true
	for _, r := range p.Runs {
		if r.Note {
			w.annotation(el, r.Text)
			continue
		}
		target := el
		if r.Lang != "" {
			if !w.langs[r.Lang] {
				w.langs[r.Lang] = true
				w.langOrder = append(w.langOrder, r.Lang)
			}
			target = add(target, "text:span", "text:style-name", langStyle(r.Lang))
		}
		if r.Bold {
			target = add(target, "text:span", "text:style-name", styleStrong)
		}
		if r.Italic {
			target = add(target, "text:span", "text:style-name", styleEmphasis)
		}
		writeSpaced(target, r.Text, &collapse)
	}
}

func (w *textWriter) annotation(parent *xmlquery.Node, text string) {
	note := add(parent, "office:annotation")
	if w.author != "" {
		addText(add(note, "dc:creator"), w.author)
	}
	addText(add(note, "dc:date"), w.now.UTC().Format("2006-01-02T15:04:05"))
	for _, line := range strings.Split(text, "\n") {
		p := add(note, "text:p")
		collapse := true
		writeSpaced(p, line, &collapse)
	}
}

// writeSpaced appends text, encoding runs of spaces, tabs and line breaks
// the way ODF requires. collapse is true at the start of a paragraph and
// after a space, where a literal space would be dropped by readers.
func writeSpaced(parent *xmlquery.Node, text string, collapse *bool) {
	var buf strings.Builder
	flush := func() {
		addText(parent, buf.String())
		buf.Reset()
	}
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		switch r := runes[i]; r {
		case '\t':
			flush()
			add(parent, "text:tab")
		case '\n':
			flush()
			add(parent, "text:line-break")
		case ' ':
			n := 1
			for i+n < len(runes) && runes[i+n] == ' ' {
				n++
			}
			i += n - 1
			if !*collapse {
				buf.WriteByte(' ')
				n--
			}
			if n > 0 {
				flush()
				s := add(parent, "text:s")
				if n > 1 {
					s.SetAttr("text:c", strconv.Itoa(n))
				}
			}
			*collapse = true
			continue
		default:
			buf.WriteRune(r)
		}
		*collapse = false
	}
	flush()
}
