package odf

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"ywbridge/internal/document"
)

// Named styles written to styles.xml and recognised when reading.
const (
	styleBody        = "Text_20_body"
	styleIndent      = "First_20_line_20_indent"
	styleQuotation   = "Quotations"
	styleList        = "List_20_Bullet"
	styleMarker      = "scene_20_mark"
	styleEmphasis    = "Emphasis"
	styleStrong      = "Strong_20_Emphasis"
	styleHeadingBase = "Heading_20_"
	dividerText      = "* * *"
)

func headingStyle(level int) string {
	return styleHeadingBase + strconv.Itoa(level)
}

func displayName(style string) string {
	return strings.ReplaceAll(style, "_20_", " ")
}

const langStylePrefix = "T_lang_"

// langStyle names the automatic text style carrying a language tag.
func langStyle(tag string) string {
	return langStylePrefix + strings.ReplaceAll(tag, "-", "_")
}

func buildStyles(loc locale) []byte {
	doc := root("office:document-styles")
	styles := add(doc, "office:styles")

	def := add(styles, "style:default-style", "style:family", "paragraph")
	add(def, "style:text-properties", "fo:language", loc.language, "fo:country", loc.country)

	paragraph := func(name, parent string, props ...string) {
		st := add(styles, "style:style",
			"style:name", name,
			"style:display-name", displayName(name),
			"style:family", "paragraph",
			"style:class", "text")
		if parent != "" {
			st.SetAttr("style:parent-style-name", parent)
		}
		if len(props) > 0 {
			add(st, "style:paragraph-properties", props...)
		}
	}
	paragraph("Standard", "")
	paragraph(styleBody, "Standard", "fo:margin-top", "0cm", "fo:margin-bottom", "0cm")
	paragraph(styleIndent, styleBody, "fo:text-indent", "0.5cm")
	paragraph(styleQuotation, "Standard", "fo:margin-left", "1cm", "fo:margin-right", "1cm")
	paragraph(styleList, styleBody, "fo:margin-left", "0.6cm", "fo:text-indent", "-0.6cm")
	paragraph(styleMarker, styleBody)
	for level := 1; level <= 3; level++ {
		paragraph(headingStyle(level), "Standard", "fo:margin-top", "0.4cm", "fo:margin-bottom", "0.2cm")
	}
	// Level 4 doubles as the centered scene divider.
	paragraph(headingStyle(4), "Standard", "fo:margin-top", "0.4cm", "fo:margin-bottom", "0.2cm", "fo:text-align", "center")

	text := func(name string, props ...string) {
		st := add(styles, "style:style",
			"style:name", name,
			"style:display-name", displayName(name),
			"style:family", "text")
		add(st, "style:text-properties", props...)
	}
	text(styleEmphasis, "fo:font-style", "italic")
	text(styleStrong, "fo:font-weight", "bold")
	return render(doc)
}

type locale struct {
	language string
	country  string
}

func localeOf(doc *document.Text) locale {
	loc := locale{language: doc.Language, country: doc.Country}
	if loc.language == "" {
		loc.language = "zxx"
	}
	if loc.country == "" {
		loc.country = "none"
	}
	return loc
}

func buildMeta(title, author, desc string, loc locale, now time.Time) []byte {
	doc := root("office:document-meta")
	meta := add(doc, "office:meta")
	addText(add(meta, "meta:generator"), "ywbridge")
	if title != "" {
		addText(add(meta, "dc:title"), title)
	}
	if desc != "" {
		addText(add(meta, "dc:description"), desc)
	}
	if author != "" {
		addText(add(meta, "meta:initial-creator"), author)
		addText(add(meta, "dc:creator"), author)
	}
	stamp := now.UTC().Format("2006-01-02T15:04:05")
	addText(add(meta, "meta:creation-date"), stamp)
	addText(add(meta, "dc:date"), stamp)
	if loc.language != "zxx" {
		addText(add(meta, "dc:language"), fmt.Sprintf("%s-%s", loc.language, loc.country))
	}
	return render(doc)
}
