package markup

import (
	"regexp"
	"strings"

	"ywbridge/internal/document"
)

const (
	quotePrefix = "> "
	listPrefix  = "- "
)

var (
	tokenPattern = regexp.MustCompile(`\[/?i\]|\[/?b\]|\[/?lang=[^\]]*\]|/\*`)
	lossyPattern = regexp.MustCompile(`\[/?(?:u|s|c|r|h[0-9]*)\]`)
	anyTag       = regexp.MustCompile(`\[/?(?:i|b|u|s|c|r|h[0-9]*|lang=[^\]]*)\]`)
	comment      = regexp.MustCompile(`/\*.*?\*/`)
)

// IsRawCode reports whether content is raw HTML or TeX that the documents
// must not interpret.
func IsRawCode(content string) bool {
	trimmed := strings.TrimSpace(content)
	return strings.HasPrefix(trimmed, "<HTML>") || strings.HasPrefix(trimmed, "<TEX>")
}

// Lossy reports whether content uses tags that Decode drops.
func Lossy(content string) bool {
	return lossyPattern.MatchString(content)
}

// Plain strips tags and comments from content.
func Plain(content string) string {
	return anyTag.ReplaceAllString(comment.ReplaceAllString(content, ""), "")
}

type state struct {
	italic bool
	bold   bool
	lang   string
}

func (s state) run(text string) document.Run {
	return document.Run{Text: text, Italic: s.italic, Bold: s.bold, Lang: s.lang}
}

// Decode converts native scene text to paragraphs. Formatting spans may cross
// line breaks.
func Decode(content string) []*document.Paragraph {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = lossyPattern.ReplaceAllString(content, "")
	var (
		out []*document.Paragraph
		st  state
	)
	for _, line := range strings.Split(content, "\n") {
		p := &document.Paragraph{Role: document.RoleBody}
		switch {
		case strings.HasPrefix(line, quotePrefix):
			p.Role = document.RoleQuotation
			line = line[len(quotePrefix):]
		case strings.HasPrefix(line, listPrefix):
			p.Role = document.RoleList
			line = line[len(listPrefix):]
		}
		st = decodeLine(p, line, st)
		out = append(out, p)
	}
	return out
}

func decodeLine(p *document.Paragraph, line string, st state) state {
	for line != "" {
		loc := tokenPattern.FindStringIndex(line)
		if loc == nil {
			p.Append(st.run(line))
			break
		}
		p.Append(st.run(line[:loc[0]]))
		token := line[loc[0]:loc[1]]
		line = line[loc[1]:]
		switch {
		case token == "/*":
			end := strings.Index(line, "*/")
			if end < 0 {
				// Unterminated comments stay visible text.
				p.Append(st.run(token))
				continue
			}
			p.Runs = append(p.Runs, document.Run{Text: line[:end], Note: true})
			line = line[end+2:]
		case token == "[i]":
			st.italic = true
		case token == "[/i]":
			st.italic = false
		case token == "[b]":
			st.bold = true
		case token == "[/b]":
			st.bold = false
		case strings.HasPrefix(token, "[lang="):
			st.lang = strings.TrimSuffix(strings.TrimPrefix(token, "[lang="), "]")
		case strings.HasPrefix(token, "[/lang="):
			st.lang = ""
		}
	}
	return st
}

// Encode converts paragraphs to native scene text. Open spans are closed at
// the end of every paragraph and reopened on the next one, so a span that
// crossed a line break comes back as one span per line.
func Encode(paras []*document.Paragraph) string {
	lines := make([]string, 0, len(paras))
	for _, p := range paras {
		lines = append(lines, EncodeParagraph(p))
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

// EncodeParagraph converts one paragraph, including its role prefix.
func EncodeParagraph(p *document.Paragraph) string {
	var b strings.Builder
	switch p.Role {
	case document.RoleQuotation:
		b.WriteString(quotePrefix)
	case document.RoleList:
		b.WriteString(listPrefix)
	}
	b.WriteString(EncodeRuns(p.Runs))
	return b.String()
}

// EncodeRuns converts runs to inline markup without a role prefix.
func EncodeRuns(runs []document.Run) string {
	var (
		b   strings.Builder
		cur state
	)
	for _, r := range runs {
		if r.Note {
			b.WriteString("/*" + r.Text + "*/")
			continue
		}
		want := state{italic: r.Italic, bold: r.Bold, lang: r.Lang}
		closeSpans(&b, cur, want)
		openSpans(&b, cur, want)
		cur = want
		b.WriteString(r.Text)
	}
	closeSpans(&b, cur, state{})
	return cleanup(b.String())
}

func closeSpans(b *strings.Builder, cur, want state) {
	if cur.italic && !want.italic {
		b.WriteString("[/i]")
	}
	if cur.bold && !want.bold {
		b.WriteString("[/b]")
	}
	if cur.lang != "" && cur.lang != want.lang {
		b.WriteString("[/lang=" + cur.lang + "]")
	}
}

func openSpans(b *strings.Builder, cur, want state) {
	if want.lang != "" && want.lang != cur.lang {
		b.WriteString("[lang=" + want.lang + "]")
	}
	if want.bold && !cur.bold {
		b.WriteString("[b]")
	}
	if want.italic && !cur.italic {
		b.WriteString("[i]")
	}
}

var (
	emptySpan  = regexp.MustCompile(`\[(i|b)\]\[/(i|b)\]`)
	rejoinLang = regexp.MustCompile(`\[/lang=([^\]]+)\]\[lang=([^\]]+)\]`)
)

// cleanup merges adjacent spans of the same kind and drops empty ones.
func cleanup(text string) string {
	text = strings.NewReplacer("[/i][i]", "", "[/b][b]", "").Replace(text)
	text = rejoinLang.ReplaceAllStringFunc(text, func(m string) string {
		sub := rejoinLang.FindStringSubmatch(m)
		if sub[1] == sub[2] {
			return ""
		}
		return m
	})
	return emptySpan.ReplaceAllStringFunc(text, func(m string) string {
		sub := emptySpan.FindStringSubmatch(m)
		if sub[1] == sub[2] {
			return ""
		}
		return m
	})
}
