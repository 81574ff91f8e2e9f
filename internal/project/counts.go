package project

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	wordBreaks    = regexp.MustCompile(`--|—|–`)
	nonWordMarks  = regexp.MustCompile(`(?m)\[.+?\]|/\*.+?\*/|-|^>`)
	nonLetterRuns = regexp.MustCompile(`\[.+?\]|/\*.+?\*/|\n|\r`)
)

// CountWords counts the words of scene content, ignoring markup tags and
// comments. Dashes separate words; hyphens join them.
func CountWords(content string) int {
	text := wordBreaks.ReplaceAllString(content, " ")
	text = nonWordMarks.ReplaceAllString(text, "")
	return len(strings.Fields(text))
}

// CountLetters counts the characters of scene content without markup tags,
// comments and line breaks.
func CountLetters(content string) int {
	return utf8.RuneCountInString(nonLetterRuns.ReplaceAllString(content, ""))
}

// SetContent replaces the scene body and refreshes its counts.
func (s *Scene) SetContent(content string) {
	s.Content = content
	s.WordCount = CountWords(content)
	s.LetterCount = CountLetters(content)
}

// SplitTags parses a tag list separated by semicolons or commas. Blank
// entries are dropped.
func SplitTags(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ';' || r == ',' || r == '\n' })
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// JoinTags renders tags with sep between them.
func JoinTags(tags []string, sep string) string {
	return strings.Join(tags, sep)
}

var languageTag = regexp.MustCompile(`\[lang=([^\]]+)\]`)

// Languages returns the language tags used in scene content, in order of
// first appearance.
func (p *Project) Languages() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, sc := range p.OrderedScenes() {
		for _, match := range languageTag.FindAllStringSubmatch(sc.Content, -1) {
			if _, ok := seen[match[1]]; ok {
				continue
			}
			seen[match[1]] = struct{}{}
			out = append(out, match[1])
		}
	}
	return out
}
