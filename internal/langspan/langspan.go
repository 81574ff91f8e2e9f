package langspan

import (
	"fmt"
	"regexp"

	"ywbridge/internal/faults"
	"ywbridge/internal/language"
	"ywbridge/internal/project"
)

// Codec records the languages used in a project and resolves its locale.
type Codec interface {
	// Collect returns the language tags used in text, in order of first use.
	Collect(text string) []string
	// Register makes sure the project knows every tag. It returns the tags
	// that were new.
	Register(p *project.Project, tags []string) []string
	// Locale returns the validated document language of the project.
	Locale(p *project.Project, fallback language.Locale) (language.Locale, *faults.InvalidLanguageCodeError)
}

// VariableCodec registers languages as yWriter project variables.
type VariableCodec struct{}

var _ Codec = VariableCodec{}

var openTag = regexp.MustCompile(`\[lang=([^\]]+)\]`)

// Collect returns the tags of every [lang=...] opening tag in text, once each
// and in order of first use.
func (VariableCodec) Collect(text string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, m := range openTag.FindAllStringSubmatch(text, -1) {
		if _, ok := seen[m[1]]; ok {
			continue
		}
		seen[m[1]] = struct{}{}
		out = append(out, m[1])
	}
	return out
}

// OpenVar and CloseVar name the variable pair backing tag.
func OpenVar(tag string) string  { return "lang=" + tag }
func CloseVar(tag string) string { return "/lang=" + tag }

// Register adds the lang=<tag> and /lang=<tag> variable pair for each tag
// the project does not define yet and returns those tags. Existing
// variables are left untouched.
func (VariableCodec) Register(p *project.Project, tags []string) []string {
	var added []string
	for _, tag := range tags {
		if _, ok := p.Var(OpenVar(tag)); ok {
			continue
		}
		p.SetVar(OpenVar(tag), fmt.Sprintf(`<HTM <SPAN LANG="%s"> /HTM>`, tag))
		if _, ok := p.Var(CloseVar(tag)); !ok {
			p.SetVar(CloseVar(tag), `<HTM </SPAN> /HTM>`)
		}
		added = append(added, tag)
	}
	return added
}

// Locale validates the project language and country. A project without
// codes gets the host locale, then fallback.
func (VariableCodec) Locale(p *project.Project, fallback language.Locale) (language.Locale, *faults.InvalidLanguageCodeError) {
	loc, err := language.Resolve(p.LanguageCode, p.CountryCode, fallback)
	if err != nil {
		invalid, _ := err.(*faults.InvalidLanguageCodeError)
		return loc, invalid
	}
	return loc, nil
}

// Sync registers every language used anywhere in the project's scenes.
func Sync(c Codec, p *project.Project) []string {
	var tags []string
	for _, sc := range p.OrderedScenes() {
		tags = append(tags, c.Collect(sc.Content)...)
	}
	return c.Register(p, tags)
}
