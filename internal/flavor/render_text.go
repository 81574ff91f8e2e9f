package flavor

import (
	"fmt"
	"strings"

	"ywbridge/internal/document"
	"ywbridge/internal/faults"
	"ywbridge/internal/ident"
	"ywbridge/internal/markup"
	"ywbridge/internal/project"
)

const dividerText = "* * *"

type textRenderer struct {
	p   *project.Project
	d   *Descriptor
	env Env
}

func (r *textRenderer) chapters() []document.Block {
	var out []document.Block
	for _, v := range r.d.view(r.p) {
		title := v.ch.Title
		if r.d.Suppress && v.ch.SuppressTitle {
			title = ""
		}
		blocks := []document.Block{document.Heading(v.level(), title)}
		if r.d.ChapterDesc {
			blocks = append(blocks, r.decode(v.ch.Desc)...)
		}
		blocks = append(blocks, r.scenes(v)...)

		if r.d.Markers == MarkSections {
			out = append(out, &document.Section{Name: ident.New(ident.KindChapter, v.ch.ID).String(), Blocks: blocks})
		} else {
			out = append(out, blocks...)
		}
	}
	return out
}

func (r *textRenderer) scenes(v chapterView) []document.Block {
	var out []document.Block
	for i, sc := range v.scenes {
		if r.d.Dividers && i > 0 && !sc.AppendToPrev {
			out = append(out, &document.Paragraph{Role: document.RoleDivider, Runs: []document.Run{{Text: dividerText}}})
		}
		marker := ident.New(ident.KindScene, sc.ID).String()
		switch r.d.Scenes {
		case BodyTitle:
			out = append(out, document.NewParagraph(document.RoleBody, sc.Title))
			continue
		case BodyNone:
			continue
		}

		var paras []*document.Paragraph
		if r.d.Scenes == BodyDescription {
			paras = markup.Decode(sc.Desc)
		} else {
			paras = r.content(sc)
		}
		switch r.d.SceneTitle {
		case TitleAnnotation:
			first := paras[0]
			first.Runs = append([]document.Run{{Text: titleNote(sc.Title), Note: true}}, first.Runs...)
		case TitleHeading:
			out = append(out, document.Heading(3, sc.Title))
		}

		switch r.d.Markers {
		case MarkSections:
			out = append(out, &document.Section{Name: marker, Blocks: asBlocks(paras)})
		case MarkVisible:
			out = append(out, document.NewParagraph(document.RoleMarker, "["+marker+"]"))
			out = append(out, asBlocks(paras)...)
			out = append(out, document.NewParagraph(document.RoleMarker, "[/"+string(ident.KindScene)+"]"))
		default:
			out = append(out, asBlocks(paras)...)
		}
	}
	return out
}

// content decodes the scene body. Raw HTML and TeX is passed through as
// plain text.
func (r *textRenderer) content(sc *project.Scene) []*document.Paragraph {
	if markup.IsRawCode(sc.Content) {
		var out []*document.Paragraph
		for _, line := range strings.Split(sc.Content, "\n") {
			out = append(out, document.NewParagraph(document.RoleBody, line))
		}
		return out
	}
	if markup.Lossy(sc.Content) {
		r.env.Report.Notice(faults.CodeLossy, ident.New(ident.KindScene, sc.ID).String(),
			"underline, strikethrough, alignment and highlight tags are not carried into documents")
	}
	return markup.Decode(sc.Content)
}

func (r *textRenderer) decode(text string) []document.Block {
	return asBlocks(markup.Decode(text))
}

func (r *textRenderer) entities() []document.Block {
	var out []document.Block
	kind := r.d.Entity
	for _, id := range entityOrder(r.p, kind) {
		marker := ident.New(kind, id).String()
		if kind == ident.KindCharacter {
			cr := r.p.Characters[id]
			heading := cr.Title
			if cr.FullName != "" {
				heading += "/" + cr.FullName
			}
			out = append(out, document.Heading(2, withAka(heading, cr.Aka)))
			var blocks []document.Block
			for _, part := range characterParts {
				blocks = append(blocks,
					document.Heading(3, part.label),
					&document.Section{Name: ident.Sub(kind, part.name, id), Blocks: r.decode(*part.field(cr))},
				)
			}
			out = append(out, &document.Section{Name: marker, Blocks: blocks})
			continue
		}
		el := worldElement(r.p, kind, id)
		out = append(out,
			document.Heading(2, withAka(el.Title, el.Aka)),
			&document.Section{Name: marker, Blocks: r.decode(el.Desc)},
		)
	}
	return out
}

type characterPart struct {
	name  string
	label string
	field func(*project.Character) *string
}

var characterParts = []characterPart{
	{"desc", "Description", func(c *project.Character) *string { return &c.Desc }},
	{"bio", "Bio", func(c *project.Character) *string { return &c.Bio }},
	{"goals", "Goals", func(c *project.Character) *string { return &c.Goals }},
	{"notes", "Notes", func(c *project.Character) *string { return &c.Notes }},
}

func worldElement(p *project.Project, kind ident.Kind, id string) *project.WorldElement {
	if kind == ident.KindItem {
		return p.Items[id]
	}
	return p.Locations[id]
}

func withAka(title, aka string) string {
	if aka == "" {
		return title
	}
	return fmt.Sprintf(`%s ("%s")`, title, aka)
}

func titleNote(title string) string {
	return "~ " + title + " ~"
}

func asBlocks(paras []*document.Paragraph) []document.Block {
	out := make([]document.Block, len(paras))
	for i, p := range paras {
		out[i] = p
	}
	return out
}
