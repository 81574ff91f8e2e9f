package flavor

import (
	"ywbridge/internal/ident"
	"ywbridge/internal/markup"
	"ywbridge/internal/project"
)

var noParent ident.Marker

// chapterView is one eligible chapter with its eligible scenes.
type chapterView struct {
	ch     *project.Chapter
	scenes []*project.Scene
}

func (v chapterView) level() int {
	if v.ch.BeginsSection {
		return 1
	}
	return 2
}

// view lists the chapters and scenes flavor d shows, in book order.
func (d *Descriptor) view(p *project.Project) []chapterView {
	var out []chapterView
	for _, ch := range p.OrderedChapters() {
		if ch.Type != d.ChapterType || (d.PartsOnly && !ch.BeginsSection) {
			continue
		}
		if d.ChapterType == project.TypeNormal && allHidden(p, ch) {
			continue
		}
		v := chapterView{ch: ch}
		for _, scID := range ch.SceneIDs {
			if sc, ok := p.Scenes[scID]; ok && d.eligible(sc) {
				v.scenes = append(v.scenes, sc)
			}
		}
		out = append(out, v)
	}
	return out
}

func (d *Descriptor) eligible(sc *project.Scene) bool {
	if sc.Type != d.ChapterType {
		return false
	}
	if d.ChapterType == project.TypeNormal && sc.DoNotExport {
		return false
	}
	return !d.SkipRaw || !markup.IsRawCode(sc.Content)
}

// allHidden reports whether every scene of a non-empty chapter is excluded
// from export.
func allHidden(p *project.Project, ch *project.Chapter) bool {
	if len(ch.SceneIDs) == 0 {
		return false
	}
	for _, scID := range ch.SceneIDs {
		if sc, ok := p.Scenes[scID]; ok && !sc.DoNotExport {
			return false
		}
	}
	return true
}

// table registers the nodes flavor d renders, so that write-back resolves
// exactly the markers a fresh rendering would carry.
func (d *Descriptor) table(p *project.Project) *ident.Table {
	t := ident.NewTable()
	switch d.Layout {
	case LayoutEntities, LayoutEntityList:
		for i, id := range entityOrder(p, d.Entity) {
			t.Register(ident.New(d.Entity, id), noParent, i)
		}
	default:
		for i, v := range d.view(p) {
			chm := ident.New(ident.KindChapter, v.ch.ID)
			t.Register(chm, noParent, i)
			for j, sc := range v.scenes {
				t.Register(ident.New(ident.KindScene, sc.ID), chm, j)
			}
		}
	}
	return t
}

func entityOrder(p *project.Project, kind ident.Kind) []string {
	switch kind {
	case ident.KindCharacter:
		return p.CharacterOrder
	case ident.KindLocation:
		return p.LocationOrder
	case ident.KindItem:
		return p.ItemOrder
	}
	return nil
}
