package project

import (
	"slices"

	"github.com/antchfx/xmlquery"

	"ywbridge/internal/ident"
)

// Project is the whole tree of one novel.
type Project struct {
	Title        string
	Author       string
	Desc         string
	LanguageCode string
	CountryCode  string
	FieldTitles  [4]string

	ChapterOrder []string
	Chapters     map[string]*Chapter
	Scenes       map[string]*Scene

	CharacterOrder []string
	Characters     map[string]*Character
	LocationOrder  []string
	Locations      map[string]*WorldElement
	ItemOrder      []string
	Items          map[string]*WorldElement
	VarOrder       []string
	Vars           map[string]*Var

	tree       *xmlquery.Node
	allocators map[ident.Kind]*ident.Allocator
}

// DefaultFieldTitles are the rating field names of a fresh yWriter project.
var DefaultFieldTitles = [4]string{"Field 1", "Field 2", "Field 3", "Field 4"}

// New returns an empty project that saves to a fresh yw7 skeleton.
func New(title string) *Project {
	p := &Project{
		Title:       title,
		FieldTitles: DefaultFieldTitles,
		Chapters:    make(map[string]*Chapter),
		Scenes:      make(map[string]*Scene),
		Characters:  make(map[string]*Character),
		Locations:   make(map[string]*WorldElement),
		Items:       make(map[string]*WorldElement),
		Vars:        make(map[string]*Var),
	}
	p.resetAllocators()
	return p
}

func (p *Project) resetAllocators() {
	p.allocators = map[ident.Kind]*ident.Allocator{
		ident.KindChapter:   ident.NewAllocator(p.ChapterOrder...),
		ident.KindScene:     ident.NewAllocator(keys(p.Scenes)...),
		ident.KindCharacter: ident.NewAllocator(p.CharacterOrder...),
		ident.KindLocation:  ident.NewAllocator(p.LocationOrder...),
		ident.KindItem:      ident.NewAllocator(p.ItemOrder...),
	}
	varIDs := ident.NewAllocator(p.VarOrder...)
	p.allocators["PvID"] = varIDs
}

func (p *Project) allocator(kind ident.Kind) *ident.Allocator {
	if p.allocators == nil {
		p.resetAllocators()
	}
	return p.allocators[kind]
}

// Reserve claims a caller-chosen identifier of kind, reporting false when it is
// malformed or already taken.
func (p *Project) Reserve(kind ident.Kind, id string) bool {
	return p.allocator(kind).Reserve(id)
}

// NewChapter appends a fresh chapter after the chapter with identifier after,
// or at the end when after is empty or unknown.
func (p *Project) NewChapter(after string) *Chapter {
	ch := &Chapter{ID: p.allocator(ident.KindChapter).Next()}
	p.Chapters[ch.ID] = ch
	idx := slices.Index(p.ChapterOrder, after)
	if after == "" || idx < 0 {
		p.ChapterOrder = append(p.ChapterOrder, ch.ID)
	} else {
		p.ChapterOrder = slices.Insert(p.ChapterOrder, idx+1, ch.ID)
	}
	return ch
}

// NewScene creates a scene and places it in chapter chID after the scene with
// identifier after, or at the end of the chapter.
func (p *Project) NewScene(chID, after string) *Scene {
	sc := &Scene{ID: p.allocator(ident.KindScene).Next(), Status: StatusOutline}
	sc.Ratings = [4]int{RatingUnset, RatingUnset, RatingUnset, RatingUnset}
	p.Scenes[sc.ID] = sc
	if ch, ok := p.Chapters[chID]; ok {
		idx := slices.Index(ch.SceneIDs, after)
		if after == "" || idx < 0 {
			ch.SceneIDs = append(ch.SceneIDs, sc.ID)
		} else {
			ch.SceneIDs = slices.Insert(ch.SceneIDs, idx+1, sc.ID)
		}
	}
	return sc
}

// NewCharacter appends a character. An empty id allocates a fresh one.
func (p *Project) NewCharacter(id string) *Character {
	id = p.claim(ident.KindCharacter, id)
	cr := &Character{ID: id}
	p.Characters[id] = cr
	p.CharacterOrder = append(p.CharacterOrder, id)
	return cr
}

// NewLocation appends a location. An empty id allocates a fresh one.
func (p *Project) NewLocation(id string) *WorldElement {
	id = p.claim(ident.KindLocation, id)
	lc := &WorldElement{ID: id}
	p.Locations[id] = lc
	p.LocationOrder = append(p.LocationOrder, id)
	return lc
}

// NewItem appends an item. An empty id allocates a fresh one.
func (p *Project) NewItem(id string) *WorldElement {
	id = p.claim(ident.KindItem, id)
	it := &WorldElement{ID: id}
	p.Items[id] = it
	p.ItemOrder = append(p.ItemOrder, id)
	return it
}

func (p *Project) claim(kind ident.Kind, id string) string {
	alloc := p.allocator(kind)
	if id != "" && alloc.Reserve(id) {
		return id
	}
	return alloc.Next()
}

// RemoveCharacter deletes a character and every scene reference to it.
func (p *Project) RemoveCharacter(id string) {
	if _, ok := p.Characters[id]; !ok {
		return
	}
	delete(p.Characters, id)
	p.CharacterOrder = without(p.CharacterOrder, id)
	p.allocator(ident.KindCharacter).Retire(id)
	for _, sc := range p.Scenes {
		sc.Characters = without(sc.Characters, id)
	}
}

// RemoveLocation deletes a location and every scene reference to it.
func (p *Project) RemoveLocation(id string) {
	if _, ok := p.Locations[id]; !ok {
		return
	}
	delete(p.Locations, id)
	p.LocationOrder = without(p.LocationOrder, id)
	p.allocator(ident.KindLocation).Retire(id)
	for _, sc := range p.Scenes {
		sc.Locations = without(sc.Locations, id)
	}
}

// RemoveItem deletes an item and every scene reference to it.
func (p *Project) RemoveItem(id string) {
	if _, ok := p.Items[id]; !ok {
		return
	}
	delete(p.Items, id)
	p.ItemOrder = without(p.ItemOrder, id)
	p.allocator(ident.KindItem).Retire(id)
	for _, sc := range p.Scenes {
		sc.Items = without(sc.Items, id)
	}
}

// ChapterOf returns the chapter listing scene scID.
func (p *Project) ChapterOf(scID string) (*Chapter, bool) {
	for _, chID := range p.ChapterOrder {
		ch := p.Chapters[chID]
		if slices.Contains(ch.SceneIDs, scID) {
			return ch, true
		}
	}
	return nil, false
}

// OrderedChapters returns chapters in book order.
func (p *Project) OrderedChapters() []*Chapter {
	out := make([]*Chapter, 0, len(p.ChapterOrder))
	for _, id := range p.ChapterOrder {
		out = append(out, p.Chapters[id])
	}
	return out
}

// OrderedScenes returns every scene listed by a chapter, in book order.
func (p *Project) OrderedScenes() []*Scene {
	var out []*Scene
	for _, chID := range p.ChapterOrder {
		for _, scID := range p.Chapters[chID].SceneIDs {
			if sc, ok := p.Scenes[scID]; ok {
				out = append(out, sc)
			}
		}
	}
	return out
}

// Var returns the variable with the given name.
func (p *Project) Var(name string) (*Var, bool) {
	for _, id := range p.VarOrder {
		if v := p.Vars[id]; v.Title == name {
			return v, true
		}
	}
	return nil, false
}

// SetVar creates or updates the variable called name. It reports whether a
// new variable was added.
func (p *Project) SetVar(name, value string) bool {
	if v, ok := p.Var(name); ok {
		v.Desc = value
		return false
	}
	v := &Var{ID: p.allocator("PvID").Next(), Title: name, Desc: value}
	p.Vars[v.ID] = v
	p.VarOrder = append(p.VarOrder, v.ID)
	return true
}

func without(list []string, id string) []string {
	return slices.DeleteFunc(slices.Clone(list), func(s string) bool { return s == id })
}

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
