package flavor

import (
	"slices"

	"ywbridge/internal/document"
	"ywbridge/internal/project"
)

// CrossReference relates scenes, entities and tags. Scene lists are in book
// order; entity keys are identifiers and tag keys are tag names.
type CrossReference struct {
	CharacterScenes map[string][]string
	LocationScenes  map[string][]string
	ItemScenes      map[string][]string
	TagScenes       map[string][]string

	TagCharacters map[string][]string
	TagLocations  map[string][]string
	TagItems      map[string][]string

	// Tags lists every tag in use, sorted.
	Tags []string
}

// BuildCrossReference indexes p.
func BuildCrossReference(p *project.Project) *CrossReference {
	x := &CrossReference{
		CharacterScenes: make(map[string][]string),
		LocationScenes:  make(map[string][]string),
		ItemScenes:      make(map[string][]string),
		TagScenes:       make(map[string][]string),
		TagCharacters:   make(map[string][]string),
		TagLocations:    make(map[string][]string),
		TagItems:        make(map[string][]string),
	}
	tags := make(map[string]struct{})
	for _, sc := range p.OrderedScenes() {
		for _, id := range sc.Characters {
			x.CharacterScenes[id] = append(x.CharacterScenes[id], sc.ID)
		}
		for _, id := range sc.Locations {
			x.LocationScenes[id] = append(x.LocationScenes[id], sc.ID)
		}
		for _, id := range sc.Items {
			x.ItemScenes[id] = append(x.ItemScenes[id], sc.ID)
		}
		for _, tag := range sc.Tags {
			x.TagScenes[tag] = append(x.TagScenes[tag], sc.ID)
			tags[tag] = struct{}{}
		}
	}
	for _, id := range p.CharacterOrder {
		for _, tag := range p.Characters[id].Tags {
			x.TagCharacters[tag] = append(x.TagCharacters[tag], id)
			tags[tag] = struct{}{}
		}
	}
	for _, id := range p.LocationOrder {
		for _, tag := range p.Locations[id].Tags {
			x.TagLocations[tag] = append(x.TagLocations[tag], id)
			tags[tag] = struct{}{}
		}
	}
	for _, id := range p.ItemOrder {
		for _, tag := range p.Items[id].Tags {
			x.TagItems[tag] = append(x.TagItems[tag], id)
			tags[tag] = struct{}{}
		}
	}
	for tag := range tags {
		x.Tags = append(x.Tags, tag)
	}
	slices.Sort(x.Tags)
	return x
}

type xrefGroup struct {
	heading string
	keys    []string
	label   func(key string) string
	index   map[string][]string
	item    func(id string) string
}

func renderXref(p *project.Project, x *CrossReference) []document.Block {
	sceneTitle := func(id string) string { return p.Scenes[id].Title }
	ownTitle := func(tag string) string { return tag }
	groups := []xrefGroup{
		{"Scenes with character", p.CharacterOrder, func(id string) string { return characterTitle(p, id) }, x.CharacterScenes, sceneTitle},
		{"Scenes with location", p.LocationOrder, func(id string) string { return elementTitle(p.Locations, id) }, x.LocationScenes, sceneTitle},
		{"Scenes with item", p.ItemOrder, func(id string) string { return elementTitle(p.Items, id) }, x.ItemScenes, sceneTitle},
		{"Scenes tagged", x.Tags, ownTitle, x.TagScenes, sceneTitle},
		{"Characters tagged", x.Tags, ownTitle, x.TagCharacters, func(id string) string { return characterTitle(p, id) }},
		{"Locations tagged", x.Tags, ownTitle, x.TagLocations, func(id string) string { return elementTitle(p.Locations, id) }},
		{"Items tagged", x.Tags, ownTitle, x.TagItems, func(id string) string { return elementTitle(p.Items, id) }},
	}
	var out []document.Block
	for _, g := range groups {
		var body []document.Block
		for _, key := range g.keys {
			ids := g.index[key]
			if len(ids) == 0 {
				continue
			}
			body = append(body, document.Heading(2, g.label(key)))
			for _, id := range ids {
				body = append(body, document.NewParagraph(document.RoleBody, g.item(id)))
			}
		}
		if len(body) == 0 {
			continue
		}
		out = append(out, document.Heading(1, g.heading))
		out = append(out, body...)
	}
	return out
}
