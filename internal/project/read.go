package project

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"

	"ywbridge/internal/faults"
	"ywbridge/internal/ident"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Load reads the project file at path.
func Load(path string) (*Project, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open project: %w", err)
	}
	defer f.Close()

	p, err := Parse(f)
	if err != nil {
		var malformed *faults.MalformedProjectError
		if errors.As(err, &malformed) && malformed.Path == "" {
			malformed.Path = path
		}
		return nil, err
	}
	return p, nil
}

// Parse reads a project from r. Structural problems yield a
// *faults.MalformedProjectError and no project.
func Parse(r io.Reader) (*Project, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &faults.MalformedProjectError{Reason: "read failed", Err: err}
	}
	doc, err := xmlquery.Parse(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	if err != nil {
		return nil, &faults.MalformedProjectError{Reason: "invalid XML", Err: err}
	}
	root := child(doc, "YWRITER7")
	if root == nil {
		return nil, &faults.MalformedProjectError{Reason: "root element YWRITER7 missing"}
	}
	prj := child(root, "PROJECT")
	if prj == nil {
		return nil, &faults.MalformedProjectError{Reason: "PROJECT element missing"}
	}
	stripIndentation(doc)

	p := New("")
	p.tree = doc
	p.readProject(prj)
	if err := p.readLocations(child(root, "LOCATIONS")); err != nil {
		return nil, err
	}
	if err := p.readItems(child(root, "ITEMS")); err != nil {
		return nil, err
	}
	if err := p.readCharacters(child(root, "CHARACTERS")); err != nil {
		return nil, err
	}
	if err := p.readVars(child(root, "PROJECTVARS")); err != nil {
		return nil, err
	}
	if err := p.readScenes(child(root, "SCENES")); err != nil {
		return nil, err
	}
	if err := p.readChapters(child(root, "CHAPTERS")); err != nil {
		return nil, err
	}
	p.adjustSceneTypes()
	p.resetAllocators()
	return p, nil
}

func (p *Project) readProject(prj *xmlquery.Node) {
	p.Title = text(prj, "Title")
	p.Author = text(prj, "AuthorName")
	p.Desc = text(prj, "Desc")
	for i := range p.FieldTitles {
		if title := text(prj, fieldTitleName(i)); title != "" {
			p.FieldTitles[i] = title
		}
	}
	p.LanguageCode = fieldValue(prj, "Field_LanguageCode")
	p.CountryCode = fieldValue(prj, "Field_CountryCode")
}

// elementID reads and validates the ID child of a collection element.
func elementID(el *xmlquery.Node, kind string, seen map[string]bool) (string, error) {
	id := trimmed(el, "ID")
	if !ident.ValidID(id) {
		return "", &faults.MalformedProjectError{Reason: fmt.Sprintf("%s with invalid ID %q", kind, id)}
	}
	if seen[id] {
		return "", &faults.MalformedProjectError{Reason: fmt.Sprintf("duplicate %s ID %s", kind, id)}
	}
	seen[id] = true
	return id, nil
}

func (p *Project) readLocations(list *xmlquery.Node) error {
	seen := make(map[string]bool)
	for _, el := range children(list, "LOCATION") {
		id, err := elementID(el, "location", seen)
		if err != nil {
			return err
		}
		p.Locations[id] = readWorldElement(el, id)
		p.LocationOrder = append(p.LocationOrder, id)
	}
	return nil
}

func (p *Project) readItems(list *xmlquery.Node) error {
	seen := make(map[string]bool)
	for _, el := range children(list, "ITEM") {
		id, err := elementID(el, "item", seen)
		if err != nil {
			return err
		}
		p.Items[id] = readWorldElement(el, id)
		p.ItemOrder = append(p.ItemOrder, id)
	}
	return nil
}

func readWorldElement(el *xmlquery.Node, id string) *WorldElement {
	return &WorldElement{
		ID:    id,
		Title: text(el, "Title"),
		Aka:   text(el, "AKA"),
		Desc:  text(el, "Desc"),
		Tags:  splitNativeTags(text(el, "Tags")),
	}
}

func (p *Project) readCharacters(list *xmlquery.Node) error {
	seen := make(map[string]bool)
	for _, el := range children(list, "CHARACTER") {
		id, err := elementID(el, "character", seen)
		if err != nil {
			return err
		}
		p.Characters[id] = &Character{
			ID:       id,
			Title:    text(el, "Title"),
			FullName: text(el, "FullName"),
			Aka:      text(el, "AKA"),
			Desc:     text(el, "Desc"),
			Bio:      text(el, "Bio"),
			Goals:    text(el, "Goals"),
			Notes:    text(el, "Notes"),
			Tags:     splitNativeTags(text(el, "Tags")),
			IsMajor:  has(el, "Major"),
		}
		p.CharacterOrder = append(p.CharacterOrder, id)
	}
	return nil
}

func (p *Project) readVars(list *xmlquery.Node) error {
	seen := make(map[string]bool)
	for _, el := range children(list, "PROJECTVAR") {
		id, err := elementID(el, "project variable", seen)
		if err != nil {
			return err
		}
		v := &Var{ID: id, Title: text(el, "Title"), Desc: text(el, "Desc"), Tags: splitNativeTags(text(el, "Tags"))}
		p.Vars[id] = v
		p.VarOrder = append(p.VarOrder, id)
		switch v.Title {
		case "Language":
			if p.LanguageCode == "" {
				p.LanguageCode = strings.TrimSpace(v.Desc)
			}
		case "Country":
			if p.CountryCode == "" {
				p.CountryCode = strings.TrimSpace(v.Desc)
			}
		}
	}
	return nil
}

func (p *Project) readScenes(list *xmlquery.Node) error {
	seen := make(map[string]bool)
	for _, el := range children(list, "SCENE") {
		id, err := elementID(el, "scene", seen)
		if err != nil {
			return err
		}
		sc := &Scene{
			ID:           id,
			Title:        text(el, "Title"),
			Desc:         text(el, "Desc"),
			Notes:        text(el, "Notes"),
			Tags:         splitNativeTags(text(el, "Tags")),
			Goal:         text(el, "Goal"),
			Conflict:     text(el, "Conflict"),
			Outcome:      text(el, "Outcome"),
			IsReaction:   has(el, "ReactionScene"),
			AppendToPrev: has(el, "AppendToPrev"),
			DoNotExport:  has(el, "ExportCondSpecific") && !has(el, "ExportWhenRTF"),
			Status:       StatusOutline,
			Day:          trimmed(el, "Day"),
			Hour:         trimmed(el, "Hour"),
			Minute:       trimmed(el, "Minute"),
			LastsDays:    trimmed(el, "LastsDays"),
			LastsHours:   trimmed(el, "LastsHours"),
			LastsMinute:  trimmed(el, "LastsMinutes"),
		}
		sc.SetContent(text(el, "SceneContent"))
		if n, err := strconv.Atoi(trimmed(el, "Status")); err == nil && Status(n).Valid() {
			sc.Status = Status(n)
		}
		for i := range sc.Ratings {
			sc.Ratings[i], _ = ParseRating(trimmed(el, fmt.Sprintf("Field%d", i+1)))
		}
		switch fieldValue(el, "Field_SceneType") {
		case "1":
			sc.Type = TypeNotes
		case "2":
			sc.Type = TypeTodo
		default:
			if has(el, "Unused") {
				sc.Type = TypeUnused
			}
		}
		if stamp := trimmed(el, "SpecificDateTime"); stamp != "" {
			sc.Date, sc.Time, _ = strings.Cut(stamp, " ")
		}
		sc.Characters = existingOf(listOf(el, "Characters", "CharID"), p.Characters)
		sc.Locations = existingOf(listOf(el, "Locations", "LocID"), p.Locations)
		sc.Items = existingOf(listOf(el, "Items", "ItemID"), p.Items)
		p.Scenes[id] = sc
	}
	return nil
}

func existingOf[V any](ids []string, known map[string]V) []string {
	var out []string
	for _, id := range ids {
		if _, ok := known[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

func (p *Project) readChapters(list *xmlquery.Node) error {
	if list == nil {
		return &faults.MalformedProjectError{Reason: "CHAPTERS element missing"}
	}
	seen := make(map[string]bool)
	owner := make(map[string]string)
	for _, el := range children(list, "CHAPTER") {
		id, err := elementID(el, "chapter", seen)
		if err != nil {
			return err
		}
		ch := &Chapter{
			ID:            id,
			Title:         text(el, "Title"),
			Desc:          text(el, "Desc"),
			BeginsSection: has(el, "SectionStart"),
			Type:          decodeChapterType(el),
		}
		ch.SuppressTitle = strings.HasPrefix(ch.Title, "@") || fieldValue(el, "Field_SuppressChapterTitle") == "1"
		ch.IsTrash = fieldValue(el, "Field_IsTrash") == "1"
		for _, scID := range listOf(el, "Scenes", "ScID") {
			if _, ok := p.Scenes[scID]; !ok {
				return &faults.MalformedProjectError{Reason: fmt.Sprintf("chapter %s lists missing scene %s", id, scID)}
			}
			if prev, dup := owner[scID]; dup {
				return &faults.MalformedProjectError{Reason: fmt.Sprintf("scene %s listed by chapters %s and %s", scID, prev, id)}
			}
			owner[scID] = id
			ch.SceneIDs = append(ch.SceneIDs, scID)
		}
		p.Chapters[id] = ch
		p.ChapterOrder = append(p.ChapterOrder, id)
	}
	return nil
}

func decodeChapterType(el *xmlquery.Node) Type {
	unused := has(el, "Unused")
	if has(el, "ChapterType") {
		switch trimmed(el, "ChapterType") {
		case "2":
			return TypeTodo
		case "1":
			return TypeNotes
		}
		if unused {
			return TypeUnused
		}
		return TypeNormal
	}
	if has(el, "Type") {
		if trimmed(el, "Type") == "1" {
			return TypeNotes
		}
		if unused {
			return TypeUnused
		}
	}
	return TypeNormal
}

// adjustSceneTypes lets non-normal chapters impose their type on their scenes.
func (p *Project) adjustSceneTypes() {
	for _, ch := range p.Chapters {
		if ch.Type == TypeNormal {
			continue
		}
		for _, scID := range ch.SceneIDs {
			p.Scenes[scID].Type = ch.Type
		}
	}
}

func fieldTitleName(i int) string {
	return fmt.Sprintf("FieldTitle%d", i+1)
}

func fieldValue(el *xmlquery.Node, name string) string {
	return trimmed(child(el, "Fields"), name)
}

func splitNativeTags(s string) []string {
	var out []string
	for _, tag := range strings.Split(s, ";") {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}
