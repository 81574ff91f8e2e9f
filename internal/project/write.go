package project

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/antchfx/xmlquery"

	"ywbridge/internal/fileutil"
)

// IsLocked reports whether yWriter holds the project open, which it signals
// with a sibling "<file>.lock" file.
func IsLocked(path string) bool {
	_, err := os.Stat(path + ".lock")
	return err == nil
}

// Save writes the project to path through a temporary file.
func (p *Project) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create project directory: %w", err)
	}
	return fileutil.WriteFileAtomic(path, 0o644, p.Encode)
}

// Encode merges the model into the retained XML tree and writes it to w.
func (p *Project) Encode(w io.Writer) error {
	if p.tree == nil {
		p.tree = skeleton()
	}
	root := child(p.tree, "YWRITER7")
	p.writeDeclaration()
	p.writeProject(ensure(root, "PROJECT"))
	p.writeLocations(ensure(root, "LOCATIONS"))
	p.writeItems(ensure(root, "ITEMS"))
	p.writeScenes(ensure(root, "SCENES"))
	p.writeChapters(ensure(root, "CHAPTERS"))
	p.writeCharacters(ensure(root, "CHARACTERS"))
	p.writeVars(ensure(root, "PROJECTVARS"))

	bw := bufio.NewWriter(w)
	if err := p.tree.WriteWithOptions(bw, xmlquery.WithIndentation("\t")); err != nil {
		return fmt.Errorf("encode project: %w", err)
	}
	if _, err := bw.WriteString("\n"); err != nil {
		return err
	}
	return bw.Flush()
}

func skeleton() *xmlquery.Node {
	doc := &xmlquery.Node{Type: xmlquery.DocumentNode}
	root := newElement("YWRITER7")
	xmlquery.AddChild(doc, root)
	for _, name := range []string{"PROJECT", "LOCATIONS", "ITEMS", "SCENES", "CHAPTERS", "CHARACTERS", "PROJECTVARS"} {
		ensure(root, name)
	}
	setValue(child(root, "PROJECT"), "Ver", "7")
	return doc
}

func (p *Project) writeDeclaration() {
	var rest []*xmlquery.Node
	for c := p.tree.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != xmlquery.DeclarationNode {
			rest = append(rest, c)
		}
	}
	clearChildren(p.tree)
	decl := &xmlquery.Node{Type: xmlquery.DeclarationNode, Data: "xml"}
	decl.SetAttr("version", "1.0")
	decl.SetAttr("encoding", "utf-8")
	xmlquery.AddChild(p.tree, decl)
	for _, c := range rest {
		xmlquery.AddChild(p.tree, c)
	}
}

func (p *Project) writeProject(prj *xmlquery.Node) {
	setValue(prj, "Title", p.Title)
	setText(prj, "AuthorName", p.Author)
	setText(prj, "Desc", p.Desc)
	for i, title := range p.FieldTitles {
		setValue(prj, fieldTitleName(i), title)
	}
	setField(prj, "Field_LanguageCode", p.LanguageCode)
	setField(prj, "Field_CountryCode", p.CountryCode)
}

// syncCollection reorders the name elements below list to match order,
// dropping elements whose ID is gone and creating elements for new IDs.
// Elements that survive keep every child the model does not touch.
func syncCollection(list *xmlquery.Node, name string, order []string, fill func(el *xmlquery.Node, id string, pos int)) {
	existing := make(map[string]*xmlquery.Node)
	for _, el := range children(list, name) {
		existing[trimmed(el, "ID")] = el
		xmlquery.RemoveFromTree(el)
	}
	for i, id := range order {
		el, ok := existing[id]
		if !ok {
			el = newElement(name)
			setValue(el, "ID", id)
		}
		fill(el, id, i+1)
		xmlquery.AddChild(list, el)
	}
}

func (p *Project) writeLocations(list *xmlquery.Node) {
	syncCollection(list, "LOCATION", p.LocationOrder, func(el *xmlquery.Node, id string, pos int) {
		writeWorldElement(el, p.Locations[id], pos)
	})
}

func (p *Project) writeItems(list *xmlquery.Node) {
	syncCollection(list, "ITEM", p.ItemOrder, func(el *xmlquery.Node, id string, pos int) {
		writeWorldElement(el, p.Items[id], pos)
	})
}

func writeWorldElement(el *xmlquery.Node, we *WorldElement, pos int) {
	setValue(el, "Title", we.Title)
	setText(el, "AKA", we.Aka)
	setText(el, "Desc", we.Desc)
	setText(el, "Tags", JoinTags(we.Tags, ";"))
	setValue(el, "SortOrder", strconv.Itoa(pos))
}

func (p *Project) writeCharacters(list *xmlquery.Node) {
	syncCollection(list, "CHARACTER", p.CharacterOrder, func(el *xmlquery.Node, id string, pos int) {
		cr := p.Characters[id]
		setValue(el, "Title", cr.Title)
		setText(el, "FullName", cr.FullName)
		setText(el, "AKA", cr.Aka)
		setText(el, "Desc", cr.Desc)
		setText(el, "Bio", cr.Bio)
		setText(el, "Goals", cr.Goals)
		setText(el, "Notes", cr.Notes)
		setText(el, "Tags", JoinTags(cr.Tags, ";"))
		setFlag(el, "Major", cr.IsMajor)
		setValue(el, "SortOrder", strconv.Itoa(pos))
	})
}

func (p *Project) writeVars(list *xmlquery.Node) {
	syncCollection(list, "PROJECTVAR", p.VarOrder, func(el *xmlquery.Node, id string, _ int) {
		v := p.Vars[id]
		setValue(el, "Title", v.Title)
		setText(el, "Desc", v.Desc)
		setText(el, "Tags", JoinTags(v.Tags, ";"))
	})
}

// sceneOrder lists scenes in book order followed by scenes no chapter owns.
func (p *Project) sceneOrder() []string {
	var order []string
	listed := make(map[string]bool)
	for _, chID := range p.ChapterOrder {
		for _, scID := range p.Chapters[chID].SceneIDs {
			order = append(order, scID)
			listed[scID] = true
		}
	}
	for _, scID := range keys(p.Scenes) {
		if !listed[scID] {
			order = append(order, scID)
		}
	}
	return order
}

func (p *Project) writeScenes(list *xmlquery.Node) {
	owner := make(map[string]string)
	for _, chID := range p.ChapterOrder {
		for _, scID := range p.Chapters[chID].SceneIDs {
			owner[scID] = chID
		}
	}
	syncCollection(list, "SCENE", p.sceneOrder(), func(el *xmlquery.Node, id string, _ int) {
		sc := p.Scenes[id]
		setValue(el, "Title", sc.Title)
		setText(el, "Desc", sc.Desc)
		if chID, ok := owner[id]; ok {
			setValue(el, "BelongsToChID", chID)
		}
		setValue(el, "SceneContent", sc.Content)
		setValue(el, "WordCount", strconv.Itoa(sc.WordCount))
		setValue(el, "LetterCount", strconv.Itoa(sc.LetterCount))
		setValue(el, "Status", strconv.Itoa(int(sc.Status)))
		setText(el, "Notes", sc.Notes)
		setText(el, "Tags", JoinTags(sc.Tags, ";"))
		setText(el, "Goal", sc.Goal)
		setText(el, "Conflict", sc.Conflict)
		setText(el, "Outcome", sc.Outcome)
		for i, rating := range sc.Ratings {
			if rating < RatingUnset || rating > RatingMax {
				rating = RatingUnset
			}
			setValue(el, fmt.Sprintf("Field%d", i+1), strconv.Itoa(rating))
		}
		setFlag(el, "ReactionScene", sc.IsReaction)
		setFlag(el, "AppendToPrev", sc.AppendToPrev)
		writeSceneType(el, sc.Type)
		writeExport(el, sc.DoNotExport)
		writeSceneTime(el, sc)
		setList(el, "Characters", "CharID", sc.Characters)
		setList(el, "Locations", "LocID", sc.Locations)
		setList(el, "Items", "ItemID", sc.Items)
	})
}

func writeSceneType(el *xmlquery.Node, t Type) {
	setFlag(el, "Unused", t != TypeNormal)
	switch t {
	case TypeNotes:
		setField(el, "Field_SceneType", "1")
	case TypeTodo:
		setField(el, "Field_SceneType", "2")
	case TypeUnused:
		setField(el, "Field_SceneType", "0")
	default:
		setField(el, "Field_SceneType", "")
	}
}

func writeExport(el *xmlquery.Node, doNotExport bool) {
	if doNotExport {
		if !has(el, "ExportCondSpecific") {
			ensure(el, "ExportCondSpecific")
		}
		remove(el, "ExportWhenRTF")
		return
	}
	if has(el, "ExportCondSpecific") && !has(el, "ExportWhenRTF") {
		setValue(el, "ExportWhenRTF", "-1")
	}
}

func writeSceneTime(el *xmlquery.Node, sc *Scene) {
	if sc.Date != "" {
		stamp := sc.Date + " " + sc.Time
		if sc.Time == "" {
			stamp = sc.Date + " 00:00:00"
		}
		setValue(el, "SpecificDateTime", stamp)
		setValue(el, "SpecificDateMode", "-1")
		remove(el, "Day")
		remove(el, "Hour")
		remove(el, "Minute")
	} else {
		remove(el, "SpecificDateTime")
		remove(el, "SpecificDateMode")
		setText(el, "Day", sc.Day)
		setText(el, "Hour", sc.Hour)
		setText(el, "Minute", sc.Minute)
	}
	setText(el, "LastsDays", sc.LastsDays)
	setText(el, "LastsHours", sc.LastsHours)
	setText(el, "LastsMinutes", sc.LastsMinute)
}

func (p *Project) writeChapters(list *xmlquery.Node) {
	syncCollection(list, "CHAPTER", p.ChapterOrder, func(el *xmlquery.Node, id string, pos int) {
		ch := p.Chapters[id]
		setValue(el, "Title", ch.Title)
		setText(el, "Desc", ch.Desc)
		setValue(el, "SortOrder", strconv.Itoa(pos))
		setFlag(el, "SectionStart", ch.BeginsSection)
		writeChapterType(el, ch.Type)
		switch {
		case ch.SuppressTitle:
			setField(el, "Field_SuppressChapterTitle", "1")
		case fieldValue(el, "Field_SuppressChapterTitle") != "":
			setField(el, "Field_SuppressChapterTitle", "0")
		}
		if ch.IsTrash {
			setField(el, "Field_IsTrash", "1")
		} else {
			setField(el, "Field_IsTrash", "")
		}
		setList(el, "Scenes", "ScID", slices.Clone(ch.SceneIDs))
	})
}

func writeChapterType(el *xmlquery.Node, t Type) {
	unused, yType, chapterType := false, "0", "0"
	switch t {
	case TypeNotes:
		unused, yType, chapterType = true, "1", "1"
	case TypeTodo:
		unused, yType, chapterType = true, "1", "2"
	case TypeUnused:
		unused, yType, chapterType = true, "1", "0"
	}
	setFlag(el, "Unused", unused)
	setValue(el, "Type", yType)
	setValue(el, "ChapterType", chapterType)
}

// setField writes a value below the element's Fields child, dropping it when
// value is empty.
func setField(el *xmlquery.Node, name, value string) {
	fields := child(el, "Fields")
	if value == "" {
		remove(fields, name)
		return
	}
	if fields == nil {
		fields = ensure(el, "Fields")
	}
	setValue(fields, name, value)
}
