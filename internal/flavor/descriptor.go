package flavor

import (
	"path/filepath"
	"sort"
	"strings"

	"ywbridge/internal/ident"
	"ywbridge/internal/project"
)

// Format is the kind of document a flavor produces.
type Format int

const (
	FormatText Format = iota
	FormatSheet
)

// Ext returns the file extension of the format.
func (f Format) Ext() string {
	if f == FormatSheet {
		return ".ods"
	}
	return ".odt"
}

// Layout selects the grammar a flavor uses.
type Layout int

const (
	// LayoutChapters renders chapters and their scenes.
	LayoutChapters Layout = iota
	// LayoutEntities renders one description section per character,
	// location or item.
	LayoutEntities
	// LayoutXref renders the cross-reference report.
	LayoutXref
	// LayoutEntityList renders one sheet row per character, location or
	// item.
	LayoutEntityList
	// LayoutSceneList renders one sheet row per scene.
	LayoutSceneList
	// LayoutPlotList renders chapters and scenes as plot rows.
	LayoutPlotList
)

// Body is the scene field a chapter-layout flavor shows.
type Body int

const (
	BodyNone Body = iota
	BodyTitle
	BodyContent
	BodyDescription
)

// TitleStyle is how a scene title is pinned to the scene start.
type TitleStyle int

const (
	TitleNone TitleStyle = iota
	// TitleAnnotation puts "~ Title ~" in an annotation on the first
	// paragraph.
	TitleAnnotation
	// TitleHeading puts the title in a level 3 heading before the scene.
	TitleHeading
)

// Markers is how document regions are bound to identifiers.
type Markers int

const (
	// MarkSections uses named sections such as "ScID:3".
	MarkSections Markers = iota
	// MarkVisible uses "[ScID:3]" and "[/ScID]" paragraphs.
	MarkVisible
	MarkNone
)

// Descriptor is the capability descriptor of one flavor.
type Descriptor struct {
	Name        string
	Suffix      string
	Description string
	Format      Format
	Layout      Layout
	Writable    bool

	// ChapterType selects the eligible chapters and scenes.
	ChapterType project.Type
	// PartsOnly restricts chapters to those beginning a section.
	PartsOnly bool
	// SkipRaw drops scenes holding raw HTML or TeX.
	SkipRaw bool

	Scenes      Body
	SceneTitle  TitleStyle
	ChapterDesc bool
	Markers     Markers
	Dividers    bool
	// Suppress renders an empty heading for chapters flagged so.
	Suppress bool
	Split    bool

	// Entity is the identifier kind of entity documents and lists.
	Entity ident.Kind
}

// Ext returns the document file extension.
func (d *Descriptor) Ext() string {
	return d.Format.Ext()
}

// required returns the identifier kind every rendered section of which must
// come back on write-back.
func (d *Descriptor) required() ident.Kind {
	switch {
	case d.Layout == LayoutEntities:
		return d.Entity
	case d.Scenes == BodyContent || d.Scenes == BodyDescription:
		return ident.KindScene
	case d.ChapterDesc:
		return ident.KindChapter
	}
	return ""
}

var registry = []*Descriptor{
	{
		Name: "manuscript", Suffix: "_manuscript", Description: "Editable manuscript",
		Layout: LayoutChapters, Writable: true, ChapterType: project.TypeNormal,
		Scenes: BodyContent, SceneTitle: TitleAnnotation, Markers: MarkSections,
		Dividers: true, Suppress: true, Split: true,
	},
	{
		Name: "proof", Suffix: "_proof", Description: "Tagged manuscript for proofing",
		Layout: LayoutChapters, Writable: true, ChapterType: project.TypeNormal,
		Scenes: BodyContent, Markers: MarkVisible, Dividers: true, Split: true,
	},
	{
		Name: "notes", Suffix: "_notes", Description: "Notes chapters",
		Layout: LayoutChapters, Writable: true, ChapterType: project.TypeNotes,
		Scenes: BodyContent, SceneTitle: TitleHeading, Markers: MarkSections, Split: true,
	},
	{
		Name: "todo", Suffix: "_todo", Description: "Todo chapters",
		Layout: LayoutChapters, Writable: true, ChapterType: project.TypeTodo,
		Scenes: BodyContent, SceneTitle: TitleHeading, Markers: MarkSections, Split: true,
	},
	{
		Name: "scenes", Suffix: "_scenes", Description: "Scene descriptions",
		Layout: LayoutChapters, Writable: true, ChapterType: project.TypeNormal, SkipRaw: true,
		Scenes: BodyDescription, SceneTitle: TitleAnnotation, Markers: MarkSections, Dividers: true,
	},
	{
		Name: "chapters", Suffix: "_chapters", Description: "Chapter descriptions",
		Layout: LayoutChapters, Writable: true, ChapterType: project.TypeNormal,
		ChapterDesc: true, Markers: MarkSections,
	},
	{
		Name: "parts", Suffix: "_parts", Description: "Part descriptions",
		Layout: LayoutChapters, Writable: true, ChapterType: project.TypeNormal, PartsOnly: true,
		ChapterDesc: true, Markers: MarkSections,
	},
	{
		Name: "brf_synopsis", Suffix: "_brf_synopsis", Description: "Brief synopsis",
		Layout: LayoutChapters, ChapterType: project.TypeNormal, SkipRaw: true,
		Scenes: BodyTitle, Markers: MarkNone,
	},
	{
		Name: "characters", Suffix: "_characters", Description: "Character descriptions",
		Layout: LayoutEntities, Writable: true, Entity: ident.KindCharacter,
	},
	{
		Name: "locations", Suffix: "_locations", Description: "Location descriptions",
		Layout: LayoutEntities, Writable: true, Entity: ident.KindLocation,
	},
	{
		Name: "items", Suffix: "_items", Description: "Item descriptions",
		Layout: LayoutEntities, Writable: true, Entity: ident.KindItem,
	},
	{
		Name: "xref", Suffix: "_xref", Description: "Cross reference",
		Layout: LayoutXref,
	},
	{
		Name: "charlist", Suffix: "_charlist", Description: "Character list", Format: FormatSheet,
		Layout: LayoutEntityList, Writable: true, Entity: ident.KindCharacter,
	},
	{
		Name: "loclist", Suffix: "_loclist", Description: "Location list", Format: FormatSheet,
		Layout: LayoutEntityList, Writable: true, Entity: ident.KindLocation,
	},
	{
		Name: "itemlist", Suffix: "_itemlist", Description: "Item list", Format: FormatSheet,
		Layout: LayoutEntityList, Writable: true, Entity: ident.KindItem,
	},
	{
		Name: "scenelist", Suffix: "_scenelist", Description: "Scene list", Format: FormatSheet,
		Layout: LayoutSceneList, Writable: true, ChapterType: project.TypeNormal, SkipRaw: true,
	},
	{
		Name: "plotlist", Suffix: "_plotlist", Description: "Plot list", Format: FormatSheet,
		Layout: LayoutPlotList, Writable: true, ChapterType: project.TypeNormal, SkipRaw: true,
	},
}

// All returns every flavor in presentation order.
func All() []*Descriptor {
	out := make([]*Descriptor, len(registry))
	copy(out, registry)
	return out
}

// Lookup finds a flavor by name or suffix, with or without the leading
// underscore.
func Lookup(name string) (*Descriptor, bool) {
	name = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(name)), "_")
	for _, d := range registry {
		if d.Name == name {
			return d, true
		}
	}
	return nil, false
}

// FromPath selects the flavor of a document by its file name suffix and
// returns the path of the project it belongs to. ok is false for documents
// without a known suffix, which are candidates for a new-project import.
func FromPath(docPath string) (d *Descriptor, projectPath string, ok bool) {
	ext := filepath.Ext(docPath)
	stem := strings.TrimSuffix(docPath, ext)
	for _, cand := range bySuffixLength() {
		if !strings.EqualFold(ext, cand.Ext()) || !strings.HasSuffix(stem, cand.Suffix) {
			continue
		}
		base := strings.TrimSuffix(stem, cand.Suffix)
		if base == "" || strings.HasSuffix(base, string(filepath.Separator)) {
			continue
		}
		return cand, base + ".yw7", true
	}
	return nil, "", false
}

// DocumentPath returns the document path of flavor d for a project file.
func DocumentPath(projectPath string, d *Descriptor) string {
	return strings.TrimSuffix(projectPath, filepath.Ext(projectPath)) + d.Suffix + d.Ext()
}

func bySuffixLength() []*Descriptor {
	out := All()
	sort.SliceStable(out, func(i, j int) bool { return len(out[i].Suffix) > len(out[j].Suffix) })
	return out
}
