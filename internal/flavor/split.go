package flavor

import (
	"fmt"
	"slices"
	"strings"

	"ywbridge/internal/faults"
	"ywbridge/internal/ident"
	"ywbridge/internal/project"
)

// Separator lines of the split grammar, as they appear in scene content after
// write-back.
const (
	partSeparator    = "#"
	chapterSeparator = "##"
	sceneSeparator   = "###"
	descSeparator    = "|"
	splitFlag        = "(!)"
	clipTitle        = 20
)

type splitKind int

const (
	splitNone splitKind = iota
	splitScene
	splitChapter
	splitPart
)

// splitLine classifies a content line and returns the title and description
// it carries.
func splitLine(line string) (splitKind, string, string) {
	kind := splitNone
	switch {
	case strings.HasPrefix(line, sceneSeparator):
		kind = splitScene
	case line == chapterSeparator || strings.HasPrefix(line, chapterSeparator+" "):
		kind = splitChapter
	case line == partSeparator || strings.HasPrefix(line, partSeparator+" "):
		kind = splitPart
	default:
		return splitNone, "", ""
	}
	rest := strings.Trim(line, "# ")
	title, desc, _ := strings.Cut(rest, descSeparator)
	return kind, strings.TrimSpace(title), strings.TrimSpace(desc)
}

func hasSeparators(content string) bool {
	for _, line := range strings.Split(content, "\n") {
		if kind, _, _ := splitLine(line); kind != splitNone {
			return true
		}
	}
	return false
}

// splitScenes applies the split grammar to the scenes written back in this
// run. Chapters created by a split are inserted after the chapter they split
// from and take over the scenes that followed the split point.
func splitScenes(p *project.Project, touched map[string]bool, res *Result, report *faults.Report) bool {
	var newScenes, newChapters int
	order := slices.Clone(p.ChapterOrder)
	newOrder := make([]string, 0, len(order))
	for _, chID := range order {
		newOrder = append(newOrder, chID)
		origin := p.Chapters[chID]
		current := origin
		var scenes []string
		for _, scID := range slices.Clone(origin.SceneIDs) {
			scenes = append(scenes, scID)
			parent := p.Scenes[scID]
			if !touched[scID] || !hasSeparators(parent.Content) {
				continue
			}
			target := parent
			var lines []string
			inScene := true
			count := 0
			for _, line := range strings.Split(parent.Content, "\n") {
				kind, title, desc := splitLine(line)
				switch kind {
				case splitScene:
					setLines(target, lines)
					lines = nil
					count++
					target = newSplitScene(p, parent, count, title, desc)
					scenes = append(scenes, target.ID)
					res.Created = append(res.Created, ident.New(ident.KindScene, target.ID).String())
					newScenes++
					inScene = true
				case splitChapter, splitPart:
					if inScene {
						setLines(target, lines)
						lines = nil
						count = 0
						inScene = false
					}
					current.SceneIDs = scenes
					scenes = nil
					current = newSplitChapter(p, origin, title, desc, kind == splitPart)
					newOrder = append(newOrder, current.ID)
					res.Created = append(res.Created, ident.New(ident.KindChapter, current.ID).String())
					newChapters++
				default:
					if !inScene {
						count++
						target = newSplitScene(p, parent, count, "", "")
						scenes = append(scenes, target.ID)
						res.Created = append(res.Created, ident.New(ident.KindScene, target.ID).String())
						newScenes++
						inScene = true
					}
					lines = append(lines, line)
				}
			}
			if inScene {
				setLines(target, lines)
			}
		}
		current.SceneIDs = scenes
	}
	p.ChapterOrder = newOrder
	if newScenes == 0 && newChapters == 0 {
		return false
	}
	report.Warn(faults.CodeSplit, "project",
		"document split into %d new scene(s) and %d new chapter(s); do not write this document back again", newScenes, newChapters)
	return true
}

func setLines(sc *project.Scene, lines []string) {
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	sc.SetContent(strings.Join(lines, "\n"))
}

func newSplitScene(p *project.Project, parent *project.Scene, count int, title, desc string) *project.Scene {
	sc := p.NewScene("", "")
	switch {
	case title != "":
		sc.Title = title
	case parent.Title != "":
		clipped := parent.Title
		if runes := []rune(clipped); len(runes) > clipTitle {
			clipped = string(runes[:clipTitle]) + "..."
		}
		sc.Title = fmt.Sprintf("%s Split: %d", clipped, count)
	default:
		sc.Title = fmt.Sprintf("New Scene Split: %d", count)
	}
	sc.Desc = desc
	for _, field := range []*string{&parent.Desc, &parent.Goal, &parent.Conflict, &parent.Outcome} {
		if *field != "" && !strings.HasPrefix(*field, splitFlag) {
			*field = splitFlag + *field
		}
	}
	if parent.Status > project.StatusDraft {
		parent.Status = project.StatusDraft
	}
	sc.Status = parent.Status
	sc.Type = parent.Type
	sc.Date, sc.Time, sc.Day = parent.Date, parent.Time, parent.Day
	sc.Hour, sc.Minute = parent.Hour, parent.Minute
	sc.LastsDays, sc.LastsHours, sc.LastsMinute = parent.LastsDays, parent.LastsHours, parent.LastsMinute
	return sc
}

func newSplitChapter(p *project.Project, origin *project.Chapter, title, desc string, part bool) *project.Chapter {
	ch := p.NewChapter("")
	if title == "" {
		title = "New Chapter"
		if part {
			title = "New Part"
		}
	}
	ch.Title = title
	ch.Desc = desc
	ch.BeginsSection = part
	ch.Type = origin.Type
	return ch
}
