package flavor

import (
	"slices"
	"strconv"
	"strings"

	"ywbridge/internal/document"
	"ywbridge/internal/faults"
	"ywbridge/internal/ident"
	"ywbridge/internal/project"
)

const tagSeparator = "; "

var (
	characterColumns = []string{"ID", "Name", "Full name", "Aka", "Description", "Bio", "Goals", "Importance", "Tags", "Notes"}
	elementColumns   = []string{"ID", "Name", "Description", "Aka", "Tags"}
	sceneColumns     = []string{"Scene link", "Scene title", "Scene description", "Tags", "Scene notes", "A/R", "Goal", "Conflict", "Outcome", "Scene", "Words total"}
	sceneTail        = []string{"Word count", "Letter count", "Status", "Characters", "Locations", "Items"}
	plotColumns      = []string{"ID", "Plot section", "Plot event", "Plot event title", "Details", "Scene", "Words total"}
)

const (
	importanceMajor = "Major"
	importanceMinor = "Minor"
	actionScene     = "A"
	reactionScene   = "R"
)

func sheetHeader(p *project.Project, d *Descriptor) []string {
	switch d.Layout {
	case LayoutEntityList:
		if d.Entity == ident.KindCharacter {
			return characterColumns
		}
		return elementColumns
	case LayoutSceneList:
		return slices.Concat(sceneColumns, p.FieldTitles[:], sceneTail)
	case LayoutPlotList:
		return slices.Concat(plotColumns, p.FieldTitles[:])
	}
	return nil
}

func checkHeader(sheet *document.Sheet, want []string) error {
	got := sheet.Header()
	if !slices.Equal(got, want) {
		return faults.Wrap(faults.ErrInvalidDocument, "write-back", sheet.Name,
			"column headers do not match; regenerate the list", nil)
	}
	return nil
}

// cellText returns the trimmed text of column i, or "" past the row end.
func cellText(row []document.Cell, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i].Text)
}

func blankRow(row []document.Cell) bool {
	for i := range row {
		if cellText(row, i) != "" {
			return false
		}
	}
	return true
}

// markerCell links a row to its section in the manuscript.
func markerCell(kind ident.Kind, id string, env Env) document.Cell {
	marker := ident.New(kind, id).String()
	return document.Cell{Text: marker, Link: env.link("manuscript", marker)}
}

func ratingCell(v int) string {
	if v <= project.RatingUnset {
		return ""
	}
	return strconv.Itoa(v)
}

func renderEntityList(p *project.Project, d *Descriptor) *document.Sheet {
	sheet := &document.Sheet{Name: d.Description}
	sheet.AddRow(sheetHeader(p, d)...)
	for _, id := range entityOrder(p, d.Entity) {
		marker := ident.New(d.Entity, id).String()
		if d.Entity == ident.KindCharacter {
			cr := p.Characters[id]
			importance := importanceMinor
			if cr.IsMajor {
				importance = importanceMajor
			}
			sheet.AddRow(marker, cr.Title, cr.FullName, cr.Aka, cr.Desc, cr.Bio, cr.Goals,
				importance, project.JoinTags(cr.Tags, tagSeparator), cr.Notes)
			continue
		}
		el := worldElement(p, d.Entity, id)
		sheet.AddRow(marker, el.Title, el.Desc, el.Aka, project.JoinTags(el.Tags, tagSeparator))
	}
	return sheet
}

type entityRow struct {
	id   string
	row  []document.Cell
	line int
}

// applyEntityList makes the project's entities of one kind match the sheet:
// row order becomes entity order, missing rows delete entities and rows
// without an identifier create them.
func applyEntityList(p *project.Project, d *Descriptor, sheet *document.Sheet, env Env) (*Result, error) {
	where := d.Name + " sheet"
	seen := make(map[string]bool)
	var rows []entityRow
	for i, row := range sheet.Rows[1:] {
		if blankRow(row) {
			continue
		}
		idText := cellText(row, 0)
		if idText == "" {
			rows = append(rows, entityRow{row: row, line: i + 2})
			continue
		}
		m, ok := ident.ParseMarkerOf(d.Entity, idText)
		if !ok {
			env.Report.Recover(idText, &faults.UnknownIdentifierError{Marker: idText, Where: where})
			continue
		}
		if seen[m.ID] {
			return nil, &faults.MarkerIntegrityError{Marker: m.String(), Reason: "appears in more than one row"}
		}
		seen[m.ID] = true
		rows = append(rows, entityRow{id: m.ID, row: row, line: i + 2})
	}

	res := &Result{}
	for _, id := range slices.Clone(entityOrder(p, d.Entity)) {
		if seen[id] {
			continue
		}
		removeEntity(p, d.Entity, id)
		marker := ident.New(d.Entity, id).String()
		res.Deleted = append(res.Deleted, marker)
		env.Report.Notice(faults.CodeDeletedEntity, marker, "removed; its row is missing from the %s", where)
	}

	// Rows carrying an identifier claim it before blank rows allocate.
	order := make([]string, len(rows))
	for _, explicit := range []bool{true, false} {
		for i, r := range rows {
			if (r.id != "") != explicit {
				continue
			}
			id, created := ensureEntity(p, d.Entity, r.id)
			if created {
				marker := ident.New(d.Entity, id).String()
				res.Created = append(res.Created, marker)
				env.Report.Notice(faults.CodeNewEntity, marker, "created from row %d of the %s", r.line, where)
			}
			order[i] = id
		}
	}
	for i, r := range rows {
		fillEntity(p, d.Entity, order[i], r.row)
		res.Updated++
	}
	setEntityOrder(p, d.Entity, order)
	return res, nil
}

func removeEntity(p *project.Project, kind ident.Kind, id string) {
	switch kind {
	case ident.KindCharacter:
		p.RemoveCharacter(id)
	case ident.KindLocation:
		p.RemoveLocation(id)
	case ident.KindItem:
		p.RemoveItem(id)
	}
}

// ensureEntity returns the identifier of an existing entity or creates one.
// An empty id allocates a fresh identifier.
func ensureEntity(p *project.Project, kind ident.Kind, id string) (string, bool) {
	switch kind {
	case ident.KindCharacter:
		if _, ok := p.Characters[id]; ok {
			return id, false
		}
		return p.NewCharacter(id).ID, true
	case ident.KindLocation:
		if _, ok := p.Locations[id]; ok {
			return id, false
		}
		return p.NewLocation(id).ID, true
	default:
		if _, ok := p.Items[id]; ok {
			return id, false
		}
		return p.NewItem(id).ID, true
	}
}

func fillEntity(p *project.Project, kind ident.Kind, id string, row []document.Cell) {
	if kind == ident.KindCharacter {
		cr := p.Characters[id]
		cr.Title = cellText(row, 1)
		cr.FullName = cellText(row, 2)
		cr.Aka = cellText(row, 3)
		cr.Desc = cellText(row, 4)
		cr.Bio = cellText(row, 5)
		cr.Goals = cellText(row, 6)
		cr.IsMajor = strings.EqualFold(cellText(row, 7), importanceMajor)
		cr.Tags = project.SplitTags(cellText(row, 8))
		cr.Notes = cellText(row, 9)
		return
	}
	el := worldElement(p, kind, id)
	el.Title = cellText(row, 1)
	el.Desc = cellText(row, 2)
	el.Aka = cellText(row, 3)
	el.Tags = project.SplitTags(cellText(row, 4))
}

func setEntityOrder(p *project.Project, kind ident.Kind, order []string) {
	switch kind {
	case ident.KindCharacter:
		p.CharacterOrder = order
	case ident.KindLocation:
		p.LocationOrder = order
	case ident.KindItem:
		p.ItemOrder = order
	}
}

func renderSceneList(p *project.Project, d *Descriptor, env Env) *document.Sheet {
	sheet := &document.Sheet{Name: d.Description}
	sheet.AddRow(sheetHeader(p, d)...)
	number, total := 0, 0
	for _, v := range d.view(p) {
		for _, sc := range v.scenes {
			number++
			total += sc.WordCount
			ar := actionScene
			if sc.IsReaction {
				ar = reactionScene
			}
			row := []document.Cell{
				markerCell(ident.KindScene, sc.ID, env),
				{Text: sc.Title},
				{Text: sc.Desc},
				{Text: project.JoinTags(sc.Tags, tagSeparator)},
				{Text: sc.Notes},
				{Text: ar},
				{Text: sc.Goal},
				{Text: sc.Conflict},
				{Text: sc.Outcome},
				{Text: strconv.Itoa(number)},
				{Text: strconv.Itoa(total)},
			}
			for _, r := range sc.Ratings {
				row = append(row, document.Cell{Text: ratingCell(r)})
			}
			row = append(row,
				document.Cell{Text: strconv.Itoa(sc.WordCount)},
				document.Cell{Text: strconv.Itoa(sc.LetterCount)},
				document.Cell{Text: sc.Status.String()},
				document.Cell{Text: titles(sc.Characters, func(id string) string { return characterTitle(p, id) })},
				document.Cell{Text: titles(sc.Locations, func(id string) string { return elementTitle(p.Locations, id) })},
				document.Cell{Text: titles(sc.Items, func(id string) string { return elementTitle(p.Items, id) })},
			)
			sheet.Rows = append(sheet.Rows, row)
		}
	}
	return sheet
}

func titles(ids []string, title func(string) string) string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if t := title(id); t != "" {
			out = append(out, t)
		}
	}
	return strings.Join(out, tagSeparator)
}

func characterTitle(p *project.Project, id string) string {
	if cr, ok := p.Characters[id]; ok {
		return cr.Title
	}
	return ""
}

func elementTitle(m map[string]*project.WorldElement, id string) string {
	if el, ok := m[id]; ok {
		return el.Title
	}
	return ""
}

// sheetParser validates sheet rows and collects the resulting changes.
type sheetParser struct {
	p     *project.Project
	d     *Descriptor
	env   Env
	table *ident.Table
	plan  []func()
}

func newSheetParser(p *project.Project, d *Descriptor, env Env) *sheetParser {
	return &sheetParser{p: p, d: d, env: env, table: d.table(p)}
}

// rowMarker resolves the identifier cell of a row. Rows with unknown or
// unreadable identifiers are reported and skipped.
func (sp *sheetParser) rowMarker(text string) (ident.Marker, bool, error) {
	m, ok := ident.ParseMarker(text)
	if !ok || (m.Kind != ident.KindScene && m.Kind != ident.KindChapter) {
		sp.env.Report.Recover(text, &faults.UnknownIdentifierError{Marker: text, Where: sp.d.Name + " sheet"})
		return ident.Marker{}, false, nil
	}
	claimed, err := claimMarker(sp.table, m, noParent, sp.d.Name+" sheet", sp.env.Report)
	return m, claimed, err
}

func (sp *sheetParser) ratings(sc *project.Scene, row []document.Cell, first int) [4]int {
	var out [4]int
	for i := range out {
		cell := cellText(row, first+i)
		v, ok := project.ParseRating(cell)
		if !ok {
			sp.env.Report.Warn(faults.CodeRating, ident.New(ident.KindScene, sc.ID).String(),
				"rating %q in column %q is not between %d and %d; reset to %d",
				cell, sp.p.FieldTitles[i], project.RatingUnset, project.RatingMax, project.RatingUnset)
		}
		out[i] = v
	}
	return out
}

func (sp *sheetParser) apply() *Result {
	for _, change := range sp.plan {
		change()
	}
	return &Result{Updated: len(sp.plan)}
}

func applySceneList(p *project.Project, d *Descriptor, sheet *document.Sheet, env Env) (*Result, error) {
	sp := newSheetParser(p, d, env)
	ratingCol := len(sceneColumns)
	statusCol := ratingCol + len(p.FieldTitles) + 2
	for _, row := range sheet.Rows[1:] {
		if blankRow(row) {
			continue
		}
		m, ok, err := sp.rowMarker(cellText(row, 0))
		if err != nil {
			return nil, err
		}
		if !ok || m.Kind != ident.KindScene {
			continue
		}
		sc := p.Scenes[m.ID]
		ratings := sp.ratings(sc, row, ratingCol)
		status := sc.Status
		if cell := cellText(row, statusCol); cell != "" {
			if parsed, known := project.ParseStatus(cell); known {
				status = parsed
			} else {
				env.Report.Warn(faults.CodeStatus, m.String(), "unknown status %q; kept %q", cell, sc.Status)
			}
		}
		title, desc := cellText(row, 1), cellText(row, 2)
		tags, notes := project.SplitTags(cellText(row, 3)), cellText(row, 4)
		reaction := strings.EqualFold(cellText(row, 5), reactionScene)
		goal, conflict, outcome := cellText(row, 6), cellText(row, 7), cellText(row, 8)
		sp.plan = append(sp.plan, func() {
			sc.Title, sc.Desc, sc.Tags, sc.Notes = title, desc, tags, notes
			sc.IsReaction = reaction
			sc.Goal, sc.Conflict, sc.Outcome = goal, conflict, outcome
			sc.Ratings = ratings
			sc.Status = status
		})
	}
	return sp.apply(), nil
}

func renderPlotList(p *project.Project, d *Descriptor, env Env) *document.Sheet {
	sheet := &document.Sheet{Name: d.Description}
	header := sheetHeader(p, d)
	sheet.AddRow(header...)
	width := len(header)
	number, total := 0, 0
	for _, v := range d.view(p) {
		row := make([]document.Cell, width)
		row[0] = markerCell(ident.KindChapter, v.ch.ID, env)
		row[1].Text = v.ch.Title
		row[4].Text = v.ch.Desc
		sheet.Rows = append(sheet.Rows, row)
		for _, sc := range v.scenes {
			number++
			total += sc.WordCount
			row := make([]document.Cell, width)
			row[0] = markerCell(ident.KindScene, sc.ID, env)
			row[2].Text = project.JoinTags(sc.Tags, tagSeparator)
			row[3].Text = sc.Title
			row[4].Text = sc.Notes
			row[5].Text = strconv.Itoa(number)
			row[6].Text = strconv.Itoa(total)
			for i, r := range sc.Ratings {
				row[len(plotColumns)+i].Text = ratingCell(r)
			}
			sheet.Rows = append(sheet.Rows, row)
		}
	}
	return sheet
}

func applyPlotList(p *project.Project, d *Descriptor, sheet *document.Sheet, env Env) (*Result, error) {
	sp := newSheetParser(p, d, env)
	for _, row := range sheet.Rows[1:] {
		if blankRow(row) {
			continue
		}
		m, ok, err := sp.rowMarker(cellText(row, 0))
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if m.Kind == ident.KindChapter {
			ch := p.Chapters[m.ID]
			title, desc := cellText(row, 1), cellText(row, 4)
			sp.plan = append(sp.plan, func() { ch.Title, ch.Desc = title, desc })
			continue
		}
		sc := p.Scenes[m.ID]
		tags, title, notes := project.SplitTags(cellText(row, 2)), cellText(row, 3), cellText(row, 4)
		ratings := sp.ratings(sc, row, len(plotColumns))
		sp.plan = append(sp.plan, func() {
			sc.Tags, sc.Title, sc.Notes = tags, title, notes
			sc.Ratings = ratings
		})
	}
	return sp.apply(), nil
}
