package odf

import (
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"ywbridge/internal/document"
	"ywbridge/internal/faults"
)

// Repeated empty cells and rows beyond this bound are padding added by the
// office suite and are not expanded.
const maxRepeat = 256

var (
	firstTable = xpath.MustCompile("//office:spreadsheet/table:table")
	tableRows  = xpath.MustCompile(".//table:table-row")
)

func buildSheet(sheet *document.Sheet) []byte {
	content := root("office:document-content")
	auto := add(content, "office:automatic-styles")
	col := add(auto, "style:style", "style:name", "co1", "style:family", "table-column")
	add(col, "style:table-column-properties", "style:column-width", "4cm")
	body := add(add(content, "office:body"), "office:spreadsheet")

	name := sheet.Name
	if name == "" {
		name = "Sheet1"
	}
	table := add(body, "table:table", "table:name", name)
	width := 0
	for _, row := range sheet.Rows {
		width = max(width, len(row))
	}
	if width > 0 {
		add(table, "table:table-column", "table:style-name", "co1", "table:number-columns-repeated", strconv.Itoa(width))
	}
	for _, row := range sheet.Rows {
		tr := add(table, "table:table-row")
		for _, cell := range row {
			writeCell(tr, cell)
		}
	}
	return render(content)
}

func writeCell(row *xmlquery.Node, cell document.Cell) {
	if cell.Text == "" {
		add(row, "table:table-cell")
		return
	}
	td := add(row, "table:table-cell", "office:value-type", "string")
	if n, err := strconv.Atoi(cell.Text); err == nil && cell.Link == "" {
		td.SetAttr("office:value-type", "float")
		td.SetAttr("office:value", strconv.Itoa(n))
	}
	for _, line := range strings.Split(cell.Text, "\n") {
		p := add(td, "text:p")
		target := p
		if cell.Link != "" {
			target = add(p, "text:a", "xlink:type", "simple", "xlink:href", cell.Link)
		}
		collapse := true
		writeSpaced(target, line, &collapse)
	}
}

func readSheet(parts map[string][]byte) (*document.Sheet, error) {
	content, err := parse("content.xml", parts["content.xml"])
	if err != nil {
		return nil, err
	}
	table := xmlquery.QuerySelector(content, firstTable)
	if table == nil {
		return nil, faults.Wrap(faults.ErrInvalidDocument, "read", "content.xml", "no table found", nil)
	}
	sheet := &document.Sheet{Name: attr(table, "table:name")}
	for _, tr := range xmlquery.QuerySelectorAll(table, tableRows) {
		row := readRow(tr)
		repeat := 1
		if v, err := strconv.Atoi(attr(tr, "table:number-rows-repeated")); err == nil && v > 1 {
			repeat = v
		}
		if len(row) == 0 {
			// Blank rows only matter when something follows them.
			repeat = min(repeat, maxRepeat)
		}
		for i := 0; i < repeat; i++ {
			sheet.Rows = append(sheet.Rows, row)
		}
	}
	for len(sheet.Rows) > 0 && len(sheet.Rows[len(sheet.Rows)-1]) == 0 {
		sheet.Rows = sheet.Rows[:len(sheet.Rows)-1]
	}
	return sheet, nil
}

// readRow returns the row's cells without trailing empty ones.
func readRow(tr *xmlquery.Node) []document.Cell {
	var cells []document.Cell
	for td := tr.FirstChild; td != nil; td = td.NextSibling {
		if !is(td, "table:table-cell") && !is(td, "table:covered-table-cell") {
			continue
		}
		cell := readCell(td)
		repeat := 1
		if v, err := strconv.Atoi(attr(td, "table:number-columns-repeated")); err == nil && v > 1 {
			repeat = v
		}
		if cell.Text == "" {
			repeat = min(repeat, maxRepeat)
		}
		for i := 0; i < repeat; i++ {
			cells = append(cells, cell)
		}
	}
	for len(cells) > 0 && cells[len(cells)-1].Text == "" {
		cells = cells[:len(cells)-1]
	}
	return cells
}

func readCell(td *xmlquery.Node) document.Cell {
	var (
		lines []string
		cell  document.Cell
	)
	for p := td.FirstChild; p != nil; p = p.NextSibling {
		if !is(p, "text:p") {
			continue
		}
		lines = append(lines, plainText(p))
		if a := descendant(p, "text:a"); a != nil && cell.Link == "" {
			cell.Link = attr(a, "xlink:href")
		}
	}
	cell.Text = strings.Join(lines, "\n")
	return cell
}
