package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Wrap widths for free-text columns. Identifiers, counts and flags never
// wrap.
const (
	wrapMessage = 60
	wrapList    = 48
)

type column struct {
	title string
	align text.Align
	wrap  int
	// paint colors a cell by its content; nil leaves cells plain.
	paint func(string) string
}

func textColumn(title string) column {
	return column{title: title, align: text.AlignLeft}
}

func countColumn(title string) column {
	return column{title: title, align: text.AlignRight}
}

func wrappedColumn(title string, width int) column {
	return column{title: title, align: text.AlignLeft, wrap: width}
}

// renderTable draws rows under columns. Short rows are padded with empty
// cells.
func renderTable(columns []column, rows [][]string) string {
	if len(columns) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(columns))
	configs := make([]table.ColumnConfig, len(columns))
	for i, c := range columns {
		header[i] = c.title
		configs[i] = table.ColumnConfig{
			Number:      i + 1,
			Align:       c.align,
			AlignHeader: text.AlignLeft,
			WidthMax:    c.wrap,
		}
		if paint := c.paint; paint != nil {
			configs[i].Transformer = func(v any) string {
				s, _ := v.(string)
				return paint(s)
			}
		}
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, len(columns))
		for i := range r {
			r[i] = ""
			if i < len(row) {
				r[i] = row[i]
			}
		}
		tw.AppendRow(r)
	}
	tw.SetColumnConfigs(configs)
	return tw.Render()
}
