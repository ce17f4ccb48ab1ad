package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// valueWidthMax keeps long pid file and log directory paths from stretching
// the table past a standard terminal; go-pretty wraps the cell instead.
const valueWidthMax = 72

// renderKV renders the two-column key/value tables the status and config
// surfaces print. Every burrow table is a property listing, so the value
// header is fixed and only the key header varies.
func renderKV(keyHeader string, rows [][2]string) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{keyHeader, "Value"})
	for _, row := range rows {
		tw.AppendRow(table.Row{row[0], row[1]})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 2, Align: text.AlignLeft, AlignHeader: text.AlignLeft, WidthMax: valueWidthMax},
	})
	return tw.Render()
}
