package main

import (
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
)

// renderFrameTable lays out recognized frames one row per frame. Pass-through
// frames show their raw text in the METHOD column.
func renderFrameTable(frames []frame) string {
	tw := table.NewWriter()
	if isatty.IsTerminal(os.Stdout.Fd()) {
		tw.SetStyle(table.StyleRounded)
	} else {
		tw.SetStyle(table.StyleDefault)
	}

	tw.AppendHeader(table.Row{"#", "METHOD", "LOCATION", "INTERNAL", "GRAMMAR"})
	for i, f := range frames {
		method, location, name := f.method, f.location, f.grammar
		if f.grammar == "" {
			method, location, name = f.raw, "", "-"
		}
		internal := ""
		if f.internal {
			internal = "yes"
		}
		tw.AppendRow(table.Row{i, method, location, internal, name})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}
