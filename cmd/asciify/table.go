package main

import (
	"slices"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

type tableSpec struct {
	title        string
	rightAligned []int
}

type tableOption func(*tableSpec)

// withTitle renders title above the header row.
func withTitle(title string) tableOption {
	return func(s *tableSpec) { s.title = title }
}

// withRightAligned right-aligns the given 1-based columns.
func withRightAligned(columns ...int) tableOption {
	return func(s *tableSpec) { s.rightAligned = append(s.rightAligned, columns...) }
}

// renderTable lays rows out under headers. Short rows are padded; cells past
// the header count are dropped.
func renderTable(headers []string, rows [][]string, opts ...tableOption) string {
	if len(headers) == 0 {
		return ""
	}
	var spec tableSpec
	for _, opt := range opts {
		opt(&spec)
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	if spec.title != "" {
		tw.SetTitle(spec.title)
	}
	tw.AppendHeader(toRow(headers, len(headers)))
	for _, row := range rows {
		tw.AppendRow(toRow(row, len(headers)))
	}

	configs := make([]table.ColumnConfig, len(headers))
	for i := range headers {
		align := text.AlignLeft
		if slices.Contains(spec.rightAligned, i+1) {
			align = text.AlignRight
		}
		configs[i] = table.ColumnConfig{Number: i + 1, Align: align, AlignHeader: text.AlignLeft}
	}
	tw.SetColumnConfigs(configs)
	return tw.Render()
}

func toRow(cells []string, width int) table.Row {
	row := make(table.Row, width)
	for i := range row {
		if i < len(cells) {
			row[i] = cells[i]
		} else {
			row[i] = ""
		}
	}
	return row
}
