package output

import (
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
	"golang.org/x/term"
)

const defaultTermWidth = 80

// TerminalWidth returns the column count of the terminal behind w. Buffers,
// pipes and files report defaultTermWidth.
func TerminalWidth(w io.Writer) int {
	type fder interface{ Fd() uintptr }
	if f, ok := w.(fder); ok {
		width, _, err := term.GetSize(int(f.Fd())) //nolint:gosec // file descriptors fit in int
		if err == nil && width > 0 {
			return width
		}
	}
	return defaultTermWidth
}

// NewGroupedWrappingTable returns a tablewriter that merges repeated cells of
// the leading columns, so the tags of one record share a single record cell.
// Rows are separated by lines and long values such as a p= key wrap to the
// terminal. minWidth and overhead behave as in NewWrappingTable.
func NewGroupedWrappingTable(w io.Writer, minWidth, overhead int) *tablewriter.Table {
	maxColWidth := max(minWidth, TerminalWidth(w)-overhead)
	return tablewriter.NewTable(w,
		tablewriter.WithRenderer(renderer.NewBlueprint(tw.Rendition{
			Settings: tw.Settings{
				Separators: tw.Separators{BetweenRows: tw.On},
			},
		})),
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting:   tw.CellFormatting{MergeMode: tw.MergeHierarchical, AutoWrap: tw.WrapNormal},
				ColMaxWidths: tw.CellWidth{Global: maxColWidth},
			},
		}),
	)
}

// NewWrappingTable returns a tablewriter whose cells wrap at
// TerminalWidth(w)-overhead columns, but never below minWidth.
func NewWrappingTable(w io.Writer, minWidth, overhead int) *tablewriter.Table {
	maxColWidth := max(minWidth, TerminalWidth(w)-overhead)
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting:   tw.CellFormatting{AutoWrap: tw.WrapNormal},
				ColMaxWidths: tw.CellWidth{Global: maxColWidth},
			},
		}),
	)
}
