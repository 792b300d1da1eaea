package layout

import (
	"fmt"

	"github.com/mattn/go-runewidth"

	"github.com/nao1215/ivansreport/internal/model"
)

// AllocateColumns computes the display width of every column of table.
//
// Each column is as wide as its widest value, header included, measured in
// display cells and multiplied by g.CharWidth. The result is clamped into
// [g.MinColumnWidth, available/columns]. When the equal share is narrower
// than the minimum, the share wins so the total never exceeds the
// printable width.
func AllocateColumns(table *model.ParsedTable, g Geometry) (model.ColumnLayout, error) {
	available := g.AvailableWidth()
	if available <= 0 {
		return model.ColumnLayout{}, fmt.Errorf("%w: no printable width (page %.1f, margin %.1f)",
			model.ErrRenderFailure, g.PageWidth, g.Margin)
	}

	columns := table.ColumnCount()
	if columns == 0 {
		return model.ColumnLayout{}, fmt.Errorf("%w: table has no columns", model.ErrRenderFailure)
	}

	share := available / float64(columns)
	floor := min(g.MinColumnWidth, share)

	widths := make([]float64, columns)
	for i := range widths {
		header, values := table.Column(i)
		width := float64(maxDisplayWidth(header, values)) * g.CharWidth
		width = min(max(width, floor), share)
		if width <= 0 {
			return model.ColumnLayout{}, fmt.Errorf("%w: column %d (%q) resolves to width %.2f",
				model.ErrRenderFailure, i+1, header, width)
		}
		widths[i] = width
	}

	return model.ColumnLayout{Widths: widths, Available: available}, nil
}

// maxDisplayWidth returns the widest display width among header and values.
func maxDisplayWidth(header string, values []string) int {
	widest := runewidth.StringWidth(header)
	for _, v := range values {
		widest = max(widest, runewidth.StringWidth(v))
	}
	return widest
}
