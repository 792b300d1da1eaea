package layout

import (
	"fmt"
	"strings"

	"github.com/nao1215/ivansreport/internal/model"
)

// Default page geometry in PDF points (1/72 inch) for US Letter landscape.
const (
	// DefaultPageWidth is the width of a landscape Letter page.
	DefaultPageWidth = 792.0

	// DefaultPageHeight is the height of a landscape Letter page.
	DefaultPageHeight = 612.0

	// DefaultMargin is applied on every side of the page.
	DefaultMargin = 36.0

	// DefaultMinColumnWidth is the narrowest column drawn.
	DefaultMinColumnWidth = 40.0

	// DefaultCharWidth approximates one character of 9pt Helvetica.
	DefaultCharWidth = 5.5

	// DefaultTitleHeight is the height of the title band.
	DefaultTitleHeight = 26.0

	// DefaultSubtitleHeight is the height of the "Generated at" band.
	DefaultSubtitleHeight = 18.0

	// DefaultHeaderHeight is the height of the column header band.
	DefaultHeaderHeight = 18.0

	// DefaultRowHeight is the height of one body row.
	DefaultRowHeight = 15.0

	// DefaultFooterHeight is reserved at the bottom for the page footer.
	DefaultFooterHeight = 20.0
)

// Geometry describes the page and the fixed bands drawn on it.
// All values are in the same unit, PDF points by default.
type Geometry struct {
	PageWidth      float64 `yaml:"pageWidth"`
	PageHeight     float64 `yaml:"pageHeight"`
	Margin         float64 `yaml:"margin"`
	MinColumnWidth float64 `yaml:"minColumnWidth"`
	CharWidth      float64 `yaml:"charWidth"`
	TitleHeight    float64 `yaml:"titleHeight"`
	SubtitleHeight float64 `yaml:"subtitleHeight"`
	HeaderHeight   float64 `yaml:"headerHeight"`
	RowHeight      float64 `yaml:"rowHeight"`
	FooterHeight   float64 `yaml:"footerHeight"`
}

// DefaultGeometry returns the landscape Letter geometry.
func DefaultGeometry() Geometry {
	return Geometry{
		PageWidth:      DefaultPageWidth,
		PageHeight:     DefaultPageHeight,
		Margin:         DefaultMargin,
		MinColumnWidth: DefaultMinColumnWidth,
		CharWidth:      DefaultCharWidth,
		TitleHeight:    DefaultTitleHeight,
		SubtitleHeight: DefaultSubtitleHeight,
		HeaderHeight:   DefaultHeaderHeight,
		RowHeight:      DefaultRowHeight,
		FooterHeight:   DefaultFooterHeight,
	}
}

// AvailableWidth returns the printable width between the side margins.
func (g Geometry) AvailableWidth() float64 {
	return g.PageWidth - 2*g.Margin
}

// firstBodyTop returns the y position of the first body row on page one.
func (g Geometry) firstBodyTop() float64 {
	return g.Margin + g.TitleHeight + g.SubtitleHeight + g.HeaderHeight
}

// bodyTop returns the y position of the first body row on later pages.
func (g Geometry) bodyTop() float64 {
	return g.Margin + g.HeaderHeight
}

// bodyBottom returns the lowest y a body row may reach.
func (g Geometry) bodyBottom() float64 {
	return g.PageHeight - g.Margin - g.FooterHeight
}

// RowsPerPage returns how many body rows fit on the first and on every
// following page.
func (g Geometry) RowsPerPage() (first, rest int) {
	if g.RowHeight <= 0 {
		return 0, 0
	}
	first = int((g.bodyBottom() - g.firstBodyTop()) / g.RowHeight)
	rest = int((g.bodyBottom() - g.bodyTop()) / g.RowHeight)
	return max(first, 0), max(rest, 0)
}

// Validate reports geometry that cannot hold a single row.
func (g Geometry) Validate() error {
	if g.PageWidth <= 0 || g.PageHeight <= 0 {
		return fmt.Errorf("%w: page size %.1fx%.1f must be positive", model.ErrRenderFailure, g.PageWidth, g.PageHeight)
	}
	if g.AvailableWidth() <= 0 {
		return fmt.Errorf("%w: margins %.1f leave no printable width on a %.1f wide page",
			model.ErrRenderFailure, g.Margin, g.PageWidth)
	}
	if g.RowHeight <= 0 {
		return fmt.Errorf("%w: row height %.1f must be positive", model.ErrRenderFailure, g.RowHeight)
	}
	if first, rest := g.RowsPerPage(); first < 1 || rest < 1 {
		return fmt.Errorf("%w: page height %.1f fits no body row", model.ErrRenderFailure, g.PageHeight)
	}
	return nil
}

// pageSizes maps paper names to portrait dimensions in points.
var pageSizes = map[string][2]float64{
	"letter": {612, 792},
	"legal":  {612, 1008},
	"a4":     {595.28, 841.89},
}

// NamedPageSize returns the dimensions of a paper size such as "letter",
// "legal" or "a4". Names are case-insensitive.
func NamedPageSize(name string, landscape bool) (width, height float64, ok bool) {
	size, ok := pageSizes[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, 0, false
	}
	if landscape {
		return size[1], size[0], true
	}
	return size[0], size[1], true
}
