package layout

import (
	"fmt"
	"time"

	"github.com/nao1215/ivansreport/internal/model"
)

// TimestampFormat is the layout of the "Generated at" timestamp.
const TimestampFormat = "2006-01-02 15:04:05 MST"

// Subtitle returns the "Generated at" line for generatedAt.
func Subtitle(generatedAt time.Time) string {
	return "Generated at " + generatedAt.Format(TimestampFormat)
}

// LayoutPages assigns the rows of table to pages.
//
// The first page carries the title and subtitle bands; every page repeats
// the column headers. Rows are striped by their table index. Footers are
// left empty; call StampFooters once all pages exist.
func LayoutPages(table *model.ParsedTable, columns model.ColumnLayout, g Geometry, title string, generatedAt time.Time) ([]model.ReportPage, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if table.RowCount() == 0 {
		return nil, fmt.Errorf("%w: table has no rows", model.ErrRenderFailure)
	}
	if len(columns.Widths) != table.ColumnCount() {
		return nil, fmt.Errorf("%w: %d column widths for %d columns",
			model.ErrRenderFailure, len(columns.Widths), table.ColumnCount())
	}

	firstCapacity, capacity := g.RowsPerPage()
	subtitle := Subtitle(generatedAt)

	var pages []model.ReportPage
	page := newPage(1, table.Headers, firstCapacity)
	page.Title = title
	page.Subtitle = subtitle
	page.ShowTitle = true
	room := firstCapacity

	for i, row := range table.Rows {
		if room == 0 {
			pages = append(pages, page)
			page = newPage(len(pages)+1, table.Headers, capacity)
			room = capacity
		}
		page.Body = append(page.Body, model.BodyRow{
			Index:   i,
			Cells:   row,
			Striped: i%2 == 1,
		})
		room--
	}
	pages = append(pages, page)

	return pages, nil
}

// newPage creates an empty page with room for capacity rows.
func newPage(number int, headers []string, capacity int) model.ReportPage {
	return model.ReportPage{
		Number:  number,
		Headers: headers,
		Body:    make([]model.BodyRow, 0, capacity),
	}
}

// StampFooters returns a copy of pages with "Page X of N" footers, where N
// is len(pages). Page numbers are reassigned from the slice order.
func StampFooters(pages []model.ReportPage) []model.ReportPage {
	stamped := make([]model.ReportPage, len(pages))
	for i, page := range pages {
		page.Number = i + 1
		page.Footer = model.FooterText(i+1, len(pages))
		stamped[i] = page
	}
	return stamped
}

// Render allocates the columns of table, lays out its pages and stamps the
// footers.
func Render(table *model.ParsedTable, g Geometry, title string, generatedAt time.Time) (model.ColumnLayout, []model.ReportPage, error) {
	columns, err := AllocateColumns(table, g)
	if err != nil {
		return model.ColumnLayout{}, nil, err
	}

	pages, err := LayoutPages(table, columns, g, title, generatedAt)
	if err != nil {
		return model.ColumnLayout{}, nil, err
	}

	return columns, StampFooters(pages), nil
}
