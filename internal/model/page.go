package model

import "fmt"

// ReportPage is one page of the rendered report.
type ReportPage struct {
	// Number is the 1-based page number.
	Number int

	// Title is the report title. It is only drawn when ShowTitle is set.
	Title string

	// Subtitle is the "Generated at ..." line drawn below the title.
	Subtitle string

	// ShowTitle is true for the first page only.
	ShowTitle bool

	// Headers is the column header band repeated on every page.
	Headers []string

	// Body holds the data rows assigned to this page, top to bottom.
	Body []BodyRow

	// Footer is the "Page X of N" text. It is empty until the footers are
	// stamped after every page has been laid out.
	Footer string
}

// BodyRow is a data row placed on a page.
type BodyRow struct {
	// Index is the position of the row in the table, starting at 0.
	Index int

	// Cells are the row values, one per column.
	Cells Row

	// Striped marks rows drawn with the alternate background.
	Striped bool
}

// FooterText returns the footer for page number of total pages.
func FooterText(number, total int) string {
	return fmt.Sprintf("Page %d of %d", number, total)
}
