package model

// TokenRow is the ordered list of trimmed, non-empty fields of one line.
// Rows of the same document may have different lengths.
type TokenRow []string

// Row is a fixed-arity table row.
// Every Row of a ParsedTable has exactly ColumnCount cells; missing
// trailing fields are stored as empty strings.
type Row []string

// ParsedTable is the normalized tabular form of a carrier export file.
type ParsedTable struct {
	// Headers are the column labels in display order.
	// Labels are not required to be unique.
	Headers []string `json:"headers"`

	// Rows are the data rows. The table is never built with zero rows.
	Rows []Row `json:"rows"`

	// HeaderDetected reports whether Headers came from the file itself
	// rather than being synthesized as "Field N".
	HeaderDetected bool `json:"headerDetected"`
}

// ColumnCount returns the number of columns in the table.
func (t *ParsedTable) ColumnCount() int {
	return len(t.Headers)
}

// RowCount returns the number of data rows in the table.
func (t *ParsedTable) RowCount() int {
	return len(t.Rows)
}

// Column returns the header label and every value of column i.
func (t *ParsedTable) Column(i int) (string, []string) {
	values := make([]string, len(t.Rows))
	for r, row := range t.Rows {
		values[r] = row[i]
	}
	return t.Headers[i], values
}

// ColumnLayout holds the display width of every column of a table.
type ColumnLayout struct {
	// Widths has one entry per header, in page units.
	Widths []float64

	// Available is the printable width the widths were fitted into.
	Available float64
}

// Total returns the sum of all column widths.
func (l ColumnLayout) Total() float64 {
	var total float64
	for _, w := range l.Widths {
		total += w
	}
	return total
}
