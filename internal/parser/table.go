package parser

import (
	"fmt"

	"github.com/nao1215/ivansreport/internal/model"
)

// BuildTable assembles a ParsedTable from the classified header and rows.
//
// The column count is the larger of the header width and the widest data
// row. Short rows are padded with empty cells. When data rows are wider
// than a detected header, the extra columns are labelled "Field K" so that
// no value is dropped.
//
// BuildTable returns model.ErrNoDataRowsFound when rows is empty.
func BuildTable(headers []string, rows []model.TokenRow, detected bool) (*model.ParsedTable, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %d header field(s), 0 data rows", model.ErrNoDataRowsFound, len(headers))
	}

	columns := max(len(headers), maxWidth(rows))

	labels := make([]string, columns)
	copy(labels, headers)
	for i := len(headers); i < columns; i++ {
		labels[i] = fieldLabel(i + 1)
	}

	table := &model.ParsedTable{
		Headers:        labels,
		Rows:           make([]model.Row, len(rows)),
		HeaderDetected: detected,
	}
	for i, tokens := range rows {
		row := make(model.Row, columns)
		copy(row, tokens)
		table.Rows[i] = row
	}
	return table, nil
}
