package parser

import (
	"math"
	"strconv"

	"github.com/nao1215/ivansreport/internal/model"
)

// SyntheticHeader returns the labels "Field 1" through "Field n".
func SyntheticHeader(n int) []string {
	headers := make([]string, n)
	for i := range headers {
		headers[i] = fieldLabel(i + 1)
	}
	return headers
}

// fieldLabel returns the synthetic label of the 1-based column n.
func fieldLabel(n int) string {
	return "Field " + strconv.Itoa(n)
}

// IsNumeric reports whether s parses as a number.
// NaN and the spelled out infinities ("Inf", "Infinity") are words here,
// so a column labelled INF still reads as a header.
func IsNumeric(s string) bool {
	f, err := strconv.ParseFloat(s, 64)
	return err == nil && !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Classify decides whether the first row is a header.
//
// If every field of the first row is non-numeric, that row becomes the
// header and the remaining rows are the data. Otherwise the header is
// synthesized with one label per column of the widest row, and every row,
// including the first, is data.
func Classify(rows []model.TokenRow) (headers []string, data []model.TokenRow, detected bool) {
	if len(rows) == 0 {
		return nil, nil, false
	}

	first := rows[0]
	if isHeaderRow(first) {
		return append([]string(nil), first...), rows[1:], true
	}
	return SyntheticHeader(maxWidth(rows)), rows, false
}

// isHeaderRow reports whether no field of row is numeric.
func isHeaderRow(row model.TokenRow) bool {
	for _, field := range row {
		if IsNumeric(field) {
			return false
		}
	}
	return len(row) > 0
}

// maxWidth returns the field count of the widest row.
func maxWidth(rows []model.TokenRow) int {
	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}
	return width
}
