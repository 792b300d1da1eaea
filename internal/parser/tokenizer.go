package parser

import (
	"strings"

	"github.com/nao1215/ivansreport/internal/model"
)

// lineBreaks normalizes CRLF and lone CR line endings to LF.
var lineBreaks = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// Lines returns the non-blank lines of text in order.
// Blank means empty or consisting only of whitespace.
func Lines(text string) []string {
	var lines []string
	for _, line := range strings.Split(lineBreaks.Replace(text), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// SplitLine splits one line with d, trims every field and drops fields that
// are empty after trimming.
func SplitLine(line string, d model.Delimiter) model.TokenRow {
	var parts []string
	switch d.Kind {
	case model.DelimiterWhitespaceRun:
		parts = whitespaceRun.Split(line, -1)
	default:
		parts = strings.Split(line, d.Token)
	}

	row := make(model.TokenRow, 0, len(parts))
	for _, part := range parts {
		if field := strings.TrimSpace(part); field != "" {
			row = append(row, field)
		}
	}
	return row
}

// Tokenize splits text into rows using d.
// Rows keep the order of their lines; lines without any field are dropped.
func Tokenize(text string, d model.Delimiter) []model.TokenRow {
	lines := Lines(text)
	rows := make([]model.TokenRow, 0, len(lines))
	for _, line := range lines {
		if row := SplitLine(line, d); len(row) > 0 {
			rows = append(rows, row)
		}
	}
	return rows
}
