package report

import (
	"fmt"
	"io"
	"strings"
)

// SimpleWriter outputs a human-readable conversion summary for terminals.
type SimpleWriter struct {
	baseWriter

	// verbose adds the column layout to the summary.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the conversion summary in human-readable format.
func (w *SimpleWriter) Write(report *Report) (int, error) {
	var sb strings.Builder

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "Source:     %s\n", report.SourceName)
	fmt.Fprintf(&sb, "Report:     %s\n", OutputFileName(report.SourceName))
	fmt.Fprintf(&sb, "Encoding:   %s\n", report.Encoding)
	fmt.Fprintf(&sb, "Delimiter:  %s\n", report.Delimiter)
	fmt.Fprintf(&sb, "Header row: %s\n", headerRowText(report))
	fmt.Fprintf(&sb, "Columns:    %d\n", report.Table.ColumnCount())
	fmt.Fprintf(&sb, "Rows:       %d\n", report.Table.RowCount())
	fmt.Fprintf(&sb, "Pages:      %d\n", len(report.Pages))

	if w.verbose {
		sb.WriteString("\nColumns:\n")
		for i, header := range report.Table.Headers {
			var width float64
			if i < len(report.Layout.Widths) {
				width = report.Layout.Widths[i]
			}
			fmt.Fprintf(&sb, "  [%2d] %-30s %6.1fpt\n", i+1, header, width)
		}
	}

	return w.output.Write([]byte(sb.String()))
}
