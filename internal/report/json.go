package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/nao1215/ivansreport/internal/model"
)

// JSONWriter outputs the parsed table and conversion metadata in JSON.
// This format is designed for tool integration and programmatic processing.
type JSONWriter struct {
	baseWriter

	// indentString is the indentation string; empty means compact output.
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithPrettyPrint enables pretty-printed JSON with two space indentation.
func WithPrettyPrint() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indentString = "  "
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// JSONReport is the JSON document written by JSONWriter.
type JSONReport struct {
	Source      string             `json:"source"`
	Output      string             `json:"output"`
	Title       string             `json:"title"`
	GeneratedAt time.Time          `json:"generatedAt"`
	Encoding    string             `json:"encoding"`
	Delimiter   string             `json:"delimiter"`
	Pages       int                `json:"pages"`
	Widths      []float64          `json:"columnWidths"`
	Table       *model.ParsedTable `json:"table"`
}

// NewJSONReport creates the JSON document for report.
func NewJSONReport(report *Report) *JSONReport {
	return &JSONReport{
		Source:      report.SourceName,
		Output:      OutputFileName(report.SourceName),
		Title:       report.Title,
		GeneratedAt: report.GeneratedAt,
		Encoding:    report.Encoding,
		Delimiter:   report.Delimiter.String(),
		Pages:       len(report.Pages),
		Widths:      report.Layout.Widths,
		Table:       report.Table,
	}
}

// Write outputs the report in JSON format.
func (w *JSONWriter) Write(report *Report) (int, error) {
	var data []byte
	var err error

	doc := NewJSONReport(report)
	if w.indentString != "" {
		data, err = json.MarshalIndent(doc, "", w.indentString)
	} else {
		data, err = json.Marshal(doc)
	}
	if err != nil {
		return 0, err
	}

	// Add trailing newline for better terminal output
	data = append(data, '\n')

	return w.output.Write(data)
}
