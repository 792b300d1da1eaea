package report

import (
	"io"
	"time"

	"github.com/nao1215/ivansreport/internal/layout"
	"github.com/nao1215/ivansreport/internal/model"
)

// Report metadata written into every PDF.
const (
	// DefaultTitle is the report title drawn on the first page.
	DefaultTitle = "IVANS Download Report"

	// DefaultSubject is the document subject metadata.
	DefaultSubject = "Carrier export data"

	// Creator is the product name recorded as the document creator.
	Creator = "ivansreport"
)

// Report is everything a Writer needs to render one conversion.
type Report struct {
	// SourceName is the file name of the converted carrier export.
	SourceName string

	// Title, Subject and Creator are the document metadata.
	Title   string
	Subject string
	Creator string

	// GeneratedAt is the conversion timestamp.
	GeneratedAt time.Time

	// Encoding and Delimiter describe how the source was read.
	Encoding  string
	Delimiter model.Delimiter

	// Table is the parsed source.
	Table *model.ParsedTable

	// Layout and Pages are the laid out report.
	Layout model.ColumnLayout
	Pages  []model.ReportPage

	// Geometry is the page geometry Layout and Pages were computed with.
	Geometry layout.Geometry
}

// NewReport creates a Report from a conversion that has been laid out.
func NewReport(conv *model.Conversion, g layout.Geometry, subject string) *Report {
	r := &Report{
		Title:       conv.Title,
		Subject:     subject,
		Creator:     Creator,
		GeneratedAt: conv.GeneratedAt,
		Table:       conv.Table,
		Pages:       conv.Pages,
		Geometry:    g,
	}
	if conv.Raw != nil {
		r.SourceName = conv.Raw.Name
	}
	if conv.Decoded != nil {
		r.Encoding = conv.Decoded.Encoding
	}
	if conv.Delimiter != nil {
		r.Delimiter = *conv.Delimiter
	}
	if conv.Layout != nil {
		r.Layout = *conv.Layout
	}
	if r.Title == "" {
		r.Title = DefaultTitle
	}
	if r.Subject == "" {
		r.Subject = DefaultSubject
	}
	return r
}

// Writer defines the interface for report output.
// Implementations write a conversion in one format.
type Writer interface {
	// Write outputs the report to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(report *Report) (int, error)
}

// MultiWriter writes to multiple Writers in order.
// This is useful for writing a PDF file and a terminal summary together.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the report to all configured Writers.
// Returns the total bytes written across all writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(report *Report) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(report)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
