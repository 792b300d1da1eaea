package report

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultPreviewRows is the number of data rows shown in a Markdown preview.
const DefaultPreviewRows = 20

// MarkdownWriter outputs a preview of the parsed table in Markdown format.
// The preview is meant for terminals and for pasting into CRM notes next to
// the attached PDF.
type MarkdownWriter struct {
	baseWriter

	// maxRows limits the number of data rows in the preview table.
	// Zero or negative means all rows.
	maxRows int
}

// MarkdownWriterOption configures a MarkdownWriter.
type MarkdownWriterOption func(*MarkdownWriter)

// WithMaxRows limits the number of previewed rows.
func WithMaxRows(n int) MarkdownWriterOption {
	return func(w *MarkdownWriter) {
		w.maxRows = n
	}
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer, opts ...MarkdownWriterOption) *MarkdownWriter {
	w := &MarkdownWriter{
		baseWriter: newBaseWriter(output),
		maxRows:    DefaultPreviewRows,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the table preview in Markdown format.
func (w *MarkdownWriter) Write(report *Report) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeTable(md, report)
	w.writeFooter(md, report)

	return len(md.String()), md.Build()
}

// writeHeader writes the preview title and the conversion properties.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *Report) {
	md.H1(report.Title)
	md.PlainText("")

	if heading := sourceHeading(report.SourceName); heading != "" {
		md.H2(heading)
		md.PlainText("")
	}

	rows := [][]string{
		{"Source File", "`" + report.SourceName + "`"},
		{"Generated", report.GeneratedAt.Format("2006-01-02 15:04:05 MST")},
		{"Encoding", report.Encoding},
		{"Delimiter", report.Delimiter.String()},
		{"Header Row", headerRowText(report)},
		{"Columns", strconv.Itoa(report.Table.ColumnCount())},
		{"Rows", strconv.Itoa(report.Table.RowCount())},
		{"Pages", strconv.Itoa(len(report.Pages))},
	}
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeTable writes the first rows of the table.
func (w *MarkdownWriter) writeTable(md *markdown.Markdown, report *Report) {
	md.H2("Data")
	md.PlainText("")

	rows := report.Table.Rows
	if w.maxRows > 0 && len(rows) > w.maxRows {
		rows = rows[:w.maxRows]
	}

	cells := make([][]string, len(rows))
	for i, row := range rows {
		cells[i] = make([]string, len(row))
		for j, v := range row {
			cells[i][j] = escapeCell(v)
		}
	}

	headers := make([]string, len(report.Table.Headers))
	for i, h := range report.Table.Headers {
		headers[i] = escapeCell(h)
	}

	md.Table(markdown.TableSet{
		Header: headers,
		Rows:   cells,
	})
	md.PlainText("")

	if hidden := report.Table.RowCount() - len(rows); hidden > 0 {
		md.Note(fmt.Sprintf("%d more row(s) are only in the PDF report.", hidden))
		md.PlainText("")
	}
}

// writeFooter writes the preview footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown, report *Report) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Full report: `%s`*", OutputFileName(report.SourceName))
}

// headerRowText describes where the column labels came from.
func headerRowText(report *Report) string {
	if report.Table.HeaderDetected {
		return "from file"
	}
	return "synthesized"
}

// escapeCell keeps cell values from breaking the Markdown table.
func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// sourceHeading turns a file name such as "policy_download_0412.dat" into
// "Policy Download 0412".
func sourceHeading(name string) string {
	stem := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	stem = strings.NewReplacer("_", " ", "-", " ", ".", " ").Replace(stem)
	stem = strings.Join(strings.Fields(stem), " ")
	if stem == "" {
		return ""
	}
	return cases.Title(language.English).String(stem)
}
