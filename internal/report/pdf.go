package report

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/nao1215/ivansreport/internal/model"
)

// PDF styling.
const (
	fontFamily    = "Helvetica"
	titleSize     = 16.0
	subtitleSize  = 9.0
	headerSize    = 9.0
	bodySize      = 8.5
	footerSize    = 8.0
	cellPadding   = 2.0
	ellipsis      = "..."
	borderNone    = ""
	borderBottom  = "B"
	alignLeft     = "L"
	alignCenter   = "C"
	lineBreakNone = 0
)

// rgb is a fill or text color.
type rgb struct{ r, g, b int }

var (
	headerFill = rgb{41, 65, 122}
	headerText = rgb{255, 255, 255}
	stripeFill = rgb{235, 240, 248}
	bodyText   = rgb{33, 33, 33}
	mutedText  = rgb{110, 110, 110}
)

// PDFWriter renders laid out report pages into a PDF document.
type PDFWriter struct {
	baseWriter

	// compress enables stream compression.
	compress bool
}

// PDFWriterOption configures a PDFWriter.
type PDFWriterOption func(*PDFWriter)

// WithCompression enables or disables PDF stream compression.
// Compression is on by default.
func WithCompression(compress bool) PDFWriterOption {
	return func(w *PDFWriter) {
		w.compress = compress
	}
}

// NewPDFWriter creates a PDFWriter that outputs to the given writer.
func NewPDFWriter(output io.Writer, opts ...PDFWriterOption) *PDFWriter {
	w := &PDFWriter{
		baseWriter: newBaseWriter(output),
		compress:   true,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write renders report.Pages and writes the PDF document.
// Any failure is reported as model.ErrRenderFailure.
func (w *PDFWriter) Write(report *Report) (int, error) {
	if len(report.Pages) == 0 {
		return 0, fmt.Errorf("%w: no pages to serialize", model.ErrRenderFailure)
	}
	if len(report.Layout.Widths) == 0 {
		return 0, fmt.Errorf("%w: no column layout", model.ErrRenderFailure)
	}

	g := report.Geometry
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: g.PageWidth, Ht: g.PageHeight},
	})
	pdf.SetCompression(w.compress)
	pdf.SetTitle(report.Title, true)
	pdf.SetSubject(report.Subject, true)
	pdf.SetCreator(report.Creator, true)
	if !report.GeneratedAt.IsZero() {
		pdf.SetCreationDate(report.GeneratedAt)
	}
	pdf.SetMargins(g.Margin, g.Margin, g.Margin)
	pdf.SetAutoPageBreak(false, 0)

	p := &pageRenderer{
		pdf:       pdf,
		tr:        pdf.UnicodeTranslatorFromDescriptor(""),
		report:    report,
		rowHeight: g.RowHeight,
	}
	for _, page := range report.Pages {
		p.render(page)
	}

	if err := pdf.Error(); err != nil {
		return 0, fmt.Errorf("%w: %v", model.ErrRenderFailure, err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return 0, fmt.Errorf("%w: %v", model.ErrRenderFailure, err)
	}
	return w.output.Write(buf.Bytes())
}

// pageRenderer draws pages onto one fpdf document.
type pageRenderer struct {
	pdf       *fpdf.Fpdf
	tr        func(string) string
	report    *Report
	rowHeight float64
}

// render draws one page: optional title bands, header band, body, footer.
func (p *pageRenderer) render(page model.ReportPage) {
	g := p.report.Geometry
	width := g.AvailableWidth()

	p.pdf.AddPage()
	p.pdf.SetXY(g.Margin, g.Margin)

	if page.ShowTitle {
		p.setText(bodyText)
		p.pdf.SetFont(fontFamily, "B", titleSize)
		p.pdf.CellFormat(width, g.TitleHeight, p.tr(page.Title), borderNone, 2, alignCenter, false, 0, "")
		p.setText(mutedText)
		p.pdf.SetFont(fontFamily, "", subtitleSize)
		p.pdf.CellFormat(width, g.SubtitleHeight, p.tr(page.Subtitle), borderNone, 2, alignCenter, false, 0, "")
	}

	p.pdf.SetFont(fontFamily, "B", headerSize)
	p.setFill(headerFill)
	p.setText(headerText)
	p.row(page.Headers, g.HeaderHeight, true)

	p.pdf.SetFont(fontFamily, "", bodySize)
	p.setText(bodyText)
	p.setFill(stripeFill)
	for _, body := range page.Body {
		p.row(body.Cells, p.rowHeight, body.Striped)
	}

	p.setText(mutedText)
	p.pdf.SetFont(fontFamily, "", footerSize)
	p.pdf.SetXY(g.Margin, g.PageHeight-g.Margin-g.FooterHeight)
	p.pdf.CellFormat(width, g.FooterHeight, page.Footer, borderNone, lineBreakNone, alignCenter, false, 0, "")
}

// row draws one line of cells and moves to the start of the next line.
func (p *pageRenderer) row(cells []string, height float64, fill bool) {
	x := p.report.Geometry.Margin
	widths := p.report.Layout.Widths
	for i, w := range widths {
		var text string
		if i < len(cells) {
			text = p.fit(cells[i], w-2*cellPadding)
		}
		p.pdf.CellFormat(w, height, text, borderBottom, lineBreakNone, alignLeft, fill, 0, "")
	}
	p.pdf.SetXY(x, p.pdf.GetY()+height)
}

// fit translates text to the PDF code page and shortens it with an
// ellipsis until it is at most width wide. The cut point is found by
// binary search over the rune prefix, so long cells cost O(n log n).
func (p *pageRenderer) fit(text string, width float64) string {
	if out := p.tr(text); p.pdf.GetStringWidth(out) <= width {
		return out
	}

	runes := []rune(text)
	clipped := func(n int) string {
		return p.tr(strings.TrimRight(string(runes[:n]), " ") + ellipsis)
	}

	// Largest prefix length whose clipped form fits; -1 if none does.
	lo, hi := 0, len(runes)-1
	best := -1
	for lo <= hi {
		mid := lo + (hi-lo)/2
		if p.pdf.GetStringWidth(clipped(mid)) <= width {
			best = mid
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	if best < 0 {
		return ""
	}
	return clipped(best)
}

func (p *pageRenderer) setFill(c rgb) {
	p.pdf.SetFillColor(c.r, c.g, c.b)
}

func (p *pageRenderer) setText(c rgb) {
	p.pdf.SetTextColor(c.r, c.g, c.b)
}
