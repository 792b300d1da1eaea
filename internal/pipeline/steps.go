package pipeline

import (
	"fmt"
	"log/slog"

	"github.com/nao1215/ivansreport/internal/charset"
	"github.com/nao1215/ivansreport/internal/layout"
	"github.com/nao1215/ivansreport/internal/model"
	"github.com/nao1215/ivansreport/internal/parser"
	"github.com/nao1215/ivansreport/internal/report"
)

// Step names recorded in model.Conversion.PerformedSteps.
const (
	StepDecode  = "decode"
	StepParse   = "parse"
	StepLayout  = "layout"
	StepPackage = "package"
)

// DecodeStep turns the raw bytes of the document into text.
type DecodeStep struct {
	// hint is the encoding tried first when the document has no hint of
	// its own.
	hint string

	logger *slog.Logger
}

// NewDecodeStep creates a decode step with a default encoding hint.
// An empty hint means UTF-8 with Windows-1252 fallback.
func NewDecodeStep(hint string, logger *slog.Logger) *DecodeStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &DecodeStep{hint: hint, logger: logger}
}

// Name returns the step name.
func (s *DecodeStep) Name() string {
	return StepDecode
}

// Do executes the decode step.
func (s *DecodeStep) Do(conv *model.Conversion) error {
	if conv.Raw == nil {
		return fmt.Errorf("%s: %w", StepDecode, ErrMissingInput)
	}

	hint := conv.Raw.EncodingHint
	if hint == "" {
		hint = s.hint
	}
	if hint != "" && !charset.KnownEncoding(hint) {
		s.logger.Warn("ignoring unknown encoding hint",
			"hint", hint,
			"source", conv.Raw.Name,
		)
	}

	decoded, err := charset.Decode(conv.Raw.Data, hint)
	if err != nil {
		return fmt.Errorf("decode %s: %w", conv.Raw.Name, err)
	}
	conv.Decoded = &decoded

	s.logger.Debug("decoded document",
		"source", conv.Raw.Name,
		"encoding", decoded.Encoding,
		"bytes", conv.Raw.Size(),
	)
	return nil
}

// ParseStep infers the delimiter and builds the table.
type ParseStep struct {
	parser *parser.Parser
	logger *slog.Logger
}

// NewParseStep creates a parse step. A nil parser means parser.New().
func NewParseStep(p *parser.Parser, logger *slog.Logger) *ParseStep {
	if p == nil {
		p = parser.New()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ParseStep{parser: p, logger: logger}
}

// Name returns the step name.
func (s *ParseStep) Name() string {
	return StepParse
}

// Do executes the parse step.
func (s *ParseStep) Do(conv *model.Conversion) error {
	if conv.Decoded == nil {
		return fmt.Errorf("%s: %w", StepParse, ErrMissingInput)
	}

	result, err := s.parser.Parse(conv.Decoded.Text)
	if err != nil {
		return fmt.Errorf("parse %s: %w", sourceName(conv), err)
	}
	conv.Delimiter = &result.Delimiter
	conv.Table = result.Table

	s.logger.Debug("parsed document",
		"source", sourceName(conv),
		"delimiter", result.Delimiter.String(),
		"header_detected", result.Table.HeaderDetected,
		"column_count", result.Table.ColumnCount(),
		"row_count", result.Table.RowCount(),
	)
	return nil
}

// LayoutStep allocates column widths and paginates the table.
type LayoutStep struct {
	geometry layout.Geometry

	// title is used when the conversion carries no title of its own.
	title string
}

// NewLayoutStep creates a layout step. An empty title means
// report.DefaultTitle.
func NewLayoutStep(g layout.Geometry, title string) *LayoutStep {
	if title == "" {
		title = report.DefaultTitle
	}
	return &LayoutStep{geometry: g, title: title}
}

// Name returns the step name.
func (s *LayoutStep) Name() string {
	return StepLayout
}

// Do executes the layout step.
func (s *LayoutStep) Do(conv *model.Conversion) error {
	if conv.Table == nil {
		return fmt.Errorf("%s: %w", StepLayout, ErrMissingInput)
	}
	if conv.Title == "" {
		conv.Title = s.title
	}

	columns, pages, err := layout.Render(conv.Table, s.geometry, conv.Title, conv.GeneratedAt)
	if err != nil {
		return fmt.Errorf("layout %s: %w", sourceName(conv), err)
	}
	conv.Layout = &columns
	conv.Pages = pages
	return nil
}

// PackageStep serializes the laid out pages into the PDF artifact.
type PackageStep struct {
	packager *report.Packager
	geometry layout.Geometry
	subject  string
}

// NewPackageStep creates a package step. A nil packager means
// report.NewPackager().
func NewPackageStep(packager *report.Packager, g layout.Geometry, subject string) *PackageStep {
	if packager == nil {
		packager = report.NewPackager()
	}
	return &PackageStep{packager: packager, geometry: g, subject: subject}
}

// Name returns the step name.
func (s *PackageStep) Name() string {
	return StepPackage
}

// Do executes the package step.
func (s *PackageStep) Do(conv *model.Conversion) error {
	if conv.Layout == nil || len(conv.Pages) == 0 {
		return fmt.Errorf("%s: %w", StepPackage, ErrMissingInput)
	}

	artifact, err := s.packager.Package(report.NewReport(conv, s.geometry, s.subject))
	if err != nil {
		return fmt.Errorf("package %s: %w", sourceName(conv), err)
	}
	conv.Artifact = artifact
	return nil
}

// Settings configures the steps of a conversion pipeline.
type Settings struct {
	// Title is the report title. Empty means report.DefaultTitle.
	Title string

	// Subject is the document subject. Empty means report.DefaultSubject.
	Subject string

	// EncodingHint is tried before UTF-8 detection. Empty means none.
	EncodingHint string

	// Geometry is the page geometry.
	Geometry layout.Geometry

	// Parser parses decoded text. Nil means parser.New().
	Parser *parser.Parser

	// Packager builds the artifact. Nil means report.NewPackager().
	Packager *report.Packager
}

// DefaultSettings returns settings with the default geometry and titles.
func DefaultSettings() Settings {
	return Settings{
		Geometry: layout.DefaultGeometry(),
	}
}

// NewConversionPipeline creates a pipeline with the decode, parse, layout
// and package steps configured by s.
func NewConversionPipeline(s Settings, opts ...Option) *Pipeline {
	p := New(opts...)
	p.AddSteps(
		NewDecodeStep(s.EncodingHint, p.logger),
		NewParseStep(s.Parser, p.logger),
		NewLayoutStep(s.Geometry, s.Title),
		NewPackageStep(s.Packager, s.Geometry, s.Subject),
	)
	return p
}

// Convert runs a full conversion of raw and returns its state.
// On failure the returned conversion holds the error and no artifact.
func Convert(raw *model.RawDocument, s Settings, opts ...Option) (*model.Conversion, error) {
	conv := model.NewConversion(raw, s.Title)
	if err := NewConversionPipeline(s, opts...).Execute(conv); err != nil {
		return conv, err
	}
	return conv, nil
}
