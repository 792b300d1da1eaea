package model

import "time"

// Conversion carries the state of one pipeline invocation from the raw
// document to the finished artifact. Each step fills in its own fields.
// A Conversion is owned by a single goroutine and never shared.
type Conversion struct {
	// Raw is the input document.
	Raw *RawDocument

	// Title is the report title drawn on the first page.
	Title string

	// GeneratedAt is the timestamp printed below the title.
	GeneratedAt time.Time

	// Decoded is set by the decode step.
	Decoded *DecodedText

	// Delimiter is set by the parse step.
	Delimiter *Delimiter

	// Table is set by the parse step.
	Table *ParsedTable

	// Layout is set by the layout step.
	Layout *ColumnLayout

	// Pages are set by the layout step, footers already stamped.
	Pages []ReportPage

	// Artifact is set by the package step.
	Artifact *ReportArtifact

	// PerformedSteps lists the names of the steps that completed.
	PerformedSteps []string

	// Err is the error that stopped the conversion, if any.
	Err error
}

// NewConversion creates a Conversion for raw, stamped with the current time.
func NewConversion(raw *RawDocument, title string) *Conversion {
	return &Conversion{
		Raw:         raw,
		Title:       title,
		GeneratedAt: time.Now(),
	}
}

// Succeeded reports whether the conversion produced an artifact.
func (c *Conversion) Succeeded() bool {
	return c.Err == nil && c.Artifact != nil
}

// ErrorKind returns the classification of the conversion error.
func (c *Conversion) ErrorKind() ErrorKind {
	return KindOf(c.Err)
}
