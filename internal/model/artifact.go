package model

import (
	"bytes"
)

// MIMETypePDF is the media type of rendered report artifacts.
const MIMETypePDF = "application/pdf"

// ReportArtifact is the serialized report handed back to the caller.
// The core does not retain it after returning.
type ReportArtifact struct {
	// ID uniquely identifies this conversion (a ULID string).
	ID string `json:"id"`

	// FileName is the suggested download name, e.g. "POLICY0412.pdf".
	FileName string `json:"fileName"`

	// MimeType is the media type of Bytes.
	MimeType string `json:"mimeType"`

	// Bytes is the serialized document.
	Bytes []byte `json:"-"`

	// Pages are the laid out pages that were serialized into Bytes.
	Pages []ReportPage `json:"-"`
}

// PageCount returns the number of pages in the artifact.
func (a *ReportArtifact) PageCount() int {
	return len(a.Pages)
}

// Preview returns a fresh in-memory reader over the artifact bytes.
// Callers use it for immediate display; it is not persisted anywhere.
func (a *ReportArtifact) Preview() *bytes.Reader {
	return bytes.NewReader(a.Bytes)
}
