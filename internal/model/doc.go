// Package model defines the data structures that flow through the
// carrier-export conversion pipeline.
//
// This package contains the following main types:
//   - RawDocument: The uploaded byte buffer and its declared file name
//   - DecodedText: The document text and the encoding used to decode it
//   - ParsedTable: The rectangular table built from the tokenized lines
//   - ColumnLayout: Per-column display widths for the report page
//   - ReportPage: One laid out page of the report
//   - ReportArtifact: The serialized report handed back to the caller
//   - Conversion: Per-invocation state shared by the pipeline steps
//
// The error kinds that every stage reports are defined here as well so that
// callers can classify a failure without importing the stage packages.
//
// Design decision: models live in their own package so that the parser,
// layout, report and pipeline packages can share them without import cycles.
package model
