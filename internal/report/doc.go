// Package report writes a converted carrier export in its output formats.
//
// The PDFWriter produces the paginated report artifact. The MarkdownWriter,
// JSONWriter and SimpleWriter render previews and summaries of the same
// conversion for terminals, CRM notes and tool integration. The Packager
// turns the PDF output into a ReportArtifact with a derived file name.
package report
