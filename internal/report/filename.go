package report

import (
	"strings"
)

// PDFExtension is the extension of rendered reports.
const PDFExtension = ".pdf"

// sourceExtensions are replaced by PDFExtension, matched case-insensitively.
var sourceExtensions = []string{".dat", ".txt"}

// OutputFileName derives the report file name from the source file name.
// A trailing ".dat" or ".txt" is replaced with ".pdf"; any other name gets
// ".pdf" appended.
func OutputFileName(source string) string {
	lower := strings.ToLower(source)
	for _, ext := range sourceExtensions {
		if strings.HasSuffix(lower, ext) {
			return source[:len(source)-len(ext)] + PDFExtension
		}
	}
	return source + PDFExtension
}
