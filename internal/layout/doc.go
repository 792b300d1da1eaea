// Package layout computes the page geometry of a carrier export report.
//
// Column widths come from the widest value in each column, converted with a
// fixed width per character and clamped to an equal share of the printable
// width. Unused slack is not redistributed between columns.
//
// Pagination runs in two passes. LayoutPages assigns rows to pages and
// StampFooters writes "Page X of N" once the page count is known. Both are
// pure functions that return new pages.
package layout
