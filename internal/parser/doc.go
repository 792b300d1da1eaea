// Package parser turns decoded carrier export text into a ParsedTable.
//
// Parsing runs in four stages:
//   - Delimiter inference: a ranked list of rules is tried against the first
//     non-empty line and the first matching rule selects the delimiter
//   - Tokenizing: every non-blank line is split with that delimiter, fields
//     are trimmed and empty fields are dropped
//   - Header classification: the first row is a header only if none of its
//     fields parses as a number, otherwise "Field N" labels are synthesized
//   - Table building: rows are widened to a fixed column count
//
// Delimiter inference and header classification are heuristics. They
// reproduce the behaviour carrier users rely on and are not validated
// against any ground truth, so an atypical file can produce a plausible
// looking but wrong table.
package parser
