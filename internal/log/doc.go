// Package log provides logging with automatic redaction of personal data,
// built on top of the standard slog package.
//
// Carrier exports carry policyholder data. Values that may end up in log
// attributes, such as cell contents or file lines, must never reach a log
// file in clear text. RedactHandler masks:
//   - attributes whose key names personal data (ssn, tax_id, dob, policy_number)
//   - attributes carrying raw row content (row, cells, line)
//   - values that look like a social security number, an employer
//     identification number, a card number or a date of birth
//   - such values embedded in longer strings and error messages
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, verbose)
//	logger.Warn("skipping row", "line", 12, "cells", cells) // cells masked
//	slog.SetDefault(logger)
package log
