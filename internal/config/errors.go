package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and File.Validate() so
// callers can use errors.Is() for programmatic handling.
var (
	// ErrNoInput is returned when no input file is specified.
	ErrNoInput = errors.New("no input specified: provide at least one .dat or .txt file")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrInvalidMaxFileSize is returned when the file size limit is not positive.
	ErrInvalidMaxFileSize = errors.New("invalid max file size: must be positive")

	// ErrInvalidPreviewRows is returned when the preview row count is negative.
	ErrInvalidPreviewRows = errors.New("invalid preview rows: must be non-negative")

	// ErrInvalidGeometry is returned when the page geometry cannot hold a row.
	ErrInvalidGeometry = errors.New("invalid page geometry")

	// ErrUnknownPageSize is returned for a page size name that is not known.
	ErrUnknownPageSize = errors.New("unknown page size: use letter, legal or a4")

	// ErrInvalidOrientation is returned for an orientation other than
	// portrait or landscape.
	ErrInvalidOrientation = errors.New("invalid orientation: use portrait or landscape")

	// ErrEmptyDelimiterToken is returned when a configured delimiter has no token.
	ErrEmptyDelimiterToken = errors.New("delimiter token must not be empty")

	// ErrConfigNotFound is returned when the configuration file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")
)
