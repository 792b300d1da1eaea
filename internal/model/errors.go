package model

import "errors"

// Conversion errors.
// Every pipeline stage either produces a valid value or fails with an error
// wrapping exactly one of these sentinels. Use errors.Is or KindOf to
// classify a failure.
var (
	// ErrEncodingDecodeFailure is returned when the document cannot be
	// decoded at all. The Windows-1252 fallback accepts every byte value,
	// so in practice this only happens for zero-length input.
	ErrEncodingDecodeFailure = errors.New("encoding decode failure")

	// ErrNoDataRowsFound is returned when no data rows remain after
	// tokenization and header classification.
	ErrNoDataRowsFound = errors.New("no data rows found")

	// ErrRenderFailure is returned when the table cannot be laid out or
	// serialized, e.g. because the page geometry leaves no printable width.
	ErrRenderFailure = errors.New("render failure")
)

// ErrorKind classifies conversion failures for presentation to the user.
type ErrorKind int

const (
	// KindNone means the conversion succeeded.
	KindNone ErrorKind = iota

	// KindEncodingDecodeFailure corresponds to ErrEncodingDecodeFailure.
	KindEncodingDecodeFailure

	// KindNoDataRowsFound corresponds to ErrNoDataRowsFound.
	KindNoDataRowsFound

	// KindRenderFailure corresponds to ErrRenderFailure.
	KindRenderFailure

	// KindUnknown is any other error, such as a failed file read.
	KindUnknown
)

// String returns the name of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "None"
	case KindEncodingDecodeFailure:
		return "EncodingDecodeFailure"
	case KindNoDataRowsFound:
		return "NoDataRowsFound"
	case KindRenderFailure:
		return "RenderFailure"
	default:
		return "Unknown"
	}
}

// KindOf returns the ErrorKind of err.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrEncodingDecodeFailure):
		return KindEncodingDecodeFailure
	case errors.Is(err, ErrNoDataRowsFound):
		return KindNoDataRowsFound
	case errors.Is(err, ErrRenderFailure):
		return KindRenderFailure
	default:
		return KindUnknown
	}
}
