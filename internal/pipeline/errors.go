package pipeline

import "errors"

var (
	// ErrMissingInput is returned when a step runs before the step that
	// produces its input.
	ErrMissingInput = errors.New("step input has not been produced")

	// ErrFileTooLarge is returned when an input file exceeds the size limit.
	ErrFileTooLarge = errors.New("input file is too large")

	// ErrNotRegularFile is returned when an input path is a directory or
	// another non-regular file.
	ErrNotRegularFile = errors.New("input is not a regular file")
)
