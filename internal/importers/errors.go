package importers

import "errors"

var (
	// ErrNotFound is returned when the import path does not exist.
	ErrNotFound = errors.New("path not found")

	// ErrUnrecognizedFormat is returned when no reader recognizes the source.
	ErrUnrecognizedFormat = errors.New("unrecognized format")
)
