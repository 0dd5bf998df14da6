package exporters

import "errors"

var (
	// ErrAlreadyExists is returned when a snapshot destination exists and
	// overwriting was not requested.
	ErrAlreadyExists = errors.New("destination already exists")

	// ErrSameFile is returned when a snapshot would overwrite its own source.
	ErrSameFile = errors.New("destination is the source database")

	ErrUnknownFormat   = errors.New("unknown export format")
	ErrUnknownBundling = errors.New("unknown export bundling")
)
