package camels

import (
	"errors"
	"fmt"
)

var (
	// ErrDirectoryNotFound is returned when a required dataset directory is absent.
	ErrDirectoryNotFound = errors.New("directory not found")

	// ErrFileNotFound is returned when no file matches a basin's naming pattern.
	ErrFileNotFound = errors.New("file not found")

	// ErrAmbiguousFile is returned when more than one file matches a basin's naming pattern.
	ErrAmbiguousFile = errors.New("ambiguous file match")

	// ErrMissingAttributes is returned when a requested basin has no static attributes.
	ErrMissingAttributes = errors.New("some basins are missing static attributes")

	// ErrMissingColumn is returned when a required column is absent from a file.
	ErrMissingColumn = errors.New("missing column")

	// ErrInvalidArea is returned for a non-positive catchment area.
	ErrInvalidArea = errors.New("catchment area must be positive")
)

// ParseError reports malformed content in a dataset file.
// Line is 1-based; 0 means the error is not tied to a single line.
type ParseError struct {
	Path string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse %s:%d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
