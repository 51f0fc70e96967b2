package library

import "errors"

var (
	// ErrLibraryNotFound is returned when a library is missing from the table.
	ErrLibraryNotFound = errors.New("library not found")
	// ErrUnsupportedType is returned for a library type no fetcher handles.
	ErrUnsupportedType = errors.New("unsupported library type")
	// ErrEmptyFootprint is returned when a footprint file has no content.
	ErrEmptyFootprint = errors.New("empty footprint")
)
