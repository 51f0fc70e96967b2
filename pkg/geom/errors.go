package geom

import "errors"

var (
	// ErrInvalidGeometry is returned for degenerate input such as a zero
	// sweep or a zero radius.
	ErrInvalidGeometry = errors.New("invalid geometry")

	// ErrEmptyGeometry is returned when an operation needs primitives and
	// there are none.
	ErrEmptyGeometry = errors.New("empty geometry")
)
