package pcb

import (
	"errors"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/geom"
)

var (
	ErrInvalidGeometry = geom.ErrInvalidGeometry
	ErrEmptyGeometry   = geom.ErrEmptyGeometry

	// ErrDuplicateReference is returned when a component reference is reused.
	ErrDuplicateReference = errors.New("duplicate component reference")

	// ErrDuplicateNet is returned when a net name or number is reused.
	ErrDuplicateNet = errors.New("duplicate net")
)
