// Package sexp provides shared S-expression helpers for KiCad records: node
// lookup, typed value extraction and the number formatting used when writing
// records back out.
package sexp

import "github.com/OpenTraceLab/OpenTraceBoard/pkg/geom"

// PositionAngle combines a position with a rotation in degrees, as found in
// (at X Y [angle]) nodes.
type PositionAngle struct {
	geom.Point
	Angle float64
}

// Size represents dimensions
type Size struct {
	Width  float64 // Width in mm
	Height float64 // Height in mm
}
