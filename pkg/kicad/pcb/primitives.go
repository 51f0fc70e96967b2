package pcb

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/geom"
)

// DefaultLineWidth is the stroke width used when none is given.
const DefaultLineWidth = 0.15

// Line is a straight segment on a drawing layer
type Line struct {
	Start geom.Point
	End   geom.Point
	Width float64
}

// Length returns the length of the line in mm
func (l *Line) Length() float64 {
	return geom.Distance(l.Start, l.End)
}

// Angle returns the visual heading of the line in degrees
func (l *Line) Angle() float64 {
	return geom.AngleOf(l.Start, l.End)
}

// Center returns the midpoint of the line
func (l *Line) Center() geom.Point {
	return geom.Pt((l.Start.X+l.End.X)/2, (l.Start.Y+l.End.Y)/2)
}

func (l *Line) String() string {
	return fmt.Sprintf("%v => %v", l.Start, l.End)
}

// Arc is a circular arc described the way KiCad stores it: a center, a start
// point and a sweep in degrees. The end point and radius are derived.
type Arc struct {
	Center geom.Point
	Start  geom.Point
	Sweep  float64
	Width  float64
}

// End returns the end point of the arc.
func (a *Arc) End() geom.Point {
	return geom.Rotate(a.Start, a.Center, a.Sweep)
}

// Radius returns the distance between center and start.
func (a *Arc) Radius() float64 {
	return geom.Distance(a.Center, a.Start)
}

// Circle is a full circle outline.
type Circle struct {
	Center geom.Point
	Radius float64
	Width  float64
}

// TextStyle holds the font settings of a text item.
type TextStyle struct {
	Width     float64
	Height    float64
	Thickness float64
}

// DefaultTextStyle is the style used by AddText.
var DefaultTextStyle = TextStyle{Width: 1.5, Height: 1.5, Thickness: 0.3}

// Text is a free text item on a drawing layer.
type Text struct {
	Content  string
	Location geom.Point
	Angle    float64
	TextStyle
}
