package pcb

import "github.com/OpenTraceLab/OpenTraceBoard/pkg/geom"

// Cursor remembers where the previous drawing operation ended and in which
// direction it was heading, so the next one can continue from there.
//
// Headings use the visual convention of geom.PointOnCircle.
type Cursor struct {
	LastPoint   geom.Point
	LastHeading float64
}

// SetStart places the cursor without drawing anything.
func (c *Cursor) SetStart(p geom.Point, heading float64) {
	c.LastPoint = p
	c.LastHeading = heading
}

// Next returns the point length away from the cursor along angle.
func (c *Cursor) Next(length, angle float64) geom.Point {
	return geom.PointOnCircle(c.LastPoint, angle, length)
}

// MoveTo moves the cursor to p, taking the heading of the move.
func (c *Cursor) MoveTo(p geom.Point) {
	if p == c.LastPoint {
		return
	}
	c.LastHeading = geom.AngleOf(c.LastPoint, p)
	c.LastPoint = p
}

// Advance moves the cursor length along angle without drawing.
func (c *Cursor) Advance(length, angle float64) geom.Point {
	c.MoveTo(c.Next(length, angle))
	return c.LastPoint
}
