package pcb

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/geom"
)

// Common drawing layer names.
const (
	LayerEdgeCuts = "Edge.Cuts"
	LayerFSilk    = "F.SilkS"
	LayerBSilk    = "B.SilkS"
)

// DrawingLayer collects graphic primitives on one KiCad layer. Relative
// drawing operations read and move Cursor, which the layer owns unless the
// caller hands it one with UseCursor.
type DrawingLayer struct {
	Name   string
	Front  bool
	Cursor *Cursor

	lines   []*Line
	arcs    []*Arc
	circles []*Circle
	texts   []*Text
}

// NewDrawingLayer creates an empty layer.
func NewDrawingLayer(name string, front bool) *DrawingLayer {
	return &DrawingLayer{Name: name, Front: front, Cursor: new(Cursor)}
}

// UseCursor makes the layer draw from c and returns the cursor it replaced.
func (l *DrawingLayer) UseCursor(c *Cursor) *Cursor {
	prev := l.Cursor
	l.Cursor = c
	return prev
}

// Lines returns the lines of the layer in drawing order.
func (l *DrawingLayer) Lines() []*Line {
	return append([]*Line(nil), l.lines...)
}

// Arcs returns the arcs of the layer in drawing order.
func (l *DrawingLayer) Arcs() []*Arc {
	return append([]*Arc(nil), l.arcs...)
}

// Circles returns the circles of the layer.
func (l *DrawingLayer) Circles() []*Circle {
	return append([]*Circle(nil), l.circles...)
}

// Texts returns the texts of the layer.
func (l *DrawingLayer) Texts() []*Text {
	return append([]*Text(nil), l.texts...)
}

// AddLine adds a line and moves the cursor to its end.
func (l *DrawingLayer) AddLine(start, end geom.Point, width float64) *Line {
	line := &Line{Start: start, End: end, Width: width}
	l.lines = append(l.lines, line)
	if start != end {
		l.Cursor.LastHeading = line.Angle()
	}
	l.Cursor.LastPoint = end
	return line
}

// LineTo draws from the cursor to end. Drawing to the cursor itself adds
// nothing and returns nil.
func (l *DrawingLayer) LineTo(end geom.Point) *Line {
	if end == l.Cursor.LastPoint {
		return nil
	}
	return l.AddLine(l.Cursor.LastPoint, end, DefaultLineWidth)
}

// LineBy draws a line relative to the cursor.
func (l *DrawingLayer) LineBy(dx, dy float64) *Line {
	return l.LineTo(l.Cursor.LastPoint.Add(geom.Pt(dx, dy)))
}

// ContinueLine draws length mm along the current heading.
func (l *DrawingLayer) ContinueLine(length float64) *Line {
	return l.ContinueLineAt(length, l.Cursor.LastHeading)
}

// ContinueLineAt draws length mm along angle.
func (l *DrawingLayer) ContinueLineAt(length, angle float64) *Line {
	return l.LineTo(l.Cursor.Next(length, angle))
}

// AddArc adds an arc and moves the cursor to its end, heading along the
// tangent there.
func (l *DrawingLayer) AddArc(center, start geom.Point, sweep, width float64) *Arc {
	arc := &Arc{Center: center, Start: start, Sweep: sweep, Width: width}
	l.arcs = append(l.arcs, arc)
	end := arc.End()
	l.Cursor.LastPoint = end
	l.Cursor.LastHeading = geom.NormalizeAngle(geom.AngleOf(center, end) - 90*geom.Sign(sweep))
	return arc
}

// ContinueArc turns the path by angle degrees (positive to the left, as seen
// on screen) along a circle of the given radius.
func (l *DrawingLayer) ContinueArc(radius, angle float64) (*Arc, error) {
	if angle == 0 || !(radius > 0) {
		return nil, fmt.Errorf("%w: arc needs a non-zero angle and a positive radius, got angle=%v radius=%v",
			ErrInvalidGeometry, angle, radius)
	}
	center := geom.PointOnCircle(l.Cursor.LastPoint, l.Cursor.LastHeading+90*geom.Sign(angle), radius)
	return l.AddArc(center, l.Cursor.LastPoint, -angle, DefaultLineWidth), nil
}

// AddCircle adds a circle. The cursor is not moved.
func (l *DrawingLayer) AddCircle(center geom.Point, radius, width float64) *Circle {
	c := &Circle{Center: center, Radius: radius, Width: width}
	l.circles = append(l.circles, c)
	return c
}

// AddText adds text in the default style.
func (l *DrawingLayer) AddText(content string, at geom.Point) *Text {
	return l.AddTextStyled(content, at, 0, DefaultTextStyle)
}

// AddTextStyled adds rotated text with an explicit font style.
func (l *DrawingLayer) AddTextStyled(content string, at geom.Point, angle float64, style TextStyle) *Text {
	t := &Text{Content: content, Location: at, Angle: angle, TextStyle: style}
	l.texts = append(l.texts, t)
	return t
}

// BoundingRect returns the rectangle enclosing every line, arc endpoint and
// circle of the layer. Arcs contribute their endpoints only.
func (l *DrawingLayer) BoundingRect() (geom.Rect, error) {
	if len(l.lines) == 0 {
		return geom.Rect{}, fmt.Errorf("%w: layer %s has no lines", ErrEmptyGeometry, l.Name)
	}

	bbox := geom.EmptyRect()
	for _, line := range l.lines {
		bbox.Expand(line.Start)
		bbox.Expand(line.End)
	}
	for _, arc := range l.arcs {
		bbox.Expand(arc.Start)
		bbox.Expand(arc.End())
	}
	for _, c := range l.circles {
		bbox.Expand(geom.Pt(c.Center.X-c.Radius, c.Center.Y-c.Radius))
		bbox.Expand(geom.Pt(c.Center.X+c.Radius, c.Center.Y+c.Radius))
	}
	return bbox, nil
}

// EnsureSolid removes every line and arc with an endpoint inside region, and
// then everything connected to what was removed, so that no outline passes
// through the region.
func (l *DrawingLayer) EnsureSolid(region geom.Rect) {
	var frontier []geom.Point
	for _, line := range l.lines {
		if region.Contains(line.Start) || region.Contains(line.End) {
			frontier = append(frontier, line.Start, line.End)
		}
	}
	for _, arc := range l.arcs {
		end := arc.End()
		if region.Contains(arc.Start) || region.Contains(end) {
			frontier = append(frontier, arc.Start, end)
		}
	}

	touches := func(points []geom.Point, a, b geom.Point) bool {
		for _, p := range points {
			if p.Near(a, geom.Epsilon) || p.Near(b, geom.Epsilon) {
				return true
			}
		}
		return false
	}

	for len(frontier) > 0 {
		var next []geom.Point

		keptLines := l.lines[:0]
		for _, line := range l.lines {
			if touches(frontier, line.Start, line.End) {
				next = append(next, line.Start, line.End)
				continue
			}
			keptLines = append(keptLines, line)
		}
		clear(l.lines[len(keptLines):])
		l.lines = keptLines

		keptArcs := l.arcs[:0]
		for _, arc := range l.arcs {
			end := arc.End()
			if touches(frontier, arc.Start, end) {
				next = append(next, arc.Start, end)
				continue
			}
			keptArcs = append(keptArcs, arc)
		}
		clear(l.arcs[len(keptArcs):])
		l.arcs = keptArcs

		frontier = next
	}
}

// Translate moves every primitive and the cursor by delta.
func (l *DrawingLayer) Translate(delta geom.Point) {
	for _, line := range l.lines {
		line.Start = line.Start.Add(delta)
		line.End = line.End.Add(delta)
	}
	for _, arc := range l.arcs {
		arc.Center = arc.Center.Add(delta)
		arc.Start = arc.Start.Add(delta)
	}
	for _, c := range l.circles {
		c.Center = c.Center.Add(delta)
	}
	for _, t := range l.texts {
		t.Location = t.Location.Add(delta)
	}
	l.Cursor.LastPoint = l.Cursor.LastPoint.Add(delta)
}

// Empty reports whether the layer holds no primitives at all.
func (l *DrawingLayer) Empty() bool {
	return len(l.lines)+len(l.arcs)+len(l.circles)+len(l.texts) == 0
}
