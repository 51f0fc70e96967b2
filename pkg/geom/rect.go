package geom

import "gonum.org/v1/gonum/spatial/r2"

// Rect is an axis aligned rectangle. Min is the top-left corner in board
// coordinates, Max the bottom-right one. Both edges are inclusive.
type Rect struct {
	Min Point
	Max Point
}

// RectLTRB builds a rectangle from its edges, normalizing the corners.
func RectLTRB(left, top, right, bottom float64) Rect {
	b := r2.NewBox(left, top, right, bottom)
	return Rect{Min: Point(b.Min), Max: Point(b.Max)}
}

// EmptyRect returns a rectangle that contains nothing and grows with Expand.
func EmptyRect() Rect {
	return Rect{
		Min: Point{X: 1e9, Y: 1e9},
		Max: Point{X: -1e9, Y: -1e9},
	}
}

// IsEmpty reports whether the rectangle has never been expanded.
func (r Rect) IsEmpty() bool {
	return r.Min.X > r.Max.X || r.Min.Y > r.Max.Y
}

// Expand grows the rectangle to include p.
func (r *Rect) Expand(p Point) {
	if p.X < r.Min.X {
		r.Min.X = p.X
	}
	if p.Y < r.Min.Y {
		r.Min.Y = p.Y
	}
	if p.X > r.Max.X {
		r.Max.X = p.X
	}
	if p.Y > r.Max.Y {
		r.Max.Y = p.Y
	}
}

// ExpandRect grows the rectangle to include other.
func (r *Rect) ExpandRect(other Rect) {
	if !other.IsEmpty() {
		r.Expand(other.Min)
		r.Expand(other.Max)
	}
}

// Inflate returns the rectangle grown by d on every side.
func (r Rect) Inflate(d float64) Rect {
	return Rect{
		Min: Point{X: r.Min.X - d, Y: r.Min.Y - d},
		Max: Point{X: r.Max.X + d, Y: r.Max.Y + d},
	}
}

// Translate returns the rectangle moved by d.
func (r Rect) Translate(d Point) Rect {
	return Rect{Min: r.Min.Add(d), Max: r.Max.Add(d)}
}

// Contains reports whether p lies inside or on the edge of the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X &&
		p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Intersects reports whether the two rectangles overlap.
func (r Rect) Intersects(other Rect) bool {
	return r.Min.X <= other.Max.X && r.Max.X >= other.Min.X &&
		r.Min.Y <= other.Max.Y && r.Max.Y >= other.Min.Y
}

// Left returns the smallest X of the rectangle.
func (r Rect) Left() float64 { return r.Min.X }

// Top returns the smallest Y, which is the top edge since Y grows downward.
func (r Rect) Top() float64 { return r.Min.Y }

// Right returns the largest X of the rectangle.
func (r Rect) Right() float64 { return r.Max.X }

// Bottom returns the largest Y of the rectangle.
func (r Rect) Bottom() float64 { return r.Max.Y }

// Width returns the horizontal extent.
func (r Rect) Width() float64 {
	return r.Max.X - r.Min.X
}

// Height returns the vertical extent.
func (r Rect) Height() float64 {
	return r.Max.Y - r.Min.Y
}

// Center returns the middle of the rectangle.
func (r Rect) Center() Point {
	return Point{
		X: (r.Min.X + r.Max.X) / 2,
		Y: (r.Min.Y + r.Max.Y) / 2,
	}
}
