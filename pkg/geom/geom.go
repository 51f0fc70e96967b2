// Package geom provides the plane geometry used by the board generator.
//
// Board coordinates are millimeters with the Y axis pointing down, as in KiCad.
// Two angle conventions are in use and both are applied uniformly:
//
//   - Headings (PointOnCircle, AngleOf) are visual: 0° points to +X and
//     90° points up the screen (toward -Y), counter-clockwise as seen on screen.
//   - Rotate applies the plain rotation matrix in board coordinates. This is the
//     convention of KiCad's arc sweep and footprint rotation fields, and is
//     clockwise as seen on screen.
package geom

import (
	"math"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r2"
)

// Epsilon is the tolerance used when matching endpoints of segments.
const Epsilon = 1e-3

// Point is a coordinate on the board in millimeters.
type Point struct {
	X float64
	Y float64
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

func (p Point) vec() r2.Vec {
	return r2.Vec(p)
}

// Add returns p translated by d.
func (p Point) Add(d Point) Point {
	return Point(r2.Add(p.vec(), d.vec()))
}

// Sub returns the vector from q to p.
func (p Point) Sub(q Point) Point {
	return Point(r2.Sub(p.vec(), q.vec()))
}

// Scale returns p scaled by f around the origin.
func (p Point) Scale(f float64) Point {
	return Point(r2.Scale(f, p.vec()))
}

// Near reports whether p and q are within eps of each other on both axes.
func (p Point) Near(q Point, eps float64) bool {
	return scalar.EqualWithinAbs(p.X, q.X, eps) && scalar.EqualWithinAbs(p.Y, q.Y, eps)
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

// Rotate rotates p around pivot by angle degrees using the board rotation
// matrix (x cos - y sin, x sin + y cos).
func Rotate(p, pivot Point, angle float64) Point {
	return Point(r2.Rotate(p.vec(), Radians(angle), pivot.vec()))
}

// Mirror reflects p across the vertical line x = axisX.
func Mirror(p Point, axisX float64) Point {
	return Point{X: 2*axisX - p.X, Y: p.Y}
}

// PointOnCircle returns the point at distance from center along the visual
// heading angle.
func PointOnCircle(center Point, angle, distance float64) Point {
	rad := Radians(angle)
	return Point{
		X: center.X + distance*math.Cos(rad),
		Y: center.Y - distance*math.Sin(rad),
	}
}

// AngleOf returns the visual heading in degrees from one point to another.
func AngleOf(from, to Point) float64 {
	return -Degrees(math.Atan2(to.Y-from.Y, to.X-from.X))
}

// Distance returns the euclidean distance between a and b.
func Distance(a, b Point) float64 {
	return r2.Norm(r2.Sub(a.vec(), b.vec()))
}

// Sign returns -1, 0 or 1 according to the sign of v.
func Sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// NormalizeAngle maps an angle in degrees into (-180, 180].
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, 360)
	switch {
	case a > 180:
		a -= 360
	case a <= -180:
		a += 360
	}
	return a
}
