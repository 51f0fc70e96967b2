package renderer

import (
	"math"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/geom"
)

// Camera maps board millimeters to image pixels.
type Camera struct {
	// Center position in board coordinates (mm)
	Center geom.Point

	// Zoom level (pixels per mm)
	Zoom float64

	// Screen dimensions (pixels)
	ScreenWidth  int
	ScreenHeight int

	FlipView bool    // mirror around Center, for looking at the back
	Rotation float64 // degrees, around Center
}

// NewCamera creates a camera with default settings
func NewCamera(screenWidth, screenHeight int) *Camera {
	return &Camera{
		Zoom:         10.0, // 10 pixels per mm is a reasonable default
		ScreenWidth:  screenWidth,
		ScreenHeight: screenHeight,
	}
}

// WorldToScreen converts board coordinates (mm) to pixel coordinates.
func (c *Camera) WorldToScreen(pos geom.Point) (float64, float64) {
	p := c.applyViewTransform(pos).Sub(c.Center).Scale(c.Zoom)
	return p.X + float64(c.ScreenWidth)/2, p.Y + float64(c.ScreenHeight)/2
}

// ScreenToWorld converts pixel coordinates back to board coordinates.
func (c *Camera) ScreenToWorld(screenX, screenY float64) geom.Point {
	p := geom.Pt(screenX-float64(c.ScreenWidth)/2, screenY-float64(c.ScreenHeight)/2)
	return c.applyInverseViewTransform(p.Scale(1 / c.Zoom).Add(c.Center))
}

// Pan moves the view by a pixel delta.
func (c *Camera) Pan(deltaX, deltaY float64) {
	moved := c.applyInverseViewTransform(c.Center.Add(geom.Pt(deltaX, deltaY).Scale(1 / c.Zoom)))
	c.Center = c.Center.Sub(moved.Sub(c.Center))
}

// ZoomAt zooms by factor keeping the board point under the given pixel in
// place.
func (c *Camera) ZoomAt(screenX, screenY, factor float64) {
	anchor := c.ScreenToWorld(screenX, screenY)
	old := c.Zoom
	c.Zoom *= factor
	c.Center = anchor.Sub(anchor.Sub(c.Center).Scale(old / c.Zoom))
}

// Fit centers bbox and zooms so it fills 90% of the image.
func (c *Camera) Fit(bbox geom.Rect) {
	width, height := bbox.Width(), bbox.Height()
	if bbox.IsEmpty() || width <= 0 || height <= 0 {
		return
	}

	c.Center = bbox.Center()
	if c.Rotation != 0 {
		// Fit the rotated extents.
		rad := geom.Radians(c.Rotation)
		cos, sin := math.Abs(math.Cos(rad)), math.Abs(math.Sin(rad))
		width, height = width*cos+height*sin, width*sin+height*cos
	}
	c.Zoom = math.Min(float64(c.ScreenWidth)*0.9/width, float64(c.ScreenHeight)*0.9/height)
}

// Rotate rotates the view by the given degrees
func (c *Camera) Rotate(degrees float64) {
	c.Rotation = math.Mod(c.Rotation+degrees, 360)
	if c.Rotation < 0 {
		c.Rotation += 360
	}
}

func (c *Camera) applyViewTransform(pos geom.Point) geom.Point {
	if c.Rotation != 0 {
		pos = geom.Rotate(pos, c.Center, c.Rotation)
	}
	if c.FlipView {
		pos = geom.Mirror(pos, c.Center.X)
	}
	return pos
}

func (c *Camera) applyInverseViewTransform(pos geom.Point) geom.Point {
	if c.FlipView {
		pos = geom.Mirror(pos, c.Center.X)
	}
	if c.Rotation != 0 {
		pos = geom.Rotate(pos, c.Center, -c.Rotation)
	}
	return pos
}

// VisibleBounds returns the board area shown in the image.
func (c *Camera) VisibleBounds() geom.Rect {
	r := geom.EmptyRect()
	w, h := float64(c.ScreenWidth), float64(c.ScreenHeight)
	for _, corner := range [][2]float64{{0, 0}, {w, 0}, {0, h}, {w, h}} {
		r.Expand(c.ScreenToWorld(corner[0], corner[1]))
	}
	return r
}
