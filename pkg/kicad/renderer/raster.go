package renderer

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/geom"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/kicad/pcb"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/solid"
)

const (
	circleSegments = 32
	fitMargin      = 1.0 // mm kept around the content
	zoneAlpha      = 96
)

// Options control a preview.
type Options struct {
	Width  int
	Height int
	Theme  ColorTheme
	Layers *LayerConfig // nil shows every layer
	Back   bool         // look at the bottom side, mirrored
	Labels bool         // draw component references
}

// DefaultOptions returns a 1024x768 classic preview with labels.
func DefaultOptions() Options {
	return Options{Width: 1024, Height: 768, Labels: true}
}

// canvas batches shapes of one color in a rasterizer and composites them
// onto the image on fill.
type canvas struct {
	dst   *image.RGBA
	cam   *Camera
	r     *vector.Rasterizer
	dirty bool
}

func newCanvas(cam *Camera) *canvas {
	w, h := cam.ScreenWidth, cam.ScreenHeight
	return &canvas{
		dst: image.NewRGBA(image.Rect(0, 0, w, h)),
		cam: cam,
		r:   vector.NewRasterizer(w, h),
	}
}

func (c *canvas) clear(col color.NRGBA) {
	draw.Draw(c.dst, c.dst.Bounds(), image.NewUniform(col), image.Point{}, draw.Src)
}

// minWorld is the size in mm of half a pixel, the smallest feature drawn.
func (c *canvas) minWorld() float64 {
	return 0.5 / c.cam.Zoom
}

// polygon adds a closed shape to the current batch. Every shape is wound
// the same way in screen space so overlapping shapes do not cancel out.
func (c *canvas) polygon(pts []geom.Point) {
	if len(pts) < 3 {
		return
	}
	xs := make([]float32, len(pts))
	ys := make([]float32, len(pts))
	area := 0.0
	for i, p := range pts {
		x, y := c.cam.WorldToScreen(p)
		xs[i], ys[i] = float32(x), float32(y)
	}
	for i := range pts {
		j := (i + 1) % len(pts)
		area += float64(xs[i])*float64(ys[j]) - float64(xs[j])*float64(ys[i])
	}
	if area < 0 {
		for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
			xs[i], xs[j] = xs[j], xs[i]
			ys[i], ys[j] = ys[j], ys[i]
		}
	}

	c.r.MoveTo(xs[0], ys[0])
	for i := 1; i < len(xs); i++ {
		c.r.LineTo(xs[i], ys[i])
	}
	c.r.ClosePath()
	c.dirty = true
}

func (c *canvas) circle(center geom.Point, radius float64) {
	radius = math.Max(radius, c.minWorld())
	pts := make([]geom.Point, circleSegments)
	for i := range pts {
		pts[i] = geom.PointOnCircle(center, float64(i)*360/circleSegments, radius)
	}
	c.polygon(pts)
}

// line adds a stroke with round ends.
func (c *canvas) line(a, b geom.Point, width float64) {
	half := math.Max(width/2, c.minWorld())
	if d := geom.Distance(a, b); d > 0 {
		dir := b.Sub(a).Scale(1 / d)
		n := geom.Pt(-dir.Y, dir.X).Scale(half)
		c.polygon([]geom.Point{a.Add(n), b.Add(n), b.Sub(n), a.Sub(n)})
	}
	c.circle(a, half)
	c.circle(b, half)
}

func (c *canvas) fill(col color.NRGBA) {
	if !c.dirty {
		return
	}
	c.r.Draw(c.dst, c.dst.Bounds(), image.NewUniform(col), image.Point{})
	c.r.Reset(c.cam.ScreenWidth, c.cam.ScreenHeight)
	c.dirty = false
}

func (c *canvas) label(s string, at geom.Point, col color.NRGBA) {
	x, y := c.cam.WorldToScreen(at)
	d := font.Drawer{
		Dst:  c.dst,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
	}
	width := d.MeasureString(s)
	d.Dot = fixed.Point26_6{
		X: fixed.I(int(math.Round(x))) - width/2,
		Y: fixed.I(int(math.Round(y)) + basicfont.Face7x13.Ascent/2),
	}
	d.DrawString(s)
}

// Render draws a preview of the board: substrate, zones, copper, pads,
// vias, silkscreen, outline and references.
func Render(b *pcb.Board, opts Options) (*image.RGBA, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("invalid image size %dx%d", opts.Width, opts.Height)
	}
	bounds := contentBounds(b)
	if bounds.IsEmpty() {
		return nil, fmt.Errorf("nothing to render: %w", pcb.ErrEmptyGeometry)
	}

	cam := NewCamera(opts.Width, opts.Height)
	cam.FlipView = opts.Back
	cam.Fit(bounds.Inflate(fitMargin))

	c := newCanvas(cam)
	pal := opts.Theme.Palette()
	vis := opts.Layers.IsVisible

	c.clear(pal.Background)
	c.substrate(b, pal)

	// The far side first, so the near side covers it.
	for _, front := range []bool{opts.Back, !opts.Back} {
		layer := copperLayer(front)
		if !vis(layer) {
			continue
		}
		for _, z := range b.Zones.All() {
			if z.Front == front {
				c.polygon(z.Points)
			}
		}
		c.fill(withAlpha(pal.Layer(layer), zoneAlpha))

		for _, t := range b.Traces.Segments() {
			if t.Front == front {
				c.line(t.From, t.To, t.Width)
			}
		}
		c.fill(pal.Layer(layer))

		for _, comp := range b.Components.All() {
			if comp.Front != front {
				continue
			}
			for _, p := range comp.PadList() {
				c.pad(p)
			}
		}
		c.fill(pal.Pad)
	}

	if vis("F.Cu") || vis("B.Cu") {
		vias := b.Traces.Vias()
		for _, v := range vias {
			c.circle(v.Location, v.Size/2)
		}
		c.fill(pal.Via)
		for _, v := range vias {
			c.circle(v.Location, v.Drill/2)
		}
		c.fill(pal.Drill)
	}

	silk := b.FSilk
	if opts.Back {
		silk = b.BSilk
	}
	for _, l := range []*pcb.DrawingLayer{silk, b.Edge} {
		if !vis(l.Name) {
			continue
		}
		c.drawings(l)
		c.fill(pal.Layer(l.Name))
		for _, t := range l.Texts() {
			c.label(t.Content, t.Location, pal.Layer(l.Name))
		}
	}

	if opts.Labels && vis(silk.Name) {
		for _, comp := range b.Components.All() {
			if comp.Front != opts.Back {
				c.label(comp.Reference, comp.Location, pal.Layer(silk.Name))
			}
		}
	}

	return c.dst, nil
}

// RenderPNG renders the board and encodes it as PNG to w.
func RenderPNG(w io.Writer, b *pcb.Board, opts Options) error {
	img, err := Render(b, opts)
	if err != nil {
		return err
	}
	return WritePNG(w, img)
}

// WritePNG encodes img as PNG.
func WritePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode preview: %w", err)
	}
	return nil
}

func copperLayer(front bool) string {
	if front {
		return "F.Cu"
	}
	return "B.Cu"
}

// substrate fills the board outline. Loops inside the outer one are holes;
// an outline that does not close is shaded by its bounding box.
func (c *canvas) substrate(b *pcb.Board, pal Palette) {
	loops, err := b.Edge.ReconstructSolid(false)
	if err != nil {
		if r, err := b.Bounds(); err == nil {
			c.polygon(rectPoints(r))
			c.fill(pal.Substrate)
		}
		return
	}

	outer := loops[0]
	var holes []solid.Loop
	c.polygon(outer)
	for _, l := range loops[1:] {
		if insidePolygon(l[0], outer) {
			holes = append(holes, l)
		} else {
			c.polygon(l)
		}
	}
	c.fill(pal.Substrate)
	for _, h := range holes {
		c.polygon(h)
	}
	c.fill(pal.Background)
}

func (c *canvas) drawings(l *pcb.DrawingLayer) {
	for _, line := range l.Lines() {
		c.line(line.Start, line.End, line.Width)
	}
	for _, a := range l.Arcs() {
		for _, s := range solid.Tessellate(solid.Arc{Center: a.Center, Start: a.Start, Sweep: a.Sweep}) {
			c.line(s.Start, s.End, a.Width)
		}
	}
	for _, circle := range l.Circles() {
		start := circle.Center.Add(geom.Pt(circle.Radius, 0))
		for _, s := range solid.Tessellate(solid.Arc{Center: circle.Center, Start: start, Sweep: 360}) {
			c.line(s.Start, s.End, circle.Width)
		}
	}
}

// pad adds the copper of a pad. Rounded rectangles and other shapes are
// drawn as their bounding rectangle.
func (c *canvas) pad(p *pcb.Pad) {
	shape, size := p.Shape()
	w, h := size.Width, size.Height
	if w <= 0 || h <= 0 {
		return
	}

	place := func(local geom.Point) geom.Point {
		q := geom.Rotate(local, geom.Point{}, -p.RelativeAngle).Add(p.RelativeLocation)
		if !p.Front() {
			q.X = -q.X
		}
		return p.Owner.Location.Add(geom.Rotate(q, geom.Point{}, -p.Owner.Angle))
	}

	switch shape {
	case "circle":
		c.circle(place(geom.Point{}), w/2)
	case "oval":
		if w >= h {
			c.line(place(geom.Pt(-(w-h)/2, 0)), place(geom.Pt((w-h)/2, 0)), h)
		} else {
			c.line(place(geom.Pt(0, -(h-w)/2)), place(geom.Pt(0, (h-w)/2)), w)
		}
	default:
		c.polygon([]geom.Point{
			place(geom.Pt(-w/2, -h/2)),
			place(geom.Pt(w/2, -h/2)),
			place(geom.Pt(w/2, h/2)),
			place(geom.Pt(-w/2, h/2)),
		})
	}
}

// contentBounds returns the area covered by everything on the board.
func contentBounds(b *pcb.Board) geom.Rect {
	r := geom.EmptyRect()
	for _, l := range b.Layers() {
		if lr, err := l.BoundingRect(); err == nil {
			r.ExpandRect(lr)
		}
		for _, t := range l.Texts() {
			r.Expand(t.Location)
		}
	}
	for _, comp := range b.Components.All() {
		r.Expand(comp.Location)
		for _, p := range comp.PadList() {
			r.Expand(p.Location())
		}
	}
	for _, t := range b.Traces.Segments() {
		r.Expand(t.From)
		r.Expand(t.To)
	}
	for _, v := range b.Traces.Vias() {
		r.Expand(v.Location)
	}
	for _, z := range b.Zones.All() {
		for _, p := range z.Points {
			r.Expand(p)
		}
	}
	return r
}

func rectPoints(r geom.Rect) []geom.Point {
	return []geom.Point{
		geom.Pt(r.Left(), r.Top()),
		geom.Pt(r.Right(), r.Top()),
		geom.Pt(r.Right(), r.Bottom()),
		geom.Pt(r.Left(), r.Bottom()),
	}
}

// insidePolygon is the even-odd test.
func insidePolygon(p geom.Point, poly []geom.Point) bool {
	inside := false
	for i, j := 0, len(poly)-1; i < len(poly); j, i = i, i+1 {
		a, b := poly[i], poly[j]
		if (a.Y > p.Y) != (b.Y > p.Y) && p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			inside = !inside
		}
	}
	return inside
}
