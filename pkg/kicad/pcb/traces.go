package pcb

import (
	"fmt"
	"math"
	"strings"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/geom"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/kicad/sexp"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/kicad/sexp/kicadsexp"
)

// DefaultTraceWidth is the copper width used by the samples.
const DefaultTraceWidth = 0.25

// Trace is a copper segment.
type Trace struct {
	From  geom.Point
	To    geom.Point
	Front bool
	Width float64
	Net   *Net
}

// Layer returns the copper layer of the segment.
func (t *Trace) Layer() string {
	if t.Front {
		return "F.Cu"
	}
	return "B.Cu"
}

// Via is a plated through hole joining both copper layers.
type Via struct {
	Location geom.Point
	Size     float64
	Drill    float64
	Net      *Net
}

// Traces holds the copper segments and vias of a board and routes new ones
// from Cursor. The copper side, net and width of the route in progress are
// kept alongside the cursor.
type Traces struct {
	Cursor *Cursor
	Net    *Net
	Front  bool
	Width  float64

	traces []*Trace
	vias   []*Via
}

// NewTraces creates an empty router.
func NewTraces() *Traces {
	return &Traces{Width: DefaultTraceWidth, Cursor: new(Cursor)}
}

// UseCursor makes the router continue from c and returns the cursor it
// replaced.
func (t *Traces) UseCursor(c *Cursor) *Cursor {
	prev := t.Cursor
	t.Cursor = c
	return prev
}

// Segments returns the copper segments in drawing order.
func (t *Traces) Segments() []*Trace {
	return append([]*Trace(nil), t.traces...)
}

// Vias returns the vias in drawing order.
func (t *Traces) Vias() []*Via {
	return append([]*Via(nil), t.vias...)
}

// SetTraceStart starts a new route at from.
func (t *Traces) SetTraceStart(from geom.Point, net *Net, front bool, width float64) geom.Point {
	t.Cursor.SetStart(from, 0)
	t.Net = net
	t.Front = front
	t.Width = width
	return from
}

// SetTraceStartAtPad starts a route at a pad, on the pad's side and net.
func (t *Traces) SetTraceStartAtPad(pad *Pad, width float64) geom.Point {
	return t.SetTraceStart(pad.Location(), pad.Net, pad.Front(), width)
}

// SetTraceStartAtVia starts a route at a via on the given side.
func (t *Traces) SetTraceStartAtVia(via *Via, front bool, width float64) geom.Point {
	return t.SetTraceStart(via.Location, via.Net, front, width)
}

// DrawTrace adds a segment and continues the route from its end. A segment
// of zero length is not recorded.
func (t *Traces) DrawTrace(from, to geom.Point, net *Net, front bool, width float64) geom.Point {
	t.Net = net
	t.Front = front
	t.Width = width
	t.Cursor.LastPoint = from
	if from == to {
		return to
	}
	t.traces = append(t.traces, &Trace{From: from, To: to, Front: front, Width: width, Net: net})
	t.Cursor.MoveTo(to)
	return to
}

// DrawTraceFromPad draws from a pad to a point on the pad's side and net.
func (t *Traces) DrawTraceFromPad(pad *Pad, to geom.Point, width float64) geom.Point {
	return t.DrawTrace(pad.Location(), to, pad.Net, pad.Front(), width)
}

// DrawTraceBetweenPads joins two pads on the first pad's side and net.
func (t *Traces) DrawTraceBetweenPads(from, to *Pad, width float64) geom.Point {
	return t.DrawTrace(from.Location(), to.Location(), from.Net, from.Front(), width)
}

// ContinueTrace draws from the cursor to an absolute point.
func (t *Traces) ContinueTrace(to geom.Point) geom.Point {
	return t.DrawTrace(t.Cursor.LastPoint, to, t.Net, t.Front, t.Width)
}

// ContinueTraceBy draws relative to the cursor.
func (t *Traces) ContinueTraceBy(dx, dy float64) geom.Point {
	return t.ContinueTrace(t.Cursor.LastPoint.Add(geom.Pt(dx, dy)))
}

// ContinueTraceAngle draws distance mm along the visual heading angle.
func (t *Traces) ContinueTraceAngle(angle, distance float64) geom.Point {
	return t.ContinueTrace(t.Cursor.Next(distance, angle))
}

// ContinueTraceToPad draws to a pad and puts the pad on the route's net.
func (t *Traces) ContinueTraceToPad(pad *Pad) geom.Point {
	pad.Net = t.Net
	return t.ContinueTrace(pad.Location())
}

// ContinueTraceTowards draws distance mm straight toward center. Negative
// distances draw away from it.
func (t *Traces) ContinueTraceTowards(center geom.Point, distance float64) geom.Point {
	angle := geom.AngleOf(center, t.Cursor.LastPoint)
	radius := geom.Distance(t.Cursor.LastPoint, center)
	return t.ContinueTrace(geom.PointOnCircle(center, angle, radius-distance))
}

// ContinueTraceDistanceOnCircle draws radially until the route is distance
// mm away from center.
func (t *Traces) ContinueTraceDistanceOnCircle(center geom.Point, distance float64) geom.Point {
	return t.ContinueTraceTowards(center, geom.Distance(t.Cursor.LastPoint, center)-distance)
}

// ContinueTraceWithArc follows a circle around center for delta degrees,
// positive counter-clockwise as seen on screen.
func (t *Traces) ContinueTraceWithArc(center geom.Point, delta float64) (geom.Point, error) {
	return t.ContinueTraceWithArcToAngle(center, geom.AngleOf(center, t.Cursor.LastPoint)+delta)
}

// ContinueTraceWithArcLength follows a circle around center for length mm.
func (t *Traces) ContinueTraceWithArcLength(center geom.Point, length float64) (geom.Point, error) {
	radius := geom.Distance(t.Cursor.LastPoint, center)
	if radius == 0 {
		return t.Cursor.LastPoint, fmt.Errorf("%w: route is on the arc center", ErrInvalidGeometry)
	}
	return t.ContinueTraceWithArc(center, 360*length/(2*math.Pi*radius))
}

// ContinueTraceWithArcToAngle follows the circle through the cursor around
// center until the visual heading from center reaches angle. The arc is
// drawn as segments of about 1mm.
func (t *Traces) ContinueTraceWithArcToAngle(center geom.Point, angle float64) (geom.Point, error) {
	radius := geom.Distance(t.Cursor.LastPoint, center)
	if radius == 0 {
		return t.Cursor.LastPoint, fmt.Errorf("%w: route is on the arc center", ErrInvalidGeometry)
	}

	start := geom.AngleOf(center, t.Cursor.LastPoint)
	step := geom.Sign(angle-start) * geom.Degrees(1) / radius
	for cur := start + step; math.Abs(cur-angle) > math.Abs(step); cur += step {
		t.ContinueTrace(geom.PointOnCircle(center, cur, radius))
	}
	return t.ContinueTrace(geom.PointOnCircle(center, angle, radius)), nil
}

// ContinueWithVia drops a via at the cursor and moves the route to the
// other copper side.
func (t *Traces) ContinueWithVia(size, drill float64) *Via {
	return t.DrawVia(t.Cursor.LastPoint, size, drill, t.Net, !t.Front)
}

// DrawVia adds a via and continues the route from it on the given side.
func (t *Traces) DrawVia(at geom.Point, size, drill float64, net *Net, front bool) *Via {
	via := &Via{Location: at, Size: size, Drill: drill, Net: net}
	t.vias = append(t.vias, via)
	t.Cursor.LastPoint = at
	t.Net = net
	t.Front = front
	return via
}

// Translate moves every segment, via and the cursor by delta.
func (t *Traces) Translate(delta geom.Point) {
	for _, tr := range t.traces {
		tr.From = tr.From.Add(delta)
		tr.To = tr.To.Add(delta)
	}
	for _, v := range t.vias {
		v.Location = v.Location.Add(delta)
	}
	t.Cursor.LastPoint = t.Cursor.LastPoint.Add(delta)
}

// Records returns the via and segment records, vias first.
func (t *Traces) Records() []*kicadsexp.List {
	var records []*kicadsexp.List
	for _, v := range t.vias {
		records = append(records, node("via",
			sexp.XY("at", v.Location),
			numNode("size", v.Size),
			numNode("drill", v.Drill),
			node("layers", kicadsexp.Symbol("F.Cu"), kicadsexp.Symbol("B.Cu")),
			numNode("net", float64(netNumber(v.Net))),
		))
	}
	for _, tr := range t.traces {
		records = append(records, node("segment",
			sexp.XY("start", tr.From),
			sexp.XY("end", tr.To),
			numNode("width", tr.Width),
			layerNode(tr.Layer()),
			numNode("net", float64(netNumber(tr.Net))),
		))
	}
	return records
}

// KiCadData returns the records as kicad_pcb text.
func (t *Traces) KiCadData() string {
	var sb strings.Builder
	for _, r := range t.Records() {
		_ = kicadsexp.Write(&sb, r, 1)
	}
	return sb.String()
}
