// Package solid turns an unordered set of outline segments into closed
// polygon loops and writes them as OpenSCAD geometry.
package solid

import (
	"errors"
	"fmt"
	"math"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/geom"
)

var (
	// ErrOpenContour is returned when a walk reaches a vertex with no
	// continuation.
	ErrOpenContour = errors.New("open contour")

	// ErrAmbiguousJunction is returned when more than one segment continues
	// from a vertex.
	ErrAmbiguousJunction = errors.New("ambiguous junction")
)

// Segment is a straight piece of outline.
type Segment struct {
	Start geom.Point
	End   geom.Point
}

// Arc is a circular piece of outline in KiCad form: the end is Start
// rotated around Center by Sweep degrees.
type Arc struct {
	Center geom.Point
	Start  geom.Point
	Sweep  float64
}

// End returns the end point of the arc.
func (a Arc) End() geom.Point {
	return geom.Rotate(a.Start, a.Center, a.Sweep)
}

// Loop is a closed polygon. The closing point is not repeated.
type Loop []geom.Point

// Options tune Reconstruct.
type Options struct {
	// OuterOnly stops after the loop through the leftmost point.
	OuterOnly bool
}

// Tessellate approximates an arc with chords of about 1mm. The last chord
// always ends on the arc's exact end point. Chords shorter than
// geom.Epsilon are dropped, so an arc too small to tessellate yields nil.
func Tessellate(a Arc) []Segment {
	radius := geom.Distance(a.Center, a.Start)
	if radius == 0 || a.Sweep == 0 {
		return nil
	}

	end := a.End()
	step := geom.Sign(a.Sweep) * geom.Degrees(1) / radius

	var segs []Segment
	last := a.Start
	for i := step; math.Abs(i) < math.Abs(a.Sweep); i += step {
		p := geom.Rotate(a.Start, a.Center, i)
		if p.Near(last, geom.Epsilon) {
			continue
		}
		segs = append(segs, Segment{Start: last, End: p})
		last = p
	}

	// A last chord shorter than the matching tolerance is merged into the
	// previous one.
	if last.Near(end, geom.Epsilon) {
		if n := len(segs); n > 0 {
			segs[n-1].End = end
		}
		return segs
	}
	return append(segs, Segment{Start: last, End: end})
}

// Reconstruct joins segments and arcs into closed loops. Every loop starts
// from the first remaining segment whose start point is leftmost; the first
// one is the outline and further loops (holes) follow unless opts.OuterOnly
// is set. Each vertex must join exactly two segments. Endpoints match within
// geom.Epsilon. The inputs are not modified.
func Reconstruct(segments []Segment, arcs []Arc, opts Options) ([]Loop, error) {
	work := make([]Segment, 0, len(segments))
	for _, s := range segments {
		if !s.Start.Near(s.End, geom.Epsilon) {
			work = append(work, s)
		}
	}
	for _, a := range arcs {
		work = append(work, Tessellate(a)...)
	}
	if len(work) == 0 {
		return nil, fmt.Errorf("%w: nothing to reconstruct", geom.ErrEmptyGeometry)
	}

	var loops []Loop
	for len(work) > 0 {
		var (
			loop Loop
			err  error
		)
		loop, work, err = walk(work, leftmost(work))
		if err != nil {
			return nil, err
		}
		loops = append(loops, loop)
		if opts.OuterOnly {
			break
		}
	}
	return loops, nil
}

func leftmost(segs []Segment) int {
	best := 0
	for i, s := range segs {
		if s.Start.X < segs[best].Start.X {
			best = i
		}
	}
	return best
}

// walk follows the chain starting with work[seed] until it returns to the
// seed's start. It returns the loop and the segments left over. Like every
// other vertex, the origin must join exactly two segments.
func walk(work []Segment, seed int) (Loop, []Segment, error) {
	first := work[seed]
	work = remove(work, seed)

	origin := first.Start
	cur := first.End
	loop := Loop{first.Start, first.End}

	for !cur.Near(origin, geom.Epsilon) {
		found, count := -1, 0
		var next geom.Point
		for i, s := range work {
			switch {
			case s.Start.Near(cur, geom.Epsilon):
				found, next = i, s.End
				count++
			case s.End.Near(cur, geom.Epsilon):
				found, next = i, s.Start
				count++
			}
		}

		switch {
		case count == 0:
			return nil, nil, fmt.Errorf("%w: nothing continues from (%g, %g)", ErrOpenContour, cur.X, cur.Y)
		case count > 1:
			return nil, nil, fmt.Errorf("%w: %d segments continue from (%g, %g)", ErrAmbiguousJunction, count, cur.X, cur.Y)
		}

		work = remove(work, found)
		cur = next
		loop = append(loop, next)
	}

	for _, s := range work {
		if s.Start.Near(origin, geom.Epsilon) || s.End.Near(origin, geom.Epsilon) {
			return nil, nil, fmt.Errorf("%w: loop closing at (%g, %g) has another branch there",
				ErrAmbiguousJunction, origin.X, origin.Y)
		}
	}

	loop = loop[:len(loop)-1]
	if len(loop) < 3 {
		return nil, nil, fmt.Errorf("%w: loop at (%g, %g) has only %d points",
			ErrOpenContour, origin.X, origin.Y, len(loop))
	}
	return loop, work, nil
}

func remove(segs []Segment, i int) []Segment {
	out := make([]Segment, 0, len(segs)-1)
	out = append(out, segs[:i]...)
	return append(out, segs[i+1:]...)
}
