package pcb

import (
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/solid"
)

// Outline returns the lines and arcs of the layer in the form the solid
// reconstructor takes. Circles and texts are not part of an outline.
func (l *DrawingLayer) Outline() ([]solid.Segment, []solid.Arc) {
	segs := make([]solid.Segment, 0, len(l.lines))
	for _, line := range l.lines {
		segs = append(segs, solid.Segment{Start: line.Start, End: line.End})
	}
	arcs := make([]solid.Arc, 0, len(l.arcs))
	for _, a := range l.arcs {
		arcs = append(arcs, solid.Arc{Center: a.Center, Start: a.Start, Sweep: a.Sweep})
	}
	return segs, arcs
}

// ReconstructSolid joins the layer's lines and arcs into closed loops, the
// outline first. The layer itself is left untouched.
func (l *DrawingLayer) ReconstructSolid(outerOnly bool) ([]solid.Loop, error) {
	segs, arcs := l.Outline()
	return solid.Reconstruct(segs, arcs, solid.Options{OuterOnly: outerOnly})
}

// OpenSCAD renders the layer outline as OpenSCAD code, extruded to
// thickness and grown by offsetR.
func (l *DrawingLayer) OpenSCAD(thickness, offsetR float64, outerOnly bool) (string, error) {
	loops, err := l.ReconstructSolid(outerOnly)
	if err != nil {
		return "", err
	}
	return solid.OpenSCAD(loops, thickness, offsetR), nil
}
