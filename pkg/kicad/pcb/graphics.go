package pcb

import (
	"strings"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/kicad/sexp"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/kicad/sexp/kicadsexp"
)

// node builds (name items...)
func node(name string, items ...kicadsexp.Sexp) *kicadsexp.List {
	return kicadsexp.NewList(append([]kicadsexp.Sexp{kicadsexp.Symbol(name)}, items...)...)
}

// numNode builds (name value)
func numNode(name string, v float64) *kicadsexp.List {
	return node(name, sexp.Num(v))
}

func layerNode(name string) *kicadsexp.List {
	return node("layer", kicadsexp.Symbol(name))
}

// Records returns the gr_line, gr_arc, gr_circle and gr_text records of the
// layer in that order.
func (l *DrawingLayer) Records() []*kicadsexp.List {
	var records []*kicadsexp.List

	for _, line := range l.lines {
		records = append(records, node("gr_line",
			sexp.XY("start", line.Start),
			sexp.XY("end", line.End),
			layerNode(l.Name),
			numNode("width", line.Width),
		))
	}

	// KiCad stores an arc as (start CENTER) (end START) (angle SWEEP).
	for _, arc := range l.arcs {
		records = append(records, node("gr_arc",
			sexp.XY("start", arc.Center),
			sexp.XY("end", arc.Start),
			numNode("angle", arc.Sweep),
			layerNode(l.Name),
			numNode("width", arc.Width),
		))
	}

	for _, c := range l.circles {
		end := c.Center
		end.X += c.Radius
		records = append(records, node("gr_circle",
			sexp.XY("center", c.Center),
			sexp.XY("end", end),
			layerNode(l.Name),
			numNode("width", c.Width),
		))
	}

	for _, t := range l.texts {
		effects := node("effects", node("font",
			node("size", sexp.Num(t.Height), sexp.Num(t.Width)),
			numNode("thickness", t.Thickness),
		))
		if !l.Front {
			effects.Append(node("justify", kicadsexp.Symbol("mirror")))
		}
		records = append(records, node("gr_text",
			kicadsexp.Quoted(t.Content),
			sexp.At(t.Location, t.Angle),
			layerNode(l.Name),
			effects,
		))
	}

	return records
}

// KiCadData returns the layer's records as kicad_pcb text, one record per
// line, indented for inclusion in a board file.
func (l *DrawingLayer) KiCadData() string {
	var sb strings.Builder
	for _, r := range l.Records() {
		_ = kicadsexp.Write(&sb, r, 1)
	}
	return sb.String()
}
