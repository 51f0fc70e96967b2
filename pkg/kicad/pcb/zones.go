package pcb

import (
	"strings"

	"github.com/google/uuid"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/geom"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/kicad/sexp"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/kicad/sexp/kicadsexp"
)

// Zone is a filled copper area.
type Zone struct {
	Points             []geom.Point
	Front              bool
	Net                *Net
	HatchEdge          float64
	ThermalBridgeWidth float64
	Clearance          float64
	ThermalGap         float64

	// TStamp identifies the zone in the board file.
	TStamp string
}

// Zones holds the copper zones of a board.
type Zones struct {
	// NewID generates zone identifiers; uuid.New when nil.
	NewID func() uuid.UUID

	zones []*Zone
}

// newTStamp returns the 32 bit hex time stamp KiCad 5 uses to identify
// items, taken from a fresh UUID.
func (zs *Zones) newTStamp() string {
	gen := zs.NewID
	if gen == nil {
		gen = uuid.New
	}
	id := gen()
	return strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:8])
}

// Add creates an empty zone with the usual fill settings. Points are added
// by the caller.
func (zs *Zones) Add(net *Net, front bool) *Zone {
	z := &Zone{
		Front:              front,
		Net:                net,
		HatchEdge:          0.508,
		ThermalBridgeWidth: 0.508,
		Clearance:          0.05,
		ThermalGap:         0.2,
		TStamp:             zs.newTStamp(),
	}
	zs.zones = append(zs.zones, z)
	return z
}

// AddRect creates a zone covering area.
func (zs *Zones) AddRect(net *Net, front bool, area geom.Rect) *Zone {
	z := zs.Add(net, front)
	z.Points = append(z.Points,
		geom.Pt(area.Left(), area.Top()),
		geom.Pt(area.Right(), area.Top()),
		geom.Pt(area.Right(), area.Bottom()),
		geom.Pt(area.Left(), area.Bottom()),
	)
	return z
}

// All returns the zones in creation order.
func (zs *Zones) All() []*Zone {
	return append([]*Zone(nil), zs.zones...)
}

// Translate moves every zone outline by delta.
func (zs *Zones) Translate(delta geom.Point) {
	for _, z := range zs.zones {
		for i := range z.Points {
			z.Points[i] = z.Points[i].Add(delta)
		}
	}
}

// Layer returns the copper layer of the zone.
func (z *Zone) Layer() string {
	if z.Front {
		return "F.Cu"
	}
	return "B.Cu"
}

// Record returns the zone record.
func (z *Zone) Record() *kicadsexp.List {
	name := ""
	if z.Net != nil {
		name = z.Net.Name
	}

	pts := node("pts")
	for _, p := range z.Points {
		pts.Append(sexp.XY("xy", p))
	}

	return node("zone",
		numNode("net", float64(netNumber(z.Net))),
		node("net_name", kicadsexp.Quoted(name)),
		layerNode(z.Layer()),
		node("tstamp", kicadsexp.Symbol(z.TStamp)),
		node("hatch", kicadsexp.Symbol("edge"), sexp.Num(z.HatchEdge)),
		node("connect_pads", numNode("clearance", z.Clearance)),
		numNode("min_thickness", z.Clearance),
		node("fill", kicadsexp.Symbol("yes"),
			node("mode", kicadsexp.Symbol("segment")),
			numNode("arc_segments", 32),
			numNode("thermal_gap", z.ThermalGap),
			numNode("thermal_bridge_width", z.ThermalBridgeWidth),
		),
		node("polygon", pts),
	)
}

// KiCadData returns the zone records as kicad_pcb text.
func (zs *Zones) KiCadData() string {
	var sb strings.Builder
	for _, z := range zs.zones {
		_ = kicadsexp.Write(&sb, z.Record(), 1)
	}
	return sb.String()
}
