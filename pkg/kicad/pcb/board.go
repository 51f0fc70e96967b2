// Package pcb builds KiCad boards from code: drawing layers that continue
// from a cursor, copper traces and vias, placed footprints, nets and zones,
// and the writer for the kicad_pcb file they make up.
package pcb

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/geom"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/kicad/sexp"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/kicad/sexp/kicadsexp"
)

// DesignRules are the defaults written to the board setup and net class.
type DesignRules struct {
	TraceWidth float64
	Clearance  float64
	ViaSize    float64
	ViaDrill   float64
	EdgeWidth  float64
}

// DefaultDesignRules returns the rules of a fresh KiCad board.
func DefaultDesignRules() DesignRules {
	return DesignRules{
		TraceWidth: 0.25,
		Clearance:  0.2,
		ViaSize:    0.6,
		ViaDrill:   0.4,
		EdgeWidth:  0.15,
	}
}

// Board is a whole printed circuit board.
type Board struct {
	Nets       *Nets
	Edge       *DrawingLayer
	FSilk      *DrawingLayer
	BSilk      *DrawingLayer
	Components *Components
	Traces     *Traces
	Zones      *Zones
	Rules      DesignRules
}

// NewBoard creates an empty board whose components load from src. src may
// be nil when footprints are only added through Components.Add.
func NewBoard(src FootprintSource) *Board {
	return &Board{
		Nets:       NewNets(),
		Edge:       NewDrawingLayer(LayerEdgeCuts, true),
		FSilk:      NewDrawingLayer(LayerFSilk, true),
		BSilk:      NewDrawingLayer(LayerBSilk, false),
		Components: NewComponents(src),
		Traces:     NewTraces(),
		Zones:      &Zones{},
		Rules:      DefaultDesignRules(),
	}
}

// Layers returns the drawing layers of the board.
func (b *Board) Layers() []*DrawingLayer {
	return []*DrawingLayer{b.Edge, b.FSilk, b.BSilk}
}

// MoveAll translates everything on the board by delta.
func (b *Board) MoveAll(delta geom.Point) {
	for _, c := range b.Components.list {
		c.Location = c.Location.Add(delta)
	}
	b.Zones.Translate(delta)
	for _, l := range b.Layers() {
		l.Translate(delta)
	}
	b.Traces.Translate(delta)
}

// Bounds returns the bounding rectangle of the board outline.
func (b *Board) Bounds() (geom.Rect, error) {
	return b.Edge.BoundingRect()
}

const layersTable = `  (page A3)
  (layers
    (0 F.Cu signal)
    (31 B.Cu signal)
    (32 B.Adhes user)
    (33 F.Adhes user)
    (34 B.Paste user)
    (35 F.Paste user)
    (36 B.SilkS user)
    (37 F.SilkS user)
    (38 B.Mask user)
    (39 F.Mask user)
    (40 Dwgs.User user)
    (41 Cmts.User user)
    (42 Eco1.User user)
    (43 Eco2.User user)
    (44 Edge.Cuts user)
    (45 Margin user)
    (46 B.CrtYd user)
    (47 F.CrtYd user)
    (48 B.Fab user)
    (49 F.Fab user)
  )
`

func (b *Board) writeSetup(sb *strings.Builder) {
	r := b.Rules
	n := sexp.FormatNum
	fmt.Fprintf(sb, `
  (setup
    (last_trace_width %s)
    (trace_clearance %s)
    (zone_clearance 0.508)
    (zone_45_only no)
    (trace_min 0.1)
    (segment_width 0.2)
    (edge_width %s)
    (via_size %s)
    (via_drill %s)
    (via_min_size 0.3)
    (via_min_drill 0.2)
    (uvia_size 0.3)
    (uvia_drill 0.1)
    (uvias_allowed no)
    (uvia_min_size 0.2)
    (uvia_min_drill 0.1)
    (pcb_text_width 0.3)
    (pcb_text_size 1.5 1.5)
    (mod_edge_width 0.15)
    (mod_text_size 1 1)
    (mod_text_width 0.15)
    (pad_size 1.524 1.524)
    (pad_drill 0.762)
    (pad_to_mask_clearance 0.2)
    (aux_axis_origin 0 0)
    (visible_elements 7FFFFFFF)
  )

`, n(r.TraceWidth), n(r.Clearance), n(r.EdgeWidth), n(r.ViaSize), n(r.ViaDrill))
}

func (b *Board) writeNets(sb *strings.Builder) {
	nets := b.Nets.All()

	sb.WriteString("  (net 0 \"\")\n")
	for _, net := range nets {
		fmt.Fprintf(sb, "  (net %d %s)\n", net.Number, kicadsexp.Quoted(net.Name))
	}

	r := b.Rules
	fmt.Fprintf(sb, "\n  (net_class Default \"This is the default net class.\"\n")
	fmt.Fprintf(sb, "    (clearance %s)\n", sexp.FormatNum(r.Clearance))
	fmt.Fprintf(sb, "    (trace_width %s)\n", sexp.FormatNum(r.TraceWidth))
	fmt.Fprintf(sb, "    (via_dia %s)\n", sexp.FormatNum(r.ViaSize))
	fmt.Fprintf(sb, "    (via_drill %s)\n", sexp.FormatNum(r.ViaDrill))
	sb.WriteString("    (uvia_dia 0.3)\n    (uvia_drill 0.1)\n")
	for _, net := range nets {
		fmt.Fprintf(sb, "    (add_net %s)\n", kicadsexp.Quoted(net.Name))
	}
	sb.WriteString("  )\n\n")
}

// String renders the complete kicad_pcb document. Sections follow the order
// KiCad writes them: header, nets, footprints, copper, drawings, zones.
func (b *Board) String() string {
	var sb strings.Builder
	sb.WriteString("(kicad_pcb (version 4) (host pcbnew 4.0.7)\n\n")
	sb.WriteString(layersTable)
	b.writeSetup(&sb)
	b.writeNets(&sb)

	for _, c := range b.Components.list {
		sb.WriteString(c.KiCadData())
	}
	sb.WriteString(b.Traces.KiCadData())
	for _, l := range b.Layers() {
		sb.WriteString(l.KiCadData())
	}
	sb.WriteString(b.Zones.KiCadData())
	sb.WriteString(")\n")
	return sb.String()
}

// WriteTo writes the kicad_pcb document to w.
func (b *Board) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, b.String())
	return int64(n), err
}

// WriteFile writes the kicad_pcb document to path.
func (b *Board) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create board file: %w", err)
	}
	if _, err := b.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write board file: %w", err)
	}
	return f.Close()
}
