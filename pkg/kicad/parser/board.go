package parser

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/geom"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/kicad/sexp"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/kicad/sexp/kicadsexp"
)

// ParseFile reads and parses a kicad_pcb file
func ParseFile(filename string) (*Board, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads and parses a kicad_pcb document from an io.Reader
func Parse(r io.Reader) (*Board, error) {
	sexps, err := kicadsexp.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse s-expression: %w", err)
	}
	if len(sexps) == 0 {
		return nil, fmt.Errorf("empty file or no valid s-expressions found")
	}

	root := sexps[0]
	rootName, err := sexp.GetNodeName(root)
	if err != nil {
		return nil, fmt.Errorf("failed to get root node name: %w", err)
	}
	if rootName != "kicad_pcb" {
		return nil, fmt.Errorf("not a KiCad PCB file: expected 'kicad_pcb', got '%s'", rootName)
	}

	board := &Board{}
	if n, found := sexp.FindNode(root, "version"); found {
		board.Version, _ = sexp.GetInt(n, 1)
	}
	if n, found := sexp.FindNode(root, "host"); found {
		board.Host, _ = sexp.GetString(n, 1)
	}

	board.Nets, err = parseNets(root)
	if err != nil {
		return nil, fmt.Errorf("failed to parse nets: %w", err)
	}
	netMap := NewNetMap(board.Nets)

	if board.Footprints, err = parseFootprints(root, netMap); err != nil {
		return nil, fmt.Errorf("failed to parse footprints: %w", err)
	}
	if board.Tracks, err = parseTracks(root, netMap); err != nil {
		return nil, fmt.Errorf("failed to parse tracks: %w", err)
	}
	if board.Vias, err = parseVias(root, netMap); err != nil {
		return nil, fmt.Errorf("failed to parse vias: %w", err)
	}
	board.Zones = parseZones(root, netMap)
	board.Drawings = parseDrawings(root)

	return board, nil
}

// parseNets reads the top level (net n name) declarations. Net 0, the
// unconnected net, is skipped.
func parseNets(root kicadsexp.Sexp) ([]Net, error) {
	var nets []Net
	for _, n := range sexp.FindAllNodes(root, "net") {
		num, err := sexp.GetInt(n, 1)
		if err != nil {
			return nil, err
		}
		name, err := sexp.GetString(n, 2)
		if err != nil {
			return nil, err
		}
		if num == 0 {
			continue
		}
		nets = append(nets, Net{Number: num, Name: name})
	}
	return nets, nil
}

// parseFootprints reads legacy (module ...) and newer (footprint ...)
// placements.
func parseFootprints(root kicadsexp.Sexp, netMap *NetMap) ([]Footprint, error) {
	nodes := append(sexp.FindAllNodes(root, "module"), sexp.FindAllNodes(root, "footprint")...)

	footprints := make([]Footprint, 0, len(nodes))
	for _, n := range nodes {
		fp := Footprint{}
		fp.Name, _ = sexp.GetString(n, 1)
		if l, found := sexp.FindNode(n, "layer"); found {
			fp.Layer, _ = sexp.GetString(l, 1)
		}
		if at, found := sexp.FindNode(n, "at"); found {
			pa, err := sexp.GetPosition(at)
			if err != nil {
				return nil, fmt.Errorf("footprint %s: %w", fp.Name, err)
			}
			fp.Position, fp.Angle = pa.Point, pa.Angle
		}

		for _, item := range n.Items() {
			l, ok := item.(*kicadsexp.List)
			if !ok || l.Len() < 3 {
				continue
			}
			kind := kicadsexp.Value(l.Get(1))
			if l.Name() == "fp_text" && kind == "reference" || l.Name() == "property" && kind == "Reference" {
				fp.Reference = kicadsexp.Value(l.Get(2))
			}
		}

		for _, p := range sexp.FindAllNodes(n, "pad") {
			pad := Pad{Net: lookupNet(p, netMap)}
			pad.Number, _ = sexp.GetString(p, 1)
			if at, found := sexp.FindNode(p, "at"); found {
				pad.Position, _ = sexp.GetPositionXY(at)
			}
			fp.Pads = append(fp.Pads, pad)
		}
		footprints = append(footprints, fp)
	}
	return footprints, nil
}

var drawingKinds = []string{"gr_line", "gr_arc", "gr_circle", "gr_text"}

func parseDrawings(root kicadsexp.Sexp) []Drawing {
	var drawings []Drawing
	for _, kind := range drawingKinds {
		for _, n := range sexp.FindAllNodes(root, kind) {
			d := Drawing{Kind: kind}
			if l, found := sexp.FindNode(n, "layer"); found {
				d.Layer, _ = sexp.GetString(l, 1)
			}
			for _, key := range []string{"start", "center", "at"} {
				if p, found := sexp.FindNode(n, key); found {
					d.Start, _ = sexp.GetPositionXY(p)
					if key == "at" {
						d.Angle, _ = sexp.GetFloat(p, 3)
					}
				}
			}
			if p, found := sexp.FindNode(n, "end"); found {
				d.End, _ = sexp.GetPositionXY(p)
			}
			if a, found := sexp.FindNode(n, "angle"); found {
				d.Angle, _ = sexp.GetFloat(a, 1)
			}
			if kind == "gr_text" {
				d.Text, _ = sexp.GetString(n, 1)
			}
			drawings = append(drawings, d)
		}
	}
	return drawings
}

// Footprint returns the footprint with the given reference.
func (b *Board) Footprint(reference string) (*Footprint, bool) {
	for i := range b.Footprints {
		if b.Footprints[i].Reference == reference {
			return &b.Footprints[i], true
		}
	}
	return nil, false
}

// Pad returns the pad with the given number.
func (f *Footprint) Pad(number string) (*Pad, bool) {
	for i := range f.Pads {
		if f.Pads[i].Number == number {
			return &f.Pads[i], true
		}
	}
	return nil, false
}

// Outline returns the drawings of the Edge.Cuts layer.
func (b *Board) Outline() []Drawing {
	var out []Drawing
	for _, d := range b.Drawings {
		if d.Layer == "Edge.Cuts" {
			out = append(out, d)
		}
	}
	return out
}

// Bounds returns the extent of the Edge.Cuts lines, or false when the board
// has no outline lines.
func (b *Board) Bounds() (geom.Rect, bool) {
	var pts []geom.Point
	for _, d := range b.Outline() {
		if d.Kind == "gr_line" {
			pts = append(pts, d.Start, d.End)
		}
	}
	if len(pts) == 0 {
		return geom.Rect{}, false
	}
	r := geom.Rect{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		r.Min.X, r.Min.Y = min(r.Min.X, p.X), min(r.Min.Y, p.Y)
		r.Max.X, r.Max.Y = max(r.Max.X, p.X), max(r.Max.Y, p.Y)
	}
	return r, true
}

// NetUsage counts what is attached to one net.
type NetUsage struct {
	Net    Net
	Pads   int
	Tracks int
	Vias   int
	Zones  int
}

// Usage returns per net counts of pads, tracks, vias and zones, ordered by
// net number.
func (b *Board) Usage() []NetUsage {
	byNumber := make(map[int]*NetUsage, len(b.Nets))
	out := make([]NetUsage, len(b.Nets))
	for i, n := range b.Nets {
		out[i].Net = n
		byNumber[n.Number] = &out[i]
	}
	count := func(n *Net, field func(*NetUsage) *int) {
		if n == nil {
			return
		}
		if u, ok := byNumber[n.Number]; ok {
			*field(u)++
		}
	}

	for _, fp := range b.Footprints {
		for _, p := range fp.Pads {
			count(p.Net, func(u *NetUsage) *int { return &u.Pads })
		}
	}
	for _, t := range b.Tracks {
		count(t.Net, func(u *NetUsage) *int { return &u.Tracks })
	}
	for _, v := range b.Vias {
		count(v.Net, func(u *NetUsage) *int { return &u.Vias })
	}
	for _, z := range b.Zones {
		count(z.Net, func(u *NetUsage) *int { return &u.Zones })
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Net.Number < out[j].Net.Number })
	return out
}
