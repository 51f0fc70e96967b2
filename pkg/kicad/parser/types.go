// Package parser reads kicad_pcb documents back into plain data: nets,
// footprint placements, copper, zones and board drawings. It is used to
// inspect generated boards and to check them in tests.
package parser

import "github.com/OpenTraceLab/OpenTraceBoard/pkg/geom"

// Board is the content of a kicad_pcb document.
type Board struct {
	Version    int
	Host       string
	Nets       []Net
	Footprints []Footprint
	Tracks     []Track
	Vias       []Via
	Zones      []Zone
	Drawings   []Drawing
}

// Net represents an electrical net
type Net struct {
	Number int
	Name   string
}

// Footprint is a placed footprint.
type Footprint struct {
	Name      string
	Reference string
	Layer     string // F.Cu or B.Cu
	Position  geom.Point
	Angle     float64
	Pads      []Pad
}

// Pad is a footprint pad with its net, position relative to the footprint.
type Pad struct {
	Number   string
	Position geom.Point
	Net      *Net
}

// Track is a copper segment.
type Track struct {
	Start  geom.Point
	End    geom.Point
	Width  float64
	Layer  string
	Net    *Net
	Locked bool
}

// Via connects front and back copper.
type Via struct {
	Position geom.Point
	Size     float64
	Drill    float64
	Layers   []string
	Net      *Net
	Locked   bool
}

// Zone is a copper pour outline. Multi-layer zones are split into one zone
// per layer.
type Zone struct {
	Net     *Net
	Layer   string
	Outline []geom.Point
}

// Drawing is a board graphic: gr_line, gr_arc, gr_circle or gr_text.
type Drawing struct {
	Kind  string
	Layer string
	Start geom.Point // line start, arc or circle center, text position
	End   geom.Point // line end, arc start, point on the circle
	Angle float64    // arc sweep, text angle
	Text  string
}

// NetMap provides efficient lookup of nets by number or name
type NetMap struct {
	byNumber map[int]*Net
	byName   map[string]*Net
}

// NewNetMap creates a NetMap from a slice of nets
func NewNetMap(nets []Net) *NetMap {
	nm := &NetMap{
		byNumber: make(map[int]*Net),
		byName:   make(map[string]*Net),
	}

	for i := range nets {
		net := &nets[i]
		nm.byNumber[net.Number] = net
		// Only index non-empty names
		if net.Name != "" {
			nm.byName[net.Name] = net
		}
	}

	return nm
}

// GetByName retrieves a net by its name (e.g., "GND", "+5V")
func (nm *NetMap) GetByName(name string) (*Net, bool) {
	net, ok := nm.byName[name]
	return net, ok
}

// GetByNumber retrieves a net by its number
func (nm *NetMap) GetByNumber(num int) (*Net, bool) {
	net, ok := nm.byNumber[num]
	return net, ok
}
