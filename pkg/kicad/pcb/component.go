package pcb

import (
	"context"
	"fmt"
	"strings"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/geom"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/kicad/sexp"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/kicad/sexp/kicadsexp"
)

// Component is a footprint placed on the board.
type Component struct {
	Reference string
	Location  geom.Point
	Angle     float64 // degrees, KiCad rotation convention
	Front     bool

	// Pads indexes pads by number; pads with non-numeric names get ids
	// from 1000000 upwards in footprint order.
	Pads map[int]*Pad

	Footprint *Footprint
	pads      []*Pad
}

// Pad is a placed pad of a component.
type Pad struct {
	Name             string
	ID               int
	RelativeLocation geom.Point
	RelativeAngle    float64
	Net              *Net
	Owner            *Component

	tmpl *PadTemplate
}

// NewComponent places a footprint. Pads start without a net.
func NewComponent(fp *Footprint, reference string, location geom.Point, angle float64, front bool) *Component {
	c := &Component{
		Reference: reference,
		Location:  location,
		Angle:     angle,
		Front:     front,
		Pads:      make(map[int]*Pad),
		Footprint: fp,
	}
	for i := range fp.Pads {
		tmpl := &fp.Pads[i]
		pad := &Pad{
			Name:             tmpl.Name,
			ID:               tmpl.ID,
			RelativeLocation: tmpl.Location,
			RelativeAngle:    tmpl.Angle,
			Owner:            c,
			tmpl:             tmpl,
		}
		c.pads = append(c.pads, pad)
		// Repeated numbers (thermal pads split in several) keep the first.
		if _, ok := c.Pads[pad.ID]; !ok {
			c.Pads[pad.ID] = pad
		}
	}
	return c
}

// PadList returns every pad in footprint order, including pads sharing a
// number with an earlier one.
func (c *Component) PadList() []*Pad {
	return append([]*Pad(nil), c.pads...)
}

// PadByName finds a pad by its name as written in the footprint.
func (c *Component) PadByName(name string) (*Pad, bool) {
	for _, p := range c.pads {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// Location returns the absolute position of the pad on the board.
func (p *Pad) Location() geom.Point {
	rel := p.RelativeLocation
	if !p.Owner.Front {
		rel.X = -rel.X
	}
	return p.Owner.Location.Add(geom.Rotate(rel, geom.Point{}, -p.Owner.Angle))
}

// Front reports whether the pad's component sits on the front side.
func (p *Pad) Front() bool {
	return p.Owner.Front
}

// Shape returns the pad shape as named in the footprint (rect, circle,
// oval, roundrect...) and its width and height. A pad without a size reads
// as zero sized.
func (p *Pad) Shape() (string, sexp.Size) {
	shape := kicadsexp.Value(p.tmpl.body.Get(3))
	var size sexp.Size
	if n, ok := sexp.FindNode(p.tmpl.body, "size"); ok {
		size, _ = sexp.GetSize(n)
	}
	return shape, size
}

// Angle returns the absolute rotation of the pad on the board.
func (p *Pad) Angle() float64 {
	return p.Owner.Angle + p.RelativeAngle
}

func (p *Pad) String() string {
	return p.Owner.Reference + "." + p.Name
}

func (p *Pad) record() *kicadsexp.List {
	rec := kicadsexp.Clone(p.tmpl.body).(*kicadsexp.List)
	rec.Insert(p.tmpl.atIndex, sexp.At(p.RelativeLocation, p.Owner.Angle+p.RelativeAngle))
	if p.Net != nil {
		rec.Append(node("net", sexp.Num(float64(p.Net.Number)), kicadsexp.Quoted(p.Net.Name)))
	}
	return rec
}

// Record returns the footprint record as placed on the board: reference
// set, pads positioned and connected, mirrored for the back side. A new tree
// is built on every call.
func (c *Component) Record() *kicadsexp.List {
	rec := kicadsexp.Clone(c.Footprint.body).(*kicadsexp.List)
	setReference(rec, c.Reference)

	for i, p := range c.pads {
		rec.Insert(c.Footprint.padIndex+i, p.record())
	}
	if !c.Front {
		project(rec)
	}
	rec.Insert(2, sexp.At(c.Location, c.Angle))
	return rec
}

// KiCadData returns the placed record as kicad_pcb text.
func (c *Component) KiCadData() string {
	var sb strings.Builder
	_ = kicadsexp.Write(&sb, c.Record(), 1)
	return sb.String()
}

func setReference(rec *kicadsexp.List, reference string) {
	for _, item := range rec.Items() {
		l, ok := item.(*kicadsexp.List)
		if !ok || l.Len() < 3 {
			continue
		}
		kind := kicadsexp.Value(l.Get(1))
		switch {
		case l.Name() == "fp_text" && kind == "reference",
			l.Name() == "property" && kind == "Reference":
			l.Set(2, kicadsexp.Quoted(reference))
		}
	}
}

// FootprintSource supplies footprint records by library and name.
type FootprintSource interface {
	Footprint(ctx context.Context, library, name string) (*Footprint, error)
}

// Components holds the placed components of a board by reference.
type Components struct {
	// Source loads footprints for Place.
	Source FootprintSource

	byRef map[string]*Component
	list  []*Component
}

// NewComponents creates an empty component list loading from src.
func NewComponents(src FootprintSource) *Components {
	return &Components{Source: src, byRef: make(map[string]*Component)}
}

// Add places a footprint under reference.
func (cs *Components) Add(fp *Footprint, reference string, location geom.Point, angle float64, front bool) (*Component, error) {
	if _, ok := cs.byRef[reference]; ok {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateReference, reference)
	}
	c := NewComponent(fp, reference, location, angle, front)
	cs.byRef[reference] = c
	cs.list = append(cs.list, c)
	return c, nil
}

// Place loads "Library:Footprint" from the source and places it.
func (cs *Components) Place(ctx context.Context, id, reference string, location geom.Point, angle float64, front bool) (*Component, error) {
	if _, ok := cs.byRef[reference]; ok {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateReference, reference)
	}
	if cs.Source == nil {
		return nil, fmt.Errorf("placing %s: no footprint source configured", reference)
	}
	lib, name, ok := strings.Cut(id, ":")
	if !ok {
		return nil, fmt.Errorf("placing %s: footprint id %q is not Library:Name", reference, id)
	}
	fp, err := cs.Source.Footprint(ctx, lib, name)
	if err != nil {
		return nil, fmt.Errorf("placing %s: %w", reference, err)
	}
	return cs.Add(fp, reference, location, angle, front)
}

// ByReference returns the component placed under reference.
func (cs *Components) ByReference(reference string) (*Component, bool) {
	c, ok := cs.byRef[reference]
	return c, ok
}

// All returns the components in placement order.
func (cs *Components) All() []*Component {
	return append([]*Component(nil), cs.list...)
}

// Len returns the number of placed components.
func (cs *Components) Len() int {
	return len(cs.list)
}
