package pcb

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/geom"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/kicad/sexp"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/kicad/sexp/kicadsexp"
)

// fakePadID is the first id handed to pads whose name is not a number
// (e.g. "A1" or the unnamed pads of a mounting hole).
const fakePadID = 1000000

// Footprint is a parsed footprint record: its name, its pads in typed form
// and the rest of its body kept as a tree so it can be written back out.
type Footprint struct {
	Name string
	Pads []PadTemplate

	body     *kicadsexp.List // record without pads and without a placement
	padIndex int             // where the pads sit in the record
}

// PadTemplate is a pad as defined by its footprint, before placement.
type PadTemplate struct {
	Name     string
	ID       int
	Location geom.Point // relative to the footprint origin
	Angle    float64

	body    *kicadsexp.List // pad record without (at) and (net)
	atIndex int
}

// ParseFootprint reads one footprint record, either a legacy (module ...)
// or a (footprint ...) as written by KiCad 6 and later.
func ParseFootprint(r io.Reader) (*Footprint, error) {
	sexps, err := kicadsexp.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse footprint: %w", err)
	}
	if len(sexps) == 0 {
		return nil, errors.New("failed to parse footprint: no record found")
	}
	return NewFootprint(sexps[0])
}

// ParseFootprintString is ParseFootprint on a string.
func ParseFootprintString(s string) (*Footprint, error) {
	return ParseFootprint(strings.NewReader(s))
}

// NewFootprint builds a Footprint from an already parsed record. The record
// is copied, the caller keeps ownership of root.
func NewFootprint(root kicadsexp.Sexp) (*Footprint, error) {
	list, ok := root.(*kicadsexp.List)
	if !ok {
		return nil, fmt.Errorf("footprint record must be a list, got %q", root.String())
	}
	switch list.Name() {
	case "module", "footprint":
	default:
		return nil, fmt.Errorf("unsupported footprint record %q", list.Name())
	}

	name, err := sexp.GetString(list, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to parse footprint name: %w", err)
	}

	fp := &Footprint{Name: name, padIndex: -1}

	kept := 0
	nextFake := fakePadID
	for _, item := range list.Items() {
		l, ok := item.(*kicadsexp.List)
		switch {
		case ok && l.Name() == "pad":
			if fp.padIndex < 0 {
				fp.padIndex = kept
			}
			tmpl, err := parsePad(l)
			if err != nil {
				return nil, fmt.Errorf("footprint %s: %w", name, err)
			}
			if id, err := strconv.Atoi(tmpl.Name); err == nil {
				tmpl.ID = id
			} else {
				tmpl.ID = nextFake
				nextFake++
			}
			fp.Pads = append(fp.Pads, tmpl)
		case ok && l.Name() == "at":
			// Placement is per instance; a record taken from a board carries one.
		default:
			kept++
		}
	}
	if fp.padIndex < 0 {
		fp.padIndex = kept
	}

	body := kicadsexp.Clone(list).(*kicadsexp.List)
	body.RemoveIf(func(s kicadsexp.Sexp) bool {
		l, ok := s.(*kicadsexp.List)
		return ok && (l.Name() == "pad" || l.Name() == "at")
	})
	fp.body = body

	return fp, nil
}

func parsePad(pad *kicadsexp.List) (PadTemplate, error) {
	name, err := sexp.GetString(pad, 1)
	if err != nil {
		return PadTemplate{}, fmt.Errorf("failed to parse pad name: %w", err)
	}

	tmpl := PadTemplate{Name: name, atIndex: -1}
	body := kicadsexp.Clone(pad).(*kicadsexp.List)
	for i, item := range body.Items() {
		l, ok := item.(*kicadsexp.List)
		if !ok || l.Name() != "at" {
			continue
		}
		pos, err := sexp.GetPosition(l)
		if err != nil {
			return PadTemplate{}, fmt.Errorf("pad %s: %w", name, err)
		}
		tmpl.Location = pos.Point
		tmpl.Angle = pos.Angle
		tmpl.atIndex = i
		break
	}
	if tmpl.atIndex < 0 {
		return PadTemplate{}, fmt.Errorf("pad %s has no position", name)
	}

	body.RemoveIf(func(s kicadsexp.Sexp) bool {
		l, ok := s.(*kicadsexp.List)
		return ok && (l.Name() == "at" || l.Name() == "net")
	})
	tmpl.body = body
	return tmpl, nil
}

// mirroredLayerKinds are the layer suffixes that exist on both sides.
var mirroredLayerKinds = map[string]bool{
	"Cu":         true,
	"Paste":      true,
	"Mask":       true,
	"SilkS":      true,
	"Silkscreen": true,
	"Fab":        true,
	"CrtYd":      true,
	"Courtyard":  true,
	"Adhes":      true,
	"Adhesive":   true,
}

// FlipLayer returns the opposite side's name for a front or back layer and
// the name itself for any other layer.
func FlipLayer(name string) string {
	if rest, ok := strings.CutPrefix(name, "F."); ok && mirroredLayerKinds[rest] {
		return "B." + rest
	}
	if rest, ok := strings.CutPrefix(name, "B."); ok && mirroredLayerKinds[rest] {
		return "F." + rest
	}
	return name
}

// mirroredCoords are the nodes whose first value is an X coordinate.
var mirroredCoords = map[string]bool{
	"at":     true,
	"start":  true,
	"end":    true,
	"center": true,
	"mid":    true,
	"xy":     true,
}

// project rewrites a footprint record in place for placement on the back
// side: layers swap sides, X coordinates are negated and texts are mirrored.
func project(record *kicadsexp.List) {
	kicadsexp.Walk(record, func(l *kicadsexp.List) {
		switch name := l.Name(); {
		case name == "layer" || name == "layers":
			for i := 1; i < l.Len(); i++ {
				switch v := l.Get(i).(type) {
				case kicadsexp.Symbol:
					l.Set(i, kicadsexp.Symbol(FlipLayer(string(v))))
				case kicadsexp.Quoted:
					l.Set(i, kicadsexp.Quoted(FlipLayer(string(v))))
				}
			}
		case mirroredCoords[name]:
			negateAt(l, 1)
		case name == "fp_arc":
			// Legacy arcs carry a sweep, which reverses under reflection.
			if angle, ok := sexp.FindNode(l, "angle"); ok {
				negateAt(angle, 1)
			}
		case name == "fp_text" || name == "property":
			mirrorText(l)
		}
	})
}

func negateAt(l *kicadsexp.List, index int) {
	v, err := sexp.GetFloat(l, index)
	if err != nil {
		return
	}
	l.Set(index, sexp.Num(-v))
}

func mirrorText(text *kicadsexp.List) {
	effects, ok := sexp.FindNode(text, "effects")
	if !ok {
		// Properties without effects are not displayed.
		if text.Name() == "property" {
			return
		}
		effects = node("effects")
		text.Append(effects)
	}
	justify, ok := sexp.FindNode(effects, "justify")
	if !ok {
		effects.Append(node("justify", kicadsexp.Symbol("mirror")))
		return
	}
	if !sexp.HasSymbol(justify, "mirror") {
		justify.Append(kicadsexp.Symbol("mirror"))
	}
}
