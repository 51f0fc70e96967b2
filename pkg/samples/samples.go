// Package samples holds example boards built with the pcb package.
package samples

import (
	"context"
	"fmt"
	"sort"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/fixture"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/geom"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/kicad/pcb"
)

// Design is a built sample: the board and, for samples that come with
// one, a programming jig ready to generate.
type Design struct {
	Board *pcb.Board
	Jig   *fixture.Adapter
}

// Builder builds a sample, loading footprints from src.
type Builder func(ctx context.Context, src pcb.FootprintSource) (*Design, error)

// Sample describes one registered sample.
type Sample struct {
	Name        string
	Description string
	Build       Builder
	Jig         bool // Build returns a Design with a Jig
}

var registry = map[string]Sample{}

func register(s Sample) {
	registry[s.Name] = s
}

func init() {
	register(Sample{
		Name:        "blinky555",
		Description: "555 timer LED blinker on a 20x30mm board with rounded corners",
		Build:       blinkyDesign,
	})
	register(Sample{
		Name:        "rainbow",
		Description: "half ring of LEDs chained with arc traces",
		Build:       rainbowDesign,
	})
	register(Sample{
		Name:        "atmega328",
		Description: "ATmega328 breakout with ICSP test points and a pogo-pin jig",
		Build:       atmegaDesign,
		Jig:         true,
	})
}

// All returns the registered samples sorted by name.
func All() []Sample {
	out := make([]Sample, 0, len(registry))
	for _, s := range registry {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Lookup finds a sample by name.
func Lookup(name string) (Sample, error) {
	s, ok := registry[name]
	if !ok {
		return Sample{}, fmt.Errorf("unknown sample %q", name)
	}
	return s, nil
}

// placement is a component to load and place.
type placement struct {
	Ref   string
	ID    string // Library:Footprint
	At    geom.Point
	Angle float64
	Pads  int // pads 1..Pads must exist
}

// placeAll places every component on the front side and checks each has
// the numbered pads the sample wires up.
func placeAll(ctx context.Context, b *pcb.Board, list []placement) (map[string]*pcb.Component, error) {
	placed := make(map[string]*pcb.Component, len(list))
	for _, p := range list {
		c, err := b.Components.Place(ctx, p.ID, p.Ref, p.At, p.Angle, true)
		if err != nil {
			return nil, err
		}
		if err := checkPads(c, p.Pads); err != nil {
			return nil, err
		}
		placed[p.Ref] = c
	}
	return placed, nil
}

func checkPads(c *pcb.Component, n int) error {
	for i := 1; i <= n; i++ {
		if _, ok := c.Pads[i]; !ok {
			return fmt.Errorf("%s (%s) has no pad %d", c.Reference, c.Footprint.Name, i)
		}
	}
	return nil
}
