// Package fixture generates a pogo-pin programming jig for a board: printed
// blocks that hold spring pins over chosen pads, latches that clip the board
// in place, and optionally a bottom PCB routing the pins to a header.
package fixture

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/geom"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/kicad/pcb"
)

var (
	// ErrBackSidePad is returned when a pogo pin is requested on a pad that
	// is not on the front side of the board.
	ErrBackSidePad = errors.New("pogo pads have to be on the front layer")

	// ErrNoPads is returned when a jig is generated without any pad.
	ErrNoPads = errors.New("no pogo pads added")

	// ErrPadWithoutNet is returned when a bottom PCB is built for a pad
	// that is not connected to any net.
	ErrPadWithoutNet = errors.New("pogo pad has no net")
)

// BottomMode selects how the pins are terminated under the jig.
type BottomMode int

const (
	// Printed makes the bottom a printed block taking standard header inserts.
	Printed BottomMode = iota
	// NoConnect makes a bottom PCB with test points and a header, unrouted.
	NoConnect
	// ConnectDirect routes every test point straight to its header pin.
	ConnectDirect
	// ConnectViaGrid routes every test point through a via below its header pin.
	ConnectViaGrid
)

var modeNames = map[BottomMode]string{
	Printed:        "printed",
	NoConnect:      "no-connect",
	ConnectDirect:  "direct",
	ConnectViaGrid: "via-grid",
}

func (m BottomMode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("BottomMode(%d)", int(m))
}

// ParseBottomMode parses a mode name as printed by String.
func ParseBottomMode(s string) (BottomMode, error) {
	for m, name := range modeNames {
		if strings.EqualFold(s, name) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown bottom mode %q (printed, no-connect, direct, via-grid)", s)
}

// Adapter collects the pads and latch lines of a board and turns them into
// the jig parts.
type Adapter struct {
	// Source loads the test point and header footprints of the bottom PCB.
	// It defaults to the source of the board's components.
	Source pcb.FootprintSource

	board   *pcb.Board
	bounds  geom.Rect
	pads    []*pcb.Pad
	latches []*pcb.Line
}

// NewAdapter creates an adapter for board. The board outline must already
// be drawn; its bounds are taken now.
func NewAdapter(board *pcb.Board) (*Adapter, error) {
	bounds, err := board.Bounds()
	if err != nil {
		return nil, fmt.Errorf("fixture needs a board outline: %w", err)
	}
	return &Adapter{
		Source: board.Components.Source,
		board:  board,
		bounds: bounds,
	}, nil
}

// AddPad adds a pad to put a pogo pin on.
func (a *Adapter) AddPad(pad *pcb.Pad) error {
	if !pad.Front() {
		return fmt.Errorf("%w: %s", ErrBackSidePad, pad)
	}
	a.pads = append(a.pads, pad)
	return nil
}

// AddPads adds several pads, stopping at the first error.
func (a *Adapter) AddPads(pads ...*pcb.Pad) error {
	for _, p := range pads {
		if err := a.AddPad(p); err != nil {
			return err
		}
	}
	return nil
}

// AddComponentPads adds every pad of c. Handy for test point footprints.
func (a *Adapter) AddComponentPads(c *pcb.Component) error {
	return a.AddPads(c.PadList()...)
}

// AddLatch adds a support area along line and a latch clipping the board
// on the top block.
func (a *Adapter) AddLatch(line *pcb.Line) {
	a.latches = append(a.latches, line)
}

// Pads returns the pogo pads in the order they were added.
func (a *Adapter) Pads() []*pcb.Pad {
	return append([]*pcb.Pad(nil), a.pads...)
}

// Part is one generated file of the jig.
type Part struct {
	Suffix  string // appended to the base name
	Content string
}

// Parts generates every file of the jig for mode without writing anything.
func (a *Adapter) Parts(ctx context.Context, mode BottomMode) ([]Part, error) {
	if len(a.pads) == 0 {
		return nil, ErrNoPads
	}

	var parts []Part
	add := func(suffix string, gen func(*strings.Builder) error) error {
		var sb strings.Builder
		if err := gen(&sb); err != nil {
			return fmt.Errorf("generating %s: %w", suffix, err)
		}
		parts = append(parts, Part{Suffix: suffix, Content: sb.String()})
		return nil
	}

	if mode == Printed {
		if err := add("_bottom.scad", a.blockFile(bottomBlock)); err != nil {
			return nil, err
		}
		if err := add("_spacer.scad", a.blockFile(spacerBlock)); err != nil {
			return nil, err
		}
	} else {
		bottom, err := a.BottomPCB(ctx, mode)
		if err != nil {
			return nil, err
		}
		parts = append(parts, Part{Suffix: "_bottom.kicad_pcb", Content: bottom.String()})
		if err := add("_spacer_top.scad", a.blockFile(spacerTopBlock)); err != nil {
			return nil, err
		}
		if err := add("_spacer_bottom.scad", a.spacerBottom); err != nil {
			return nil, err
		}
	}
	if err := add("_top.scad", a.top); err != nil {
		return nil, err
	}
	parts = append(parts, Part{Suffix: "_latch.scad", Content: latchSCAD})
	return parts, nil
}

// Generate writes the jig files next to base (a path prefix such as
// "out/blinky") and returns their paths.
func (a *Adapter) Generate(ctx context.Context, base string, mode BottomMode) ([]string, error) {
	parts, err := a.Parts(ctx, mode)
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(parts))
	for _, p := range parts {
		path := base + p.Suffix
		if err := os.WriteFile(path, []byte(p.Content), 0o644); err != nil {
			return paths, fmt.Errorf("failed to write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
