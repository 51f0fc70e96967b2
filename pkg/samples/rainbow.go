package samples

import (
	"context"
	"fmt"
	"math"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/geom"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/kicad/pcb"
)

// RainbowOptions shape the rainbow sample.
type RainbowOptions struct {
	OuterR float64
	InnerR float64

	// ConstAngle spaces the LEDs of every row by AngleStep degrees. When
	// false they are spaced Spacing mm apart along the row instead.
	ConstAngle bool
	AngleStep  float64
	Spacing    float64
}

// DefaultRainbowOptions returns the settings of the stock rainbow.
func DefaultRainbowOptions() RainbowOptions {
	return RainbowOptions{
		OuterR:     50,
		InnerR:     25,
		ConstAngle: true,
		AngleStep:  12,
		Spacing:    6,
	}
}

// Validate checks the options can produce a board.
func (o RainbowOptions) Validate() error {
	if !(o.InnerR > 0) || o.OuterR-o.InnerR < 7 {
		return fmt.Errorf("rainbow needs 0 < inner radius and at least 7mm of ring, got %v..%v", o.InnerR, o.OuterR)
	}
	if o.ConstAngle && !(o.AngleStep > 0) || !o.ConstAngle && !(o.Spacing > 0) {
		return fmt.Errorf("rainbow LED spacing must be positive")
	}
	return nil
}

// Rainbow builds a half ring board carrying rows of LEDs. Every row is
// chained by an arc trace from its first LED and fed from a header below
// the ring. It shows round outlines and arc routing.
func Rainbow(ctx context.Context, src pcb.FootprintSource, opts RainbowOptions) (*pcb.Board, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	b := pcb.NewBoard(src)
	gnd, err := b.Nets.AddNumbered(1, "GND")
	if err != nil {
		return nil, err
	}
	if _, err := b.Nets.AddNumbered(2, "VCC"); err != nil {
		return nil, err
	}

	center := geom.Pt(0, 0)
	w := pcb.DefaultLineWidth
	b.Edge.AddArc(center, geom.Pt(-opts.OuterR, 0), 180, w)
	b.Edge.AddArc(center, geom.Pt(-opts.InnerR, 0), 180, w)
	b.Edge.AddLine(geom.Pt(opts.InnerR, 0), geom.Pt(opts.OuterR, 0), w)
	b.Edge.AddLine(geom.Pt(-opts.InnerR, 0), geom.Pt(-opts.OuterR, 0), w)

	ring := opts.OuterR - opts.InnerR - 2
	interval := ring / math.Floor(ring/5)
	for d := opts.InnerR + 1; d < opts.OuterR; d += interval {
		b.FSilk.AddArc(center, geom.Pt(-d, 0), 180, w)
	}

	var firsts []*pcb.Pad
	count := 0
	for d := opts.InnerR + 1 + interval/2; d < opts.OuterR; d += interval {
		row := b.Nets.MustAdd(fmt.Sprintf("ROW%d", len(firsts)+1))
		step := opts.AngleStep
		if !opts.ConstAngle {
			step = opts.Spacing * 360 / (2 * math.Pi * d)
		}

		for angle := 12.0; angle < 170; angle += step {
			count++
			led, err := b.Components.Place(ctx, ledTHT, fmt.Sprintf("LED%d", count),
				geom.PointOnCircle(center, angle, d-1.27), angle, true)
			if err != nil {
				return nil, err
			}
			if err := checkPads(led, 2); err != nil {
				return nil, err
			}
			led.Pads[1].Net = row
			led.Pads[2].Net = gnd

			if len(firsts) == 0 || firsts[len(firsts)-1].Net != row {
				b.Traces.SetTraceStartAtPad(led.Pads[1], 0.3)
				firsts = append(firsts, led.Pads[1])
				continue
			}
			target := geom.AngleOf(center, led.Pads[1].Location())
			if _, err := b.Traces.ContinueTraceWithArcToAngle(center, target); err != nil {
				return nil, err
			}
		}
	}

	n := len(firsts)
	header := fmt.Sprintf("Connector_PinHeader_2.54mm:PinHeader_1x%02d_P2.54mm_Horizontal", n+1)
	at := geom.Pt((opts.OuterR+opts.InnerR)/2+float64(n)*2.54/2, -2)
	power, err := b.Components.Place(ctx, header, "PWR", at, 270, true)
	if err != nil {
		return nil, err
	}
	if err := checkPads(power, n+1); err != nil {
		return nil, err
	}
	power.Pads[1].Net = gnd
	for i, first := range firsts {
		pin := power.Pads[n+1-i]
		pin.Net = first.Net
		b.Traces.DrawTraceBetweenPads(first, pin, 0.3)
	}

	zone := b.Zones.Add(gnd, false)
	zone.Points = append(zone.Points,
		geom.Pt(-opts.OuterR, 0),
		geom.Pt(-opts.OuterR, -opts.OuterR),
		geom.Pt(opts.OuterR, -opts.OuterR),
		geom.Pt(opts.OuterR, 0),
	)

	b.MoveAll(geom.Pt(100+opts.OuterR, 100+opts.OuterR))
	return b, nil
}

func rainbowDesign(ctx context.Context, src pcb.FootprintSource) (*Design, error) {
	b, err := Rainbow(ctx, src, DefaultRainbowOptions())
	if err != nil {
		return nil, err
	}
	return &Design{Board: b}, nil
}
