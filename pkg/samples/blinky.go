package samples

import (
	"context"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/geom"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/kicad/pcb"
)

const (
	blinkyWidth   = 20
	blinkyHeight  = 30
	blinkyCornerR = 3

	axialResistor = "Resistor_THT:R_Axial_DIN0204_L3.6mm_D1.6mm_P7.62mm_Horizontal"
	ledTHT        = "LED_THT:LED_D5.0mm"
)

// Blinky555 builds a 555 astable blinker. The timer output drives an LED
// through R3; R1, R2 and C1 set the frequency.
func Blinky555(ctx context.Context, src pcb.FootprintSource) (*pcb.Board, error) {
	b := pcb.NewBoard(src)

	vcc, err := b.Nets.AddNumbered(1, "VCC")
	if err != nil {
		return nil, err
	}
	gnd, err := b.Nets.AddNumbered(2, "GND")
	if err != nil {
		return nil, err
	}

	parts, err := placeAll(ctx, b, []placement{
		{"IC555", "Package_DIP:DIP-8_W7.62mm", geom.Pt(6, 12), 0, 8},
		{"R1", axialResistor, geom.Pt(16.8, 14.5), 90, 2},
		{"R2", axialResistor, geom.Pt(16.8, 24.5), 90, 2},
		{"R3", axialResistor, geom.Pt(2, 16.86), 90, 2},
		{"C1", "Capacitor_THT:CP_Radial_D5.0mm_P2.50mm", geom.Pt(13.5, 24.5), 180, 2},
		{"C2", "Capacitor_THT:C_Disc_D3.0mm_W1.6mm_P2.50mm", geom.Pt(5.5, 22.86), 0, 2},
		{"LED1", ledTHT, geom.Pt(8.3, 5.5), 180, 2},
		{"PWR", "Connector_PinHeader_2.54mm:PinHeader_1x02_P2.54mm_Horizontal", geom.Pt(8, 26), 270, 2},
	})
	if err != nil {
		return nil, err
	}
	ic, r1, r2, r3 := parts["IC555"], parts["R1"], parts["R2"], parts["R3"]
	c1, c2, led, power := parts["C1"], parts["C2"], parts["LED1"], parts["PWR"]

	if _, err := drawRoundedRect(b.Edge, blinkyWidth, blinkyHeight, blinkyCornerR); err != nil {
		return nil, err
	}

	for _, p := range []*pcb.Pad{ic.Pads[4], ic.Pads[8], r1.Pads[2], power.Pads[1]} {
		p.Net = vcc
	}
	for _, p := range []*pcb.Pad{ic.Pads[1], led.Pads[1], c1.Pads[2], c2.Pads[1], power.Pads[2]} {
		p.Net = gnd
	}

	t := b.Traces
	w := pcb.DefaultTraceWidth

	ic.Pads[3].Net = b.Nets.MustAdd("OUT")
	t.SetTraceStartAtPad(ic.Pads[3], w)
	t.ContinueTraceToPad(r3.Pads[1])

	r3.Pads[2].Net = b.Nets.MustAdd("LED")
	t.SetTraceStartAtPad(r3.Pads[2], w)
	t.ContinueTraceToPad(led.Pads[2])

	ic.Pads[7].Net = b.Nets.MustAdd("DIS")
	t.SetTraceStartAtPad(ic.Pads[7], w)
	t.ContinueTraceToPad(r1.Pads[1])
	t.ContinueTraceToPad(r2.Pads[2])

	c1.Pads[1].Net = b.Nets.MustAdd("THR")
	t.SetTraceStartAtPad(c1.Pads[1], w)
	t.ContinueTraceToPad(r2.Pads[1])
	t.ContinueTraceBy(0, -4)
	t.ContinueTraceToPad(ic.Pads[6])
	t.ContinueTraceToPad(ic.Pads[2])

	ic.Pads[5].Net = b.Nets.MustAdd("CTRL")
	t.SetTraceStartAtPad(ic.Pads[5], w)
	t.ContinueTraceToPad(c2.Pads[2])

	bounds, err := b.Bounds()
	if err != nil {
		return nil, err
	}
	b.Zones.AddRect(vcc, true, bounds)
	b.Zones.AddRect(gnd, false, bounds)

	b.FSilk.AddText("+", power.Pads[1].Location().Add(geom.Pt(3, 2.5)))
	b.FSilk.AddText("-", power.Pads[2].Location().Add(geom.Pt(-3, 2.5)))

	b.MoveAll(geom.Pt(100, 100))
	return b, nil
}

func blinkyDesign(ctx context.Context, src pcb.FootprintSource) (*Design, error) {
	b, err := Blinky555(ctx, src)
	if err != nil {
		return nil, err
	}
	return &Design{Board: b}, nil
}

// drawRoundedRect outlines a width x height rectangle at the origin with
// corners of radius r, clockwise from the top left. It returns the four
// straight sides, top first.
func drawRoundedRect(edge *pcb.DrawingLayer, width, height, r float64) ([]*pcb.Line, error) {
	edge.Cursor.SetStart(geom.Pt(r, 0), 0)
	sides := []float64{width - 2*r, height - 2*r, width - 2*r, height - 2*r}
	lines := make([]*pcb.Line, 0, len(sides))
	for _, length := range sides {
		lines = append(lines, edge.ContinueLine(length))
		if _, err := edge.ContinueArc(r, -90); err != nil {
			return nil, err
		}
	}
	return lines, nil
}
