package samples

import (
	"context"
	"fmt"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/fixture"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/geom"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/kicad/pcb"
)

const (
	pitch        = 2.54
	headerPins   = 16
	atmegaViaD   = 0.45
	atmegaDrill  = 0.3
	fanoutLength = 1.1
)

// atmegaPins maps TQFP-32 pad numbers to net names.
var atmegaPins = []struct {
	pads []int
	net  string
}{
	{[]int{4, 6}, "VCC"},
	{[]int{3, 5, 21}, "GND"},
	{[]int{20}, "AREF"},
	{[]int{7}, "XTAL1"},
	{[]int{8}, "XTAL2"},
	{[]int{18}, "AVCC"},
	{[]int{29}, "NOT_RESET"},
	{[]int{30}, "D0_RX"},
	{[]int{31}, "D1_TX"},
	{[]int{32}, "D2"},
	{[]int{1}, "D3"},
	{[]int{2}, "D4"},
	{[]int{9}, "D5"},
	{[]int{10}, "D6"},
	{[]int{11}, "D7"},
	{[]int{23}, "C0"},
	{[]int{24}, "C1"},
	{[]int{25}, "C2"},
	{[]int{26}, "C3"},
	{[]int{27}, "C4_SDA"},
	{[]int{28}, "C5_SCL"},
	{[]int{12}, "B0"},
	{[]int{13}, "B1"},
	{[]int{14}, "B2"},
	{[]int{15}, "B3_MOSI"},
	{[]int{16}, "B4_MISO"},
	{[]int{17}, "B5_SCK"},
	{[]int{19}, "ANLG6"},
	{[]int{22}, "ANLG7"},
}

var labelStyle = pcb.TextStyle{Width: 1, Height: 1, Thickness: 0.15}

// Atmega328 is the breakout sample: an ATmega328 fanned out to two pin
// headers, with eight test points for in-circuit programming along the top.
type Atmega328 struct {
	Board *pcb.Board

	// Latches are the top and bottom outline edges the jig clips onto.
	Latches    []*pcb.Line
	TestPoints []*pcb.Component
}

// NewAtmega328 builds the breakout board.
func NewAtmega328(ctx context.Context, src pcb.FootprintSource) (*Atmega328, error) {
	b := pcb.NewBoard(src)

	parts, err := placeAll(ctx, b, []placement{
		{"IC1", "Package_QFP:TQFP-32_7x7mm_P0.8mm", geom.Pt(13, 3+8*pitch), -45, 32},
		{"CONN1", "Connector_PinHeader_2.54mm:PinHeader_1x16_P2.54mm_Vertical", geom.Pt(pitch/2, 3+pitch/2), 0, headerPins},
		{"CONN2", "Connector_PinHeader_2.54mm:PinHeader_1x16_P2.54mm_Vertical", geom.Pt(26-pitch/2, 3+pitch/2), 0, headerPins},
	})
	if err != nil {
		return nil, err
	}
	ic, left, right := parts["IC1"], parts["CONN1"], parts["CONN2"]

	for _, pin := range atmegaPins {
		net := b.Nets.MustAdd(pin.net)
		for _, n := range pin.pads {
			ic.Pads[n].Net = net
		}
	}

	lines, err := drawRoundedRect(b.Edge, 26, 16*pitch+6, 3)
	if err != nil {
		return nil, err
	}
	bounds, err := b.Bounds()
	if err != nil {
		return nil, err
	}
	vcc, _ := b.Nets.ByName("VCC")
	gnd, _ := b.Nets.ByName("GND")
	b.Zones.AddRect(vcc, true, bounds)
	b.Zones.AddRect(gnd, false, bounds)

	t := b.Traces
	w := pcb.DefaultTraceWidth

	// Pins 1..16 fan out to the left header.
	for i := 1; i <= headerPins; i++ {
		pad, pin := ic.Pads[i], left.Pads[i]
		t.SetTraceStartAtPad(pad, w)
		t.ContinueTraceAngle(ic.Angle+pad.RelativeAngle+180, fanoutLength)
		t.ContinueTraceBy(0, pin.Location().Y-t.Cursor.LastPoint.Y)
		t.ContinueTraceToPad(pin)
		b.FSilk.AddTextStyled(pin.Net.Name, pin.Location().Add(geom.Pt(4, 0)), 0, labelStyle)
		b.BSilk.AddTextStyled(pin.Net.Name, pin.Location().Add(geom.Pt(6, 0)), 0, labelStyle)
	}

	// Pins 32..17 to the right one. The bends are kept as via spots.
	var bends []geom.Point
	for i := 1; i <= headerPins; i++ {
		pad, pin := ic.Pads[33-i], right.Pads[i]
		t.SetTraceStartAtPad(pad, w)
		t.ContinueTraceAngle(ic.Angle+pad.RelativeAngle, fanoutLength)
		bends = append(bends, t.ContinueTraceBy(0, pin.Location().Y-t.Cursor.LastPoint.Y))
		t.ContinueTraceToPad(pin)
		b.FSilk.AddTextStyled(pin.Net.Name, pin.Location().Add(geom.Pt(-4, 0)), 0, labelStyle)
		b.BSilk.AddTextStyled(pin.Net.Name, pin.Location().Add(geom.Pt(-6, 0)), 0, labelStyle)
	}

	tps := make([]*pcb.Component, 8)
	for i := range tps {
		tp, err := b.Components.Place(ctx, "TestPoint:TestPoint_Pad_D1.5mm", fmt.Sprintf("TP%d", i+1),
			geom.Pt(3+pitch/2+float64(i)*pitch, pitch/2), 0, true)
		if err != nil {
			return nil, err
		}
		if err := checkPads(tp, 1); err != nil {
			return nil, err
		}
		tps[i] = tp
	}
	tpPad := func(i int) *pcb.Pad { return tps[i].Pads[1] }

	tpPad(0).Net = vcc
	tpPad(7).Net = gnd
	t.SetTraceStartAtPad(tpPad(7), 0.4)
	t.ContinueTraceBy(0, 2)
	t.ContinueWithVia(0.6, 0.4)

	// ICSP: MOSI, MISO and SCK drop to the back side and come up at TP2..TP4.
	for i, drop := range []float64{2.5, 2} {
		t.SetTraceStartAtPad(ic.Pads[15+i], w)
		t.ContinueTraceAngle(45, 1)
		t.ContinueWithVia(atmegaViaD, atmegaDrill)
		routeToTestPoint(t, tpPad(1+i), drop)
	}
	t.SetTraceStartAtPad(ic.Pads[17], w)
	t.ContinueTraceAngle(135, 1.2)
	t.ContinueTraceBy(0, -3)
	t.ContinueTraceBy(1, 0)
	t.ContinueWithVia(atmegaViaD, atmegaDrill)
	t.ContinueTraceBy(-1, -1)
	routeToTestPoint(t, tpPad(3), 1.5)

	// Serial and reset come from the right header bends.
	for i := 0; i < 3; i++ {
		t.DrawVia(bends[i+1], atmegaViaD, atmegaDrill, right.Pads[i+2].Net, false)
		routeToTestPoint(t, tpPad(4+i), 1.5+float64(i)*0.5)
	}

	return &Atmega328{Board: b, Latches: []*pcb.Line{lines[0], lines[2]}, TestPoints: tps}, nil
}

// routeToTestPoint runs vertically to drop mm below the test point, across
// to it and up through a via.
func routeToTestPoint(t *pcb.Traces, tp *pcb.Pad, drop float64) {
	at := tp.Location()
	t.ContinueTrace(geom.Pt(t.Cursor.LastPoint.X, at.Y+drop))
	t.ContinueTrace(geom.Pt(at.X, t.Cursor.LastPoint.Y))
	t.ContinueWithVia(atmegaViaD, atmegaDrill)
	t.ContinueTraceToPad(tp)
}

// Jig sets up a pogo-pin adapter over the test points, latching onto the
// top and bottom edges.
func (a *Atmega328) Jig() (*fixture.Adapter, error) {
	jig, err := fixture.NewAdapter(a.Board)
	if err != nil {
		return nil, err
	}
	for _, l := range a.Latches {
		jig.AddLatch(l)
	}
	for _, tp := range a.TestPoints {
		if err := jig.AddComponentPads(tp); err != nil {
			return nil, err
		}
	}
	return jig, nil
}

func atmegaDesign(ctx context.Context, src pcb.FootprintSource) (*Design, error) {
	a, err := NewAtmega328(ctx, src)
	if err != nil {
		return nil, err
	}
	jig, err := a.Jig()
	if err != nil {
		return nil, err
	}
	return &Design{Board: a.Board, Jig: jig}, nil
}
