package fixture

import (
	"context"
	"fmt"
	"slices"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/geom"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/kicad/pcb"
)

const (
	bottomMargin   = 10    // bottom PCB border around the board
	bottomCorner   = 5     // corner radius of the bottom PCB
	mountHoleR     = 2.05  // corner mounting holes
	headerPitch    = 2.54  // pin socket pitch
	headerInset    = 10.15 // header distance from the bottom edge
	routeWidth     = 0.6
	gridViaSize    = 0.7
	gridViaDrill   = 0.6
	testPointID    = "TestPoint:TestPoint_Pad_D1.5mm"
	headerLibrary  = "Connector_PinSocket_2.54mm"
	headerRef      = "OUT_CONN_1"
	notReadyText   = "This PCB is NOT ready!\nVerify all connections are good"
	noConnectText  = "This PCB is NOT ready!\nConnect test points to something,\npreferably the connector at the bottom\nautorouter should do well"
	headerTextDrop = 5.65
)

var (
	headerTextStyle = pcb.TextStyle{Width: 1, Height: 1, Thickness: 0.2}
	noteTextStyle   = pcb.TextStyle{Width: 4.5, Height: 4.5, Thickness: 0.9}
)

// headerFootprint returns the id of a horizontal single row socket with n pins.
func headerFootprint(n int) string {
	return fmt.Sprintf("%s:PinSocket_1x%02d_P2.54mm_Horizontal", headerLibrary, n)
}

// BottomPCB builds the board sitting under the jig: a test point under
// every pogo pin, a pin socket along the bottom edge and, depending on
// mode, the traces between them. The result is moved to (100, 100) so it
// opens inside the KiCad page.
func (a *Adapter) BottomPCB(ctx context.Context, mode BottomMode) (*pcb.Board, error) {
	switch mode {
	case NoConnect, ConnectDirect, ConnectViaGrid:
	default:
		return nil, fmt.Errorf("bottom mode %s has no PCB", mode)
	}
	if len(a.pads) == 0 {
		return nil, ErrNoPads
	}

	out := pcb.NewBoard(a.Source)
	left := a.bounds.Left() - bottomMargin
	top := a.bounds.Top() - bottomMargin
	right := a.bounds.Right() + bottomMargin
	bottom := a.bounds.Bottom() + bottomMargin
	drawRoundedOutline(out.Edge, left, top, right, bottom)

	// Pins are numbered right to left, then top to bottom.
	pads := a.Pads()
	slices.SortStableFunc(pads, func(p, q *pcb.Pad) int {
		lp, lq := p.Location(), q.Location()
		switch {
		case lp.X > lq.X:
			return -1
		case lp.X < lq.X:
			return 1
		case lp.Y < lq.Y:
			return -1
		case lp.Y > lq.Y:
			return 1
		}
		return 0
	})

	nets := make(map[*pcb.Net]*pcb.Net)
	points := make([]*pcb.Pad, len(pads))
	for i, p := range pads {
		if p.Net == nil {
			return nil, fmt.Errorf("%w: %s", ErrPadWithoutNet, p)
		}
		net, ok := nets[p.Net]
		if !ok {
			var err error
			if net, err = out.Nets.AddNumbered(p.Net.Number, p.Net.Name); err != nil {
				return nil, err
			}
			nets[p.Net] = net
		}

		tp, err := out.Components.Place(ctx, testPointID, fmt.Sprintf("TP%d", i+1), p.Location(), p.Owner.Angle, false)
		if err != nil {
			return nil, err
		}
		first := tp.PadList()
		if len(first) == 0 {
			return nil, fmt.Errorf("test point %s has no pad", tp.Reference)
		}
		first[0].Net = net
		points[i] = first[0]
	}

	n := len(pads)
	at := geom.Pt((left+right)/2+headerPitch/2*float64(n-1), bottom-headerInset)
	header, err := out.Components.Place(ctx, headerFootprint(n), headerRef, at, 270, false)
	if err != nil {
		return nil, err
	}
	pins := make([]*pcb.Pad, n)
	for i := range pins {
		pin, ok := header.Pads[i+1]
		if !ok {
			return nil, fmt.Errorf("header %s has no pin %d", header.Footprint.Name, i+1)
		}
		pin.Net = points[i].Net
		label := pin.Location().Add(geom.Pt(0, headerTextDrop))
		out.FSilk.AddTextStyled(pin.Net.Name, label, 90, headerTextStyle)
		out.BSilk.AddTextStyled(pin.Net.Name, label, 90, headerTextStyle)
		pins[i] = pin
	}

	note := notReadyText
	switch mode {
	case NoConnect:
		note = noConnectText
	case ConnectDirect:
		for i, tp := range points {
			out.Traces.SetTraceStartAtPad(tp, routeWidth)
			out.Traces.ContinueTraceToPad(pins[i])
		}
	case ConnectViaGrid:
		for i, tp := range points {
			out.Traces.SetTraceStartAtPad(tp, routeWidth)
			out.Traces.ContinueTrace(geom.Pt(pins[i].Location().X, tp.Location().Y))
			out.Traces.ContinueWithVia(gridViaSize, gridViaDrill)
			out.Traces.ContinueTraceToPad(pins[i])
		}
	}
	out.FSilk.AddTextStyled(note, a.bounds.Center(), 0, noteTextStyle)

	out.MoveAll(geom.Pt(100, 100))
	return out, nil
}

// drawRoundedOutline draws a rectangle with rounded corners and a mounting
// hole in each corner.
func drawRoundedOutline(edge *pcb.DrawingLayer, left, top, right, bottom float64) {
	const r = bottomCorner
	w := pcb.DefaultLineWidth
	edge.AddLine(geom.Pt(left+r, top), geom.Pt(right-r, top), w)
	edge.AddArc(geom.Pt(right-r, top+r), geom.Pt(right-r, top), 90, w)
	edge.AddLine(geom.Pt(right, top+r), geom.Pt(right, bottom-r), w)
	edge.AddArc(geom.Pt(right-r, bottom-r), geom.Pt(right, bottom-r), 90, w)
	edge.AddLine(geom.Pt(right-r, bottom), geom.Pt(left+r, bottom), w)
	edge.AddArc(geom.Pt(left+r, bottom-r), geom.Pt(left+r, bottom), 90, w)
	edge.AddLine(geom.Pt(left, bottom-r), geom.Pt(left, top+r), w)
	edge.AddArc(geom.Pt(left+r, top+r), geom.Pt(left, top+r), 90, w)

	for _, c := range []geom.Point{
		geom.Pt(left+r, top+r),
		geom.Pt(left+r, bottom-r),
		geom.Pt(right-r, top+r),
		geom.Pt(right-r, bottom-r),
	} {
		edge.AddCircle(c, mountHoleR, w)
	}
}
