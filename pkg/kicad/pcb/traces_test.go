package pcb

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/geom"
)

func TestContinueTrace(t *testing.T) {
	gnd := &Net{Number: 1, Name: "GND"}
	tr := NewTraces()

	tr.SetTraceStart(geom.Pt(0, 0), gnd, true, 0.3)
	tr.ContinueTrace(geom.Pt(5, 0))
	tr.ContinueTraceBy(0, 5)
	tr.ContinueTraceAngle(0, 2)

	segs := tr.Segments()
	if len(segs) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(segs))
	}

	wantEnds := []geom.Point{geom.Pt(5, 0), geom.Pt(5, 5), geom.Pt(7, 5)}
	for i, s := range segs {
		if !near(s.To, wantEnds[i]) {
			t.Errorf("segment %d ends at %v, want %v", i, s.To, wantEnds[i])
		}
		if i > 0 && s.From != segs[i-1].To {
			t.Errorf("segment %d does not continue the previous one", i)
		}
		if s.Net != gnd || !s.Front || s.Width != 0.3 {
			t.Errorf("segment %d = %+v, lost the route settings", i, s)
		}
	}
}

func TestZeroLengthTraceIsSkipped(t *testing.T) {
	tr := NewTraces()
	tr.SetTraceStart(geom.Pt(1, 1), nil, true, 0.25)
	tr.ContinueTrace(geom.Pt(1, 1))

	if n := len(tr.Segments()); n != 0 {
		t.Errorf("zero length trace recorded, have %d segments", n)
	}
}

func TestTracesUseCursor(t *testing.T) {
	tr := NewTraces()
	if tr.Cursor == nil {
		t.Fatal("NewTraces should allocate a cursor")
	}
	tr.SetTraceStart(geom.Pt(0, 0), nil, true, 0.25)
	tr.ContinueTrace(geom.Pt(4, 0))

	other := &Cursor{}
	other.SetStart(geom.Pt(10, 10), 0)
	first := tr.UseCursor(other)
	tr.ContinueTraceBy(0, 2)

	if !near(first.LastPoint, geom.Pt(4, 0)) {
		t.Errorf("the first route's cursor moved to %v", first.LastPoint)
	}
	if !near(other.LastPoint, geom.Pt(10, 12)) {
		t.Errorf("the second route's cursor at %v, want (10, 12)", other.LastPoint)
	}

	tr.UseCursor(first)
	tr.ContinueTraceBy(1, 0)
	segs := tr.Segments()
	if last := segs[len(segs)-1]; last.From != geom.Pt(4, 0) {
		t.Errorf("resumed route starts at %v, want (4, 0)", last.From)
	}
}

func TestContinueTraceToPadAssignsNet(t *testing.T) {
	fp := loadFootprint(t, "R_0805.kicad_mod")
	r1 := NewComponent(fp, "R1", geom.Pt(10, 10), 0, true)
	vcc := &Net{Number: 2, Name: "VCC"}

	tr := NewTraces()
	tr.SetTraceStart(geom.Pt(0, 10), vcc, true, 0.25)
	end := tr.ContinueTraceToPad(r1.Pads[1])

	if r1.Pads[1].Net != vcc {
		t.Errorf("pad net = %v, want VCC", r1.Pads[1].Net)
	}
	if !near(end, geom.Pt(9.05, 10)) {
		t.Errorf("trace ends at %v, want (9.05, 10)", end)
	}

	// Starting a route from a pad takes its net and side.
	tr.SetTraceStartAtPad(r1.Pads[1], 0.5)
	if tr.Net != vcc || !tr.Front || tr.Width != 0.5 {
		t.Errorf("route settings = net %v front %v width %v", tr.Net, tr.Front, tr.Width)
	}
}

func TestDrawTraceBetweenPads(t *testing.T) {
	fp := loadFootprint(t, "R_0805.kicad_mod")
	r1 := NewComponent(fp, "R1", geom.Pt(10, 10), 0, false)
	net := &Net{Number: 1, Name: "N"}
	r1.Pads[1].Net = net

	tr := NewTraces()
	tr.DrawTraceBetweenPads(r1.Pads[1], r1.Pads[2], 0.25)

	segs := tr.Segments()
	if len(segs) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segs))
	}
	if segs[0].Front {
		t.Error("trace from a back side pad must be on B.Cu")
	}
	if segs[0].Layer() != "B.Cu" || segs[0].Net != net {
		t.Errorf("segment = %+v", segs[0])
	}
}

func TestContinueTraceWithArcToAngle(t *testing.T) {
	center := geom.Pt(0, 0)
	tr := NewTraces()
	tr.SetTraceStart(geom.Pt(10, 0), nil, true, 0.25)

	end, err := tr.ContinueTraceWithArcToAngle(center, 90)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !near(end, geom.Pt(0, -10)) {
		t.Errorf("arc ends at %v, want (0, -10)", end)
	}

	// Steps of 180/pi/10 degrees: 14 intermediate points and the final one.
	segs := tr.Segments()
	if len(segs) != 15 {
		t.Errorf("expected 15 segments, got %d", len(segs))
	}
	for i, s := range segs {
		if d := geom.Distance(center, s.To); math.Abs(d-10) > 1e-9 {
			t.Errorf("segment %d ends %v from the center", i, d)
		}
		if l := geom.Distance(s.From, s.To); l > 1+1e-9 {
			t.Errorf("segment %d is %vmm long", i, l)
		}
	}
}

func TestContinueTraceWithArcVariants(t *testing.T) {
	center := geom.Pt(0, 0)

	tests := []struct {
		name string
		draw func(tr *Traces) (geom.Point, error)
		want geom.Point
	}{
		{
			name: "relative angle",
			draw: func(tr *Traces) (geom.Point, error) { return tr.ContinueTraceWithArc(center, -90) },
			want: geom.Pt(0, 10),
		},
		{
			name: "arc length",
			draw: func(tr *Traces) (geom.Point, error) { return tr.ContinueTraceWithArcLength(center, 10*math.Pi) },
			want: geom.Pt(-10, 0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewTraces()
			tr.SetTraceStart(geom.Pt(10, 0), nil, true, 0.25)
			got, err := tt.draw(tr)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !near(got, tt.want) || !near(tr.Cursor.LastPoint, tt.want) {
				t.Errorf("arc ends at %v (cursor %v), want %v", got, tr.Cursor.LastPoint, tt.want)
			}
		})
	}
}

func TestArcOnCenterIsInvalid(t *testing.T) {
	tr := NewTraces()
	tr.SetTraceStart(geom.Pt(3, 3), nil, true, 0.25)

	if _, err := tr.ContinueTraceWithArcToAngle(geom.Pt(3, 3), 90); !errors.Is(err, ErrInvalidGeometry) {
		t.Errorf("error = %v, want ErrInvalidGeometry", err)
	}
	if _, err := tr.ContinueTraceWithArcLength(geom.Pt(3, 3), 5); !errors.Is(err, ErrInvalidGeometry) {
		t.Errorf("error = %v, want ErrInvalidGeometry", err)
	}
	if n := len(tr.Segments()); n != 0 {
		t.Errorf("failed arc drew %d segments", n)
	}
}

func TestContinueTraceTowards(t *testing.T) {
	center := geom.Pt(0, 0)

	tests := []struct {
		name     string
		draw     func(tr *Traces) geom.Point
		wantEnd  geom.Point
		wantDist float64
	}{
		{
			name:     "towards center",
			draw:     func(tr *Traces) geom.Point { return tr.ContinueTraceTowards(center, 4) },
			wantEnd:  geom.Pt(6, 0),
			wantDist: 6,
		},
		{
			name:     "away from center",
			draw:     func(tr *Traces) geom.Point { return tr.ContinueTraceTowards(center, -2) },
			wantEnd:  geom.Pt(12, 0),
			wantDist: 12,
		},
		{
			name:     "to a radius",
			draw:     func(tr *Traces) geom.Point { return tr.ContinueTraceDistanceOnCircle(center, 3) },
			wantEnd:  geom.Pt(3, 0),
			wantDist: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewTraces()
			tr.SetTraceStart(geom.Pt(10, 0), nil, true, 0.25)
			got := tt.draw(tr)
			if !near(got, tt.wantEnd) {
				t.Errorf("ends at %v, want %v", got, tt.wantEnd)
			}
			if d := geom.Distance(center, got); math.Abs(d-tt.wantDist) > 1e-9 {
				t.Errorf("distance from center = %v, want %v", d, tt.wantDist)
			}
		})
	}
}

func TestContinueWithVia(t *testing.T) {
	net := &Net{Number: 3, Name: "SIG"}
	tr := NewTraces()
	tr.SetTraceStart(geom.Pt(0, 0), net, true, 0.25)
	tr.ContinueTrace(geom.Pt(5, 0))

	via := tr.ContinueWithVia(0.8, 0.4)
	if via.Location != geom.Pt(5, 0) || via.Net != net {
		t.Errorf("via = %+v", via)
	}
	if tr.Front {
		t.Error("route should continue on the back side after a via")
	}

	tr.ContinueTrace(geom.Pt(5, 5))
	segs := tr.Segments()
	if segs[len(segs)-1].Layer() != "B.Cu" {
		t.Errorf("segment after via on %s, want B.Cu", segs[len(segs)-1].Layer())
	}

	tr.SetTraceStartAtVia(via, true, 0.25)
	if tr.Cursor.LastPoint != via.Location || tr.Net != net {
		t.Errorf("route from via at %v net %v", tr.Cursor.LastPoint, tr.Net)
	}
}

func TestTracesKiCadData(t *testing.T) {
	net := &Net{Number: 4, Name: "CLK"}
	tr := NewTraces()
	tr.DrawTrace(geom.Pt(0, 0), geom.Pt(1.5, 0), net, false, 0.25)
	tr.DrawVia(geom.Pt(1.5, 0), 0.6, 0.4, net, true)
	tr.DrawTrace(geom.Pt(0, 1), geom.Pt(0, 2), nil, true, 0.25)

	got := tr.KiCadData()
	want := "  (via (at 1.5 0) (size 0.6) (drill 0.4) (layers F.Cu B.Cu) (net 4))\n" +
		"  (segment (start 0 0) (end 1.5 0) (width 0.25) (layer B.Cu) (net 4))\n" +
		"  (segment (start 0 1) (end 0 2) (width 0.25) (layer F.Cu) (net 0))\n"
	if got != want {
		t.Errorf("KiCadData() =\n%s\nwant\n%s", got, want)
	}
	if strings.Count(got, "\n") != 3 {
		t.Errorf("expected one record per line")
	}
}
