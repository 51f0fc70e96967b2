package solid

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/geom"
)

func seg(x1, y1, x2, y2 float64) Segment {
	return Segment{Start: geom.Pt(x1, y1), End: geom.Pt(x2, y2)}
}

func square(x, y, size float64) []Segment {
	return []Segment{
		seg(x, y, x+size, y),
		seg(x+size, y, x+size, y+size),
		seg(x+size, y+size, x, y+size),
		seg(x, y+size, x, y),
	}
}

func loopsEqual(a, b Loop) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Near(b[i], 1e-9) {
			return false
		}
	}
	return true
}

func TestReconstructSquare(t *testing.T) {
	loops, err := Reconstruct(square(0, 0, 10), nil, Options{})
	if err != nil {
		t.Fatalf("Reconstruct() unexpected error: %v", err)
	}
	if len(loops) != 1 {
		t.Fatalf("expected 1 loop, got %d", len(loops))
	}

	want := Loop{geom.Pt(0, 0), geom.Pt(10, 0), geom.Pt(10, 10), geom.Pt(0, 10)}
	if !loopsEqual(loops[0], want) {
		t.Errorf("loop = %v, want %v", loops[0], want)
	}
}

func TestReconstructUnorderedAndReversed(t *testing.T) {
	segs := []Segment{
		seg(10, 10, 10, 0), // reversed
		seg(0, 10, 0, 0),
		seg(0, 0, 10, 0),
		seg(0, 10, 10, 10), // reversed
	}

	loops, err := Reconstruct(segs, nil, Options{})
	if err != nil {
		t.Fatalf("Reconstruct() unexpected error: %v", err)
	}
	if len(loops) != 1 || len(loops[0]) != 4 {
		t.Fatalf("expected one loop of 4 points, got %v", loops)
	}

	// Seeded from the first segment starting at the minimum X.
	if loops[0][0] != geom.Pt(0, 10) {
		t.Errorf("loop starts at %v, want (0, 10)", loops[0][0])
	}
}

func TestReconstructTolerance(t *testing.T) {
	segs := square(0, 0, 10)
	segs[1].Start = geom.Pt(10.0004, -0.0004)

	if _, err := Reconstruct(segs, nil, Options{}); err != nil {
		t.Errorf("endpoints within tolerance should join, got %v", err)
	}
}

func TestReconstructHoles(t *testing.T) {
	segs := append(square(0, 0, 10), square(3, 3, 4)...)

	tests := []struct {
		name      string
		outerOnly bool
		wantLoops int
	}{
		{"with holes", false, 2},
		{"outer only", true, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loops, err := Reconstruct(segs, nil, Options{OuterOnly: tt.outerOnly})
			if err != nil {
				t.Fatalf("Reconstruct() unexpected error: %v", err)
			}
			if len(loops) != tt.wantLoops {
				t.Fatalf("got %d loops, want %d", len(loops), tt.wantLoops)
			}
			if loops[0][0] != geom.Pt(0, 0) {
				t.Errorf("outer loop should come first, starts at %v", loops[0][0])
			}
		})
	}
}

func TestReconstructErrors(t *testing.T) {
	tests := []struct {
		name    string
		segs    []Segment
		arcs    []Arc
		opts    Options
		wantErr error
	}{
		{
			name:    "nothing",
			segs:    nil,
			wantErr: geom.ErrEmptyGeometry,
		},
		{
			name:    "only zero length",
			segs:    []Segment{seg(1, 1, 1, 1)},
			wantErr: geom.ErrEmptyGeometry,
		},
		{
			name:    "three sides",
			segs:    square(0, 0, 10)[:3],
			wantErr: ErrOpenContour,
		},
		{
			name:    "branch",
			segs:    append(square(0, 0, 10), seg(10, 0, 20, 0)),
			wantErr: ErrAmbiguousJunction,
		},
		{
			name:    "dangling hole",
			segs:    append(square(0, 0, 10), seg(3, 3, 5, 5)),
			wantErr: ErrOpenContour,
		},
		{
			name:    "spur at the starting vertex",
			segs:    append(square(0, 0, 10), seg(0, 0, 5, 5)),
			opts:    Options{OuterOnly: true},
			wantErr: ErrAmbiguousJunction,
		},
		{
			name: "two triangles sharing the leftmost vertex",
			segs: []Segment{
				seg(0, 0, 10, -5), seg(10, -5, 10, -1), seg(10, -1, 0, 0),
				seg(0, 0, 10, 1), seg(10, 1, 10, 5), seg(10, 5, 0, 0),
			},
			wantErr: ErrAmbiguousJunction,
		},
		{
			name:    "there and back",
			segs:    []Segment{seg(0, 0, 5, 0), seg(5, 0, 0, 0)},
			wantErr: ErrOpenContour,
		},
		{
			name:    "circle too small to tessellate",
			arcs:    []Arc{{Center: geom.Pt(0, 0), Start: geom.Pt(0.1, 0), Sweep: 360}},
			wantErr: geom.ErrEmptyGeometry,
		},
		{
			name:    "small half circle closed by a line",
			segs:    []Segment{seg(-0.1, 0, 0.1, 0)},
			arcs:    []Arc{{Center: geom.Pt(0, 0), Start: geom.Pt(0.1, 0), Sweep: 180}},
			wantErr: ErrOpenContour,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loops, err := Reconstruct(tt.segs, tt.arcs, tt.opts)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Reconstruct() error = %v, want %v", err, tt.wantErr)
			}
			if loops != nil {
				t.Errorf("no loops expected on failure, got %v", loops)
			}
		})
	}
}

func TestReconstructHolesStartLeftmost(t *testing.T) {
	segs := append(square(0, 0, 20), square(12, 5, 3)...)
	segs = append(segs, square(3, 5, 3)...)

	loops, err := Reconstruct(segs, nil, Options{})
	if err != nil {
		t.Fatalf("Reconstruct() unexpected error: %v", err)
	}
	if len(loops) != 3 {
		t.Fatalf("expected 3 loops, got %d", len(loops))
	}
	for i, want := range []geom.Point{geom.Pt(0, 0), geom.Pt(3, 5), geom.Pt(12, 5)} {
		if loops[i][0] != want {
			t.Errorf("loop %d starts at %v, want %v", i, loops[i][0], want)
		}
	}
}

func TestTessellateDropsShortChords(t *testing.T) {
	tests := []struct {
		name     string
		arc      Arc
		wantSegs int
	}{
		{"tiny full circle", Arc{Center: geom.Pt(0, 0), Start: geom.Pt(0.1, 0), Sweep: 360}, 0},
		{"tiny half circle", Arc{Center: geom.Pt(0, 0), Start: geom.Pt(0.1, 0), Sweep: 180}, 1},
		{"sub tolerance arc", Arc{Center: geom.Pt(0, 0), Start: geom.Pt(0.0004, 0), Sweep: 90}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segs := Tessellate(tt.arc)
			if len(segs) != tt.wantSegs {
				t.Fatalf("Tessellate() gave %d chords, want %d: %v", len(segs), tt.wantSegs, segs)
			}
			for i, s := range segs {
				if s.Start.Near(s.End, geom.Epsilon) {
					t.Errorf("chord %d is shorter than the tolerance: %v", i, s)
				}
			}
		})
	}
}

func TestReconstructLeavesInputAlone(t *testing.T) {
	segs := square(0, 0, 10)
	before := append([]Segment(nil), segs...)

	if _, err := Reconstruct(segs, nil, Options{}); err != nil {
		t.Fatalf("Reconstruct() unexpected error: %v", err)
	}
	for i := range segs {
		if segs[i] != before[i] {
			t.Fatalf("input segment %d changed from %v to %v", i, before[i], segs[i])
		}
	}
}

func TestArcEnd(t *testing.T) {
	a := Arc{Center: geom.Pt(0, 0), Start: geom.Pt(10, 0), Sweep: 90}
	if got := a.End(); !got.Near(geom.Pt(0, 10), 1e-9) {
		t.Errorf("End() = %v, want (0, 10)", got)
	}
}

func TestTessellate(t *testing.T) {
	tests := []struct {
		name  string
		arc   Arc
		chord float64
	}{
		{"quarter r10", Arc{Center: geom.Pt(0, 0), Start: geom.Pt(10, 0), Sweep: 90}, 1},
		{"negative sweep", Arc{Center: geom.Pt(5, 5), Start: geom.Pt(5, 0), Sweep: -180}, 1},
		{"small radius", Arc{Center: geom.Pt(0, 0), Start: geom.Pt(0.5, 0), Sweep: 45}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segs := Tessellate(tt.arc)
			if len(segs) == 0 {
				t.Fatal("no segments")
			}

			if segs[0].Start != tt.arc.Start {
				t.Errorf("first segment starts at %v, want %v", segs[0].Start, tt.arc.Start)
			}
			if got := segs[len(segs)-1].End; got != tt.arc.End() {
				t.Errorf("last segment ends at %v, want %v", got, tt.arc.End())
			}

			r := geom.Distance(tt.arc.Center, tt.arc.Start)
			for i, s := range segs {
				if d := geom.Distance(tt.arc.Center, s.End); math.Abs(d-r) > 1e-9 {
					t.Errorf("segment %d ends off the circle: %v from center, want %v", i, d, r)
				}
				if l := geom.Distance(s.Start, s.End); l > tt.chord+1e-9 {
					t.Errorf("segment %d is %vmm long", i, l)
				}
				if i > 0 && segs[i-1].End != s.Start {
					t.Errorf("segment %d does not continue segment %d", i, i-1)
				}
			}
		})
	}
}

func TestTessellateDegenerate(t *testing.T) {
	if segs := Tessellate(Arc{Center: geom.Pt(1, 1), Start: geom.Pt(1, 1), Sweep: 90}); segs != nil {
		t.Errorf("zero radius should give no segments, got %v", segs)
	}
	if segs := Tessellate(Arc{Center: geom.Pt(0, 0), Start: geom.Pt(1, 0), Sweep: 0}); segs != nil {
		t.Errorf("zero sweep should give no segments, got %v", segs)
	}
}

func TestReconstructWithArcs(t *testing.T) {
	// A 10x10 square with its top-right corner rounded by r=3.
	segs := []Segment{
		seg(0, 0, 7, 0),
		seg(10, 3, 10, 10),
		seg(10, 10, 0, 10),
		seg(0, 10, 0, 0),
	}
	arcs := []Arc{{Center: geom.Pt(7, 3), Start: geom.Pt(7, 0), Sweep: 90}}

	loops, err := Reconstruct(segs, arcs, Options{})
	if err != nil {
		t.Fatalf("Reconstruct() unexpected error: %v", err)
	}
	if len(loops) != 1 {
		t.Fatalf("expected 1 loop, got %d", len(loops))
	}
	if n := len(loops[0]); n < 6 {
		t.Errorf("rounded corner should add points, loop has %d", n)
	}
}

func TestOpenSCAD(t *testing.T) {
	loops := []Loop{
		{geom.Pt(0, 0), geom.Pt(10, 0), geom.Pt(10, 10), geom.Pt(0, 10)},
		{geom.Pt(3, 3), geom.Pt(7, 3), geom.Pt(7, 7), geom.Pt(3, 7)},
	}

	got := OpenSCAD(loops, 1.6, 0.3)
	want := "linear_extrude(1.6) offset(r = 0.3) difference() {\n" +
		"    polygon(points = [[0, 0], [10, 0], [10, 10], [0, 10]]);\n" +
		"    polygon(points = [[3, 3], [7, 3], [7, 7], [3, 7]]);\n" +
		"}\n"
	if got != want {
		t.Errorf("OpenSCAD() =\n%s\nwant\n%s", got, want)
	}

	flat := OpenSCAD(loops[:1], 0, 0)
	if !strings.HasPrefix(flat, "difference() {") {
		t.Errorf("zero thickness should not extrude, got %q", flat)
	}
}

func TestOpenSCADWrapsLongPolygons(t *testing.T) {
	var loop Loop
	for i := 0; i < 9; i++ {
		loop = append(loop, geom.Pt(float64(i), 0))
	}
	got := OpenSCAD([]Loop{loop}, 0, 0)
	if n := strings.Count(got, "\n"); n != 5 {
		t.Errorf("expected 5 lines for 9 points, got %d:\n%s", n, got)
	}
}
