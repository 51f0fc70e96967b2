package pcb

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/geom"
)

func sampleBoard(t *testing.T) *Board {
	t.Helper()
	fp := loadFootprint(t, "R_0805.kicad_mod")
	b := NewBoard(mapSource{"Resistors_SMD:R_0805": fp})
	b.Zones.NewID = fixedID

	gnd := b.Nets.MustAdd("GND")
	vcc := b.Nets.MustAdd("VCC")

	drawSquare(b.Edge, 0, 0, 20)
	b.FSilk.AddText("OTB", geom.Pt(10, 2))

	r1, err := b.Components.Place(context.Background(), "Resistors_SMD:R_0805", "R1", geom.Pt(10, 10), 0, true)
	if err != nil {
		t.Fatalf("Place() unexpected error: %v", err)
	}
	b.Traces.SetTraceStart(geom.Pt(2, 10), vcc, true, 0.25)
	b.Traces.ContinueTraceToPad(r1.Pads[1])
	b.Zones.AddRect(gnd, false, geom.RectLTRB(0, 0, 20, 20))
	return b
}

func TestBoardString(t *testing.T) {
	got := sampleBoard(t).String()

	if !strings.HasPrefix(got, "(kicad_pcb (version 4) (host pcbnew 4.0.7)\n") {
		t.Errorf("unexpected header:\n%.80s", got)
	}
	if !strings.HasSuffix(got, ")\n") {
		t.Error("document is not closed")
	}
	if strings.Count(got, "(") != strings.Count(got, ")") {
		t.Error("unbalanced parentheses")
	}

	// Sections come in the order KiCad writes them.
	sections := []string{
		"(layers",
		"(setup",
		`(net 0 "")`,
		`(net 1 "GND")`,
		`(net 2 "VCC")`,
		"(net_class Default",
		`(add_net "GND")`,
		"(module R_0805",
		"(segment",
		"(gr_line",
		"(gr_text",
		"(zone",
	}
	last := -1
	for _, s := range sections {
		i := strings.Index(got, s)
		if i < 0 {
			t.Errorf("document lacks %s", s)
			continue
		}
		if i < last {
			t.Errorf("%s is out of order", s)
		}
		last = i
	}

	if !strings.Contains(got, `(net 2 "VCC"))`) {
		t.Error("pad 1 of R1 should be on VCC")
	}
	if strings.Count(got, "(gr_line") != 4 {
		t.Errorf("expected 4 outline lines")
	}
}

func TestBoardDesignRules(t *testing.T) {
	b := NewBoard(nil)
	b.Rules.TraceWidth = 0.3
	b.Rules.ViaDrill = 0.35

	got := b.String()
	for _, want := range []string{
		"(last_trace_width 0.3)",
		"(trace_width 0.3)",
		"(via_drill 0.35)",
		"(trace_clearance 0.2)",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("document lacks %s", want)
		}
	}
}

func TestBoardMoveAll(t *testing.T) {
	b := sampleBoard(t)
	b.MoveAll(geom.Pt(100, 50))

	bounds, err := b.Bounds()
	if err != nil {
		t.Fatalf("Bounds() unexpected error: %v", err)
	}
	if want := geom.RectLTRB(100, 50, 120, 70); bounds != want {
		t.Errorf("Bounds() = %+v, want %+v", bounds, want)
	}

	r1, _ := b.Components.ByReference("R1")
	if r1.Location != geom.Pt(110, 60) {
		t.Errorf("R1 at %v, want (110, 60)", r1.Location)
	}
	if seg := b.Traces.Segments()[0]; !near(seg.To, r1.Pads[1].Location()) {
		t.Errorf("trace ends at %v, pad is at %v", seg.To, r1.Pads[1].Location())
	}
	if z := b.Zones.All()[0]; z.Points[0] != geom.Pt(100, 50) {
		t.Errorf("zone starts at %v", z.Points[0])
	}
	if txt := b.FSilk.Texts()[0]; txt.Location != geom.Pt(110, 52) {
		t.Errorf("text at %v", txt.Location)
	}
}

func TestBoardBoundsWithoutOutline(t *testing.T) {
	if _, err := NewBoard(nil).Bounds(); !errors.Is(err, ErrEmptyGeometry) {
		t.Errorf("Bounds() error = %v, want ErrEmptyGeometry", err)
	}
}

func TestBoardWrite(t *testing.T) {
	b := sampleBoard(t)

	var buf bytes.Buffer
	n, err := b.WriteTo(&buf)
	if err != nil {
		t.Fatalf("WriteTo() unexpected error: %v", err)
	}
	if n != int64(buf.Len()) || buf.String() != b.String() {
		t.Errorf("WriteTo() wrote %d bytes, not the document", n)
	}

	path := filepath.Join(t.TempDir(), "board.kicad_pcb")
	if err := b.WriteFile(path); err != nil {
		t.Fatalf("WriteFile() unexpected error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read board file: %v", err)
	}
	if string(data) != buf.String() {
		t.Error("file content differs from WriteTo")
	}
}
