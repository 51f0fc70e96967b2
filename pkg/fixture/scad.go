package fixture

import (
	"fmt"
	"strings"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/kicad/sexp"
)

// block describes one layer of the printed jig.
type block struct {
	Height        float64 // total block height
	SupportHeight float64 // supports reaching up into the board cutout
	ThroughHole   float64 // pin hole going through the whole block
	TopHole       float64 // wider hole for the pin barrel, 0 for none
	TopHoleOffset float64 // height the wider hole starts at
	ScrewHoleR    float64 // corner screw holes
}

var (
	bottomBlock       = block{5, 5, 1.1, 3.2, 2, 2.2}
	spacerBlock       = block{16, 16, 1.1, 1.5, 2, 2.2}
	spacerTopBlock    = block{10.5, 10.5, 1.5, 1.5, 0, 2.2}
	spacerBottomBlock = block{3, 3, 1.5, 1.5, 0, 2.2}
	topBlock          = block{2.8, 1, 1, 0, 0, 1.97}
)

const (
	blockMargin  = 5   // block border around the board, also the corner radius
	latchOffsetR = 0.3 // clearance around the board cutout
)

const latchSCAD = `$fn = 90;
difference() {
    union() {
        cube([18, 5, 4.5]);
        translate([(18 - 4.5) / 2, 5, 0]) cube([4.5, 3.5, 4.5]);
        translate([(18 - 4.5) / 2, 8.5, 0]) rotate([90, 0, 90]) linear_extrude(4.5) polygon([[0, 0], [1.3, 0], [0, 4.5]]);
    }
    translate([9, 0, 2.25]) rotate([-90, 0, 0]) cylinder(6, 1.5, 1.5);
    translate([9 - 6, 0, 2.25]) rotate([-90, 0, 0]) cylinder(6, 1.7, 1.7);
    translate([9 + 6, 0, 2.25]) rotate([-90, 0, 0]) cylinder(6, 1.7, 1.7);
}
`

var num = sexp.FormatNum

func (a *Adapter) blockFile(b block) func(*strings.Builder) error {
	return func(sb *strings.Builder) error {
		sb.WriteString("$fn = 90;\n")
		return a.baseShape(sb, b)
	}
}

// baseShape writes a block: the rounded slab with corner screw holes and
// the board cut out, latch supports, and a hole for every pogo pin.
func (a *Adapter) baseShape(sb *strings.Builder, b block) error {
	edge, err := a.board.Edge.OpenSCAD(b.Height+1, latchOffsetR, true)
	if err != nil {
		return err
	}

	r := a.bounds
	sb.WriteString("difference() {\n")
	sb.WriteString("    union() {\n")
	sb.WriteString("        difference() {\n")
	fmt.Fprintf(sb, "            translate([%s, %s, 0]) linear_extrude(%s) offset(r = %d) offset(delta = %d) square([%s, %s]);\n",
		num(r.Left()), num(r.Top()), num(b.Height), blockMargin, blockMargin, num(r.Width()), num(r.Height()))
	corners := [][2]float64{
		{r.Left() - blockMargin, r.Top() - blockMargin},
		{r.Right() + blockMargin, r.Top() - blockMargin},
		{r.Right() + blockMargin, r.Bottom() + blockMargin},
		{r.Left() - blockMargin, r.Bottom() + blockMargin},
	}
	for _, c := range corners {
		fmt.Fprintf(sb, "            translate([%s, %s, 0]) cylinder(30, %s, %s);\n",
			num(c[0]), num(c[1]), num(b.ScrewHoleR), num(b.ScrewHoleR))
	}
	indent(sb, edge, "            ")
	sb.WriteString("        }\n")

	for _, l := range a.latches {
		c := l.Center()
		fmt.Fprintf(sb, "        translate([%s, %s, %s]) rotate([0, 0, %s]) cube([6, %s, %s], center = true);\n",
			num(c.X), num(c.Y), num(b.SupportHeight/2), num(90-l.Angle()), num(l.Length()+5), num(b.SupportHeight))
	}
	sb.WriteString("    }\n")

	for _, p := range a.pads {
		loc := p.Location()
		rot := num(90 - p.Owner.Angle)
		fmt.Fprintf(sb, "    translate([%s, %s, 25]) rotate([0, 0, %s]) cube([%s, %s, 50], center = true);\n",
			num(loc.X), num(loc.Y), rot, num(b.ThroughHole), num(b.ThroughHole))
		if b.TopHole > 0 {
			fmt.Fprintf(sb, "    translate([%s, %s, %s]) rotate([0, 0, %s]) cube([%s, %s, 50], center = true);\n",
				num(loc.X), num(loc.Y), num(25+b.TopHoleOffset), rot, num(b.TopHole), num(b.TopHole))
		}
	}
	sb.WriteString("}\n")
	return nil
}

// topLatches writes the latch arms clipping the board from above.
func (a *Adapter) topLatches(sb *strings.Builder) error {
	edge, err := a.board.Edge.OpenSCAD(10, latchOffsetR, true)
	if err != nil {
		return err
	}

	sb.WriteString("difference() {\n")
	sb.WriteString("    union() {\n")
	for _, l := range a.latches {
		c := l.Center()
		fmt.Fprintf(sb, "        translate([%s, %s, 0]) rotate([0, 0, %s]) difference() {\n",
			num(c.X), num(c.Y), num(90-l.Angle()))
		fmt.Fprintf(sb, "            translate([0, 0, 4]) cube([7, %s, 8], center = true);\n", num(l.Length()+5))
		sb.WriteString("            translate([0, 0, 2.5]) cube([7, 5, 5], center = true);\n")
		sb.WriteString("            translate([0, 6, 2.5]) rotate([0, 90, 0]) cylinder(8, 1.5, 1.5, center = true);\n")
		sb.WriteString("            translate([0, -6, 2.5]) rotate([0, 90, 0]) cylinder(8, 1.5, 1.5, center = true);\n")
		sb.WriteString("        }\n")
	}
	sb.WriteString("    }\n")
	indent(sb, edge, "    ")
	sb.WriteString("}\n")
	return nil
}

// top is the block resting on the board with the latches on it.
func (a *Adapter) top(sb *strings.Builder) error {
	sb.WriteString("$fn = 90;\n")
	if err := a.baseShape(sb, topBlock); err != nil {
		return err
	}
	fmt.Fprintf(sb, "translate([0, 0, %s]) {\n", num(topBlock.Height))
	if err := a.topLatches(sb); err != nil {
		return err
	}
	sb.WriteString("}\n")
	return nil
}

// spacerBottom is the lowest spacer with room cut out for the header of
// the bottom PCB.
func (a *Adapter) spacerBottom(sb *strings.Builder) error {
	n := float64(len(a.pads))
	left := a.bounds.Left() - bottomMargin
	right := a.bounds.Right() + bottomMargin
	bottom := a.bounds.Bottom() + bottomMargin

	sb.WriteString("$fn = 90;\n")
	sb.WriteString("difference() {\n")
	if err := a.baseShape(sb, spacerBottomBlock); err != nil {
		return err
	}
	fmt.Fprintf(sb, "    translate([%s, %s, 0]) cube([%s, 12.5, %s]);\n",
		num((left+right)/2-headerPitch/2*n), num(bottom-12.5), num(headerPitch*n), num(spacerBottomBlock.Height))
	sb.WriteString("}\n")
	return nil
}

func indent(sb *strings.Builder, text, prefix string) {
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		sb.WriteString(prefix)
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
}
