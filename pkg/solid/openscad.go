package solid

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// pointsPerLine is how many points are written per line of a polygon.
const pointsPerLine = 4

func formatNum(v float64) string {
	r := math.Round(v*1e6) / 1e6
	if r == 0 {
		r = 0
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

// OpenSCAD renders loops as an OpenSCAD difference of polygons: the first
// loop is the outline, the others are cut out of it. A non-zero thickness
// extrudes the result; offsetR grows it.
func OpenSCAD(loops []Loop, thickness, offsetR float64) string {
	var sb strings.Builder
	if thickness != 0 {
		fmt.Fprintf(&sb, "linear_extrude(%s) offset(r = %s) ", formatNum(thickness), formatNum(offsetR))
	}
	sb.WriteString("difference() {\n")
	for _, loop := range loops {
		sb.WriteString("    polygon(points = [")
		for i, p := range loop {
			if i > 0 {
				sb.WriteString(", ")
				if i%pointsPerLine == 0 {
					sb.WriteString("\n        ")
				}
			}
			fmt.Fprintf(&sb, "[%s, %s]", formatNum(p.X), formatNum(p.Y))
		}
		sb.WriteString("]);\n")
	}
	sb.WriteString("}\n")
	return sb.String()
}

// WriteOpenSCAD writes the OpenSCAD rendering of loops to w.
func WriteOpenSCAD(w io.Writer, loops []Loop, thickness, offsetR float64) error {
	_, err := io.WriteString(w, OpenSCAD(loops, thickness, offsetR))
	return err
}
