package renderer

import (
	"fmt"
	"image/color"
	"sort"
	"strings"
)

// ColorTheme selects the layer colors of a preview.
type ColorTheme int

const (
	ThemeClassic ColorTheme = iota
	ThemeKiCad2020
	ThemeBlueTone
	ThemeEagle
	ThemeNord
)

// ThemeNames maps theme enum to display name
var ThemeNames = map[ColorTheme]string{
	ThemeClassic:   "Classic",
	ThemeKiCad2020: "KiCad 2020",
	ThemeBlueTone:  "Blue Tone",
	ThemeEagle:     "Eagle",
	ThemeNord:      "Nord",
}

func (t ColorTheme) String() string {
	if name, ok := ThemeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("ColorTheme(%d)", int(t))
}

// ParseTheme finds a theme by name, ignoring case, spaces and dashes, so
// "kicad-2020" and "KiCad 2020" both work.
func ParseTheme(name string) (ColorTheme, error) {
	key := themeKey(name)
	for t, n := range ThemeNames {
		if themeKey(n) == key {
			return t, nil
		}
	}
	return ThemeClassic, fmt.Errorf("unknown color theme %q (have %s)", name, strings.Join(themeList(), ", "))
}

func themeKey(s string) string {
	return strings.NewReplacer(" ", "", "-", "", "_", "").Replace(strings.ToLower(s))
}

func themeList() []string {
	var names []string
	for _, n := range ThemeNames {
		names = append(names, themeKey(n))
	}
	sort.Strings(names)
	return names
}

// Palette holds the colors a preview is drawn with.
type Palette struct {
	Background color.NRGBA
	Substrate  color.NRGBA
	Pad        color.NRGBA
	Via        color.NRGBA
	Drill      color.NRGBA
	layers     map[string]color.NRGBA
}

// Layer returns the color of a layer, gray for layers the theme lacks.
func (p Palette) Layer(name string) color.NRGBA {
	if c, ok := p.layers[name]; ok {
		return c
	}
	return color.NRGBA{R: 128, G: 128, B: 128, A: 255}
}

// Palette returns the colors of the theme.
func (t ColorTheme) Palette() Palette {
	p := Palette{
		Background: color.NRGBA{R: 0, G: 16, B: 35, A: 255},
		Pad:        color.NRGBA{R: 227, G: 183, B: 46, A: 255},
		Via:        color.NRGBA{R: 236, G: 236, B: 236, A: 255},
		Drill:      color.NRGBA{R: 0, G: 16, B: 35, A: 255},
	}
	switch t {
	case ThemeKiCad2020:
		p.Substrate = color.NRGBA{R: 25, G: 95, B: 55, A: 255}
		p.layers = kicad2020Colors
	case ThemeBlueTone:
		p.Substrate = color.NRGBA{R: 20, G: 60, B: 90, A: 255}
		p.layers = blueToneColors
	case ThemeEagle:
		p.Background = color.NRGBA{A: 255}
		p.Substrate = color.NRGBA{R: 16, G: 16, B: 16, A: 255}
		p.layers = eagleColors
	case ThemeNord:
		p.Background = color.NRGBA{R: 36, G: 41, B: 51, A: 255}
		p.Substrate = color.NRGBA{R: 46, G: 52, B: 64, A: 255}
		p.layers = nordColors
	default:
		p.Substrate = color.NRGBA{R: 20, G: 90, B: 50, A: 255}
		p.layers = classicColors
	}
	p.Drill = p.Background
	return p
}

// Layers a generated board uses. Zones reuse the copper colors at a lower
// alpha.
var classicColors = map[string]color.NRGBA{
	"F.Cu":      {R: 200, G: 52, B: 52, A: 255},
	"B.Cu":      {R: 77, G: 127, B: 196, A: 255},
	"F.SilkS":   {R: 242, G: 237, B: 161, A: 255},
	"B.SilkS":   {R: 232, G: 178, B: 167, A: 255},
	"F.Fab":     {R: 175, G: 175, B: 175, A: 255},
	"B.Fab":     {R: 88, G: 93, B: 132, A: 255},
	"Edge.Cuts": {R: 208, G: 210, B: 205, A: 255},
}

var kicad2020Colors = map[string]color.NRGBA{
	"F.Cu":      {R: 179, G: 31, B: 31, A: 255},
	"B.Cu":      {R: 12, G: 98, B: 179, A: 255},
	"F.SilkS":   {R: 242, G: 237, B: 161, A: 255},
	"B.SilkS":   {R: 232, G: 178, B: 167, A: 255},
	"F.Fab":     {R: 128, G: 128, B: 128, A: 255},
	"B.Fab":     {R: 64, G: 64, B: 128, A: 255},
	"Edge.Cuts": {R: 255, G: 255, B: 0, A: 255},
}

var blueToneColors = map[string]color.NRGBA{
	"F.Cu":      {R: 72, G: 72, B: 200, A: 255},
	"B.Cu":      {R: 0, G: 132, B: 132, A: 255},
	"F.SilkS":   {R: 242, G: 242, B: 255, A: 255},
	"B.SilkS":   {R: 178, G: 178, B: 232, A: 255},
	"F.Fab":     {R: 175, G: 175, B: 200, A: 255},
	"B.Fab":     {R: 88, G: 93, B: 180, A: 255},
	"Edge.Cuts": {R: 208, G: 210, B: 255, A: 255},
}

var eagleColors = map[string]color.NRGBA{
	"F.Cu":      {R: 204, G: 0, B: 0, A: 255},
	"B.Cu":      {R: 0, G: 0, B: 204, A: 255},
	"F.SilkS":   {R: 255, G: 255, B: 255, A: 255},
	"B.SilkS":   {R: 200, G: 200, B: 200, A: 255},
	"F.Fab":     {R: 200, G: 200, B: 200, A: 255},
	"B.Fab":     {R: 100, G: 100, B: 150, A: 255},
	"Edge.Cuts": {R: 255, G: 255, B: 0, A: 255},
}

// Nord palette
var nordColors = map[string]color.NRGBA{
	"F.Cu":      {R: 191, G: 97, B: 106, A: 255},
	"B.Cu":      {R: 129, G: 161, B: 193, A: 255},
	"F.SilkS":   {R: 236, G: 239, B: 244, A: 255},
	"B.SilkS":   {R: 216, G: 222, B: 233, A: 255},
	"F.Fab":     {R: 216, G: 222, B: 233, A: 255},
	"B.Fab":     {R: 143, G: 188, B: 187, A: 255},
	"Edge.Cuts": {R: 229, G: 233, B: 240, A: 255},
}

// withAlpha returns c with its alpha replaced.
func withAlpha(c color.NRGBA, a uint8) color.NRGBA {
	c.A = a
	return c
}
