package renderer

import (
	"image/color"
	"testing"
)

func TestParseTheme(t *testing.T) {
	tests := []struct {
		in      string
		want    ColorTheme
		wantErr bool
	}{
		{"classic", ThemeClassic, false},
		{"KiCad 2020", ThemeKiCad2020, false},
		{"kicad-2020", ThemeKiCad2020, false},
		{"blue_tone", ThemeBlueTone, false},
		{"NORD", ThemeNord, false},
		{"solarized", ThemeClassic, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTheme(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTheme(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseTheme(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestPalette(t *testing.T) {
	for theme := range ThemeNames {
		p := theme.Palette()
		for _, layer := range []string{"F.Cu", "B.Cu", "F.SilkS", "B.SilkS", "Edge.Cuts"} {
			if c := p.Layer(layer); c.A == 0 {
				t.Errorf("%v has no color for %s", theme, layer)
			}
		}
		if p.Drill != p.Background {
			t.Errorf("%v: drill holes should show the background", theme)
		}
	}

	gray := color.NRGBA{R: 128, G: 128, B: 128, A: 255}
	if got := ThemeClassic.Palette().Layer("In7.Cu"); got != gray {
		t.Errorf("unknown layer color = %v, want gray", got)
	}
	if s := ColorTheme(42).String(); s != "ColorTheme(42)" {
		t.Errorf("String() = %s", s)
	}
}

func TestLayerConfig(t *testing.T) {
	var none *LayerConfig
	if !none.IsVisible("F.Cu") {
		t.Error("a nil config shows every layer")
	}

	lc := NewLayerConfig()
	if !lc.IsVisible("F.Cu") {
		t.Error("layers start visible")
	}

	lc.HideSilkscreen()
	if lc.IsVisible("F.SilkS") || !lc.IsVisible("B.Cu") {
		t.Error("HideSilkscreen() hid the wrong layers")
	}

	lc.ShowCopperOnly()
	for layer, want := range map[string]bool{"F.Cu": true, "B.Cu": true, "Edge.Cuts": true, "F.SilkS": false} {
		if got := lc.IsVisible(layer); got != want {
			t.Errorf("after ShowCopperOnly IsVisible(%s) = %v, want %v", layer, got, want)
		}
	}

	lc.SetVisible("F.SilkS", true)
	lc.SetVisible("B.Cu", false)
	if !lc.IsVisible("F.SilkS") || lc.IsVisible("B.Cu") {
		t.Error("SetVisible() did not override ShowOnly")
	}

	lc.ShowAll()
	if !lc.IsVisible("B.Cu") || !lc.IsVisible("Dwgs.User") {
		t.Error("ShowAll() left layers hidden")
	}
}
