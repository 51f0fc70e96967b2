package renderer

// LayerConfig controls which layers are drawn. Every layer is visible until
// hidden.
type LayerConfig struct {
	hidden map[string]bool
	only   map[string]bool
}

// NewLayerConfig creates a configuration with all layers visible.
func NewLayerConfig() *LayerConfig {
	return &LayerConfig{hidden: make(map[string]bool)}
}

// SetVisible shows or hides one layer.
func (lc *LayerConfig) SetVisible(layer string, visible bool) {
	lc.hidden[layer] = !visible
	if visible && lc.only != nil {
		lc.only[layer] = true
	}
}

// IsVisible reports whether a layer is drawn. A nil config shows everything.
func (lc *LayerConfig) IsVisible(layer string) bool {
	if lc == nil {
		return true
	}
	if lc.hidden[layer] {
		return false
	}
	if lc.only != nil {
		return lc.only[layer]
	}
	return true
}

// ShowAll makes every layer visible again.
func (lc *LayerConfig) ShowAll() {
	lc.hidden = make(map[string]bool)
	lc.only = nil
}

// ShowOnly hides every layer but the given ones.
func (lc *LayerConfig) ShowOnly(layers ...string) {
	lc.ShowAll()
	lc.only = make(map[string]bool)
	for _, layer := range layers {
		lc.only[layer] = true
	}
}

func (lc *LayerConfig) ShowCopperOnly() {
	lc.ShowOnly("F.Cu", "B.Cu", "Edge.Cuts")
}

func (lc *LayerConfig) HideSilkscreen() {
	lc.SetVisible("F.SilkS", false)
	lc.SetVisible("B.SilkS", false)
}
