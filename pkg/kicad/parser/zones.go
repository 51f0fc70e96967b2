package parser

import (
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/geom"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/kicad/sexp"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/kicad/sexp/kicadsexp"
)

// parseZone extracts a zone outline.
// Returns a slice because multi-layer zones create one zone per layer
func parseZone(node kicadsexp.Sexp, netMap *NetMap) []Zone {
	base := Zone{Net: lookupNet(node, netMap)}

	if polyNode, found := sexp.FindNode(node, "polygon"); found {
		if ptsNode, found := sexp.FindNode(polyNode, "pts"); found {
			base.Outline = parsePoints(ptsNode)
		}
	}

	var layers []string
	if layerNode, found := sexp.FindNode(node, "layer"); found {
		if layer, err := sexp.GetString(layerNode, 1); err == nil {
			layers = append(layers, layer)
		}
	}
	// (layers ...) overrides a single layer
	if layersNode, found := sexp.FindNode(node, "layers"); found {
		layers = nil
		for _, item := range sexp.GetListItems(layersNode) {
			if item.IsLeaf() {
				layers = append(layers, kicadsexp.Value(item))
			}
		}
	}

	zones := make([]Zone, 0, len(layers))
	for _, layer := range layers {
		z := base
		z.Layer = layer
		zones = append(zones, z)
	}
	return zones
}

// parsePoints extracts xy coordinate pairs from a pts node
func parsePoints(ptsNode kicadsexp.Sexp) []geom.Point {
	var points []geom.Point
	for _, item := range sexp.FindAllNodes(ptsNode, "xy") {
		if p, err := sexp.GetPositionXY(item); err == nil {
			points = append(points, p)
		}
	}
	return points
}

func parseZones(root kicadsexp.Sexp, netMap *NetMap) []Zone {
	var zones []Zone
	for _, n := range sexp.FindAllNodes(root, "zone") {
		zones = append(zones, parseZone(n, netMap)...)
	}
	return zones
}
