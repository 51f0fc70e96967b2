package parser

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/kicad/sexp"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/kicad/sexp/kicadsexp"
)

// lookupNet resolves the (net n) child of node, nil when absent or unknown.
func lookupNet(node kicadsexp.Sexp, netMap *NetMap) *Net {
	netNode, found := sexp.FindNode(node, "net")
	if !found || netMap == nil {
		return nil
	}
	num, err := sexp.GetInt(netNode, 1)
	if err != nil {
		return nil
	}
	net, _ := netMap.GetByNumber(num)
	return net
}

// parseSegment extracts a track segment (copper trace)
// Expected format: (segment (start x y) (end x y) (width w) (layer L) (net n))
func parseSegment(node kicadsexp.Sexp, netMap *NetMap) (*Track, error) {
	if node.IsLeaf() {
		return nil, fmt.Errorf("expected segment list, got leaf")
	}

	track := &Track{
		Width: 0.15, // Default width
	}

	startNode, found := sexp.FindNode(node, "start")
	if !found {
		return nil, fmt.Errorf("missing required 'start' position")
	}
	start, err := sexp.GetPositionXY(startNode)
	if err != nil {
		return nil, fmt.Errorf("failed to parse start position: %w", err)
	}
	track.Start = start

	endNode, found := sexp.FindNode(node, "end")
	if !found {
		return nil, fmt.Errorf("missing required 'end' position")
	}
	end, err := sexp.GetPositionXY(endNode)
	if err != nil {
		return nil, fmt.Errorf("failed to parse end position: %w", err)
	}
	track.End = end

	if widthNode, found := sexp.FindNode(node, "width"); found {
		width, err := sexp.GetFloat(widthNode, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to parse width: %w", err)
		}
		track.Width = width
	}

	layerNode, found := sexp.FindNode(node, "layer")
	if !found {
		return nil, fmt.Errorf("missing required 'layer' field")
	}
	if track.Layer, err = sexp.GetString(layerNode, 1); err != nil {
		return nil, fmt.Errorf("failed to parse layer: %w", err)
	}

	track.Net = lookupNet(node, netMap)
	_, track.Locked = sexp.FindNode(node, "locked")
	return track, nil
}

// parseVia extracts a via definition
// Expected format: (via (at x y) (size d) (drill d) (layers L1 L2) (net n))
func parseVia(node kicadsexp.Sexp, netMap *NetMap) (*Via, error) {
	if node.IsLeaf() {
		return nil, fmt.Errorf("expected via list, got leaf")
	}

	via := &Via{}

	atNode, found := sexp.FindNode(node, "at")
	if !found {
		return nil, fmt.Errorf("missing required 'at' position")
	}
	pos, err := sexp.GetPositionXY(atNode)
	if err != nil {
		return nil, fmt.Errorf("failed to parse position: %w", err)
	}
	via.Position = pos

	for _, field := range []struct {
		key string
		dst *float64
	}{
		{"size", &via.Size},
		{"drill", &via.Drill},
	} {
		n, found := sexp.FindNode(node, field.key)
		if !found {
			return nil, fmt.Errorf("missing required '%s' field", field.key)
		}
		if *field.dst, err = sexp.GetFloat(n, 1); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", field.key, err)
		}
	}

	layersNode, found := sexp.FindNode(node, "layers")
	if !found {
		return nil, fmt.Errorf("missing required 'layers' field")
	}
	for _, item := range sexp.GetListItems(layersNode) {
		if item.IsLeaf() {
			via.Layers = append(via.Layers, kicadsexp.Value(item))
		}
	}

	via.Net = lookupNet(node, netMap)
	_, via.Locked = sexp.FindNode(node, "locked")
	return via, nil
}

// parseTracks extracts all track segments from the root node
func parseTracks(root kicadsexp.Sexp, netMap *NetMap) ([]Track, error) {
	var tracks []Track
	for _, n := range sexp.FindAllNodes(root, "segment") {
		track, err := parseSegment(n, netMap)
		if err != nil {
			return nil, fmt.Errorf("failed to parse segment: %w", err)
		}
		tracks = append(tracks, *track)
	}
	return tracks, nil
}

// parseVias extracts all via definitions from the root node
func parseVias(root kicadsexp.Sexp, netMap *NetMap) ([]Via, error) {
	var vias []Via
	for _, n := range sexp.FindAllNodes(root, "via") {
		via, err := parseVia(n, netMap)
		if err != nil {
			return nil, fmt.Errorf("failed to parse via: %w", err)
		}
		vias = append(vias, *via)
	}
	return vias, nil
}
