package sexp

import (
	"fmt"
	"math"
	"strconv"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/geom"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/kicad/sexp/kicadsexp"
)

// S-expression navigation helpers

// FindNode searches for a child list with the given key (first symbol)
// Example: FindNode(sexp, "at") finds (at 100 50) in a list
func FindNode(s kicadsexp.Sexp, key string) (*kicadsexp.List, bool) {
	l, ok := s.(*kicadsexp.List)
	if !ok {
		return nil, false
	}

	for _, item := range l.Items() {
		if sub, ok := item.(*kicadsexp.List); ok && sub.Name() == key {
			return sub, true
		}
	}

	return nil, false
}

// FindAllNodes finds all child lists with the given key
func FindAllNodes(s kicadsexp.Sexp, key string) []*kicadsexp.List {
	var results []*kicadsexp.List

	l, ok := s.(*kicadsexp.List)
	if !ok {
		return results
	}

	for _, item := range l.Items() {
		if sub, ok := item.(*kicadsexp.List); ok && sub.Name() == key {
			results = append(results, sub)
		}
	}

	return results
}

// GetListItems returns all items in a list (excluding the first symbol/key)
// Example: GetListItems((layers "F.Cu" "B.Cu")) returns ["F.Cu", "B.Cu"]
func GetListItems(s kicadsexp.Sexp) []kicadsexp.Sexp {
	l, ok := s.(*kicadsexp.List)
	if !ok || l.Len() <= 1 {
		return []kicadsexp.Sexp{}
	}
	return l.Items()[1:]
}

// Typed value extraction helpers

// GetString extracts the text of an atom at the given index in a list.
// Index 0 is the key, 1 is first value, etc. Quoted and bare atoms are both
// accepted.
func GetString(s kicadsexp.Sexp, index int) (string, error) {
	l, ok := s.(*kicadsexp.List)
	if !ok {
		return "", fmt.Errorf("expected list, got leaf")
	}

	if index < 0 || index >= l.Len() {
		return "", fmt.Errorf("index %d out of bounds (length %d)", index, l.Len())
	}

	item := l.Get(index)
	if !item.IsLeaf() {
		return "", fmt.Errorf("expected atom at index %d, got list", index)
	}

	return kicadsexp.Value(item), nil
}

// GetFloat extracts a float64 value at the given index
func GetFloat(s kicadsexp.Sexp, index int) (float64, error) {
	str, err := GetString(s, index)
	if err != nil {
		return 0, err
	}

	val, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse float %q: %w", str, err)
	}

	return val, nil
}

// GetInt extracts an int value at the given index
func GetInt(s kicadsexp.Sexp, index int) (int, error) {
	str, err := GetString(s, index)
	if err != nil {
		return 0, err
	}

	val, err := strconv.Atoi(str)
	if err != nil {
		return 0, fmt.Errorf("failed to parse int %q: %w", str, err)
	}

	return val, nil
}

// GetNodeName returns the first symbol of a list (the node type/name)
func GetNodeName(s kicadsexp.Sexp) (string, error) {
	if sym, ok := s.(kicadsexp.Symbol); ok {
		return string(sym), nil
	}

	l, ok := s.(*kicadsexp.List)
	if !ok || l.Name() == "" {
		return "", fmt.Errorf("expected symbol at head of list")
	}

	return l.Name(), nil
}

// HasSymbol checks if a list contains a specific bare symbol
func HasSymbol(s kicadsexp.Sexp, symbol string) bool {
	l, ok := s.(*kicadsexp.List)
	if !ok {
		return false
	}

	for _, item := range l.Items() {
		if sym, ok := item.(kicadsexp.Symbol); ok && string(sym) == symbol {
			return true
		}
	}

	return false
}

// Domain-specific extraction helpers

// GetPosition extracts a position from an (at X Y [angle]) node.
// Footprint files store millimeters and degrees, no conversion is applied.
func GetPosition(s kicadsexp.Sexp) (PositionAngle, error) {
	key, err := GetString(s, 0)
	if err != nil {
		return PositionAngle{}, err
	}
	if key != "at" {
		return PositionAngle{}, fmt.Errorf("expected 'at', got %q", key)
	}

	p, err := GetPositionXY(s)
	if err != nil {
		return PositionAngle{}, err
	}

	result := PositionAngle{Point: p}

	// Angle is optional
	if angle, err := GetFloat(s, 3); err == nil {
		result.Angle = angle
	}

	return result, nil
}

// GetPositionXY extracts just X,Y coordinates (no angle)
// Used for (start X Y), (end X Y), (center X Y), etc.
func GetPositionXY(s kicadsexp.Sexp) (geom.Point, error) {
	x, err := GetFloat(s, 1)
	if err != nil {
		return geom.Point{}, fmt.Errorf("failed to parse X: %w", err)
	}

	y, err := GetFloat(s, 2)
	if err != nil {
		return geom.Point{}, fmt.Errorf("failed to parse Y: %w", err)
	}

	return geom.Point{X: x, Y: y}, nil
}

// GetSize extracts a (size W H) node.
func GetSize(s kicadsexp.Sexp) (Size, error) {
	w, err := GetFloat(s, 1)
	if err != nil {
		return Size{}, fmt.Errorf("failed to parse width: %w", err)
	}

	h, err := GetFloat(s, 2)
	if err != nil {
		return Size{}, fmt.Errorf("failed to parse height: %w", err)
	}

	return Size{Width: w, Height: h}, nil
}

// Writing helpers

// FormatNum formats a millimeter or degree value the way KiCad writes it:
// at most six decimals, no trailing zeros, no negative zero.
func FormatNum(v float64) string {
	r := math.Round(v*1e6) / 1e6
	if r == 0 {
		r = 0
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

// Num returns v as a bare number atom.
func Num(v float64) kicadsexp.Symbol {
	return kicadsexp.Symbol(FormatNum(v))
}

// XY builds a (key X Y) node.
func XY(key string, p geom.Point) *kicadsexp.List {
	return kicadsexp.NewList(kicadsexp.Symbol(key), Num(p.X), Num(p.Y))
}

// At builds an (at X Y [angle]) node. A zero angle is omitted.
func At(p geom.Point, angle float64) *kicadsexp.List {
	at := XY("at", p)
	if FormatNum(angle) != "0" {
		at.Append(Num(angle))
	}
	return at
}
