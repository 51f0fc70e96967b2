// Package kicadsexp provides a lightweight streaming S-expression parser and
// printer for KiCad files. Quoted strings and bare symbols are kept apart so
// a parsed record can be written back without changing its meaning.
package kicadsexp

import (
	"io"
	"strings"
)

// Sexp represents an S-expression node.
// It can be either a leaf (atom) or a list.
type Sexp interface {
	// IsLeaf returns true if this is an atom (not a list)
	IsLeaf() bool

	// LeafCount returns the number of elements in a list (1 for atoms)
	LeafCount() int

	// Head returns the first element of a list (the atom itself for atoms)
	Head() Sexp

	// Tail returns the rest of the list after the first element (nil for atoms)
	Tail() Sexp

	// String returns the string representation
	String() string
}

// Symbol represents a bare atom (identifier or number).
type Symbol string

func (s Symbol) IsLeaf() bool   { return true }
func (s Symbol) LeafCount() int { return 1 }
func (s Symbol) Head() Sexp     { return s }
func (s Symbol) Tail() Sexp     { return nil }
func (s Symbol) String() string { return string(s) }

// Quoted represents a double quoted string atom. The value is unescaped.
type Quoted string

func (q Quoted) IsLeaf() bool   { return true }
func (q Quoted) LeafCount() int { return 1 }
func (q Quoted) Head() Sexp     { return q }
func (q Quoted) Tail() Sexp     { return nil }
func (q Quoted) String() string { return quote(string(q)) }

var quoteReplacer = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\t", `\t`, "\r", `\r`)

func quote(s string) string {
	return `"` + quoteReplacer.Replace(s) + `"`
}

// Value returns the text of an atom without quotes. Lists return "".
func Value(s Sexp) string {
	switch v := s.(type) {
	case Symbol:
		return string(v)
	case Quoted:
		return string(v)
	}
	return ""
}

// List represents a list of S-expressions
type List struct {
	elements []Sexp
}

// NewList builds a list from its elements.
func NewList(elements ...Sexp) *List {
	return &List{elements: elements}
}

func (l *List) IsLeaf() bool { return false }

func (l *List) LeafCount() int {
	return len(l.elements)
}

func (l *List) Head() Sexp {
	if len(l.elements) == 0 {
		return nil
	}
	return l.elements[0]
}

func (l *List) Tail() Sexp {
	if len(l.elements) <= 1 {
		return nil
	}
	return &List{elements: l.elements[1:]}
}

func (l *List) String() string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i, elem := range l.elements {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(elem.String())
	}
	sb.WriteByte(')')
	return sb.String()
}

// Name returns the leading symbol of the list, or "" when there is none.
func (l *List) Name() string {
	if len(l.elements) == 0 {
		return ""
	}
	if sym, ok := l.elements[0].(Symbol); ok {
		return string(sym)
	}
	return ""
}

// Get returns the element at the given index
func (l *List) Get(index int) Sexp {
	if index < 0 || index >= len(l.elements) {
		return nil
	}
	return l.elements[index]
}

// Set replaces the element at index. Out of range indexes are ignored.
func (l *List) Set(index int, s Sexp) {
	if index < 0 || index >= len(l.elements) {
		return
	}
	l.elements[index] = s
}

// Len returns the number of elements in the list
func (l *List) Len() int {
	return len(l.elements)
}

// Items returns the backing elements. Callers must not append to it.
func (l *List) Items() []Sexp {
	return l.elements
}

// Append adds elements at the end of the list.
func (l *List) Append(s ...Sexp) {
	l.elements = append(l.elements, s...)
}

// Insert places s before index, clamping index to the list bounds.
func (l *List) Insert(index int, s Sexp) {
	if index < 0 {
		index = 0
	}
	if index > len(l.elements) {
		index = len(l.elements)
	}
	l.elements = append(l.elements, nil)
	copy(l.elements[index+1:], l.elements[index:])
	l.elements[index] = s
}

// RemoveIf drops every element for which drop returns true.
func (l *List) RemoveIf(drop func(Sexp) bool) {
	kept := l.elements[:0]
	for _, e := range l.elements {
		if !drop(e) {
			kept = append(kept, e)
		}
	}
	for i := len(kept); i < len(l.elements); i++ {
		l.elements[i] = nil
	}
	l.elements = kept
}

// Clone returns a deep copy of s. Atoms are immutable and returned as is.
func Clone(s Sexp) Sexp {
	l, ok := s.(*List)
	if !ok {
		return s
	}
	elems := make([]Sexp, len(l.elements))
	for i, e := range l.elements {
		elems[i] = Clone(e)
	}
	return &List{elements: elems}
}

// Walk calls fn for s and every list nested in it, depth first.
func Walk(s Sexp, fn func(*List)) {
	l, ok := s.(*List)
	if !ok {
		return
	}
	fn(l)
	for _, e := range l.elements {
		Walk(e, fn)
	}
}

// Parse parses S-expressions from an io.Reader.
func Parse(r io.Reader) ([]Sexp, error) {
	parser := NewParser(r)
	return parser.ParseAll()
}

// ParseString parses S-expressions from a string (convenience function)
func ParseString(s string) ([]Sexp, error) {
	return Parse(strings.NewReader(s))
}
