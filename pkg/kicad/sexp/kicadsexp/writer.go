package kicadsexp

import (
	"io"
	"strings"
)

// lineWidth is the width above which a list holding sub-lists is broken up.
const lineWidth = 100

// Format renders s in the layout KiCad itself uses: short lists stay on one
// line, long ones put each nested list on its own indented line.
func Format(s Sexp, depth int) string {
	var sb strings.Builder
	format(&sb, s, depth)
	return sb.String()
}

// Write writes the formatted form of s followed by a newline.
func Write(w io.Writer, s Sexp, depth int) error {
	_, err := io.WriteString(w, strings.Repeat("  ", depth)+Format(s, depth)+"\n")
	return err
}

func format(sb *strings.Builder, s Sexp, depth int) {
	l, ok := s.(*List)
	if !ok {
		sb.WriteString(s.String())
		return
	}

	inline := l.String()
	if len(inline)+2*depth <= lineWidth || !hasSubList(l) {
		sb.WriteString(inline)
		return
	}

	sb.WriteByte('(')
	i := 0
	// Leading atoms stay on the opening line.
	for ; i < len(l.elements) && l.elements[i].IsLeaf(); i++ {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(l.elements[i].String())
	}
	pad := strings.Repeat("  ", depth+1)
	for ; i < len(l.elements); i++ {
		sb.WriteByte('\n')
		sb.WriteString(pad)
		format(sb, l.elements[i], depth+1)
	}
	sb.WriteByte('\n')
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteByte(')')
}

func hasSubList(l *List) bool {
	for _, e := range l.elements {
		if !e.IsLeaf() {
			return true
		}
	}
	return false
}
