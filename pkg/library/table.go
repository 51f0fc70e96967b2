// Package library resolves "Library:Footprint" ids through a KiCad
// fp-lib-table and loads the footprint records from disk or from the KiCad
// GitHub repositories.
package library

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// tableLexer splits an fp-lib-table into parentheses, quoted strings and
// bare atoms. Atoms cover names, types and unquoted URIs such as
// ${KISYSMOD}/Resistors_SMD.pretty.
var tableLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "String", Pattern: `"(?:[^"\\]|\\.)*"`},
	{Name: "LParen", Pattern: `\(`},
	{Name: "RParen", Pattern: `\)`},
	{Name: "Atom", Pattern: `[^\s()"]+`},
})

// tableNode is one parenthesized list of the table file.
type tableNode struct {
	Pos lexer.Position

	Head string      `"(" @Atom`
	Args []*tableArg `@@* ")"`
}

type tableArg struct {
	List *tableNode `  @@`
	Text *string    `| @(Atom | String)`
}

var tableParser = participle.MustBuild[tableNode](
	participle.Lexer(tableLexer),
	participle.Elide("Comment", "Whitespace"),
	participle.Unquote("String"),
	participle.UseLookahead(2),
)

// Entry is one (lib ...) row of the table.
type Entry struct {
	Name    string
	Type    string
	URI     string
	Options string
	Descr   string
}

// Table maps library names to their entries.
type Table struct {
	entries []Entry
	byName  map[string]int
}

// NewTable creates a table holding entries. Later entries win on duplicate
// names, as in KiCad.
func NewTable(entries ...Entry) *Table {
	t := &Table{byName: make(map[string]int)}
	for _, e := range entries {
		t.Add(e)
	}
	return t
}

// Add appends an entry, replacing an earlier one with the same name.
func (t *Table) Add(e Entry) {
	if i, ok := t.byName[e.Name]; ok {
		t.entries[i] = e
		return
	}
	t.byName[e.Name] = len(t.entries)
	t.entries = append(t.entries, e)
}

// Lookup returns the entry for a library name.
func (t *Table) Lookup(name string) (Entry, bool) {
	i, ok := t.byName[name]
	if !ok {
		return Entry{}, false
	}
	return t.entries[i], true
}

// Entries returns the entries in table order.
func (t *Table) Entries() []Entry {
	return append([]Entry(nil), t.entries...)
}

// ParseTable reads an fp-lib-table.
func ParseTable(r io.Reader) (*Table, error) {
	root, err := tableParser.Parse("fp-lib-table", r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse library table: %w", err)
	}
	return buildTable(root)
}

// ParseTableString is ParseTable on a string.
func ParseTableString(s string) (*Table, error) {
	return ParseTable(strings.NewReader(s))
}

// LoadTable reads the fp-lib-table at path.
func LoadTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open library table: %w", err)
	}
	defer f.Close()

	return ParseTable(f)
}

func buildTable(root *tableNode) (*Table, error) {
	if root.Head != "fp_lib_table" {
		return nil, fmt.Errorf("%s: expected fp_lib_table, got %q", root.Pos, root.Head)
	}

	t := NewTable()
	for _, arg := range root.Args {
		if arg.List == nil || arg.List.Head != "lib" {
			// (version N) and anything newer KiCad adds.
			continue
		}
		e := Entry{}
		for _, field := range arg.List.Args {
			if field.List == nil {
				continue
			}
			v := field.List.text()
			switch field.List.Head {
			case "name":
				e.Name = v
			case "type":
				e.Type = v
			case "uri":
				e.URI = v
			case "options":
				e.Options = v
			case "descr":
				e.Descr = v
			}
		}
		if e.Name == "" || e.Type == "" || e.URI == "" {
			return nil, fmt.Errorf("%s: library entry needs a name, a type and a uri", arg.List.Pos)
		}
		t.Add(e)
	}
	return t, nil
}

// text returns the first plain value of the node.
func (n *tableNode) text() string {
	for _, a := range n.Args {
		if a.Text != nil {
			return *a.Text
		}
	}
	return ""
}
