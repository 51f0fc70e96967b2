package library

import (
	"path/filepath"
	"testing"
)

func TestLoadTable(t *testing.T) {
	table, err := LoadTable(filepath.Join("testdata", "fp-lib-table"))
	if err != nil {
		t.Fatalf("LoadTable() unexpected error: %v", err)
	}

	tests := []struct {
		name string
		want Entry
	}{
		{"Resistors", Entry{Name: "Resistors", Type: "KiCad", URI: "${TESTDATA}/Resistors.pretty", Descr: "Test resistors"}},
		{"Resistors_SMD", Entry{Name: "Resistors_SMD", Type: "Github", URI: "${KIGITHUB}/Resistors_SMD.pretty", Descr: "Resistors, SMD"}},
		{"Legacy", Entry{Name: "Legacy", Type: "Legacy", URI: "/nowhere/legacy.mod"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := table.Lookup(tt.name)
			if !ok {
				t.Fatalf("Lookup(%q) not found", tt.name)
			}
			if got != tt.want {
				t.Errorf("Lookup(%q) = %+v, want %+v", tt.name, got, tt.want)
			}
		})
	}

	if n := len(table.Entries()); n != 3 {
		t.Errorf("Entries() has %d entries, want 3", n)
	}
}

func TestParseTableQuoted(t *testing.T) {
	// KiCad 6 and later quote every value and add a version.
	input := `(fp_lib_table
  (version 7)
  # user libraries
  (lib (name "Package_DIP")(type "KiCad")(uri "${KICAD7_FOOTPRINT_DIR}/Package_DIP.pretty")(options "")(descr "DIP packages"))
)`
	table, err := ParseTableString(input)
	if err != nil {
		t.Fatalf("ParseTableString() unexpected error: %v", err)
	}

	got, ok := table.Lookup("Package_DIP")
	if !ok {
		t.Fatal("Package_DIP not found")
	}
	if got.URI != "${KICAD7_FOOTPRINT_DIR}/Package_DIP.pretty" || got.Type != "KiCad" {
		t.Errorf("entry = %+v", got)
	}
}

func TestParseTableErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"unbalanced", "(fp_lib_table (lib (name A)(type KiCad)(uri /a)"},
		{"wrong root", "(sym_lib_table)"},
		{"missing uri", "(fp_lib_table (lib (name A)(type KiCad)))"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseTableString(tt.input); err == nil {
				t.Errorf("ParseTableString(%q) expected error", tt.input)
			}
		})
	}
}

func TestTableAddReplaces(t *testing.T) {
	table := NewTable(
		Entry{Name: "A", Type: "KiCad", URI: "/one"},
		Entry{Name: "B", Type: "KiCad", URI: "/two"},
		Entry{Name: "A", Type: "KiCad", URI: "/three"},
	)

	if got, _ := table.Lookup("A"); got.URI != "/three" {
		t.Errorf("A resolves to %s, want /three", got.URI)
	}
	if n := len(table.Entries()); n != 2 {
		t.Errorf("Entries() has %d entries, want 2", n)
	}
}
