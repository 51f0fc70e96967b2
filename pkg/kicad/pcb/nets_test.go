package pcb

import (
	"errors"
	"testing"
)

func TestNetsAdd(t *testing.T) {
	nets := NewNets()

	gnd, err := nets.Add("GND")
	if err != nil {
		t.Fatalf("Add(GND) unexpected error: %v", err)
	}
	vcc := nets.MustAdd("VCC")
	if gnd.Number != 1 || vcc.Number != 2 {
		t.Errorf("numbers = %d, %d, want 1, 2", gnd.Number, vcc.Number)
	}

	if _, err := nets.AddNumbered(10, "CLK"); err != nil {
		t.Fatalf("AddNumbered(10) unexpected error: %v", err)
	}
	next, _ := nets.Add("DATA")
	if next.Number != 11 {
		t.Errorf("Add after 10 got %d, want 11", next.Number)
	}

	var numbers []int
	for _, n := range nets.All() {
		numbers = append(numbers, n.Number)
	}
	want := []int{1, 2, 10, 11}
	if len(numbers) != len(want) {
		t.Fatalf("All() = %v, want %v", numbers, want)
	}
	for i := range want {
		if numbers[i] != want[i] {
			t.Errorf("All() = %v, want %v", numbers, want)
			break
		}
	}
}

func TestNetsDuplicates(t *testing.T) {
	tests := []struct {
		name   string
		number int
		net    string
	}{
		{"same name", 5, "GND"},
		{"same number", 1, "OTHER"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nets := NewNets()
			nets.MustAdd("GND")

			if _, err := nets.AddNumbered(tt.number, tt.net); !errors.Is(err, ErrDuplicateNet) {
				t.Errorf("AddNumbered(%d, %q) error = %v, want ErrDuplicateNet", tt.number, tt.net, err)
			}
			if nets.Len() != 1 {
				t.Errorf("failed add changed the registry, %d nets", nets.Len())
			}
		})
	}
}

func TestNetsLookup(t *testing.T) {
	nets := NewNets()
	gnd := nets.MustAdd("GND")

	if got, ok := nets.ByName("GND"); !ok || got != gnd {
		t.Errorf("ByName(GND) = %v, %v", got, ok)
	}
	if got, ok := nets.ByNumber(1); !ok || got != gnd {
		t.Errorf("ByNumber(1) = %v, %v", got, ok)
	}
	if _, ok := nets.ByName("VCC"); ok {
		t.Error("ByName(VCC) should not be found")
	}
	if _, err := nets.AddNumbered(0, "ZERO"); err == nil {
		t.Error("net 0 is reserved")
	}
}
