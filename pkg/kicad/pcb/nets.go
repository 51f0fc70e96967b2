package pcb

import (
	"fmt"
	"sort"
)

// Net represents an electrical net
type Net struct {
	Number int    // Net number (ordinal), at least 1
	Name   string // Net name
}

func (n *Net) String() string {
	return fmt.Sprintf("%d %q", n.Number, n.Name)
}

// Nets is the board's net registry with lookup by number or name.
// Net 0 is reserved for unconnected items and is never registered.
type Nets struct {
	byNumber map[int]*Net
	byName   map[string]*Net
}

// NewNets creates an empty registry.
func NewNets() *Nets {
	return &Nets{
		byNumber: make(map[int]*Net),
		byName:   make(map[string]*Net),
	}
}

// Add registers a net under the next free number (one above the highest).
func (nm *Nets) Add(name string) (*Net, error) {
	next := 1
	for num := range nm.byNumber {
		if num >= next {
			next = num + 1
		}
	}
	return nm.AddNumbered(next, name)
}

// AddNumbered registers a net under an explicit number.
func (nm *Nets) AddNumbered(number int, name string) (*Net, error) {
	if number < 1 {
		return nil, fmt.Errorf("net %q: number %d must be at least 1", name, number)
	}
	if _, ok := nm.byName[name]; ok {
		return nil, fmt.Errorf("%w: name %q", ErrDuplicateNet, name)
	}
	if existing, ok := nm.byNumber[number]; ok {
		return nil, fmt.Errorf("%w: number %d already used by %q", ErrDuplicateNet, number, existing.Name)
	}

	net := &Net{Number: number, Name: name}
	nm.byNumber[number] = net
	nm.byName[name] = net
	return net, nil
}

// MustAdd is Add for board scripts that build their net list up front.
// It panics on a duplicate.
func (nm *Nets) MustAdd(name string) *Net {
	net, err := nm.Add(name)
	if err != nil {
		panic(err)
	}
	return net
}

// ByName retrieves a net by its name (e.g., "GND", "+5V")
func (nm *Nets) ByName(name string) (*Net, bool) {
	net, ok := nm.byName[name]
	return net, ok
}

// ByNumber retrieves a net by its number
func (nm *Nets) ByNumber(num int) (*Net, bool) {
	net, ok := nm.byNumber[num]
	return net, ok
}

// All returns the registered nets ordered by number.
func (nm *Nets) All() []*Net {
	nets := make([]*Net, 0, len(nm.byNumber))
	for _, n := range nm.byNumber {
		nets = append(nets, n)
	}
	sort.Slice(nets, func(i, j int) bool { return nets[i].Number < nets[j].Number })
	return nets
}

// Len returns the number of registered nets.
func (nm *Nets) Len() int {
	return len(nm.byNumber)
}

// netNumber returns the number written for n, 0 when unconnected.
func netNumber(n *Net) int {
	if n == nil {
		return 0
	}
	return n.Number
}
