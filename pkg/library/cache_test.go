package library

import (
	"bytes"
	"testing"
	"time"
)

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache()
	if _, ok := c.Get("k"); ok {
		t.Fatal("empty cache returned an entry")
	}

	data := []byte("(module X)")
	if err := c.Put("k", data); err != nil {
		t.Fatalf("Put() unexpected error: %v", err)
	}
	data[0] = '#'

	got, ok := c.Get("k")
	if !ok || string(got) != "(module X)" {
		t.Errorf("Get() = %q, %v", got, ok)
	}
}

func TestDiskCacheFreshness(t *testing.T) {
	start := time.Now()
	c := NewDiskCache(t.TempDir())
	c.Now = func() time.Time { return start }

	key := "https://raw.githubusercontent.com/KiCad/Lib.pretty/master/R.kicad_mod"
	if err := c.Put(key, []byte("(module R)")); err != nil {
		t.Fatalf("Put() unexpected error: %v", err)
	}

	tests := []struct {
		name  string
		after time.Duration
		fresh bool
	}{
		{"just written", 0, true},
		{"within a day", 23 * time.Hour, true},
		{"after a day", 25 * time.Hour, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c.Now = func() time.Time { return start.Add(tt.after) }
			got, ok := c.Get(key)
			if ok != tt.fresh {
				t.Fatalf("Get() ok = %v, want %v", ok, tt.fresh)
			}
			if ok && !bytes.Equal(got, []byte("(module R)")) {
				t.Errorf("Get() = %q", got)
			}
		})
	}
}

func TestDiskCacheMissing(t *testing.T) {
	c := NewDiskCache(t.TempDir())
	if _, ok := c.Get("nothing"); ok {
		t.Error("missing entry reported as cached")
	}
}

func TestFileName(t *testing.T) {
	got := fileName("https://host/a/b.kicad_mod")
	want := "https___host_a_b.kicad_mod"
	if got != want {
		t.Errorf("fileName() = %q, want %q", got, want)
	}
}
