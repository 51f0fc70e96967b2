package library

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/kicad/pcb"
)

// Loader resolves footprints through a library table and keeps every parsed
// footprint for reuse. It implements pcb.FootprintSource.
type Loader struct {
	Table *Table

	// Fetchers are keyed by lower case library type ("kicad", "github").
	Fetchers map[string]Fetcher

	// Logger receives fetch and reuse messages; nothing is logged when nil.
	Logger *log.Logger

	mu         sync.Mutex
	footprints map[string]*pcb.Footprint
}

// Options configure the fetchers of a Loader created by NewLoader.
type Options struct {
	Vars   map[string]string // URI substitutions for local libraries
	Cache  Cache             // download cache for GitHub libraries
	GitHub *GitHubFetcher    // replaces the default GitHub fetcher
	Logger *log.Logger
}

// NewLoader creates a loader with the local and GitHub fetchers.
func NewLoader(table *Table, opts Options) *Loader {
	gh := opts.GitHub
	if gh == nil {
		gh = &GitHubFetcher{}
	}
	if gh.Cache == nil {
		gh.Cache = opts.Cache
	}
	return &Loader{
		Table: table,
		Fetchers: map[string]Fetcher{
			"kicad":  &LocalFetcher{Vars: opts.Vars},
			"github": gh,
		},
		Logger: opts.Logger,
	}
}

func (l *Loader) logf(format string, args ...any) {
	if l.Logger != nil {
		l.Logger.Printf(format, args...)
	}
}

// Footprint returns the parsed footprint name of library. Each footprint is
// fetched and parsed once per loader.
func (l *Loader) Footprint(ctx context.Context, library, name string) (*pcb.Footprint, error) {
	key := library + "/" + name

	l.mu.Lock()
	defer l.mu.Unlock()

	if fp, ok := l.footprints[key]; ok {
		l.logf("[INFO] reusing footprint %s:%s", library, name)
		return fp, nil
	}

	data, err := l.Raw(ctx, library, name)
	if err != nil {
		return nil, err
	}
	fp, err := pcb.ParseFootprint(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("footprint %s:%s: %w", library, name, err)
	}

	if l.footprints == nil {
		l.footprints = make(map[string]*pcb.Footprint)
	}
	l.footprints[key] = fp
	return fp, nil
}

// Raw returns the footprint file text without parsing it.
func (l *Loader) Raw(ctx context.Context, library, name string) ([]byte, error) {
	if l.Table == nil {
		return nil, fmt.Errorf("%w: %s (no library table)", ErrLibraryNotFound, library)
	}
	lib, ok := l.Table.Lookup(library)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLibraryNotFound, library)
	}
	fetcher, ok := l.Fetchers[strings.ToLower(lib.Type)]
	if !ok {
		return nil, fmt.Errorf("%w: %s (library %s)", ErrUnsupportedType, lib.Type, library)
	}

	l.logf("[INFO] loading footprint %s:%s from %s", library, name, lib.URI)
	data, err := fetcher.Fetch(ctx, lib, name)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: %s:%s", ErrEmptyFootprint, library, name)
	}
	return data, nil
}
