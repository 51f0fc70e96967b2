package library

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// DefaultGitHubBase replaces ${KIGITHUB} in table URIs.
	DefaultGitHubBase = "https://raw.githubusercontent.com/KiCad"
	// DefaultTimeout bounds a single footprint download.
	DefaultTimeout = 5 * time.Second

	footprintExt = ".kicad_mod"
)

// Fetcher reads the raw text of one footprint of a library.
type Fetcher interface {
	Fetch(ctx context.Context, lib Entry, footprint string) ([]byte, error)
}

// Expand substitutes ${VAR} references in a table URI, first from vars and
// then from the environment.
func Expand(uri string, vars map[string]string) string {
	return os.Expand(uri, func(name string) string {
		if v, ok := vars[name]; ok {
			return v
		}
		return os.Getenv(name)
	})
}

// LocalFetcher reads footprints from .pretty directories, the "KiCad"
// library type.
type LocalFetcher struct {
	// Vars are substituted into URIs before the environment, typically
	// KISYSMOD and KICAD*_FOOTPRINT_DIR.
	Vars map[string]string
}

func (f *LocalFetcher) Fetch(_ context.Context, lib Entry, footprint string) ([]byte, error) {
	dir := Expand(lib.URI, f.Vars)
	path := filepath.Join(dir, footprint+footprintExt)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read footprint %s:%s: %w", lib.Name, footprint, err)
	}
	return data, nil
}

// GitHubFetcher downloads footprints from the KiCad GitHub repositories,
// the "Github" library type. Downloads go through Cache when set.
type GitHubFetcher struct {
	Client  *http.Client
	Base    string        // DefaultGitHubBase when empty
	Timeout time.Duration // DefaultTimeout when zero
	Cache   Cache
}

// URL returns the raw file address of a footprint.
func (f *GitHubFetcher) URL(lib Entry, footprint string) string {
	base := f.Base
	if base == "" {
		base = DefaultGitHubBase
	}
	uri := strings.ReplaceAll(lib.URI, "${KIGITHUB}", base)
	return strings.TrimSuffix(uri, "/") + "/master/" + footprint + footprintExt
}

func (f *GitHubFetcher) Fetch(ctx context.Context, lib Entry, footprint string) ([]byte, error) {
	url := f.URL(lib, footprint)
	if f.Cache != nil {
		if data, ok := f.Cache.Get(url); ok {
			return data, nil
		}
	}

	timeout := f.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download %s: %s", url, resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", url, err)
	}

	if f.Cache != nil {
		if err := f.Cache.Put(url, data); err != nil {
			return nil, err
		}
	}
	return data, nil
}
