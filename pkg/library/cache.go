package library

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// DefaultCacheTTL is how long a downloaded footprint stays fresh.
const DefaultCacheTTL = 24 * time.Hour

// Cache stores fetched footprint text by key, usually the download URL.
type Cache interface {
	Get(key string) ([]byte, bool)
	Put(key string, data []byte) error
}

// MemoryCache keeps entries for the life of the process.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

// NewMemoryCache creates an empty in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string][]byte)}
}

func (c *MemoryCache) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	data, ok := c.entries[key]
	return data, ok
}

func (c *MemoryCache) Put(key string, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = append([]byte(nil), data...)
	return nil
}

// DiskCache keeps one file per key in Dir. Entries older than TTL, judged by
// the file modification time, are treated as missing.
type DiskCache struct {
	Dir string
	TTL time.Duration

	// Now returns the current time; time.Now when nil.
	Now func() time.Time
}

// NewDiskCache creates a cache in dir with the default freshness.
func NewDiskCache(dir string) *DiskCache {
	return &DiskCache{Dir: dir, TTL: DefaultCacheTTL}
}

// fileName flattens a key into a single path element.
func fileName(key string) string {
	return strings.NewReplacer(":", "_", "/", "_", "\\", "_").Replace(key)
}

func (c *DiskCache) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c *DiskCache) Get(key string) ([]byte, bool) {
	path := filepath.Join(c.Dir, fileName(key))
	info, err := os.Stat(path)
	if err != nil {
		return nil, false
	}
	if c.TTL > 0 && !info.ModTime().After(c.now().Add(-c.TTL)) {
		return nil, false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	return data, true
}

func (c *DiskCache) Put(key string, data []byte) error {
	if err := os.MkdirAll(c.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	path := filepath.Join(c.Dir, fileName(key))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}
