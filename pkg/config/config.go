// Package config gathers the settings of the otb tool from a .env file, the
// environment and a JSON settings file in the user configuration directory.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables read by Load.
const (
	EnvLibTable     = "OTB_FP_LIB_TABLE"
	EnvFootprintDir = "KICAD_FOOTPRINT_DIR"
	EnvGitHub       = "KIGITHUB"
	EnvCacheDir     = "OTB_CACHE_DIR"
	EnvCacheTTL     = "OTB_CACHE_TTL"
	EnvHTTPTimeout  = "OTB_HTTP_TIMEOUT"
)

// footprintDirVars are the URI variables KiCad versions use for the stock
// footprint libraries.
var footprintDirVars = []string{
	"KISYSMOD",
	"KICAD6_FOOTPRINT_DIR",
	"KICAD7_FOOTPRINT_DIR",
	"KICAD8_FOOTPRINT_DIR",
}

// Config controls where footprints come from and how they are cached.
type Config struct {
	LibTable     string        // fp-lib-table path
	FootprintDir string        // stock library directory, substituted for KISYSMOD
	GitHubBase   string        // substituted for ${KIGITHUB}
	CacheDir     string        // download cache directory
	CacheTTL     time.Duration // download freshness
	HTTPTimeout  time.Duration // per download

	Settings Settings
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() *Config {
	c := &Config{
		GitHubBase:  "https://raw.githubusercontent.com/KiCad",
		CacheTTL:    24 * time.Hour,
		HTTPTimeout: 5 * time.Second,
		Settings:    DefaultSettings(),
	}
	if dir, err := os.UserConfigDir(); err == nil {
		c.LibTable = filepath.Join(dir, "kicad", "fp-lib-table")
	}
	if dir, err := os.UserCacheDir(); err == nil {
		c.CacheDir = filepath.Join(dir, "opentraceboard", "github")
	} else {
		c.CacheDir = "github_cache"
	}
	return c
}

// Load builds the configuration: defaults, then envFiles (".env" when none
// is given, skipped when missing), then the process environment, then the
// settings file at settingsPath when not empty.
func Load(settingsPath string, envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		if _, err := os.Stat(".env"); err == nil {
			envFiles = []string{".env"}
		}
	}
	if len(envFiles) > 0 {
		// Variables already set in the environment win over the files.
		if err := godotenv.Load(envFiles...); err != nil {
			return nil, fmt.Errorf("failed to load env file: %w", err)
		}
	}

	c := DefaultConfig()
	if err := c.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if settingsPath != "" {
		s, err := LoadSettings(settingsPath)
		if err != nil {
			return nil, err
		}
		c.Settings = *s
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvLibTable); ok && v != "" {
		c.LibTable = v
	}
	if v, ok := lookup(EnvFootprintDir); ok && v != "" {
		c.FootprintDir = v
	}
	if v, ok := lookup(EnvGitHub); ok && v != "" {
		c.GitHubBase = v
	}
	if v, ok := lookup(EnvCacheDir); ok && v != "" {
		c.CacheDir = v
	}

	for _, d := range []struct {
		name string
		dst  *time.Duration
	}{
		{EnvCacheTTL, &c.CacheTTL},
		{EnvHTTPTimeout, &c.HTTPTimeout},
	} {
		v, ok := lookup(d.name)
		if !ok || v == "" {
			continue
		}
		dur, err := parseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", d.name, err)
		}
		*d.dst = dur
	}
	return nil
}

// parseDuration accepts Go durations ("36h", "500ms") and bare seconds.
func parseDuration(s string) (time.Duration, error) {
	if secs, err := strconv.ParseFloat(s, 64); err == nil {
		return time.Duration(secs * float64(time.Second)), nil
	}
	return time.ParseDuration(s)
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.CacheTTL < 0 {
		return errors.New("cache TTL must not be negative")
	}
	if c.HTTPTimeout <= 0 {
		return errors.New("HTTP timeout must be positive")
	}
	if c.CacheDir == "" {
		return errors.New("cache directory is not set")
	}
	return c.Settings.Validate()
}

// Vars returns the URI substitutions for local footprint libraries.
func (c *Config) Vars() map[string]string {
	vars := make(map[string]string)
	if c.FootprintDir != "" {
		for _, name := range footprintDirVars {
			vars[name] = c.FootprintDir
		}
	}
	return vars
}
