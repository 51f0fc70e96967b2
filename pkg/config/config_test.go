package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// clearEnv unsets the variables Load reads and restores them after the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{EnvLibTable, EnvFootprintDir, EnvGitHub, EnvCacheDir, EnvCacheTTL, EnvHTTPTimeout} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
}

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	if err := c.Validate(); err != nil {
		t.Fatalf("default config is invalid: %v", err)
	}
	if c.CacheTTL != 24*time.Hour || c.HTTPTimeout != 5*time.Second {
		t.Errorf("TTL %v timeout %v", c.CacheTTL, c.HTTPTimeout)
	}
	if c.GitHubBase != "https://raw.githubusercontent.com/KiCad" {
		t.Errorf("GitHubBase = %s", c.GitHubBase)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvLibTable, "/tmp/fp-lib-table")
	t.Setenv(EnvFootprintDir, "/usr/share/kicad/footprints")
	t.Setenv(EnvCacheTTL, "36h")
	t.Setenv(EnvHTTPTimeout, "2.5")

	if _, err := Load("", filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Fatal("Load() with a missing env file should fail")
	}

	c, err := Load("")
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if c.LibTable != "/tmp/fp-lib-table" {
		t.Errorf("LibTable = %s", c.LibTable)
	}
	if c.CacheTTL != 36*time.Hour {
		t.Errorf("CacheTTL = %v, want 36h", c.CacheTTL)
	}
	if c.HTTPTimeout != 2500*time.Millisecond {
		t.Errorf("HTTPTimeout = %v, want 2.5s", c.HTTPTimeout)
	}

	vars := c.Vars()
	for _, name := range []string{"KISYSMOD", "KICAD8_FOOTPRINT_DIR"} {
		if vars[name] != "/usr/share/kicad/footprints" {
			t.Errorf("Vars()[%s] = %q", name, vars[name])
		}
	}
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvCacheDir, "/from/environment")

	path := filepath.Join(t.TempDir(), "otb.env")
	content := "OTB_CACHE_DIR=/from/file\nKIGITHUB=https://mirror.example/KiCad\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := Load("", path)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if c.GitHubBase != "https://mirror.example/KiCad" {
		t.Errorf("GitHubBase = %s, want the file value", c.GitHubBase)
	}
	if c.CacheDir != "/from/environment" {
		t.Errorf("CacheDir = %s, the environment should win", c.CacheDir)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad ttl", EnvCacheTTL, "soon"},
		{"negative ttl", EnvCacheTTL, "-1h"},
		{"zero timeout", EnvHTTPTimeout, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			if _, err := Load(""); err == nil {
				t.Errorf("Load() with %s=%s expected error", tt.key, tt.value)
			}
		})
	}
}

func TestVarsWithoutFootprintDir(t *testing.T) {
	c := DefaultConfig()
	if vars := c.Vars(); len(vars) != 0 {
		t.Errorf("Vars() = %v, want none", vars)
	}
}
