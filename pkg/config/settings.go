package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Settings are the user preferences kept between runs.
type Settings struct {
	Theme         string `json:"theme"`
	PreviewWidth  int    `json:"preview_width"`
	PreviewHeight int    `json:"preview_height"`
	Labels        bool   `json:"labels"`
}

// DefaultSettings returns the settings used without a settings file.
func DefaultSettings() Settings {
	return Settings{
		Theme:         "classic",
		PreviewWidth:  1024,
		PreviewHeight: 768,
		Labels:        true,
	}
}

// Validate checks the preview size.
func (s *Settings) Validate() error {
	if s.PreviewWidth <= 0 || s.PreviewHeight <= 0 {
		return fmt.Errorf("invalid preview size %dx%d", s.PreviewWidth, s.PreviewHeight)
	}
	return nil
}

// SettingsPath returns the settings file location in the user
// configuration directory.
func SettingsPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "opentraceboard", "settings.json"), nil
}

// LoadSettings reads settings from path. A missing file gives the defaults;
// fields absent from the file keep their default value.
func LoadSettings(path string) (*Settings, error) {
	s := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &s, nil
		}
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	return &s, nil
}

// SaveSettings writes settings to path, creating its directory.
func SaveSettings(path string, s *Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
