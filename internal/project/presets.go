// Package project persists user data between sessions: named parameter
// presets, application preferences, and full-state backup files. All
// storage is plain JSON under the platform config directory.
package project

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/malte-storm/txm-param-calc/internal/model"
)

// DefaultConfigDir returns the default directory for stored application data.
func DefaultConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "txm-calc"), nil
}

// DefaultPresetsPath returns the default file path for saved presets.
func DefaultPresetsPath() (string, error) {
	dir, err := DefaultConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "presets.json"), nil
}

// SavePresets saves the preset list to a JSON file.
func SavePresets(path string, presets []model.Preset) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(presets, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadPresets loads presets from a JSON file.
// Returns an empty slice if the file does not exist.
func LoadPresets(path string) ([]model.Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []model.Preset{}, nil
		}
		return nil, err
	}

	var presets []model.Preset
	if err := json.Unmarshal(data, &presets); err != nil {
		return nil, err
	}
	return presets, nil
}

// SavePresetsToDefault saves presets to the default path.
func SavePresetsToDefault(presets []model.Preset) error {
	path, err := DefaultPresetsPath()
	if err != nil {
		return err
	}
	return SavePresets(path, presets)
}

// LoadPresetsFromDefault loads presets from the default path.
func LoadPresetsFromDefault() ([]model.Preset, error) {
	path, err := DefaultPresetsPath()
	if err != nil {
		return nil, err
	}
	return LoadPresets(path)
}

// ExportPreset exports a single preset to a JSON file (for sharing).
func ExportPreset(path string, preset model.Preset) error {
	data, err := json.MarshalIndent(preset, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ImportPreset imports a single preset from a JSON file. The imported
// preset receives a fresh ID so it never collides with an existing one.
func ImportPreset(path string) (model.Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Preset{}, err
	}

	var preset model.Preset
	if err := json.Unmarshal(data, &preset); err != nil {
		return model.Preset{}, err
	}

	if preset.Name == "" {
		return model.Preset{}, errors.New("imported preset has no name")
	}
	return model.NewPreset(preset.Name, preset.Setup), nil
}
