package project

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/piwi3910/SpritePack/internal/model"
)

// DefaultPresetPath returns the default file path for the preset store.
// This is located at ~/.spritepack/presets.json.
func DefaultPresetPath() (string, error) {
	dir := DefaultConfigDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return filepath.Join(dir, "presets.json"), nil
}

// SavePresets writes the preset store to a JSON file.
func SavePresets(path string, store model.PresetStore) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(store, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadPresets reads a preset store from a JSON file.
// If the file does not exist, returns an empty store.
func LoadPresets(path string) (model.PresetStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.NewPresetStore(), nil
		}
		return model.PresetStore{}, err
	}
	var store model.PresetStore
	if err := json.Unmarshal(data, &store); err != nil {
		return model.PresetStore{}, err
	}
	if store.Presets == nil {
		store.Presets = []model.Preset{}
	}
	return store, nil
}

// LoadDefaultPresets loads presets from the default path.
func LoadDefaultPresets() (model.PresetStore, error) {
	path, err := DefaultPresetPath()
	if err != nil {
		return model.NewPresetStore(), err
	}
	return LoadPresets(path)
}
