package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/piwi3910/SpritePack/internal/model"
)

// BackupVersion is written into every backup file.
const BackupVersion = "1.0.0"

// ErrMissingVersion marks a backup file without a version field.
var ErrMissingVersion = errors.New("invalid backup file: missing version field")

// BackupData is the top-level structure for import/export of saved presets.
type BackupData struct {
	Version   string            `json:"version"`
	CreatedAt string            `json:"created_at"`
	Presets   model.PresetStore `json:"presets"`
}

// ExportAllData writes every preset to a single JSON file at exportPath.
func ExportAllData(exportPath string, store model.PresetStore) error {
	backup := BackupData{
		Version:   BackupVersion,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Presets:   store,
	}
	data, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal backup data: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(exportPath), 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	if err := os.WriteFile(exportPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write backup file: %w", err)
	}
	return nil
}

// ImportAllData reads a backup JSON file and returns the contained data.
// The caller decides whether to merge or replace its own presets.
func ImportAllData(importPath string) (BackupData, error) {
	data, err := os.ReadFile(importPath)
	if err != nil {
		return BackupData{}, fmt.Errorf("failed to read backup file: %w", err)
	}
	var backup BackupData
	if err := json.Unmarshal(data, &backup); err != nil {
		return BackupData{}, fmt.Errorf("failed to parse backup file: %w", err)
	}
	if backup.Version == "" {
		return BackupData{}, ErrMissingVersion
	}
	if backup.Presets.Presets == nil {
		backup.Presets.Presets = []model.Preset{}
	}
	return backup, nil
}
