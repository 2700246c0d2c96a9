package project

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/SpritePack/internal/model"
)

func testStore() model.PresetStore {
	store := model.NewPresetStore()
	settings := model.DefaultSettings()
	settings.MaxSide = 2048
	store.Add(model.NewPreset("Mobile", "Small atlases for phones", settings))
	return store
}

func TestExportAndImportAllData(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "backup.json")

	if err := ExportAllData(path, testStore()); err != nil {
		t.Fatalf("ExportAllData failed: %v", err)
	}

	backup, err := ImportAllData(path)
	if err != nil {
		t.Fatalf("ImportAllData failed: %v", err)
	}

	if backup.Version != BackupVersion {
		t.Errorf("expected version %s, got %s", BackupVersion, backup.Version)
	}
	if backup.CreatedAt == "" {
		t.Error("expected non-empty CreatedAt")
	}
	if len(backup.Presets.Presets) != 1 {
		t.Fatalf("expected 1 preset, got %d", len(backup.Presets.Presets))
	}
	if backup.Presets.Presets[0].Settings.MaxSide != 2048 {
		t.Errorf("expected MaxSide=2048, got %d", backup.Presets.Presets[0].Settings.MaxSide)
	}
}

func TestImportAllDataMissingFile(t *testing.T) {
	_, err := ImportAllData(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestImportAllDataInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(path, []byte("{not json}"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := ImportAllData(path)
	if err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestImportAllDataMissingVersion(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "noversion.json")
	if err := os.WriteFile(path, []byte(`{"presets":{"presets":[]}}`), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := ImportAllData(path)
	if !errors.Is(err, ErrMissingVersion) {
		t.Fatalf("expected ErrMissingVersion, got %v", err)
	}
}

func TestExportAllDataCreatesDirectories(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "deep", "nested", "backup.json")

	if err := ExportAllData(path, model.NewPresetStore()); err != nil {
		t.Fatalf("ExportAllData should create parent dirs: %v", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("backup file was not created")
	}
}

func TestImportAllDataNilPresets(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "backup.json")
	data := []byte(`{"version":"1.0.0","created_at":"2025-01-01T00:00:00Z","presets":{"presets":null}}`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	backup, err := ImportAllData(path)
	if err != nil {
		t.Fatalf("ImportAllData failed: %v", err)
	}
	if backup.Presets.Presets == nil {
		t.Error("Presets should not be nil after import")
	}
}
