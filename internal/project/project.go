package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/SpritePack/internal/model"
)

// ErrInvalidProject is returned when a job file parses but is unusable.
var ErrInvalidProject = errors.New("invalid project file")

// DefaultConfigDir returns the default directory for application data.
// On all platforms this is ~/.spritepack/
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".spritepack")
}

// SaveProject writes a project, including its last result, as indented JSON.
// It creates any missing parent directories automatically.
func SaveProject(path string, proj model.Project) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create project directory: %w", err)
	}
	data, err := json.MarshalIndent(proj, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal project: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write project file: %w", err)
	}
	return nil
}

// LoadProject reads a project written by SaveProject. Rects without an ID
// get a fresh one, and missing settings fall back to the defaults.
func LoadProject(path string) (model.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Project{}, fmt.Errorf("failed to read project file: %w", err)
	}
	proj := model.NewProject()
	if err := json.Unmarshal(data, &proj); err != nil {
		return model.Project{}, fmt.Errorf("failed to parse project file: %w", err)
	}

	for i, r := range proj.Rects {
		if r == nil {
			return model.Project{}, fmt.Errorf("%w: rect %d is null", ErrInvalidProject, i)
		}
		if r.W <= 0 || r.H <= 0 {
			return model.Project{}, fmt.Errorf("%w: rect %q has size %dx%d", ErrInvalidProject, r.Label, r.W, r.H)
		}
		if r.ID == "" {
			r.ID = model.NewRect(r.Label, r.W, r.H).ID
		}
	}
	if proj.Rects == nil {
		proj.Rects = []*model.Rect{}
	}
	if len(proj.Settings.Heuristics) == 0 {
		proj.Settings.Heuristics = model.DefaultHeuristics()
	}
	return proj, nil
}
