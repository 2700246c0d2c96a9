package model

import (
	"time"

	"github.com/google/uuid"
)

// Preset is a named, reusable set of pack settings.
type Preset struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	CreatedAt   string       `json:"created_at"`
	UpdatedAt   string       `json:"updated_at"`
	Settings    PackSettings `json:"settings"`
}

// NewPreset creates a preset from the given settings.
func NewPreset(name, description string, settings PackSettings) Preset {
	now := time.Now().UTC().Format(time.RFC3339)
	settings.Heuristics = copyHeuristics(settings.Heuristics)
	return Preset{
		ID:          uuid.New().String()[:8],
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
		Settings:    settings,
	}
}

// ToProject creates a new, empty Project using this preset's settings.
func (p Preset) ToProject(projectName string) Project {
	settings := p.Settings
	settings.Heuristics = copyHeuristics(p.Settings.Heuristics)
	return Project{
		Name:     projectName,
		Rects:    []*Rect{},
		Settings: settings,
	}
}

// PresetStore holds a collection of presets.
type PresetStore struct {
	Presets []Preset `json:"presets"`
}

// NewPresetStore creates an empty preset store.
func NewPresetStore() PresetStore {
	return PresetStore{
		Presets: []Preset{},
	}
}

// Add adds a preset to the store.
func (ps *PresetStore) Add(p Preset) {
	ps.Presets = append(ps.Presets, p)
}

// Remove removes a preset by ID. Returns true if found and removed.
func (ps *PresetStore) Remove(id string) bool {
	for i, p := range ps.Presets {
		if p.ID == id {
			ps.Presets = append(ps.Presets[:i], ps.Presets[i+1:]...)
			return true
		}
	}
	return false
}

// FindByID returns a pointer to the preset with the given ID, or nil.
func (ps *PresetStore) FindByID(id string) *Preset {
	for i := range ps.Presets {
		if ps.Presets[i].ID == id {
			return &ps.Presets[i]
		}
	}
	return nil
}

// FindByName returns a pointer to the first preset with the given name, or nil.
func (ps *PresetStore) FindByName(name string) *Preset {
	for i := range ps.Presets {
		if ps.Presets[i].Name == name {
			return &ps.Presets[i]
		}
	}
	return nil
}

// Names returns the preset names in store order.
func (ps *PresetStore) Names() []string {
	names := make([]string, len(ps.Presets))
	for i, p := range ps.Presets {
		names[i] = p.Name
	}
	return names
}

func copyHeuristics(hs []Heuristic) []Heuristic {
	if hs == nil {
		return nil
	}
	cp := make([]Heuristic, len(hs))
	copy(cp, hs)
	return cp
}
