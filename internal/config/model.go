package config

import (
	"context"
	"fmt"
	"slices"
)

// Loader is the interface for a format-specific scenario loader.
type Loader interface {
	// Load reads every scenario found under the given files or directories
	// and merges them into a single model.
	Load(ctx context.Context, paths ...string) (*Model, error)
}

// Model is the unified representation of all loaded scenarios.
type Model struct {
	Scenarios map[string]*Scenario
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{Scenarios: make(map[string]*Scenario)}
}

// Scenario is the format-agnostic representation of a `scenario` block.
// Nil fields were not set in the source and fall back to other settings.
type Scenario struct {
	Name       string
	Source     string // file the scenario was declared in
	Workers    *int
	BaseOffset *int
	Mode       *string
	Universe   *string
	Rules      []string
}

// Add registers a scenario. Names must be unique across all loaded files.
func (m *Model) Add(s *Scenario) error {
	if existing, ok := m.Scenarios[s.Name]; ok {
		return fmt.Errorf("scenario %q declared twice (%s and %s)", s.Name, existing.Source, s.Source)
	}
	m.Scenarios[s.Name] = s
	return nil
}

// Names returns every scenario name in ascending order.
func (m *Model) Names() []string {
	names := make([]string, 0, len(m.Scenarios))
	for name := range m.Scenarios {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Select picks a scenario by name. An empty name is allowed only when
// exactly one scenario exists.
func (m *Model) Select(name string) (*Scenario, error) {
	if name == "" {
		if len(m.Scenarios) == 1 {
			return m.Scenarios[m.Names()[0]], nil
		}
		return nil, fmt.Errorf("a scenario name is required when %d scenarios are defined: %v", len(m.Scenarios), m.Names())
	}
	s, ok := m.Scenarios[name]
	if !ok {
		return nil, fmt.Errorf("scenario %q not found; available: %v", name, m.Names())
	}
	return s, nil
}
