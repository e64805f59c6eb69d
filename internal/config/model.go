package config

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
)

// Model is the unified, format-agnostic representation of a character
// description.
type Model struct {
	// Character is nil when no file declares one.
	Character *Character
	Limbs     []*Limb
	Markers   []*Marker
}

// Character is the format-agnostic representation of a `character` block.
type Character struct {
	Name       string
	Initials   string
	LayoutSize float64
}

// Limb asks a limb generator to place its markers.
type Limb struct {
	// Type is the generator key.
	Type string
	Name string
	// Parent is the marker the generated root is moved under.
	Parent  string
	Options map[string]cty.Value
}

// Marker is a hand placed marker joint. A marker with a Limb starts a chain
// built by that generator.
type Marker struct {
	Name        string
	Side        string
	Position    [3]float64
	Parent      string
	Type        string
	Size        float64
	Limb        string
	Symmetrical bool
}

// Merge appends other into m. Only one character may be declared across all
// sources.
func (m *Model) Merge(other *Model) error {
	if other.Character != nil {
		if m.Character != nil {
			return fmt.Errorf("character declared twice: %q and %q", m.Character.Name, other.Character.Name)
		}
		m.Character = other.Character
	}
	m.Limbs = append(m.Limbs, other.Limbs...)
	m.Markers = append(m.Markers, other.Markers...)
	return nil
}
