// Package arena loads the static definitions of the maps this server
// can host matches on.
package arena

import (
	"embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/dmaples/ninja-fight-backend/internal/engine"
)

//go:embed arenas.yaml
var arenasFS embed.FS

var ErrUnknownArena = errors.New("unknown arena")

type Arena struct {
	Name        string   `yaml:"name"`
	DisplayName string   `yaml:"display_name"`
	SpawnCenter Vec3YAML `yaml:"spawn_center"`
	Bounds      Bounds   `yaml:"bounds"`
	Sessions    []string `yaml:"sessions"`
}

type Vec3YAML struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

type Bounds struct {
	MinX float64 `yaml:"min_x"`
	MaxX float64 `yaml:"max_x"`
	MinZ float64 `yaml:"min_z"`
	MaxZ float64 `yaml:"max_z"`
}

func (a *Arena) SupportsSession(kind engine.SessionKind) bool {
	for _, s := range a.Sessions {
		if engine.SessionKind(s) == kind {
			return true
		}
	}
	return false
}

type Registry struct {
	arenas map[string]*Arena
}

// Load parses the embedded arena definitions.
func Load() (*Registry, error) {
	raw, err := arenasFS.ReadFile("arenas.yaml")
	if err != nil {
		return nil, fmt.Errorf("read arenas.yaml: %w", err)
	}
	var file struct {
		Arenas []*Arena `yaml:"arenas"`
	}
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse arenas.yaml: %w", err)
	}
	r := &Registry{arenas: make(map[string]*Arena, len(file.Arenas))}
	for _, a := range file.Arenas {
		if a.Name == "" {
			return nil, fmt.Errorf("arena with empty name in arenas.yaml")
		}
		r.arenas[a.Name] = a
	}
	return r, nil
}

func (r *Registry) Get(name string) (*Arena, error) {
	a, ok := r.arenas[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownArena, name)
	}
	return a, nil
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.arenas))
	for name := range r.arenas {
		names = append(names, name)
	}
	return names
}
