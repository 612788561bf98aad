package config

import (
	"fmt"
	"sort"
)

func pendulum() *Config {
	cfg := DefaultConfig()
	cfg.Instance = "pendulum"
	cfg.Scene = SceneConfig{
		Bodies: []BodyConfig{
			{Name: "ground", Fixed: true, Shapes: []ShapeConfig{{Type: "box", Size: [3]float64{0.2, 0.2, 0.05}}}},
			{Name: "bob", Mass: 1, Pos: [3]float64{1, 0, 0}, Outputs: true, Shapes: []ShapeConfig{
				{Type: "sphere", Radius: 0.1},
				{Type: "line", Points: [][3]float64{{0, 0, 0}, {-1, 0, 0}}},
			}},
		},
		Links: []LinkConfig{{Name: "rod", Type: "distance", Body1: "ground", Body2: "bob"}},
	}
	return cfg
}

func boxAndSphere() *Config {
	cfg := DefaultConfig()
	cfg.Instance = "box_and_sphere"
	cfg.Scene = SceneConfig{
		Bodies: []BodyConfig{
			{Name: "body", Mass: 2, Pos: [3]float64{0, 0, 1}, Outputs: true, Shapes: []ShapeConfig{
				{Type: "box", Size: [3]float64{1, 0.5, 0.25}},
				{Type: "sphere", Radius: 0.3, Pos: [3]float64{0, 0, 0.5}},
			}},
		},
	}
	return cfg
}

func spring() *Config {
	cfg := DefaultConfig()
	cfg.Instance = "spring"
	cfg.Gravity = [3]float64{}
	cfg.Scene = SceneConfig{
		Bodies: []BodyConfig{
			{Name: "anchor", Fixed: true},
			{Name: "mass", Mass: 1, Pos: [3]float64{1.2, 0, 0}, Outputs: true, Shapes: []ShapeConfig{{Type: "cylinder", Radius: 0.1, Height: 0.2}}},
		},
		Links: []LinkConfig{{Name: "spring", Type: "spring", Body1: "anchor", Body2: "mass", Stiffness: 50, Damping: 0.2}},
	}
	return cfg
}

func spinningTop() *Config {
	cfg := DefaultConfig()
	cfg.Instance = "spinning_top"
	cfg.Gravity = [3]float64{}
	cfg.Integrator = "rk45"
	cfg.Scene = SceneConfig{
		Bodies: []BodyConfig{
			{Name: "top", Mass: 1, AngVel: [3]float64{0.1, 0, 5}, Outputs: true, Shapes: []ShapeConfig{
				{Type: "capsule", Radius: 0.05, Height: 0.3},
				{Type: "ellipsoid", Size: [3]float64{0.3, 0.3, 0.1}},
			}},
		},
	}
	return cfg
}

func gallery() *Config {
	cfg := DefaultConfig()
	cfg.Instance = "gallery"
	shapes := make([]ShapeConfig, 0, len(ShapeKinds))
	for i, kind := range ShapeKinds {
		shapes = append(shapes, ShapeConfig{
			Type:   kind,
			Size:   [3]float64{0.2, 0.2, 0.2},
			Radius: 0.1,
			Height: 0.2,
			File:   "mesh.obj",
			Points: [][3]float64{{0, 0, 0}, {0.1, 0, 0}, {0.1, 0.1, 0}},
			Pos:    [3]float64{float64(i), 0, 0},
		})
	}
	cfg.Scene = SceneConfig{
		Bodies: []BodyConfig{{Name: "stand", Fixed: true, Shapes: shapes}},
	}
	return cfg
}

var presets = map[string]func() *Config{
	"pendulum":       pendulum,
	"box_and_sphere": boxAndSphere,
	"spring":         spring,
	"spinning_top":   spinningTop,
	"gallery":        gallery,
}

// GetPreset returns a fresh copy of the named preset.
func GetPreset(name string) (*Config, error) {
	build, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	return build(), nil
}

// ListPresets returns the preset names in sorted order.
func ListPresets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
