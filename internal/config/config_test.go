package config

import (
	"errors"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Instance != DefaultInstance {
		t.Errorf("expected instance %s, got %s", DefaultInstance, cfg.Instance)
	}
	if cfg.StepSize <= 0 {
		t.Error("step size should be positive")
	}
	if cfg.Gravity[2] >= 0 {
		t.Errorf("gravity should point down, got %v", cfg.Gravity)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestParse(t *testing.T) {
	doc := `
instance: cart
step_size: 0.002
integrator: euler
scene:
  bodies:
    - name: cart
      mass: 3
      pos: [0, 0, 1]
      shapes:
        - type: box
          size: [1, 0.5, 0.2]
`
	cfg, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Instance != "cart" || cfg.StepSize != 0.002 || cfg.Integrator != "euler" {
		t.Errorf("unexpected header: %+v", cfg)
	}
	if cfg.CommunicationStep != DefaultCommunicationStep {
		t.Errorf("missing keys should keep defaults, got communication step %g", cfg.CommunicationStep)
	}
	if len(cfg.Scene.Bodies) != 1 || cfg.Scene.Bodies[0].Shapes[0].Size != [3]float64{1, 0.5, 0.2} {
		t.Errorf("unexpected scene: %+v", cfg.Scene)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"zero step", func(c *Config) { c.StepSize = 0 }, "step_size"},
		{"negative communication step", func(c *Config) { c.CommunicationStep = -1 }, "communication_step"},
		{"stop before start", func(c *Config) { c.StartTime = 2; c.StopTime = 1 }, "stop_time"},
		{"unknown integrator", func(c *Config) { c.Integrator = "leapfrog" }, "leapfrog"},
		{"unknown category", func(c *Config) { c.Logging.Categories = []string{"logNothing"} }, "logNothing"},
		{"unknown shape", func(c *Config) { c.Scene.Bodies[0].Shapes[0].Type = "torus" }, "torus"},
		{"duplicate body", func(c *Config) { c.Scene.Bodies[1].Name = "ground" }, "duplicate"},
		{"massless body", func(c *Config) { c.Scene.Bodies[1].Mass = 0 }, "mass"},
		{"dangling link", func(c *Config) { c.Scene.Links[0].Body2 = "nowhere" }, "nowhere"},
		{"unknown link", func(c *Config) { c.Scene.Links[0].Type = "hinge" }, "hinge"},
	}

	for _, tt := range tests {
		cfg, err := GetPreset("pendulum")
		if err != nil {
			t.Fatal(err)
		}
		tt.mutate(cfg)
		err = cfg.Validate()
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("%s: expected ErrInvalidConfig, got %v", tt.name, err)
			continue
		}
		if !strings.Contains(err.Error(), tt.want) {
			t.Errorf("%s: error %q should mention %q", tt.name, err, tt.want)
		}
	}
}

func TestSaveLoad(t *testing.T) {
	cfg, err := GetPreset("spring")
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "spring.yaml")
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Scene.Links[0].Stiffness != 50 || loaded.Scene.Bodies[1].Pos[0] != 1.2 {
		t.Errorf("roundtrip lost values: %+v", loaded.Scene)
	}
}

func TestGetPreset(t *testing.T) {
	for _, name := range ListPresets() {
		cfg, err := GetPreset(name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("preset %s is invalid: %v", name, err)
		}
	}

	a, _ := GetPreset("pendulum")
	a.Scene.Bodies[1].Mass = 99
	b, _ := GetPreset("pendulum")
	if b.Scene.Bodies[1].Mass == 99 {
		t.Error("presets should be independent copies")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	_, err := GetPreset("nonexistent")
	if !errors.Is(err, ErrUnknownPreset) {
		t.Errorf("expected ErrUnknownPreset, got %v", err)
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets()
	if !slices.IsSorted(presets) {
		t.Errorf("presets should be sorted: %v", presets)
	}
	if !slices.Contains(presets, "box_and_sphere") {
		t.Errorf("expected box_and_sphere in %v", presets)
	}
}
