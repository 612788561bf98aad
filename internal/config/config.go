package config

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/dynfmu/internal/fmu"
	"github.com/san-kum/dynfmu/internal/integrators"
)

const (
	DefaultInstance          = "dynfmu"
	DefaultStepSize          = 1e-3
	DefaultCommunicationStep = 0.01
	DefaultStopTime          = 5.0
	DefaultIntegrator        = "rk4"
)

var (
	// ErrInvalidConfig indicates a configuration that fails validation.
	ErrInvalidConfig = errors.New("config: invalid configuration")

	// ErrUnknownPreset indicates a preset name with no entry.
	ErrUnknownPreset = errors.New("config: unknown preset")
)

// ShapeKinds lists the shape types a scene may use.
var ShapeKinds = []string{
	"box", "sphere", "ellipsoid", "cylinder", "capsule", "barrel",
	"model_file", "triangle_mesh", "surface", "glyphs", "path", "line",
}

// LinkKinds lists the link types a scene may use.
var LinkKinds = []string{"distance", "spring"}

type Config struct {
	Instance          string        `yaml:"instance"`
	ModelName         string        `yaml:"model_name,omitempty"`
	GUID              string        `yaml:"guid,omitempty"`
	StepSize          float64       `yaml:"step_size"`
	CommunicationStep float64       `yaml:"communication_step"`
	StartTime         float64       `yaml:"start_time"`
	StopTime          float64       `yaml:"stop_time"`
	Integrator        string        `yaml:"integrator"`
	Gravity           [3]float64    `yaml:"gravity"`
	Logging           LoggingConfig `yaml:"logging"`
	Scene             SceneConfig   `yaml:"scene"`
}

type LoggingConfig struct {
	On         bool     `yaml:"on"`
	Level      string   `yaml:"level"`
	Categories []string `yaml:"categories,omitempty"`
}

type SceneConfig struct {
	Bodies []BodyConfig `yaml:"bodies"`
	Links  []LinkConfig `yaml:"links,omitempty"`
}

// BodyConfig describes one rigid body. A zero rotation means no rotation.
type BodyConfig struct {
	Name    string        `yaml:"name"`
	Mass    float64       `yaml:"mass"`
	Fixed   bool          `yaml:"fixed,omitempty"`
	Pos     [3]float64    `yaml:"pos"`
	Rot     [4]float64    `yaml:"rot,omitempty"`
	Vel     [3]float64    `yaml:"vel,omitempty"`
	AngVel  [3]float64    `yaml:"ang_vel,omitempty"`
	Shapes  []ShapeConfig `yaml:"shapes,omitempty"`
	Outputs bool          `yaml:"outputs,omitempty"`
}

// ShapeConfig describes a visual shape. Size holds box lengths, ellipsoid
// axes or model file scale depending on Type.
type ShapeConfig struct {
	Type   string       `yaml:"type"`
	Size   [3]float64   `yaml:"size,omitempty"`
	Radius float64      `yaml:"radius,omitempty"`
	Height float64      `yaml:"height,omitempty"`
	File   string       `yaml:"file,omitempty"`
	Points [][3]float64 `yaml:"points,omitempty"`
	Color  [3]float32   `yaml:"color,omitempty"`
	Pos    [3]float64   `yaml:"pos,omitempty"`
	Rot    [4]float64   `yaml:"rot,omitempty"`
}

type LinkConfig struct {
	Name      string  `yaml:"name"`
	Type      string  `yaml:"type"`
	Body1     string  `yaml:"body1"`
	Body2     string  `yaml:"body2"`
	Stiffness float64 `yaml:"stiffness,omitempty"`
	Damping   float64 `yaml:"damping,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Instance:          DefaultInstance,
		StepSize:          DefaultStepSize,
		CommunicationStep: DefaultCommunicationStep,
		StopTime:          DefaultStopTime,
		Integrator:        DefaultIntegrator,
		Gravity:           [3]float64{0, 0, -9.81},
		Logging: LoggingConfig{
			On:    true,
			Level: "info",
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a YAML document over the defaults and validates it.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate reports every problem found, joined into one error wrapping
// ErrInvalidConfig.
func (c *Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	if c.Instance == "" {
		bad("instance name is empty")
	}
	if c.StepSize <= 0 {
		bad("step_size must be positive, got %g", c.StepSize)
	}
	if c.CommunicationStep <= 0 {
		bad("communication_step must be positive, got %g", c.CommunicationStep)
	}
	if c.StopTime < c.StartTime {
		bad("stop_time %g before start_time %g", c.StopTime, c.StartTime)
	}
	if !slices.Contains(integrators.Names(), c.Integrator) {
		bad("unknown integrator %q", c.Integrator)
	}
	for _, cat := range c.Logging.Categories {
		if !slices.Contains(fmu.Categories, cat) {
			bad("unknown log category %q", cat)
		}
	}

	names := make(map[string]bool, len(c.Scene.Bodies))
	for i, b := range c.Scene.Bodies {
		switch {
		case b.Name == "":
			bad("body %d has no name", i)
		case names[b.Name]:
			bad("duplicate body name %q", b.Name)
		}
		names[b.Name] = true
		if !b.Fixed && b.Mass <= 0 {
			bad("body %q: mass must be positive, got %g", b.Name, b.Mass)
		}
		for j, s := range b.Shapes {
			if !slices.Contains(ShapeKinds, s.Type) {
				bad("body %q shape %d: unknown type %q", b.Name, j, s.Type)
			}
		}
	}
	for _, l := range c.Scene.Links {
		if !slices.Contains(LinkKinds, l.Type) {
			bad("link %q: unknown type %q", l.Name, l.Type)
		}
		for _, end := range []string{l.Body1, l.Body2} {
			if !names[end] {
				bad("link %q: unknown body %q", l.Name, end)
			}
		}
	}
	return errors.Join(errs...)
}
