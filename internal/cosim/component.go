package cosim

import (
	"time"

	"github.com/san-kum/dynfmu/internal/config"
	"github.com/san-kum/dynfmu/internal/fmu"
	"github.com/san-kum/dynfmu/internal/physics"
)

// Component is an FMU whose model is a physics system built from a
// configuration. It is not safe for concurrent use.
type Component struct {
	*fmu.Component

	cfg        *config.Config
	system     *physics.System
	serializer *Serializer
	projector  *ShapeProjector
	initial    physics.Snapshot
	exported   bool
}

// New validates cfg, builds its scene and registers the model variables.
// Options are applied after the ones derived from cfg.
func New(cfg *config.Config, opts ...fmu.Option) (*Component, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	sys, err := BuildSystem(cfg)
	if err != nil {
		return nil, err
	}

	base := []fmu.Option{
		fmu.WithStepSize(cfg.StepSize),
		fmu.WithLoggingOn(cfg.Logging.On),
	}
	if cfg.ModelName != "" {
		base = append(base, fmu.WithModelName(cfg.ModelName))
	}
	if cfg.GUID != "" {
		base = append(base, fmu.WithGUID(cfg.GUID))
	}
	if len(cfg.Logging.Categories) > 0 {
		base = append(base, fmu.WithCategories(cfg.Logging.Categories...))
	}

	c := &Component{
		Component: fmu.NewComponent(cfg.Instance, append(base, opts...)...),
		cfg:       cfg,
		system:    sys,
	}
	c.serializer = NewSerializer(c.Registry(), c.Logger())
	c.projector = NewShapeProjector(c.Component, nil)

	c.SetStepper(func(t, dt float64) error {
		return c.system.DoStepDynamics(dt)
	})
	c.AddExitInitCallback(func() error {
		c.system.SetTime(c.Time())
		c.system.DoAssembly()
		c.projector.Invalidate()
		return nil
	})
	c.AddResetCallback(func() {
		c.system.Restore(c.initial)
		c.projector.Invalidate()
	})

	if err := c.registerModel(); err != nil {
		return nil, err
	}
	c.ProjectShapes()
	c.initial = sys.Snapshot()
	return c, nil
}

func (c *Component) registerModel() error {
	r := c.Registry()
	if err := ExpandVector3(r, &c.system.Gravity, "G_acc", "m/s2", "gravitational acceleration",
		fmu.CausalityParameter, fmu.VariabilityFixed); err != nil {
		return err
	}
	if _, err := r.Register("step_size", fmu.Accessors(c.StepSize, func(dt float64) {
		if err := c.SetStepSize(dt); err != nil {
			c.Log(err.Error(), fmu.StatusWarning, fmu.LogStatusWarning)
		}
	}), fmu.Meta{
		Unit:        "s",
		Description: "internal integration step",
		Causality:   fmu.CausalityParameter,
		Variability: fmu.VariabilityTunable,
	}); err != nil {
		return err
	}
	if _, err := r.Register("energy", fmu.ReadOnly(c.system.Energy), fmu.Meta{
		Unit:        "J",
		Description: "total mechanical energy",
		Causality:   fmu.CausalityOutput,
		Variability: fmu.VariabilityContinuous,
	}); err != nil {
		return err
	}

	for i, bc := range c.cfg.Scene.Bodies {
		if !bc.Outputs {
			continue
		}
		b := c.system.Bodies()[i]
		if err := ExpandMovingFrame(r, b.Frame(), b.Name()+".frame", "m", "m/s", b.Name()+" frame",
			fmu.CausalityOutput, fmu.VariabilityContinuous); err != nil {
			return err
		}
	}
	return nil
}

// ProjectShapes binds the visual shapes of every body, replacing any
// previous bindings.
func (c *Component) ProjectShapes() {
	if c.projector.Count() > 0 {
		c.projector.Clear()
	}
	for _, b := range c.system.Bodies() {
		c.projector.AddVisualShapes(b, "")
	}
}

// ExportModelVariables archives the whole system under "sys". It runs once;
// later calls do nothing.
func (c *Component) ExportModelVariables() {
	if c.exported {
		return
	}
	c.system.DoAssembly()
	c.serializer.Ref("sys", c.system)
	c.exported = true
}

// ModelDescription exports the model variables before describing them.
func (c *Component) ModelDescription(generatedAt time.Time) *fmu.ModelDescription {
	c.ExportModelVariables()
	return c.Component.ModelDescription(generatedAt)
}

func (c *Component) Config() *config.Config     { return c.cfg }
func (c *Component) System() *physics.System    { return c.system }
func (c *Component) Serializer() *Serializer    { return c.serializer }
func (c *Component) Projector() *ShapeProjector { return c.projector }
