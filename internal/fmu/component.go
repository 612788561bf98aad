package fmu

import (
	"fmt"
	"log/slog"
	"math"
)

// State is the lifecycle state of a component.
type State int

const (
	StateInstantiated State = iota
	StateInitializationMode
	StateStepComplete
	StateStepFailed
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateInstantiated:
		return "instantiated"
	case StateInitializationMode:
		return "initializationMode"
	case StateStepComplete:
		return "stepComplete"
	case StateStepFailed:
		return "stepFailed"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// DefaultStepSize is the internal integration step used when none is given.
const DefaultStepSize = 1e-3

// Stepper advances the model from time t by dt.
type Stepper func(t, dt float64) error

// Option configures a Component.
type Option func(*Component)

func WithLogger(l *slog.Logger) Option { return func(c *Component) { c.logger = l } }
func WithStepSize(dt float64) Option   { return func(c *Component) { c.stepSize = dt } }
func WithLoggingOn(on bool) Option     { return func(c *Component) { c.loggingOn = on } }
func WithModelName(n string) Option    { return func(c *Component) { c.modelName = n } }
func WithGUID(guid string) Option      { return func(c *Component) { c.guid = guid } }

func WithCategories(cats ...string) Option {
	return func(c *Component) {
		c.categories = make(map[string]bool, len(cats))
		for _, cat := range cats {
			c.categories[cat] = true
		}
	}
}

// Component is the co-simulation side of an FMU: it owns the variable
// registry and runs the step loop driven by the host. It is not safe for
// concurrent use.
type Component struct {
	instanceName string
	modelName    string
	guid         string

	registry   *Registry
	logger     *slog.Logger
	loggingOn  bool
	categories map[string]bool

	state           State
	time            float64
	startTime       float64
	stopTime        float64
	stopTimeDefined bool
	stepSize        float64
	epoch           uint64

	stepper    Stepper
	onExitInit []func() error
	onReset    []func()
	preStep    []func()
	postStep   []func()
	beginStep  []func(epoch uint64)
}

func NewComponent(instanceName string, opts ...Option) *Component {
	c := &Component{
		instanceName: instanceName,
		modelName:    instanceName,
		logger:       slog.Default(),
		loggingOn:    true,
		stepSize:     DefaultStepSize,
	}
	WithCategories(DefaultCategories...)(c)
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", instanceName)
	c.registry = NewRegistry(c.logger)

	c.registry.Register("time", Pointer(&c.time), Meta{
		Unit:        "s",
		Description: "simulation time",
		Causality:   CausalityIndependent,
		Variability: VariabilityContinuous,
	})
	return c
}

func (c *Component) InstanceName() string { return c.instanceName }
func (c *Component) ModelName() string    { return c.modelName }
func (c *Component) Registry() *Registry  { return c.registry }
func (c *Component) Logger() *slog.Logger { return c.logger }
func (c *Component) State() State         { return c.state }
func (c *Component) Time() float64        { return c.time }
func (c *Component) StartTime() float64   { return c.startTime }
func (c *Component) StepSize() float64    { return c.stepSize }

// StopTime returns the stop time and whether one was set.
func (c *Component) StopTime() (float64, bool) { return c.stopTime, c.stopTimeDefined }

// Epoch counts the communication steps started so far. It never decreases,
// not even across Reset.
func (c *Component) Epoch() uint64 { return c.epoch }

// GUID returns the configured GUID, or one derived from the variable table.
func (c *Component) GUID() string {
	if c.guid != "" {
		return c.guid
	}
	return ComputeGUID(c.modelName, c.registry)
}

func (c *Component) SetStepSize(dt float64) error {
	if dt <= 0 || math.IsNaN(dt) {
		return fmt.Errorf("%w: %g", ErrInvalidStepSize, dt)
	}
	c.stepSize = dt
	return nil
}

func (c *Component) SetStepper(s Stepper)                { c.stepper = s }
func (c *Component) AddPreStepCallback(fn func())        { c.preStep = append(c.preStep, fn) }
func (c *Component) AddPostStepCallback(fn func())       { c.postStep = append(c.postStep, fn) }
func (c *Component) AddExitInitCallback(fn func() error) { c.onExitInit = append(c.onExitInit, fn) }
func (c *Component) AddResetCallback(fn func())          { c.onReset = append(c.onReset, fn) }

// AddBeginStepCallback registers fn to run once at the start of every
// communication step, before any sub-step.
func (c *Component) AddBeginStepCallback(fn func(epoch uint64)) {
	c.beginStep = append(c.beginStep, fn)
}

func (c *Component) SetupExperiment(startTime float64, stopTimeDefined bool, stopTime float64) Status {
	if c.state != StateInstantiated {
		c.Log("setupExperiment called outside instantiated state", StatusError, LogStatusError)
		return StatusError
	}
	if stopTimeDefined && stopTime < startTime {
		c.Log(fmt.Sprintf("stop time %g before start time %g", stopTime, startTime), StatusError, LogStatusError)
		return StatusError
	}
	c.startTime = startTime
	c.time = startTime
	c.stopTime = stopTime
	c.stopTimeDefined = stopTimeDefined
	return StatusOK
}

func (c *Component) EnterInitializationMode() Status {
	if c.state != StateInstantiated {
		c.Log("enterInitializationMode called twice", StatusError, LogStatusError)
		return StatusError
	}
	c.state = StateInitializationMode
	return StatusOK
}

func (c *Component) ExitInitializationMode() Status {
	if c.state != StateInitializationMode {
		c.Log("exitInitializationMode called outside initialization mode", StatusError, LogStatusError)
		return StatusError
	}
	for _, fn := range c.onExitInit {
		if err := fn(); err != nil {
			c.Log("initialization failed: "+err.Error(), StatusError, LogStatusError)
			return StatusError
		}
	}
	c.state = StateStepComplete
	return StatusOK
}

// DoStep advances the model over [current, current+commStep), sub-stepping
// with the component step size.
func (c *Component) DoStep(current, commStep float64, noSetPriorState bool) Status {
	if c.state != StateStepComplete {
		c.Log("doStep called in state "+c.state.String(), StatusError, LogStatusError)
		return StatusError
	}
	if commStep <= 0 || math.IsNaN(commStep) || math.IsInf(commStep, 0) {
		c.Log(fmt.Sprintf("%v: %g", ErrInvalidStepSize, commStep), StatusError, LogStatusError)
		return StatusError
	}
	if c.stopTimeDefined && current+commStep > c.stopTime+timeTolerance(c.stopTime) {
		c.Log(fmt.Sprintf("step to %g passes stop time %g", current+commStep, c.stopTime), StatusDiscard, LogStatusDiscard)
		return StatusDiscard
	}

	c.epoch++
	for _, fn := range c.beginStep {
		fn(c.epoch)
	}

	end := current + commStep
	for c.time < end-timeTolerance(end) {
		dt := math.Min(end-c.time, math.Min(commStep, c.stepSize))

		for _, fn := range c.preStep {
			fn()
		}
		if c.stepper != nil {
			if err := c.stepper(c.time, dt); err != nil {
				c.state = StateStepFailed
				c.Log(fmt.Sprintf("step at time %g failed: %v", c.time, err), StatusError, LogStatusError)
				return StatusError
			}
		}
		c.time += dt
		for _, fn := range c.postStep {
			fn()
		}
		c.Log(fmt.Sprintf("step at time %g with timestep %g succeeded", c.time, dt), StatusOK, LogAll)
	}
	return StatusOK
}

func (c *Component) Terminate() Status {
	if c.state == StateTerminated {
		return StatusOK
	}
	c.state = StateTerminated
	return StatusOK
}

// Reset returns the component to the instantiated state at its start time
// and runs the reset callbacks. Registered variables are kept.
func (c *Component) Reset() Status {
	c.state = StateInstantiated
	c.time = c.startTime
	for _, fn := range c.onReset {
		fn()
	}
	return StatusOK
}

func timeTolerance(t float64) float64 {
	return 1e-12 * math.Max(1, math.Abs(t))
}
