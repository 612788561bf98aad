package metrics

import (
	"math"

	"github.com/san-kum/dynfmu/internal/fmu"
)

// Metric accumulates one figure over the communication points of a run. It
// reads the model only through exported variables.
type Metric interface {
	Name() string
	Observe(t float64)
	Value() float64
	Reset()
}

func readReal(r *fmu.Registry, name string) (float64, bool) {
	v, ok := r.Lookup(name)
	if !ok {
		return 0, false
	}
	x, err := fmu.Get[float64](v)
	return x, err == nil
}

// EnergyDrift is the largest relative departure of a real variable from its
// first observed value.
type EnergyDrift struct {
	registry *fmu.Registry
	variable string

	initialEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift(r *fmu.Registry, variable string) *EnergyDrift {
	return &EnergyDrift{registry: r, variable: variable}
}

func (e *EnergyDrift) Name() string { return e.variable + "_drift" }

func (e *EnergyDrift) Observe(t float64) {
	energy, ok := readReal(e.registry, e.variable)
	if !ok {
		return
	}
	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 { return e.maxDrift }

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}

// Stability is the fraction of samples at which every watched variable is
// finite and within threshold in magnitude.
type Stability struct {
	registry  *fmu.Registry
	variables []string
	threshold float64

	violations int
	samples    int
}

func NewStability(r *fmu.Registry, threshold float64, variables ...string) *Stability {
	return &Stability{registry: r, variables: variables, threshold: threshold}
}

func (s *Stability) Name() string { return "stability" }

func (s *Stability) Observe(t float64) {
	s.samples++
	for _, name := range s.variables {
		x, ok := readReal(s.registry, name)
		if !ok {
			continue
		}
		if math.IsNaN(x) || math.Abs(x) > s.threshold {
			s.violations++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}

// Set observes several metrics together.
type Set []Metric

func (s Set) Observe(t float64) {
	for _, m := range s {
		m.Observe(t)
	}
}

// Values maps each metric name to its current value.
func (s Set) Values() map[string]float64 {
	out := make(map[string]float64, len(s))
	for _, m := range s {
		out[m.Name()] = m.Value()
	}
	return out
}
