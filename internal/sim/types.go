package sim

import "math"

// State is a flat vector of generalized coordinates and their rates.
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

// IsValid reports whether every component is finite.
func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

type Control []float64

// Dynamics is a first-order system dx/dt = f(x, u, t).
type Dynamics interface {
	Derivative(x State, u Control, t float64) State
	StateDim() int
	ControlDim() int
}

// Integrator advances a state by one step of dt.
type Integrator interface {
	Step(dyn Dynamics, x State, u Control, t float64, dt float64) State
}
