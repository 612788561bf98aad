package integrators

import (
	"math"

	"github.com/san-kum/dynfmu/internal/sim"
)

// Dormand-Prince 5(4) tableau. The last stage is evaluated at the new state
// and only feeds the error estimate.
var (
	dpNodes = [7]float64{0, 1.0 / 5.0, 3.0 / 10.0, 4.0 / 5.0, 8.0 / 9.0, 1, 1}

	dpCoeffs = [7][6]float64{
		{},
		{1.0 / 5.0},
		{3.0 / 40.0, 9.0 / 40.0},
		{44.0 / 45.0, -56.0 / 15.0, 32.0 / 9.0},
		{19372.0 / 6561.0, -25360.0 / 2187.0, 64448.0 / 6561.0, -212.0 / 729.0},
		{9017.0 / 3168.0, -355.0 / 33.0, 46732.0 / 5247.0, 49.0 / 176.0, -5103.0 / 18656.0},
		{35.0 / 384.0, 0, 500.0 / 1113.0, 125.0 / 192.0, -2187.0 / 6784.0, 11.0 / 84.0},
	}

	dpWeights  = [7]float64{35.0 / 384.0, 0, 500.0 / 1113.0, 125.0 / 192.0, -2187.0 / 6784.0, 11.0 / 84.0, 0}
	dpEmbedded = [7]float64{5179.0 / 57600.0, 0, 7571.0 / 16695.0, 393.0 / 640.0, -92097.0 / 339200.0, 187.0 / 2100.0, 1.0 / 40.0}
)

// RK45 is the Dormand-Prince embedded pair. Step uses a fixed step; callers
// that want step size control use StepAdaptive.
type RK45 struct {
	safety   float64
	minScale float64
	maxScale float64
	tol      float64
}

func NewRK45() *RK45 {
	return &RK45{
		safety:   0.9,
		minScale: 0.2,
		maxScale: 10.0,
		tol:      1e-6,
	}
}

func (r *RK45) Step(dyn sim.Dynamics, x sim.State, u sim.Control, t, dt float64) sim.State {
	newX, _, _ := r.StepAdaptive(dyn, x, u, t, dt, r.tol)
	return newX
}

// StepAdaptive takes one step of dt and returns the new state with the step
// size suggested for the next step at tolerance tol.
func (r *RK45) StepAdaptive(dyn sim.Dynamics, x sim.State, u sim.Control, t, dt, tol float64) (sim.State, float64, error) {
	n := len(x)
	var k [7]sim.State
	stage := make(sim.State, n)

	k[0] = dyn.Derivative(x, u, t)
	for s := 1; s < 7; s++ {
		for i := 0; i < n; i++ {
			acc := 0.0
			for j := 0; j < s; j++ {
				acc += dpCoeffs[s][j] * k[j][i]
			}
			stage[i] = x[i] + dt*acc
		}
		k[s] = dyn.Derivative(stage, u, t+dpNodes[s]*dt)
	}

	xNew := make(sim.State, n)
	errMax := 0.0
	for i := 0; i < n; i++ {
		hi, lo := 0.0, 0.0
		for s := 0; s < 7; s++ {
			hi += dpWeights[s] * k[s][i]
			lo += dpEmbedded[s] * k[s][i]
		}
		xNew[i] = x[i] + dt*hi
		scale := math.Abs(x[i]) + math.Abs(dt*k[0][i]) + 1e-10
		errMax = math.Max(errMax, math.Abs(dt*(hi-lo))/scale)
	}
	if !xNew.IsValid() {
		return xNew, dt * r.minScale, sim.ErrInvalidState
	}

	ratio := errMax / tol
	switch {
	case ratio > 1:
		return xNew, dt * math.Max(r.minScale, r.safety*math.Pow(ratio, -0.25)), nil
	case ratio > 0:
		return xNew, dt * math.Min(r.maxScale, r.safety*math.Pow(ratio, -0.2)), nil
	default:
		return xNew, dt * r.maxScale, nil
	}
}
