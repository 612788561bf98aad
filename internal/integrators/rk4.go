package integrators

import "github.com/san-kum/dynfmu/internal/sim"

// RK4 is the classic fourth-order Runge-Kutta method. Scratch buffers are
// reused between steps of equal dimension.
type RK4 struct {
	k       [4]sim.State
	scratch sim.State
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) ensureScratch(n int) {
	if len(r.scratch) == n {
		return
	}
	for i := range r.k {
		r.k[i] = make(sim.State, n)
	}
	r.scratch = make(sim.State, n)
}

var rk4Nodes = [4]float64{0, 0.5, 0.5, 1}

func (r *RK4) Step(dyn sim.Dynamics, x sim.State, u sim.Control, t, dt float64) sim.State {
	n := len(x)
	r.ensureScratch(n)

	copy(r.k[0], dyn.Derivative(x, u, t))
	for s := 1; s < 4; s++ {
		h := dt * rk4Nodes[s]
		for i := 0; i < n; i++ {
			r.scratch[i] = x[i] + h*r.k[s-1][i]
		}
		copy(r.k[s], dyn.Derivative(r.scratch, u, t+h))
	}

	result := make(sim.State, n)
	dt6 := dt / 6.0
	for i := 0; i < n; i++ {
		result[i] = x[i] + dt6*(r.k[0][i]+2*r.k[1][i]+2*r.k[2][i]+r.k[3][i])
	}
	return result
}
