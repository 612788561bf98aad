package integrators

import (
	"fmt"
	"sort"

	"github.com/san-kum/dynfmu/internal/sim"
)

var constructors = map[string]func() sim.Integrator{
	"euler": func() sim.Integrator { return NewEuler() },
	"rk4":   func() sim.Integrator { return NewRK4() },
	"rk45":  func() sim.Integrator { return NewRK45() },
}

// New returns a fresh integrator by name.
func New(name string) (sim.Integrator, error) {
	ctor, ok := constructors[name]
	if !ok {
		return nil, fmt.Errorf("integrators: unknown integrator %q", name)
	}
	return ctor(), nil
}

// Names lists the known integrator names in sorted order.
func Names() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
