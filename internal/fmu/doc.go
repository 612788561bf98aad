// Package fmu implements the component side of an FMI 2.0 co-simulation unit.
//
// The package provides:
//
//   - [Registry]: ordered table of named, typed variables
//   - [Accessor]: typed bindings to caller memory ([Pointer]), closures
//     ([Accessors], [ReadOnly]) or registry-owned storage ([Keep])
//   - [Component]: lifecycle, stepping loop, typed get/set by name and by
//     value reference, and category-filtered logging
//   - [ModelDescription]: the modelDescription.xml document
//
// # Example
//
//	c := fmu.NewComponent("cart", fmu.WithStepSize(1e-3))
//	c.Registry().Register("x", fmu.Pointer(&x), fmu.Meta{Unit: "m", Causality: fmu.CausalityOutput})
//	c.SetStepper(func(t, dt float64) error { x += v * dt; return nil })
//	c.SetupExperiment(0, false, 0)
//	c.EnterInitializationMode()
//	c.ExitInitializationMode()
//	c.DoStep(0, 0.01, true)
//
// # Thread Safety
//
// Registries and components are NOT thread-safe. Registration and stepping
// are expected to happen on the goroutine driving the host.
package fmu
