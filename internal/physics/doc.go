// Package physics provides a small rigid multibody engine.
//
// A [System] owns [Body] values and the links between them:
//
//   - [LinkDistance]: rigid distance constraint, enforced by projection
//   - [LinkSpring]: linear spring-damper force element
//
// The system implements [sim.Dynamics] over the packed state of its free
// bodies, so any [sim.Integrator] can advance it:
//
//	sys := physics.NewSystem()
//	ground := physics.NewFixedBody("ground")
//	bob := physics.NewBody("bob", 1)
//	bob.SetPos(geometry.Vec(1, 0, 0))
//	sys.AddBody(ground)
//	sys.AddBody(bob)
//	sys.AddLink(physics.NewLinkDistance("rod", ground, bob))
//	sys.DoStepDynamics(1e-3)
//
// Every type writes itself to an [archive.Archive], so a whole system can be
// exported as a flat variable table.
package physics
