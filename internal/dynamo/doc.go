// Package dynamo provides the numerical primitives shared by the simulator.
//
// The package defines the interfaces and types used to integrate an
// autonomous or time-dependent ordinary differential equation dX/dt = f(X, t):
//
//   - [State]: vector representing system state
//   - [System]: interface for ODE right-hand sides
//   - [Integrator]: fixed-step numerical integrator
//   - [AdaptiveIntegrator]: integrator with an embedded error estimate
//
// # Example
//
//	dyn := model.NewDynamics(load, params)
//	integ := integrators.NewRK45()
//	x1, dtNext, err := integ.StepAdaptive(dyn, x0, t, dt, 1e-8)
//
// # Thread Safety
//
// Integrators may keep scratch buffers and are NOT safe for concurrent use.
// Give each goroutine its own integrator instance.
package dynamo
