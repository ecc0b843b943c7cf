// Package model defines the SIDSMP toy model: the validated parameter set,
// the ODE right-hand side over the state (I_raw, I_sub, coupling) and the
// proxy energetics derived from a state snapshot.
//
// Everything here is a pure function of its inputs. Coupling is clamped into
// [0, 1] and information quantities are floored at zero at every point of
// use, so integrator overshoot never produces out-of-range derived values.
//
//	p := model.DefaultParameters()
//	if err := p.Validate(); err != nil {
//	    return err
//	}
//	d := model.Derivatives(model.InitialState(), 0, load, p)
package model
