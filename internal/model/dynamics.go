package model

import "github.com/san-kum/sidsmp/internal/dynamo"

// StateVector is the lumped model state. Coupling may transiently leave
// [0, 1] through integrator overshoot; it is clamped wherever it is read.
type StateVector struct {
	IRaw     float64
	ISub     float64
	Coupling float64
}

// InitialState is the fixed start of every run: fully raw, no structure,
// fully coupled.
func InitialState() StateVector {
	return StateVector{IRaw: 1.0, ISub: 0.0, Coupling: 1.0}
}

func (s StateVector) ToState() dynamo.State {
	return dynamo.State{s.IRaw, s.ISub, s.Coupling}
}

func StateVectorOf(x dynamo.State) StateVector {
	return StateVector{IRaw: x[0], ISub: x[1], Coupling: x[2]}
}

// TargetCoupling is the binary attachment target: 0 strictly above the
// decoupling threshold, 1 otherwise.
func TargetCoupling(load, threshold float64) float64 {
	if load > threshold {
		return 0
	}
	return 1
}

// Coherence is C_base / (1 + beta * dIRaw^2). It lies in (0, C_base].
func Coherence(dIRaw float64, p Parameters) float64 {
	instability := dIRaw * dIRaw
	return p.CBase / (1 + p.Beta*instability)
}

// Derivatives is the right-hand side of the model. t is unused; it is kept
// so the function matches integrator signatures. The caller's state is not
// modified.
func Derivatives(s StateVector, t, load float64, p Parameters) StateVector {
	coupling := Clamp01(s.Coupling)
	lam := p.Lambda(load)

	dIRaw := -lam * s.IRaw
	c := Coherence(dIRaw, p)

	dCoupling := p.Zeta * (TargetCoupling(load, p.DecoupleThreshold) - coupling)

	inputFlow := coupling * p.Alpha * c * lam * s.IRaw
	decayFlow := p.Mu * s.ISub

	return StateVector{
		IRaw:     dIRaw,
		ISub:     inputFlow - decayFlow,
		Coupling: dCoupling,
	}
}

// Dynamics binds a load and a validated parameter set into a dynamo.System.
type Dynamics struct {
	load   float64
	params Parameters
}

// NewDynamics validates p; an invalid set never reaches an integrator.
func NewDynamics(load float64, p Parameters) (*Dynamics, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Dynamics{load: load, params: p}, nil
}

func (d *Dynamics) StateDim() int { return 3 }

func (d *Dynamics) Derive(x dynamo.State, t float64) dynamo.State {
	return Derivatives(StateVectorOf(x), t, d.load, d.params).ToState()
}

func (d *Dynamics) Load() float64 { return d.load }

func (d *Dynamics) Params() Parameters { return d.params }
