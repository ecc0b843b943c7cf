package model

import (
	"math"
)

// Parameters is the immutable constant bundle of the model. Values are passed
// by copy; call Validate once before handing them to the dynamics or the
// simulation engine.
type Parameters struct {
	// Lambda0 is the maximal transformability at zero load.
	Lambda0 float64 `yaml:"lambda_0" json:"lambda_0"`
	// K is the fragility: how fast transformability collapses under load.
	K float64 `yaml:"k" json:"k"`
	// Alpha is the raw to structured conversion efficiency.
	Alpha float64 `yaml:"alpha" json:"alpha"`
	// Mu is the structural decay / maintenance rate.
	Mu float64 `yaml:"mu" json:"mu"`
	// CBase is the nominal coherence ceiling.
	CBase float64 `yaml:"c_base" json:"c_base"`
	// Beta penalizes coherence by raw-information instability.
	Beta float64 `yaml:"beta" json:"beta"`
	// DecoupleThreshold is the load beyond which detachment is favored.
	DecoupleThreshold float64 `yaml:"decouple_threshold" json:"decouple_threshold"`
	// Zeta is the detachment / reattachment relaxation rate.
	Zeta float64 `yaml:"zeta" json:"zeta"`
	// Epsilon keeps the efficiency ratio finite.
	Epsilon float64 `yaml:"epsilon" json:"epsilon"`
}

func DefaultParameters() Parameters {
	return Parameters{
		Lambda0:           1.0,
		K:                 1.2,
		Alpha:             0.6,
		Mu:                0.15,
		CBase:             0.95,
		Beta:              2.0,
		DecoupleThreshold: 2.5,
		Zeta:              0.1,
		Epsilon:           1e-6,
	}
}

// Validate checks every field against its documented domain. Non-finite
// values are rejected for all fields.
func (p Parameters) Validate() error {
	fields := []struct {
		name string
		v    float64
	}{
		{"lambda_0", p.Lambda0},
		{"k", p.K},
		{"alpha", p.Alpha},
		{"mu", p.Mu},
		{"c_base", p.CBase},
		{"beta", p.Beta},
		{"decouple_threshold", p.DecoupleThreshold},
		{"zeta", p.Zeta},
		{"epsilon", p.Epsilon},
	}
	for _, f := range fields {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return &ConfigError{Field: f.name, Value: f.v, Reason: "must be finite"}
		}
	}

	switch {
	case p.Lambda0 <= 0:
		return &ConfigError{Field: "lambda_0", Value: p.Lambda0, Reason: "must be > 0"}
	case p.K < 0:
		return &ConfigError{Field: "k", Value: p.K, Reason: "must be >= 0"}
	case p.Alpha < 0 || p.Alpha > 1:
		return &ConfigError{Field: "alpha", Value: p.Alpha, Reason: "must be in [0, 1]"}
	case p.Mu < 0:
		return &ConfigError{Field: "mu", Value: p.Mu, Reason: "must be >= 0"}
	case p.CBase <= 0 || p.CBase > 1:
		return &ConfigError{Field: "c_base", Value: p.CBase, Reason: "must be in (0, 1]"}
	case p.Beta < 0:
		return &ConfigError{Field: "beta", Value: p.Beta, Reason: "must be >= 0"}
	case p.DecoupleThreshold < 0:
		return &ConfigError{Field: "decouple_threshold", Value: p.DecoupleThreshold, Reason: "must be >= 0"}
	case p.DecoupleThreshold == 0 && p.K > 0:
		return &ConfigError{
			Field:  "decouple_threshold",
			Value:  p.DecoupleThreshold,
			Reason: "0 with k > 0 decouples immediately and collapses the regime structure",
		}
	case p.Zeta < 0:
		return &ConfigError{Field: "zeta", Value: p.Zeta, Reason: "must be >= 0"}
	case p.Epsilon <= 0:
		return &ConfigError{Field: "epsilon", Value: p.Epsilon, Reason: "must be > 0"}
	}
	return nil
}

// Lambda is the transformability lambda_0 * exp(-k * load). For very large
// k*load the exponential underflows to exactly zero, never to NaN.
func (p Parameters) Lambda(load float64) float64 {
	return p.Lambda0 * math.Exp(-p.K*load)
}

// LambdaSeries evaluates Lambda element-wise.
func (p Parameters) LambdaSeries(loads []float64) []float64 {
	out := make([]float64, len(loads))
	for i, load := range loads {
		out[i] = p.Lambda(load)
	}
	return out
}

// WithK returns a copy with the fragility overridden. The copy is not
// validated.
func (p Parameters) WithK(k float64) Parameters {
	p.K = k
	return p
}
