package dynamo

import (
	"fmt"
	"math"
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func (s State) Add(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] + other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

func (s State) Scale(factor float64) State {
	result := make(State, len(s))
	for i := range s {
		result[i] = s[i] * factor
	}
	return result
}

func (s State) Sub(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] - other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

// System is the right-hand side of dX/dt = f(X, t).
type System interface {
	Derive(x State, t float64) State
	StateDim() int
}

type Integrator interface {
	Step(dyn System, x State, t float64, dt float64) State
}

// AdaptiveIntegrator returns the advanced state together with the step size
// it recommends for the next call. The returned state is only acceptable when
// the error estimate met tol; accepted reports that.
type AdaptiveIntegrator interface {
	Integrator
	StepAdaptive(dyn System, x State, t, dt, tol float64) (next State, dtNext float64, accepted bool)
}

// Grid returns n uniformly spaced points spanning [0, horizon], endpoints
// included.
func Grid(horizon float64, n int) ([]float64, error) {
	if n < 2 {
		return nil, fmt.Errorf("%w: sample count must be >= 2, got %d", ErrDegenerateGrid, n)
	}
	if !(horizon > 0) || math.IsInf(horizon, 0) {
		return nil, fmt.Errorf("%w: horizon must be positive and finite, got %g", ErrDegenerateGrid, horizon)
	}
	t := make([]float64, n)
	step := horizon / float64(n-1)
	for i := range t {
		t[i] = float64(i) * step
	}
	t[n-1] = horizon
	return t, nil
}
