package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/sidsmp/internal/dynamo"
	"github.com/san-kum/sidsmp/internal/integrators"
	"github.com/san-kum/sidsmp/internal/model"
)

// Simulator integrates the model on a uniform grid and derives the
// per-sample coherence and energetics. A Simulator owns its integrator's
// scratch buffers and must not be shared between goroutines.
type Simulator struct {
	integrator dynamo.Integrator
	metrics    []Metric
}

func New(integrator dynamo.Integrator) *Simulator {
	return &Simulator{
		integrator: integrator,
		metrics:    make([]Metric, 0),
	}
}

func (s *Simulator) AddMetric(m Metric) { s.metrics = append(s.metrics, m) }

// RunSingle runs one load with Dormand-Prince RK45 and the default accuracy.
func RunSingle(load float64, p model.Parameters, horizon float64, samples int) (*Result, error) {
	cfg := DefaultConfig()
	cfg.Horizon = horizon
	cfg.Samples = samples
	return New(integrators.NewRK45()).Run(context.Background(), load, p, cfg)
}

// Run validates p and the grid, integrates from the fixed initial state and
// assembles the result. Parameter and grid errors are returned before any
// integration step is taken.
func (s *Simulator) Run(ctx context.Context, load float64, p model.Parameters, cfg Config) (*Result, error) {
	dyn, err := model.NewDynamics(load, p)
	if err != nil {
		return nil, err
	}
	grid, err := dynamo.Grid(cfg.Horizon, cfg.Samples)
	if err != nil {
		return nil, err
	}
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	result := newResult(load, p, len(grid))
	copy(result.T, grid)

	x := model.InitialState().ToState()
	h := cfg.InitialStep
	result.storeState(0, x)

	for i := 1; i < len(grid); i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		x, h, err = s.advance(dyn, x, grid[i-1], grid[i], h, cfg, result)
		if err != nil {
			return nil, err
		}
		result.storeState(i, x)
	}

	s.derive(result, load, p)
	return result, nil
}

func (s *Simulator) validateConfig(cfg Config) error {
	if _, ok := s.integrator.(dynamo.AdaptiveIntegrator); ok {
		if !(cfg.Tolerance > 0) {
			return fmt.Errorf("tolerance must be positive for adaptive stepping, got %g", cfg.Tolerance)
		}
		if !(cfg.InitialStep > 0) || !(cfg.MaxStep > 0) || cfg.MinStep < 0 {
			return fmt.Errorf("invalid step bounds: initial %g, min %g, max %g", cfg.InitialStep, cfg.MinStep, cfg.MaxStep)
		}
		return nil
	}
	if !(cfg.FixedStep > 0) {
		return fmt.Errorf("fixed step must be positive, got %g", cfg.FixedStep)
	}
	return nil
}

// advance carries x from t0 to exactly t1 and returns the step size to try
// next.
func (s *Simulator) advance(dyn dynamo.System, x dynamo.State, t0, t1, h float64, cfg Config, r *Result) (dynamo.State, float64, error) {
	adaptive, ok := s.integrator.(dynamo.AdaptiveIntegrator)
	if !ok {
		return s.advanceFixed(dyn, x, t0, t1, cfg, r)
	}

	t := t0
	for t < t1 {
		remaining := t1 - t
		last := h >= remaining
		dt := h
		if last {
			dt = remaining
		}

		next, hNext, accepted := adaptive.StepAdaptive(dyn, x, t, dt, cfg.Tolerance)
		if !accepted {
			r.Rejected++
			if hNext < cfg.MinStep {
				return nil, 0, &dynamo.SimError{Step: r.Steps, Time: t, Wrapped: dynamo.ErrStepTooSmall}
			}
			h = hNext
			continue
		}
		if !next.IsValid() {
			return nil, 0, &dynamo.SimError{Step: r.Steps, Time: t, Wrapped: dynamo.ErrInvalidState}
		}

		x = next
		r.Steps++
		if last {
			t = t1
			// a truncated step says little about the next interval
			hNext = math.Max(h, hNext)
		} else {
			t += dt
		}
		h = math.Min(hNext, cfg.MaxStep)
	}
	return x, h, nil
}

func (s *Simulator) advanceFixed(dyn dynamo.System, x dynamo.State, t0, t1 float64, cfg Config, r *Result) (dynamo.State, float64, error) {
	n := int(math.Ceil((t1 - t0) / cfg.FixedStep))
	if n < 1 {
		n = 1
	}
	dt := (t1 - t0) / float64(n)
	for k := 0; k < n; k++ {
		t := t0 + float64(k)*dt
		x = s.integrator.Step(dyn, x, t, dt)
		if !x.IsValid() {
			return nil, 0, &dynamo.SimError{Step: r.Steps, Time: t, Wrapped: dynamo.ErrInvalidState}
		}
		r.Steps++
	}
	return x, cfg.FixedStep, nil
}

func (r *Result) storeState(i int, x dynamo.State) {
	r.IRaw[i] = x[0]
	r.ISub[i] = x[1]
	r.Coupling[i] = x[2]
}

// derive recomputes coherence and energetics on the output grid. dI_raw/dt
// comes from the closed-form decay law at each sample, not from differencing
// the trajectory.
func (s *Simulator) derive(r *Result, load float64, p model.Parameters) {
	for _, m := range s.metrics {
		m.Reset()
	}

	lam := r.Lambda
	for i := range r.T {
		dIRaw := -lam * r.IRaw[i]
		c := model.Coherence(dIRaw, p)
		e := model.ComputeEnergetics(r.IRaw[i], r.ISub[i], r.Coupling[i], c, load, p)

		r.Coherence[i] = c
		r.WStruct[i] = e.WStruct
		r.EDiss[i] = e.EDiss
		r.Pt[i] = e.Pt

		if len(s.metrics) > 0 {
			sample := r.Sample(i)
			for _, m := range s.metrics {
				m.Observe(sample)
			}
		}
	}

	for _, m := range s.metrics {
		r.Metrics[m.Name()] = m.Value()
	}
}
