package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/sidsmp/internal/analysis"
	"github.com/san-kum/sidsmp/internal/sim"
)

// Curve is peak efficiency against load for one fragility.
type Curve struct {
	K      float64               `json:"k"`
	Points []analysis.CurvePoint `json:"points"`
}

// KSensitivity runs every load for every k and returns one curve per k in
// the order given. Each k is validated before any run starts.
func KSensitivity(ctx context.Context, r *Runner, kValues, loads []float64) ([]Curve, error) {
	if len(kValues) == 0 || len(loads) == 0 {
		return nil, fmt.Errorf("k sensitivity needs k values and loads")
	}

	jobs := make([]sim.Job, 0, len(kValues)*len(loads))
	for _, k := range kValues {
		p := r.Params.WithK(k)
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("k=%g: %w", k, err)
		}
		for _, l := range loads {
			jobs = append(jobs, sim.Job{Load: l, Params: p})
		}
	}

	results, err := r.run(ctx, jobs)
	if err != nil {
		return nil, fmt.Errorf("k sensitivity: %w", err)
	}

	curves := make([]Curve, len(kValues))
	for i, k := range kValues {
		curves[i] = Curve{
			K:      k,
			Points: analysis.PeakCurve(results[i*len(loads) : (i+1)*len(loads)]),
		}
	}
	return curves, nil
}

// Linspace returns steps evenly spaced values over [lo, hi].
func Linspace(lo, hi float64, steps int) []float64 {
	if steps <= 0 {
		return nil
	}
	if steps == 1 {
		return []float64{lo}
	}
	out := make([]float64, steps)
	step := (hi - lo) / float64(steps-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	out[steps-1] = hi
	return out
}
