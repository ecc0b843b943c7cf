package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/sidsmp/internal/model"
	"github.com/san-kum/sidsmp/internal/sim"
)

var (
	DefaultLoads   = []float64{0, 1, 2, 3, 5}
	DefaultKValues = []float64{0.5, 1.0, 1.2, 2.0}
)

// Runner carries everything an experiment needs besides its loads.
type Runner struct {
	Params     model.Parameters
	Sim        sim.Config
	Integrator string
	Workers    int

	registry *Registry
}

func NewRunner(p model.Parameters, cfg sim.Config) *Runner {
	return &Runner{
		Params:     p,
		Sim:        cfg,
		Integrator: DefaultIntegrator,
		Workers:    4,
		registry:   NewRegistry(),
	}
}

func (r *Runner) run(ctx context.Context, jobs []sim.Job) ([]*sim.Result, error) {
	factory, err := r.registry.IntegratorFactory(r.Integrator)
	if err != nil {
		return nil, err
	}
	return sim.NewEnsemble(factory, r.Workers).
		WithMetrics(r.registry.DefaultMetrics).
		Run(ctx, jobs, r.Sim)
}

// Single runs one load with the runner's parameters.
func (r *Runner) Single(ctx context.Context, load float64) (*sim.Result, error) {
	results, err := r.run(ctx, []sim.Job{{Load: load, Params: r.Params}})
	if err != nil {
		return nil, err
	}
	return results[0], nil
}

// Results holds one run per load in the order the loads were requested.
type Results struct {
	loads  []float64
	byLoad map[float64]*sim.Result
}

func (rs *Results) Loads() []float64 {
	out := make([]float64, len(rs.loads))
	copy(out, rs.loads)
	return out
}

func (rs *Results) Get(load float64) (*sim.Result, bool) {
	r, ok := rs.byLoad[load]
	return r, ok
}

// Ordered returns the runs in load request order.
func (rs *Results) Ordered() []*sim.Result {
	out := make([]*sim.Result, len(rs.loads))
	for i, l := range rs.loads {
		out[i] = rs.byLoad[l]
	}
	return out
}

func (rs *Results) Len() int { return len(rs.loads) }

// RegimeVariation runs every load once with the runner's parameters.
// Repeated loads are run once.
func RegimeVariation(ctx context.Context, r *Runner, loads []float64) (*Results, error) {
	if len(loads) == 0 {
		return nil, fmt.Errorf("no loads given")
	}

	rs := &Results{byLoad: make(map[float64]*sim.Result, len(loads))}
	seen := make(map[float64]bool, len(loads))
	jobs := make([]sim.Job, 0, len(loads))
	for _, l := range loads {
		if seen[l] {
			continue
		}
		seen[l] = true
		rs.loads = append(rs.loads, l)
		jobs = append(jobs, sim.Job{Load: l, Params: r.Params})
	}

	results, err := r.run(ctx, jobs)
	if err != nil {
		return nil, fmt.Errorf("regime variation: %w", err)
	}
	for i, res := range results {
		rs.byLoad[rs.loads[i]] = res
	}
	return rs, nil
}
