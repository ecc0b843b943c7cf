package sim

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/sidsmp/internal/dynamo"
	"github.com/san-kum/sidsmp/internal/model"
)

// Job is one independent run of an ensemble.
type Job struct {
	Load   float64
	Params model.Parameters
}

// Ensemble runs independent jobs concurrently. Every worker builds its own
// integrator and metrics, so nothing is shared between runs.
type Ensemble struct {
	newIntegrator func() dynamo.Integrator
	newMetrics    func() []Metric
	workers       int
}

func NewEnsemble(newIntegrator func() dynamo.Integrator, workers int) *Ensemble {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Ensemble{newIntegrator: newIntegrator, workers: workers}
}

// WithMetrics sets the factory used to attach fresh metrics to every run.
func (e *Ensemble) WithMetrics(newMetrics func() []Metric) *Ensemble {
	e.newMetrics = newMetrics
	return e
}

// Run executes jobs and returns results in job order. The first error
// cancels the remaining jobs and is returned.
func (e *Ensemble) Run(ctx context.Context, jobs []Job, cfg Config) ([]*Result, error) {
	results := make([]*Result, len(jobs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for i, job := range jobs {
		g.Go(func() error {
			s := New(e.newIntegrator())
			if e.newMetrics != nil {
				for _, m := range e.newMetrics() {
					s.AddMetric(m)
				}
			}

			res, err := s.Run(ctx, job.Load, job.Params, cfg)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
