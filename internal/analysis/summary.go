package analysis

import (
	"math"

	"github.com/san-kum/sidsmp/internal/metrics"
	"github.com/san-kum/sidsmp/internal/model"
	"github.com/san-kum/sidsmp/internal/sim"
)

// Summary is the scalar digest of one run.
type Summary struct {
	Load             float64 `json:"load"`
	Lambda           float64 `json:"lambda"`
	Regime           Regime  `json:"regime"`
	PeakEfficiency   float64 `json:"peak_efficiency"`
	PeakTime         float64 `json:"peak_time"`
	MeanEfficiency   float64 `json:"mean_efficiency"`
	FinalCoupling    float64 `json:"final_coupling"`
	FinalISub        float64 `json:"final_i_sub"`
	TotalWork        float64 `json:"total_work"`
	TotalDissipation float64 `json:"total_dissipation"`
	// CouplingTau is the time needed to close 1 - 1/e of the gap between the
	// initial coupling and its target. +Inf when the run ends first.
	CouplingTau float64 `json:"coupling_tau"`
}

// Summarize replays r through a fresh metric set. It does not depend on the
// metrics attached when r was produced.
func Summarize(r *sim.Result) Summary {
	peak := metrics.NewPeakEfficiency()
	mean := metrics.NewMeanEfficiency()
	final := metrics.NewFinalCoupling()
	work := metrics.NewWorkIntegral()
	diss := metrics.NewDissipationIntegral()

	observers := []sim.Metric{peak, mean, final, work, diss}
	for i := 0; i < r.Len(); i++ {
		s := r.Sample(i)
		for _, m := range observers {
			m.Observe(s)
		}
	}

	s := Summary{
		Load:             r.Load,
		Lambda:           r.Lambda,
		Regime:           RegimeFor(r.Load, r.Params),
		PeakEfficiency:   peak.Value(),
		PeakTime:         peak.At(),
		MeanEfficiency:   mean.Value(),
		FinalCoupling:    final.Value(),
		TotalWork:        work.Value(),
		TotalDissipation: diss.Value(),
		CouplingTau:      CouplingTimeConstant(r),
	}
	if r.Len() > 0 {
		s.FinalISub = r.ISub[r.Len()-1]
	}
	return s
}

// SummarizeAll keeps the order of results.
func SummarizeAll(results []*sim.Result) []Summary {
	out := make([]Summary, len(results))
	for i, r := range results {
		out[i] = Summarize(r)
	}
	return out
}

const tauFraction = 1 - 1/math.E

// CouplingTimeConstant linearly interpolates the first grid crossing of the
// 1 - 1/e level. A run that starts on its target has time constant 0.
func CouplingTimeConstant(r *sim.Result) float64 {
	if r.Len() == 0 {
		return math.Inf(1)
	}
	target := model.TargetCoupling(r.Load, r.Params.DecoupleThreshold)
	c0 := model.Clamp01(r.Coupling[0])
	gap := target - c0
	if gap == 0 {
		return 0
	}

	level := c0 + tauFraction*gap
	progress := func(i int) float64 {
		return (model.Clamp01(r.Coupling[i]) - level) * math.Copysign(1, gap)
	}

	prev := progress(0)
	for i := 1; i < r.Len(); i++ {
		cur := progress(i)
		if cur >= 0 {
			frac := -prev / (cur - prev)
			if math.IsNaN(frac) || math.IsInf(frac, 0) {
				frac = 1
			}
			return r.T[i-1] + frac*(r.T[i]-r.T[i-1])
		}
		prev = cur
	}
	return math.Inf(1)
}
