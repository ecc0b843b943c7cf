package sim

import (
	"github.com/san-kum/sidsmp/internal/model"
)

// Sample is one point of a run on the output grid.
type Sample struct {
	Index      int
	T          float64
	State      model.StateVector
	Coherence  float64
	Energetics model.Energetics
}

// Metric accumulates a scalar over the samples of a run.
type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

// Config controls the time grid and the integration accuracy.
type Config struct {
	Horizon     float64
	Samples     int
	Tolerance   float64
	InitialStep float64
	MinStep     float64
	MaxStep     float64
	// FixedStep is the substep size used by integrators without error control.
	FixedStep float64
}

const (
	DefaultHorizon = 50.0
	DefaultSamples = 500
)

func DefaultConfig() Config {
	return Config{
		Horizon:     DefaultHorizon,
		Samples:     DefaultSamples,
		Tolerance:   1e-8,
		InitialStep: 0.01,
		MinStep:     1e-12,
		MaxStep:     1.0,
		FixedStep:   0.01,
	}
}

// Result is the bundle of one run. Every series is aligned with T. A Result
// is never modified after it is returned; consumers must treat the slices as
// read-only.
type Result struct {
	Load   float64
	Lambda float64
	Params model.Parameters

	T         []float64
	IRaw      []float64
	ISub      []float64
	Coupling  []float64
	Coherence []float64
	WStruct   []float64
	EDiss     []float64
	Pt        []float64

	Metrics  map[string]float64
	Steps    int
	Rejected int
}

// Series names, in export column order.
const (
	SeriesT         = "t"
	SeriesIRaw      = "I_raw"
	SeriesISub      = "I_sub"
	SeriesCoupling  = "coupling"
	SeriesCoherence = "C_dynamic"
	SeriesWStruct   = "W_struct"
	SeriesEDiss     = "E_diss"
	SeriesPt        = "P_t"
)

var seriesNames = []string{
	SeriesT, SeriesIRaw, SeriesISub, SeriesCoupling,
	SeriesCoherence, SeriesWStruct, SeriesEDiss, SeriesPt,
}

func SeriesNames() []string {
	out := make([]string, len(seriesNames))
	copy(out, seriesNames)
	return out
}

func (r *Result) Len() int { return len(r.T) }

// Series looks up a series by its export name.
func (r *Result) Series(name string) ([]float64, bool) {
	switch name {
	case SeriesT:
		return r.T, true
	case SeriesIRaw:
		return r.IRaw, true
	case SeriesISub:
		return r.ISub, true
	case SeriesCoupling:
		return r.Coupling, true
	case SeriesCoherence:
		return r.Coherence, true
	case SeriesWStruct:
		return r.WStruct, true
	case SeriesEDiss:
		return r.EDiss, true
	case SeriesPt:
		return r.Pt, true
	}
	return nil, false
}

func (r *Result) Sample(i int) Sample {
	return Sample{
		Index: i,
		T:     r.T[i],
		State: model.StateVector{
			IRaw:     r.IRaw[i],
			ISub:     r.ISub[i],
			Coupling: r.Coupling[i],
		},
		Coherence: r.Coherence[i],
		Energetics: model.Energetics{
			WStruct: r.WStruct[i],
			EDiss:   r.EDiss[i],
			Pt:      r.Pt[i],
		},
	}
}

func (r *Result) Final() Sample {
	return r.Sample(r.Len() - 1)
}

func newResult(load float64, p model.Parameters, n int) *Result {
	return &Result{
		Load:      load,
		Lambda:    p.Lambda(load),
		Params:    p,
		T:         make([]float64, n),
		IRaw:      make([]float64, n),
		ISub:      make([]float64, n),
		Coupling:  make([]float64, n),
		Coherence: make([]float64, n),
		WStruct:   make([]float64, n),
		EDiss:     make([]float64, n),
		Pt:        make([]float64, n),
		Metrics:   make(map[string]float64),
	}
}
