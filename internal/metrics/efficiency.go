package metrics

import (
	"math"

	"github.com/san-kum/sidsmp/internal/model"
	"github.com/san-kum/sidsmp/internal/sim"
)

type PeakEfficiency struct {
	peak float64
	at   float64
	seen bool
}

func NewPeakEfficiency() *PeakEfficiency { return &PeakEfficiency{} }

func (p *PeakEfficiency) Name() string { return "peak_efficiency" }

func (p *PeakEfficiency) Observe(s sim.Sample) {
	if !p.seen || s.Energetics.Pt > p.peak {
		p.peak = s.Energetics.Pt
		p.at = s.T
		p.seen = true
	}
}

func (p *PeakEfficiency) Value() float64 { return p.peak }

// At is the time of the first sample reaching the peak.
func (p *PeakEfficiency) At() float64 { return p.at }

func (p *PeakEfficiency) Reset() {
	p.peak, p.at, p.seen = 0, 0, false
}

type MeanEfficiency struct {
	sum     float64
	samples int
}

func NewMeanEfficiency() *MeanEfficiency { return &MeanEfficiency{} }

func (m *MeanEfficiency) Name() string { return "mean_efficiency" }

func (m *MeanEfficiency) Observe(s sim.Sample) {
	m.sum += s.Energetics.Pt
	m.samples++
}

func (m *MeanEfficiency) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanEfficiency) Reset() {
	m.sum = 0
	m.samples = 0
}

// FinalCoupling is the clamped coupling of the last observed sample.
type FinalCoupling struct {
	last float64
}

func NewFinalCoupling() *FinalCoupling { return &FinalCoupling{last: math.NaN()} }

func (f *FinalCoupling) Name() string { return "final_coupling" }

func (f *FinalCoupling) Observe(s sim.Sample) { f.last = model.Clamp01(s.State.Coupling) }

func (f *FinalCoupling) Value() float64 { return f.last }

func (f *FinalCoupling) Reset() { f.last = math.NaN() }

// Defaults is the metric set attached to every experiment run.
func Defaults() []sim.Metric {
	return []sim.Metric{
		NewPeakEfficiency(),
		NewMeanEfficiency(),
		NewFinalCoupling(),
		NewWorkIntegral(),
		NewDissipationIntegral(),
		NewOvershoot(),
	}
}
