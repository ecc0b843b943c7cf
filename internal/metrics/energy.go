package metrics

import (
	"github.com/san-kum/sidsmp/internal/sim"
)

// Integral accumulates the trapezoid integral of one sample quantity over
// time.
type Integral struct {
	name    string
	pick    func(sim.Sample) float64
	total   float64
	prevT   float64
	prevV   float64
	samples int
}

func NewIntegral(name string, pick func(sim.Sample) float64) *Integral {
	return &Integral{name: name, pick: pick}
}

// NewWorkIntegral is the total structural work of a run.
func NewWorkIntegral() *Integral {
	return NewIntegral("total_work", func(s sim.Sample) float64 { return s.Energetics.WStruct })
}

// NewDissipationIntegral is the total dissipated energy of a run.
func NewDissipationIntegral() *Integral {
	return NewIntegral("total_dissipation", func(s sim.Sample) float64 { return s.Energetics.EDiss })
}

func (in *Integral) Name() string { return in.name }

func (in *Integral) Observe(s sim.Sample) {
	v := in.pick(s)
	if in.samples > 0 {
		in.total += 0.5 * (v + in.prevV) * (s.T - in.prevT)
	}
	in.prevT, in.prevV = s.T, v
	in.samples++
}

func (in *Integral) Value() float64 { return in.total }

func (in *Integral) Reset() {
	in.total = 0
	in.prevT = 0
	in.prevV = 0
	in.samples = 0
}
