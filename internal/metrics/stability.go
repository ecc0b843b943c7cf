package metrics

import (
	"github.com/san-kum/sidsmp/internal/sim"
)

// Overshoot is the fraction of samples whose raw integrated coupling left
// [0, 1]. Derived quantities are guarded against it; this only reports how
// often the guard was needed.
type Overshoot struct {
	name       string
	violations int
	samples    int
}

func NewOvershoot() *Overshoot {
	return &Overshoot{name: "coupling_overshoot"}
}

func (o *Overshoot) Name() string {
	return o.name
}

func (o *Overshoot) Observe(s sim.Sample) {
	o.samples++
	if s.State.Coupling < 0 || s.State.Coupling > 1 || s.State.IRaw < 0 || s.State.ISub < 0 {
		o.violations++
	}
}

func (o *Overshoot) Value() float64 {
	if o.samples == 0 {
		return 0
	}
	return float64(o.violations) / float64(o.samples)
}

func (o *Overshoot) Reset() {
	o.violations = 0
	o.samples = 0
}
