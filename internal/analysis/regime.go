package analysis

import (
	"github.com/san-kum/sidsmp/internal/model"
)

// Regime labels a load for reporting.
type Regime string

const (
	Functional Regime = "functional"
	Saturation Regime = "saturation"
	Decoupling Regime = "decoupling"
)

// SaturationOnset is the load where transformability has fallen far enough
// for the structural return to flatten.
const SaturationOnset = 1.5

// RegimeFor labels load: decoupling strictly above the threshold, functional
// below SaturationOnset, saturation in between.
func RegimeFor(load float64, p model.Parameters) Regime {
	switch {
	case load > p.DecoupleThreshold:
		return Decoupling
	case load < SaturationOnset:
		return Functional
	default:
		return Saturation
	}
}

// Zone is a load interval with its label, used to shade figures.
type Zone struct {
	Regime   Regime
	From, To float64
}

// Zones covers [0, maxLoad] with the labels of p.
func Zones(p model.Parameters, maxLoad float64) []Zone {
	onset := SaturationOnset
	if onset > p.DecoupleThreshold {
		onset = p.DecoupleThreshold
	}
	zones := []Zone{
		{Regime: Functional, From: 0, To: onset},
		{Regime: Saturation, From: onset, To: p.DecoupleThreshold},
		{Regime: Decoupling, From: p.DecoupleThreshold, To: maxLoad},
	}
	out := zones[:0]
	for _, z := range zones {
		if z.To > maxLoad {
			z.To = maxLoad
		}
		if z.To > z.From {
			out = append(out, z)
		}
	}
	return out
}
