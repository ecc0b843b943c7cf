package analysis

import (
	"sort"

	"github.com/san-kum/sidsmp/internal/sim"
)

type CurvePoint struct {
	Load float64 `json:"load"`
	Peak float64 `json:"peak_efficiency"`
}

// PeakCurve returns the peak P_t of every result sorted by load.
func PeakCurve(results []*sim.Result) []CurvePoint {
	points := make([]CurvePoint, 0, len(results))
	for _, r := range results {
		if r == nil {
			continue
		}
		points = append(points, CurvePoint{Load: r.Load, Peak: peakOf(r.Pt)})
	}
	sort.SliceStable(points, func(i, j int) bool { return points[i].Load < points[j].Load })
	return points
}

func peakOf(xs []float64) float64 {
	peak := 0.0
	for i, x := range xs {
		if i == 0 || x > peak {
			peak = x
		}
	}
	return peak
}
