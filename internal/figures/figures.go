package figures

import (
	"fmt"
	"image/color"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg/draw"

	"github.com/san-kum/sidsmp/internal/analysis"
	"github.com/san-kum/sidsmp/internal/experiment"
	"github.com/san-kum/sidsmp/internal/sim"
)

// Default file names used by the validation command.
const (
	TimeSeriesFile    = "validation_timeseries.png"
	CollapseFile      = "validation_collapse.png"
	PhaseSpaceFile    = "validation_phase_space.png"
	SensitivityFile   = "validation_sensitivity.png"
	ComprehensiveFile = "SIDSMP_Final_Result.png"
)

// focusLoad is the load above which coupling trajectories are drawn.
const focusLoad = 2.0

func sortedByLoad(results []*sim.Result) ([]*sim.Result, error) {
	out := make([]*sim.Result, 0, len(results))
	for _, r := range results {
		if r != nil && r.Len() > 0 {
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no results to plot")
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Load < out[j].Load })
	return out, nil
}

func loadColor(r *sim.Result) color.RGBA {
	return regimeColors[analysis.RegimeFor(r.Load, r.Params)]
}

func structurePlot(title string, low, high *sim.Result) (*plot.Plot, error) {
	p := newPlot(title, "t", "I_sub")
	if err := addLine(p, fmt.Sprintf("structure, T=%g", low.Load), low.T, low.ISub, loadColor(low), false); err != nil {
		return nil, err
	}
	if high != low {
		if err := addLine(p, fmt.Sprintf("structure, T=%g", high.Load), high.T, high.ISub, loadColor(high), true); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func balancePlot(title string, r *sim.Result) (*plot.Plot, error) {
	p := newPlot(title, "t", "energy rate")
	if err := addLine(p, "W_struct", r.T, r.WStruct, regimeColors[analysis.Functional], false); err != nil {
		return nil, err
	}
	if err := addLine(p, "E_diss", r.T, r.EDiss, regimeColors[analysis.Decoupling], false); err != nil {
		return nil, err
	}
	return p, nil
}

func couplingPlot(title string, results []*sim.Result) (*plot.Plot, error) {
	p := newPlot(title, "t", "coupling (0 decoupled, 1 coupled)")
	p.Y.Min, p.Y.Max = 0, 1.05
	for i, r := range results {
		if r.Load <= focusLoad {
			continue
		}
		if err := addLine(p, fmt.Sprintf("T=%g", r.Load), r.T, r.Coupling, seriesColor(i), false); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// peakPlot draws peak P against load over shaded regime zones.
func peakPlot(title string, results []*sim.Result, allZones bool) (*plot.Plot, error) {
	curve := analysis.PeakCurve(results)
	loads := make([]float64, len(curve))
	peaks := make([]float64, len(curve))
	top := 0.0
	for i, pt := range curve {
		loads[i], peaks[i] = pt.Load, pt.Peak
		top = max(top, pt.Peak)
	}
	if top == 0 {
		top = 1
	}
	top *= 1.1

	p := newPlot(title, "load T", "peak predictive efficiency P")
	params := results[0].Params
	maxLoad := max(loads[len(loads)-1], params.DecoupleThreshold)
	for _, z := range analysis.Zones(params, maxLoad) {
		if !allZones && z.Regime != analysis.Decoupling {
			continue
		}
		if err := addBand(p, string(z.Regime), z.From, z.To, top, regimeColors[z.Regime]); err != nil {
			return nil, err
		}
	}

	blue := seriesColor(2)
	if err := addLine(p, "", loads, peaks, blue, false); err != nil {
		return nil, err
	}
	if err := addMarkers(p, "peak P", loads, peaks, blue); err != nil {
		return nil, err
	}
	p.Y.Min, p.Y.Max = 0, top
	return p, nil
}

// RegimeTimeSeries contrasts the lowest and highest load: structure
// formation on the left, the energetic balance of the lowest load on the
// right.
func RegimeTimeSeries(filename string, results []*sim.Result) (string, error) {
	rs, err := sortedByLoad(results)
	if err != nil {
		return "", err
	}
	low, high := rs[0], rs[len(rs)-1]

	left, err := structurePlot("Structured information across loads", low, high)
	if err != nil {
		return "", err
	}
	right, err := balancePlot(fmt.Sprintf("Energetic balance (T=%g)", low.Load), low)
	if err != nil {
		return "", err
	}

	c, dc := createCanvas(14, 5)
	drawRow(dc, left, right)
	return writePNG(c, filename)
}

// CollapseDiagram shows coupling under high load next to peak efficiency
// against load.
func CollapseDiagram(filename string, results []*sim.Result) (string, error) {
	rs, err := sortedByLoad(results)
	if err != nil {
		return "", err
	}

	left, err := couplingPlot("Coupling under high informational load", rs)
	if err != nil {
		return "", err
	}
	right, err := peakPlot("Regimes of predictive efficiency", rs, false)
	if err != nil {
		return "", err
	}

	c, dc := createCanvas(14, 5)
	drawRow(dc, left, right)
	return writePNG(c, filename)
}

// PhaseSpace plots every run in the (I_raw, I_sub) plane and marks where it
// ends.
func PhaseSpace(filename string, results []*sim.Result) (string, error) {
	rs, err := sortedByLoad(results)
	if err != nil {
		return "", err
	}

	p := newPlot("State space trajectories", "raw information I_raw", "structured information I_sub")
	for _, r := range rs {
		c := loadColor(r)
		if err := addLine(p, fmt.Sprintf("T=%g", r.Load), r.IRaw, r.ISub, c, false); err != nil {
			return "", err
		}
		last := r.Len() - 1
		if err := addMarkers(p, "", r.IRaw[last:], r.ISub[last:], c); err != nil {
			return "", err
		}
	}
	return savePlot(p, 8, 8, filename)
}

// Sensitivity draws one peak efficiency curve per fragility k.
func Sensitivity(filename string, curves []experiment.Curve) (string, error) {
	if len(curves) == 0 {
		return "", fmt.Errorf("no curves to plot")
	}

	p := newPlot("Sensitivity of peak efficiency to fragility k", "load T", "peak P")
	for i, curve := range curves {
		loads := make([]float64, len(curve.Points))
		peaks := make([]float64, len(curve.Points))
		for j, pt := range curve.Points {
			loads[j], peaks[j] = pt.Load, pt.Peak
		}
		label := fmt.Sprintf("k=%g", curve.K)
		if err := addLine(p, label, loads, peaks, seriesColor(i), false); err != nil {
			return "", err
		}
		if err := addMarkers(p, "", loads, peaks, seriesColor(i)); err != nil {
			return "", err
		}
	}
	return savePlot(p, 8, 6, filename)
}

// Comprehensive is the four panel overview: structure formation, coupling,
// energetic balance and the regime diagram across the bottom.
func Comprehensive(filename string, results []*sim.Result) (string, error) {
	rs, err := sortedByLoad(results)
	if err != nil {
		return "", err
	}
	low, high := rs[0], rs[len(rs)-1]

	a, err := structurePlot("A. Structure formation", low, high)
	if err != nil {
		return "", err
	}
	b, err := couplingPlot("B. Decoupling from constraint", rs)
	if err != nil {
		return "", err
	}
	cp, err := balancePlot("C. Energetic balance", low)
	if err != nil {
		return "", err
	}
	d, err := peakPlot("D. From functional to decoupling regime", rs, true)
	if err != nil {
		return "", err
	}

	c, dc := createCanvas(16, 12)
	half := (dc.Max.Y - dc.Min.Y) / 2
	drawRow(draw.Crop(dc, 0, 0, half, 0), a, b, cp)
	drawRow(draw.Crop(dc, 0, 0, 0, -half), d)
	return writePNG(c, filename)
}
