package viz

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/sidsmp/internal/analysis"
	"github.com/san-kum/sidsmp/internal/sim"
)

// chartSeries are the series drawn by RenderRun, top to bottom.
var chartSeries = []string{sim.SeriesIRaw, sim.SeriesISub, sim.SeriesCoupling, sim.SeriesPt}

// RenderRun charts the main series of r, each width columns wide and height
// rows tall.
func RenderRun(r *sim.Result, width, height int) string {
	if r == nil || r.Len() == 0 {
		return ""
	}

	charts := make([]string, 0, len(chartSeries))
	for _, name := range chartSeries {
		data, _ := r.Series(name)
		charts = append(charts, asciigraph.Plot(data,
			asciigraph.Height(height),
			asciigraph.Width(width),
			asciigraph.Caption(fmt.Sprintf("%s  (T=%.2f, λ=%.4f)", name, r.Load, r.Lambda)),
		))
	}
	return strings.Join(charts, "\n\n")
}

// SummaryTable lays out one row per summary in the given order.
func SummaryTable(summaries []analysis.Summary) string {
	rows := make([][]string, len(summaries))
	for i, s := range summaries {
		rows[i] = []string{
			fmt.Sprintf("%.2f", s.Load),
			fmt.Sprintf("%.4f", s.Lambda),
			fmt.Sprintf("%.3f", s.PeakEfficiency),
			fmt.Sprintf("%.2f", s.PeakTime),
			fmt.Sprintf("%.3f", s.FinalCoupling),
			formatTau(s.CouplingTau),
			string(s.Regime),
		}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(Subtle).
		Headers("load", "λ", "peak P", "t(peak)", "coupling", "τ", "regime").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return HeaderStyle
			}
			cell := lipgloss.NewStyle().Padding(0, 1)
			if col == 6 && row >= 0 && row < len(summaries) {
				if st, ok := regimeStyle[string(summaries[row].Regime)]; ok {
					return st.Padding(0, 1)
				}
			}
			return cell
		}).
		Render()
}

func formatTau(tau float64) string {
	if math.IsInf(tau, 1) {
		return "∞"
	}
	return fmt.Sprintf("%.2f", tau)
}
