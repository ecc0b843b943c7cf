// Package analysis reduces simulation results to the quantities reported by
// the experiment drivers and the CLI.
//
//   - [Summarize]: peak efficiency, final coupling, integrated work and
//     dissipation, and the coupling time constant of one run
//   - [RegimeFor]: the reporting label of a load
//   - [PeakCurve]: peak efficiency against load across runs
//   - [PhasePortrait]: two series of a run plotted against each other
//
// Nothing here feeds back into the dynamics; regime labels in particular are
// informational only.
package analysis
