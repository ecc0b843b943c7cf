// Package viz renders simulation results in the terminal.
//
//   - [RenderRun]: asciigraph charts of a run's main series
//   - [SummaryTable]: lipgloss table of per-load summaries
//   - [Live]: Bubble Tea explorer that replays a run and re-runs it when the
//     load changes
//
// # Key Bindings
//
//	Up/K    - Raise the load by one step and re-run
//	Down/J  - Lower the load by one step and re-run
//	Space   - Pause/Resume replay
//	R       - Restart replay
//	Q       - Quit
package viz
