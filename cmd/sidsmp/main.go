package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	preset     string
	integrator string
	horizon    float64
	samples    int
	tolerance  float64
	workers    int

	load       float64
	loads      []float64
	kValues    []float64
	sweepSteps int
	outDir     string
	save       bool
	label      string
	chartW     int
	chartH     int
	outFile    string
)

// main registers the commands and their flags. With no subcommand it runs
// the regime exploration over the configured loads.
func main() {
	rootCmd := &cobra.Command{
		Use:          "sidsmp",
		Short:        "structured information dynamics toy model",
		SilenceUsage: true,
		RunE:         runExplore,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".sidsmp", "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset parameters")
	pf.StringVar(&integrator, "integrator", "rk45", "integrator (euler, rk4, rk45)")
	pf.Float64Var(&horizon, "horizon", 50, "simulated time span")
	pf.IntVar(&samples, "samples", 500, "output samples")
	pf.Float64Var(&tolerance, "tolerance", 1e-8, "adaptive step tolerance")
	pf.IntVar(&workers, "workers", 4, "concurrent runs (0 = GOMAXPROCS)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a single load",
		Args:  cobra.NoArgs,
		RunE:  runSingle,
	}
	runCmd.Flags().Float64Var(&load, "load", 0, "informational load T")
	runCmd.Flags().BoolVar(&save, "save", false, "save the run")
	runCmd.Flags().StringVar(&label, "label", "", "label stored with a saved run")
	runCmd.Flags().IntVar(&chartW, "width", 80, "chart width")
	runCmd.Flags().IntVar(&chartH, "height", 10, "chart height")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run every load and compare regimes",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	sweepCmd.Flags().Float64SliceVar(&loads, "loads", nil, "loads to run (default from config)")
	sweepCmd.Flags().BoolVar(&save, "save", false, "save every run")
	sweepCmd.Flags().StringVar(&label, "label", "", "label stored with saved runs")

	sensitivityCmd := &cobra.Command{
		Use:   "sensitivity",
		Short: "peak efficiency against load for several k",
		Args:  cobra.NoArgs,
		RunE:  runSensitivity,
	}
	sensitivityCmd.Flags().Float64SliceVar(&kValues, "k", nil, "fragility values (default from config)")
	sensitivityCmd.Flags().IntVar(&sweepSteps, "steps", 20, "loads in the sweep")

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "run the validation suite and write all figures",
		Args:  cobra.NoArgs,
		RunE:  runValidate,
	}
	validateCmd.Flags().StringVar(&outDir, "out", "validation", "figure directory")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&chartW, "width", 80, "chart width")
	plotCmd.Flags().IntVar(&chartH, "height", 10, "chart height")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run series to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default stdout)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "replay runs interactively and tune the load",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	liveCmd.Flags().Float64Var(&load, "load", 0, "initial load T")

	rootCmd.AddCommand(runCmd, sweepCmd, sensitivityCmd, validateCmd, listCmd, plotCmd,
		exportCSVCmd, exportJSONCmd, presetsCmd, liveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
