package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/san-kum/sidsmp/internal/analysis"
	"github.com/san-kum/sidsmp/internal/config"
	"github.com/san-kum/sidsmp/internal/experiment"
	"github.com/san-kum/sidsmp/internal/figures"
	"github.com/san-kum/sidsmp/internal/sim"
	"github.com/san-kum/sidsmp/internal/storage"
	"github.com/san-kum/sidsmp/internal/viz"
)

// loadConfig resolves the effective configuration: defaults, then the
// preset, then the config file, then any flag set on the command line.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		fileCfg, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		if preset != "" {
			// the file keeps its own values; the preset only supplies parameters
			fileCfg.Params = cfg.Params
		}
		cfg = fileCfg
	}

	flags := cmd.Flags()
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("horizon") {
		cfg.Horizon = horizon
	}
	if flags.Changed("samples") {
		cfg.Samples = samples
	}
	if flags.Changed("tolerance") {
		cfg.Tolerance = tolerance
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("loads") {
		cfg.Loads = loads
	}
	if flags.Changed("k") {
		cfg.KValues = kValues
	}
	if flags.Changed("steps") {
		cfg.Sweep.Steps = sweepSteps
	}
	if flags.Changed("out") {
		cfg.OutputDir = outDir
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if _, err := experiment.NewRegistry().GetIntegrator(cfg.Integrator); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newRunner(cfg *config.Config) *experiment.Runner {
	r := experiment.NewRunner(cfg.Params, cfg.SimConfig())
	r.Integrator = cfg.Integrator
	r.Workers = cfg.Workers
	return r
}

func openStore() (*storage.Store, error) {
	return storage.Open(dataDir)
}

func saveResults(out io.Writer, cfg *config.Config, results []*sim.Result) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	for _, r := range results {
		id, err := st.Save(r, storage.SaveOptions{Label: label, Integrator: cfg.Integrator})
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "saved: %s (T=%g)\n", id, r.Load)
	}
	return nil
}

func runExplore(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "=== SIDSMP toy model ===")
	fmt.Fprintln(out, "regimes: functional -> saturation -> decoupling")

	rs, err := experiment.RegimeVariation(cmd.Context(), newRunner(cfg), cfg.Loads)
	if err != nil {
		return err
	}
	for _, r := range rs.Ordered() {
		s := analysis.Summarize(r)
		fmt.Fprintf(out, "load T=%.1f: max P(t) %.3f | final coupling %.3f\n", r.Load, s.PeakEfficiency, s.FinalCoupling)
	}

	fmt.Fprintln(out, "\ngenerating overview figure...")
	path, err := figures.Comprehensive(filepath.Join(cfg.OutputDir, figures.ComprehensiveFile), rs.Ordered())
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "figure saved: %s\n", path)
	return nil
}

func runSingle(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "running T=%g (%s, horizon %.1f, %d samples)...\n", load, cfg.Integrator, cfg.Horizon, cfg.Samples)
	start := time.Now()
	r, err := newRunner(cfg).Single(cmd.Context(), load)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "completed in %v (%d steps, %d rejected)\n\n", time.Since(start).Round(time.Millisecond), r.Steps, r.Rejected)

	fmt.Fprintln(out, viz.SummaryTable([]analysis.Summary{analysis.Summarize(r)}))
	fmt.Fprintln(out)
	fmt.Fprintln(out, viz.RenderRun(r, chartW, chartH))

	if save {
		return saveResults(out, cfg, []*sim.Result{r})
	}
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "running %d loads with %d workers...\n", len(cfg.Loads), cfg.Workers)
	start := time.Now()
	rs, err := experiment.RegimeVariation(cmd.Context(), newRunner(cfg), cfg.Loads)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "completed in %v\n\n", time.Since(start).Round(time.Millisecond))
	fmt.Fprintln(out, viz.SummaryTable(analysis.SummarizeAll(rs.Ordered())))

	if save {
		return saveResults(out, cfg, rs.Ordered())
	}
	return nil
}

func sensitivity(ctx context.Context, cfg *config.Config) ([]experiment.Curve, error) {
	sweep := experiment.Linspace(cfg.Sweep.Min, cfg.Sweep.Max, cfg.Sweep.Steps)
	return experiment.KSensitivity(ctx, newRunner(cfg), cfg.KValues, sweep)
}

func runSensitivity(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "k sensitivity: k=%v over %d loads in [%g, %g]\n\n", cfg.KValues, cfg.Sweep.Steps, cfg.Sweep.Min, cfg.Sweep.Max)
	curves, err := sensitivity(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprint(w, "LOAD")
	for _, c := range curves {
		fmt.Fprintf(w, "\tk=%g", c.K)
	}
	fmt.Fprintln(w)
	for i := range curves[0].Points {
		fmt.Fprintf(w, "%.3f", curves[0].Points[i].Load)
		for _, c := range curves {
			fmt.Fprintf(w, "\t%.4f", c.Points[i].Peak)
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}

func runValidate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	fmt.Fprintln(out, "[1] regime variation...")
	rs, err := experiment.RegimeVariation(ctx, newRunner(cfg), cfg.Loads)
	if err != nil {
		return err
	}
	results := rs.Ordered()

	fmt.Fprintln(out, "[2] generating standard plots...")
	figs := []struct {
		name string
		draw func(string, []*sim.Result) (string, error)
	}{
		{figures.TimeSeriesFile, figures.RegimeTimeSeries},
		{figures.CollapseFile, figures.CollapseDiagram},
		{figures.PhaseSpaceFile, figures.PhaseSpace},
		{figures.ComprehensiveFile, figures.Comprehensive},
	}
	for _, f := range figs {
		path, err := f.draw(filepath.Join(cfg.OutputDir, f.name), results)
		if err != nil {
			return fmt.Errorf("%s: %w", f.name, err)
		}
		fmt.Fprintf(out, "  saved: %s\n", path)
	}

	fmt.Fprintln(out, "[3] k sensitivity...")
	curves, err := sensitivity(ctx, cfg)
	if err != nil {
		return err
	}
	path, err := figures.Sensitivity(filepath.Join(cfg.OutputDir, figures.SensitivityFile), curves)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "  saved: %s\n\n", path)

	fmt.Fprintln(out, viz.SummaryTable(analysis.SummarizeAll(results)))
	fmt.Fprintln(out, "validation completed")
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tLOAD\tLAMBDA\tSAMPLES\tINTEG\tPEAK P\tLABEL")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%.4f\t%d\t%s\t%.3f\t%s\n",
			run.ID,
			run.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			run.Load,
			run.Lambda,
			run.Samples,
			run.Integrator,
			run.Metrics["peak_efficiency"],
			run.Label,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	r, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "run: %s\n", args[0])
	fmt.Fprintf(out, "load: %g  samples: %d\n\n", r.Load, r.Len())
	fmt.Fprintln(out, viz.RenderRun(r, chartW, chartH))

	portrait, err := analysis.PhasePortrait(r, sim.SeriesIRaw, sim.SeriesISub)
	if err != nil {
		return err
	}
	fmt.Fprintln(out)
	fmt.Fprint(out, analysis.PhasePortraitToASCII(portrait, chartW, chartH*2))
	return nil
}

// output returns the file named by --output, or the command's writer.
func output(cmd *cobra.Command) (io.Writer, func() error, error) {
	if outFile == "" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(outFile)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	w, done, err := output(cmd)
	if err != nil {
		return err
	}
	if err := st.ExportCSV(w, args[0]); err != nil {
		done()
		return err
	}
	if err := done(); err != nil {
		return err
	}
	if outFile != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "exported to %s\n", outFile)
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	w, done, err := output(cmd)
	if err != nil {
		return err
	}
	if err := st.ExportJSON(w, args[0]); err != nil {
		done()
		return err
	}
	if err := done(); err != nil {
		return err
	}
	if outFile != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "exported to %s\n", outFile)
	}
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tK\tTHRESHOLD\tALPHA\tMU\tZETA\tDESCRIPTION")
	for _, name := range config.ListPresets() {
		p := config.Presets[name]
		fmt.Fprintf(w, "%s\t%g\t%g\t%g\t%g\t%g\t%s\n",
			name, p.Params.K, p.Params.DecoupleThreshold, p.Params.Alpha, p.Params.Mu, p.Params.Zeta, p.Description)
	}
	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	runner := newRunner(cfg)
	ctx := cmd.Context()

	m := viz.NewLive(load, func(l float64) (*sim.Result, error) {
		return runner.Single(ctx, l)
	})
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
