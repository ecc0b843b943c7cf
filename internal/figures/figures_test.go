package figures

import (
	"context"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/sidsmp/internal/experiment"
	"github.com/san-kum/sidsmp/internal/model"
	"github.com/san-kum/sidsmp/internal/sim"
)

func regimeResults(t *testing.T) []*sim.Result {
	t.Helper()
	cfg := sim.DefaultConfig()
	cfg.Horizon = 20
	cfg.Samples = 80

	rs, err := experiment.RegimeVariation(context.Background(), experiment.NewRunner(model.DefaultParameters(), cfg), experiment.DefaultLoads)
	if err != nil {
		t.Fatal(err)
	}
	return rs.Ordered()
}

func checkPNG(t *testing.T, path string) {
	t.Helper()
	if !filepath.IsAbs(path) {
		t.Errorf("expected absolute path, got %s", path)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()

	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		t.Errorf("empty image %s", path)
	}
}

func TestFigures(t *testing.T) {
	results := regimeResults(t)
	dir := filepath.Join(t.TempDir(), "nested", "out")

	tests := []struct {
		name string
		draw func(string) (string, error)
	}{
		{TimeSeriesFile, func(p string) (string, error) { return RegimeTimeSeries(p, results) }},
		{CollapseFile, func(p string) (string, error) { return CollapseDiagram(p, results) }},
		{PhaseSpaceFile, func(p string) (string, error) { return PhaseSpace(p, results) }},
		{ComprehensiveFile, func(p string) (string, error) { return Comprehensive(p, results) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, err := tt.draw(filepath.Join(dir, tt.name))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			checkPNG(t, path)
		})
	}
}

func TestPhaseSpaceSize(t *testing.T) {
	path, err := PhaseSpace(filepath.Join(t.TempDir(), "phase.png"), regimeResults(t))
	if err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatal(err)
	}
	// 8 inches at 300 DPI
	if cfg.Width != 2400 || cfg.Height != 2400 {
		t.Errorf("expected 2400x2400, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestSensitivity(t *testing.T) {
	cfg := sim.DefaultConfig()
	cfg.Horizon = 10
	cfg.Samples = 40
	runner := experiment.NewRunner(model.DefaultParameters(), cfg)

	curves, err := experiment.KSensitivity(context.Background(), runner, []float64{0.5, 2}, experiment.Linspace(0, 5, 5))
	if err != nil {
		t.Fatal(err)
	}
	path, err := Sensitivity(filepath.Join(t.TempDir(), SensitivityFile), curves)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	checkPNG(t, path)
}

func TestEmptyInput(t *testing.T) {
	dir := t.TempDir()
	if _, err := PhaseSpace(filepath.Join(dir, "a.png"), nil); err == nil {
		t.Error("expected error for no results")
	}
	if _, err := Sensitivity(filepath.Join(dir, "b.png"), nil); err == nil {
		t.Error("expected error for no curves")
	}
}
