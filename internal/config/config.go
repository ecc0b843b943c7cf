package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/sidsmp/internal/dynamo"
	"github.com/san-kum/sidsmp/internal/model"
	"github.com/san-kum/sidsmp/internal/sim"
)

const (
	DefaultIntegrator = "rk45"
	DefaultTolerance  = 1e-8
	DefaultWorkers    = 4
	DefaultOutputDir  = "validation"
	DefaultSweepMax   = 5.0
	DefaultSweepSteps = 20
)

type Config struct {
	Params     model.Parameters `yaml:"params"`
	Horizon    float64          `yaml:"horizon"`
	Samples    int              `yaml:"samples"`
	Integrator string           `yaml:"integrator"`
	Tolerance  float64          `yaml:"tolerance"`
	Loads      []float64        `yaml:"loads"`
	KValues    []float64        `yaml:"k_values"`
	Sweep      SweepConfig      `yaml:"sweep"`
	Workers    int              `yaml:"workers"`
	OutputDir  string           `yaml:"output_dir"`
}

// SweepConfig is the load grid of the k sensitivity experiment.
type SweepConfig struct {
	Min   float64 `yaml:"min"`
	Max   float64 `yaml:"max"`
	Steps int     `yaml:"steps"`
}

func DefaultConfig() *Config {
	return &Config{
		Params:     model.DefaultParameters(),
		Horizon:    sim.DefaultHorizon,
		Samples:    sim.DefaultSamples,
		Integrator: DefaultIntegrator,
		Tolerance:  DefaultTolerance,
		Loads:      []float64{0, 1, 2, 3, 5},
		KValues:    []float64{0.5, 1.0, 1.2, 2.0},
		Sweep: SweepConfig{
			Min:   0,
			Max:   DefaultSweepMax,
			Steps: DefaultSweepSteps,
		},
		Workers:   DefaultWorkers,
		OutputDir: DefaultOutputDir,
	}
}

// Load overlays the YAML file at path onto DefaultConfig. Keys missing from
// the file keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the parameters, every k override and the time grid.
func (c *Config) Validate() error {
	if err := c.Params.Validate(); err != nil {
		return err
	}
	for _, k := range c.KValues {
		if err := c.Params.WithK(k).Validate(); err != nil {
			return fmt.Errorf("k_values: %w", err)
		}
	}
	if _, err := dynamo.Grid(c.Horizon, c.Samples); err != nil {
		return err
	}
	if !(c.Tolerance > 0) {
		return fmt.Errorf("tolerance must be positive, got %g", c.Tolerance)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", c.Workers)
	}
	for _, l := range c.Loads {
		if math.IsNaN(l) || math.IsInf(l, 0) {
			return fmt.Errorf("loads must be finite, got %g", l)
		}
	}
	if c.Sweep.Steps < 1 || c.Sweep.Max < c.Sweep.Min {
		return fmt.Errorf("invalid sweep: min %g, max %g, steps %d", c.Sweep.Min, c.Sweep.Max, c.Sweep.Steps)
	}
	return nil
}

// SimConfig is the engine configuration described by c.
func (c *Config) SimConfig() sim.Config {
	cfg := sim.DefaultConfig()
	cfg.Horizon = c.Horizon
	cfg.Samples = c.Samples
	cfg.Tolerance = c.Tolerance
	return cfg
}
