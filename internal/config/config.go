package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gridsim/internal/data"
	"gridsim/internal/sim"
	"gridsim/internal/solve"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	Case       CaseConfig       `yaml:"case"`
	Simulation SimulationConfig `yaml:"simulation"`
	Solver     solve.Options    `yaml:"solver"`

	// Output is the directory per-run artifacts land in. Empty keeps
	// results in memory only.
	Output string `yaml:"output"`
}

// CaseConfig names the input files for one grid case. Relative paths are
// resolved against the config file's directory.
type CaseConfig struct {
	Grid   string `yaml:"grid"`
	Demand string `yaml:"demand"`
	Hydro  string `yaml:"hydro"`
	Solar  string `yaml:"solar"`
	Wind   string `yaml:"wind"`
}

type SimulationConfig struct {
	StartHour     int `yaml:"start_hour"`
	Intervals     int `yaml:"intervals"`
	IntervalHours int `yaml:"interval_hours"`
	Segments      int `yaml:"segments"`

	LoadShed        bool    `yaml:"load_shed"`
	LoadShedPenalty float64 `yaml:"load_shed_penalty"`

	TransViol        bool    `yaml:"trans_viol"`
	TransViolPenalty float64 `yaml:"trans_viol_penalty"`
}

func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	c.resolvePaths(filepath.Dir(path))
	if c.Simulation.IntervalHours == 0 {
		c.Simulation.IntervalHours = 24
	}
	if c.Simulation.Intervals == 0 {
		c.Simulation.Intervals = 1
	}
	if c.Simulation.Segments == 0 {
		c.Simulation.Segments = 1
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) resolvePaths(base string) {
	for _, p := range []*string{
		&c.Case.Grid, &c.Case.Demand, &c.Case.Hydro, &c.Case.Solar, &c.Case.Wind,
	} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(base, *p)
		}
	}
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Case.Grid == "" {
		return errors.New("case.grid is required")
	}
	if c.Case.Demand == "" {
		return errors.New("case.demand is required")
	}
	if c.Simulation.Intervals < 1 {
		return fmt.Errorf("simulation.intervals must be positive, got %d", c.Simulation.Intervals)
	}
	if c.Simulation.IntervalHours < 1 {
		return fmt.Errorf("simulation.interval_hours must be positive, got %d", c.Simulation.IntervalHours)
	}
	if c.Simulation.Segments < 1 {
		return fmt.Errorf("simulation.segments must be positive, got %d", c.Simulation.Segments)
	}
	if c.Simulation.LoadShed && c.Simulation.LoadShedPenalty <= 0 {
		return errors.New("simulation.load_shed_penalty must be positive when load_shed is on")
	}
	if c.Simulation.TransViol && c.Simulation.TransViolPenalty <= 0 {
		return errors.New("simulation.trans_viol_penalty must be positive when trans_viol is on")
	}
	return nil
}

// CaseFiles maps the config onto the loader's file set.
func (c *Config) CaseFiles() data.CaseFiles {
	return data.CaseFiles{
		Grid:   c.Case.Grid,
		Demand: c.Case.Demand,
		Hydro:  c.Case.Hydro,
		Solar:  c.Case.Solar,
		Wind:   c.Case.Wind,
	}
}

// RunConfig maps the config onto the driver's run parameters.
func (c *Config) RunConfig() sim.RunConfig {
	return sim.RunConfig{
		StartHour:     c.Simulation.StartHour,
		Intervals:     c.Simulation.Intervals,
		IntervalHours: c.Simulation.IntervalHours,
		Segments:      c.Simulation.Segments,
		Flags: sim.Flags{
			LoadShed:         c.Simulation.LoadShed,
			LoadShedPenalty:  c.Simulation.LoadShedPenalty,
			TransViol:        c.Simulation.TransViol,
			TransViolPenalty: c.Simulation.TransViolPenalty,
		},
		OutputDir: c.Output,
		Solver:    c.Solver,
	}
}
