// Package sim sequences the rolling-horizon simulation: consecutive,
// non-overlapping fixed-length windows, each coupled to the previous one
// only through the carried final-dispatch vector.
package sim

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gridsim/internal/formulate"
	"gridsim/internal/model"
	"gridsim/internal/prep"
	"gridsim/internal/results"
	"gridsim/internal/solve"
	"gridsim/internal/topology"

	"github.com/google/uuid"
)

// Flags are the per-run formulation toggles.
type Flags struct {
	LoadShed         bool
	LoadShedPenalty  float64
	TransViol        bool
	TransViolPenalty float64
}

// RunConfig describes one rolling simulation.
type RunConfig struct {
	StartHour     int
	Intervals     int
	IntervalHours int
	Segments      int // cost linearization segments, default 1
	Flags         Flags

	// OutputDir is where per-interval results and the audit snapshot land,
	// under a per-run subdirectory. Empty disables persistence.
	OutputDir string

	Solver solve.Options
}

// IntervalSummary is one window's headline numbers.
type IntervalSummary struct {
	Index     int     `json:"index"`
	StartHour int     `json:"start_hour"`
	Hours     int     `json:"hours"`
	Objective float64 `json:"objective"`
	TotalShed float64 `json:"total_shed_mwh"`
}

// RunSummary aggregates a finished run.
type RunSummary struct {
	RunID     string            `json:"run_id"`
	OutputDir string            `json:"output_dir,omitempty"`
	Intervals []IntervalSummary `json:"intervals"`
	Objective float64           `json:"objective"` // sum over intervals

	// Results holds the per-interval matrices, in window order.
	Results []*results.Results `json:"-"`
}

// Run executes the full rolling simulation. The Case is preprocessed in
// place (one-time pass) and read-only afterwards; the only state crossing
// window boundaries is the returned final dispatch of each interval.
func Run(c *model.Case, solver solve.Solver, cfg RunConfig) (*RunSummary, error) {
	if cfg.Intervals < 1 || cfg.IntervalHours < 1 {
		return nil, fmt.Errorf("%w: %d intervals of %d hours",
			model.ErrDataIntegrity, cfg.Intervals, cfg.IntervalHours)
	}
	segments := cfg.Segments
	if segments < 1 {
		segments = 1
	}

	summary := &RunSummary{RunID: uuid.NewString()}

	slog.Info("preprocessing case", "run", summary.RunID,
		"generators", len(c.Generators), "buses", len(c.Buses), "segments", segments)
	if err := prep.Preprocess(c, segments); err != nil {
		return nil, fmt.Errorf("preprocess: %w", err)
	}

	topo, err := topology.Build(c)
	if err != nil {
		return nil, fmt.Errorf("topology: %w", err)
	}

	runDir := ""
	if cfg.OutputDir != "" {
		runDir = filepath.Join(cfg.OutputDir, summary.RunID)
		if err := os.MkdirAll(runDir, 0o755); err != nil {
			return nil, err
		}
		summary.OutputDir = runDir
		if err := prep.WriteAudit(filepath.Join(runDir, "audit.json"), c, segments); err != nil {
			return nil, fmt.Errorf("audit snapshot: %w", err)
		}
	}

	var prev []float64
	for i := 0; i < cfg.Intervals; i++ {
		start := cfg.StartHour + i*cfg.IntervalHours

		opts := formulate.Options{
			LoadShed:         cfg.Flags.LoadShed,
			LoadShedPenalty:  cfg.Flags.LoadShedPenalty,
			TransViol:        cfg.Flags.TransViol,
			TransViolPenalty: cfg.Flags.TransViolPenalty,
		}
		if i > 0 {
			opts.InitialRamp = true
			opts.PrevDispatchMW = prev
		}

		iv, err := formulate.Build(c, topo, start, cfg.IntervalHours, opts)
		if err != nil {
			return nil, fmt.Errorf("interval %d: formulate: %w", i, err)
		}

		sol, err := solver.Solve(iv.Problem, cfg.Solver)
		if err != nil {
			return nil, fmt.Errorf("interval %d: %w", i, err)
		}

		res, err := results.Extract(sol, iv, c, topo)
		if err != nil {
			return nil, fmt.Errorf("interval %d: extract: %w", i, err)
		}

		if runDir != "" {
			dir := filepath.Join(runDir, fmt.Sprintf("interval_%03d", i))
			if err := results.WriteCSV(dir, res); err != nil {
				return nil, fmt.Errorf("interval %d: persist: %w", i, err)
			}
		}

		is := IntervalSummary{
			Index:     i,
			StartHour: start,
			Hours:     cfg.IntervalHours,
			Objective: res.Objective,
			TotalShed: totalShed(res),
		}
		summary.Intervals = append(summary.Intervals, is)
		summary.Objective += res.Objective
		summary.Results = append(summary.Results, res)

		prev = res.FinalDispatch()
		slog.Info("solved interval", "run", summary.RunID, "interval", i,
			"start_hour", start, "objective", res.Objective)
	}

	if runDir != "" {
		if err := writeSummary(filepath.Join(runDir, "summary.json"), summary); err != nil {
			return nil, err
		}
	}
	slog.Info("run complete", "run", summary.RunID,
		"intervals", cfg.Intervals, "objective", summary.Objective)
	return summary, nil
}

func totalShed(r *results.Results) float64 {
	if r.LoadShed == nil {
		return 0
	}
	n, hours := r.LoadShed.Dims()
	sum := 0.0
	for b := 0; b < n; b++ {
		for t := 0; t < hours; t++ {
			sum += r.LoadShed.At(b, t)
		}
	}
	return sum
}
