// Package solve is the boundary to the external LP solver. The core hands
// over a sparse problem and named tuning options and reads back primal
// values, row duals and the objective; the solver's internals are opaque.
package solve

import (
	"errors"
	"fmt"

	"gridsim/internal/formulate"

	highs "github.com/bartolsthoorn/gohighs/highs"
)

// ErrSolverFailure marks an infeasible, unbounded or numerically failed
// solve. Fatal to the run; there is no silent continuation.
var ErrSolverFailure = errors.New("solver failure")

// Options are the named solver tuning knobs passed through verbatim.
type Options struct {
	OutputFlag   bool    `yaml:"output_flag"`
	TimeLimitSec float64 `yaml:"time_limit_seconds"`
	Threads      int     `yaml:"threads"`
	Presolve     string  `yaml:"presolve"` // "off", "choose", "on"
}

// Solution carries what the core reads back from a solved model.
type Solution struct {
	Primal    []float64 // per column
	RowDual   []float64 // per constraint row
	Objective float64
}

// Solver is the capability any conforming LP solver implements.
type Solver interface {
	Solve(p *formulate.Problem, opts Options) (*Solution, error)
}

// HiGHS solves via the embedded HiGHS library.
type HiGHS struct{}

func (HiGHS) Solve(p *formulate.Problem, opts Options) (*Solution, error) {
	m := highs.Model{
		Offset:   p.Offset,
		ColCosts: p.ColCosts,
		ColLower: p.ColLower,
		ColUpper: p.ColUpper,
		RowLower: p.RowLower,
		RowUpper: p.RowUpper,
	}
	m.ConstMatrix = make([]highs.Nonzero, len(p.Matrix))
	for i, nz := range p.Matrix {
		m.ConstMatrix[i] = highs.Nonzero{Row: nz.Row, Col: nz.Col, Val: nz.Val}
	}

	solveOpts := []highs.SolveOption{highs.WithOutput(opts.OutputFlag)}
	if opts.TimeLimitSec > 0 {
		solveOpts = append(solveOpts, highs.WithTimeLimit(opts.TimeLimitSec))
	}
	if opts.Threads > 0 {
		solveOpts = append(solveOpts, highs.WithThreads(opts.Threads))
	}
	if opts.Presolve != "" {
		solveOpts = append(solveOpts, highs.WithPresolve(opts.Presolve))
	}

	sol, err := m.Solve(solveOpts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSolverFailure, err)
	}
	if !sol.IsOptimal() {
		return nil, fmt.Errorf("%w: model status %v", ErrSolverFailure, sol.Status)
	}

	return &Solution{
		Primal:    sol.ColValues,
		RowDual:   sol.RowDuals,
		Objective: sol.Objective,
	}, nil
}
