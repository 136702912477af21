// Package results maps a solved interval model back into structured
// matrices, using the formulator's group handles rather than any parsing of
// generated names.
package results

import (
	"errors"
	"fmt"

	"gridsim/internal/formulate"
	"gridsim/internal/model"
	"gridsim/internal/solve"
	"gridsim/internal/topology"

	"gonum.org/v1/gonum/mat"
)

// ErrResultShape marks a solution whose vectors do not cover a handle's
// index range. Fatal: it means the solved model and the handles disagree.
var ErrResultShape = errors.New("result shape")

// Results holds one interval's outputs, entity as the leading axis and
// ordering identical to the Case input ordering.
type Results struct {
	StartHour int
	Hours     int

	GeneratorIDs []string
	LineIDs      []string
	BusIDs       []string

	Generation *mat.Dense // generator x hour, MW
	Flow       *mat.Dense // line x hour, MW
	Angle      *mat.Dense // bus x hour, rad (meaningful only as differences)
	NodalPrice *mat.Dense // bus x hour, $/MWh

	// Congestion rents, line x hour; zero for unconstrained lines.
	CongestionLower *mat.Dense
	CongestionUpper *mat.Dense

	LoadShed *mat.Dense // bus x hour, nil when shedding was disabled

	Objective float64
}

// Extract reads a solved interval into Results. Nodal prices negate the
// power-balance duals, congestion rents negate the thermal-limit duals, so
// both carry the conventional sign (price rises with scarcity).
func Extract(sol *solve.Solution, iv *formulate.Interval, c *model.Case, topo *topology.Topology) (*Results, error) {
	h := iv.Handles

	r := &Results{
		StartHour:    iv.StartHour,
		Hours:        iv.Hours,
		GeneratorIDs: make([]string, len(c.Generators)),
		LineIDs:      make([]string, len(topo.Lines)),
		BusIDs:       make([]string, len(c.Buses)),
		Objective:    sol.Objective,
	}
	for i, g := range c.Generators {
		r.GeneratorIDs[i] = g.ID
	}
	for i, l := range topo.Lines {
		r.LineIDs[i] = l.ID
	}
	for i, b := range c.Buses {
		r.BusIDs[i] = b.ID
	}

	var err error
	if r.Generation, err = primalMatrix(sol, h.Gen, "generation"); err != nil {
		return nil, err
	}
	if r.Flow, err = primalMatrix(sol, h.Flow, "flow"); err != nil {
		return nil, err
	}
	if r.Angle, err = primalMatrix(sol, h.Angle, "angle"); err != nil {
		return nil, err
	}
	if h.HasShed {
		if r.LoadShed, err = primalMatrix(sol, h.Shed, "load shed"); err != nil {
			return nil, err
		}
	}

	if r.NodalPrice, err = negatedDualMatrix(sol, h.Balance, "power balance"); err != nil {
		return nil, err
	}

	if r.CongestionLower, err = scatterDuals(sol, h.LimitLower, h.FiniteLines, len(topo.Lines), iv.Hours, "lower limit"); err != nil {
		return nil, err
	}
	if r.CongestionUpper, err = scatterDuals(sol, h.LimitUpper, h.FiniteLines, len(topo.Lines), iv.Hours, "upper limit"); err != nil {
		return nil, err
	}

	return r, nil
}

// FinalDispatch returns the last in-window hour's generation vector, the
// ramp starting point for the next interval.
func (r *Results) FinalDispatch() []float64 {
	n, hours := r.Generation.Dims()
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = r.Generation.At(i, hours-1)
	}
	return out
}

func primalMatrix(sol *solve.Solution, g formulate.VarGroup, what string) (*mat.Dense, error) {
	if g.End() > len(sol.Primal) {
		return nil, fmt.Errorf("%w: %s variables [%d,%d) exceed %d primal values",
			ErrResultShape, what, g.Offset, g.End(), len(sol.Primal))
	}
	m := mat.NewDense(max(g.Count, 1), max(g.Hours, 1), nil)
	for i := 0; i < g.Count; i++ {
		for t := 0; t < g.Hours; t++ {
			m.Set(i, t, sol.Primal[g.Col(i, t)])
		}
	}
	return m, nil
}

func negatedDualMatrix(sol *solve.Solution, g formulate.ConGroup, what string) (*mat.Dense, error) {
	if g.End() > len(sol.RowDual) {
		return nil, fmt.Errorf("%w: %s constraints [%d,%d) exceed %d dual values",
			ErrResultShape, what, g.Offset, g.End(), len(sol.RowDual))
	}
	m := mat.NewDense(max(g.Count, 1), max(g.Hours, 1), nil)
	for i := 0; i < g.Count; i++ {
		for t := 0; t < g.Hours; t++ {
			m.Set(i, t, -sol.RowDual[g.Row(i, t)])
		}
	}
	return m, nil
}

// scatterDuals spreads a finite-line constraint group's negated duals over
// the full line set, leaving zeros for unconstrained lines.
func scatterDuals(sol *solve.Solution, g formulate.ConGroup, lines []int, nLines, hours int, what string) (*mat.Dense, error) {
	if g.End() > len(sol.RowDual) {
		return nil, fmt.Errorf("%w: %s constraints [%d,%d) exceed %d dual values",
			ErrResultShape, what, g.Offset, g.End(), len(sol.RowDual))
	}
	if g.Count != len(lines) {
		return nil, fmt.Errorf("%w: %s group has %d entities for %d finite lines",
			ErrResultShape, what, g.Count, len(lines))
	}
	m := mat.NewDense(max(nLines, 1), max(hours, 1), nil)
	for fi, li := range lines {
		for t := 0; t < hours; t++ {
			m.Set(li, t, -sol.RowDual[g.Row(fi, t)])
		}
	}
	return m, nil
}
