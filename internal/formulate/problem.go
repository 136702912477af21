package formulate

import "math"

// Nonzero is one entry of the sparse constraint matrix.
type Nonzero struct {
	Row, Col int
	Val      float64
}

// Problem is the solver-neutral linear program handed across the solver
// boundary: variable bounds, a linear objective with constant offset, and
// ranged sparse constraint rows (RowLower <= A x <= RowUpper).
type Problem struct {
	ColCosts []float64
	ColLower []float64
	ColUpper []float64

	RowLower []float64
	RowUpper []float64
	Matrix   []Nonzero

	// Offset is added to the objective value (no-load and fixed-point costs).
	Offset float64
}

// AddCols appends n variables sharing the same bounds and cost, returning
// the index of the first.
func (p *Problem) AddCols(n int, lower, upper, cost float64) int {
	first := len(p.ColCosts)
	for i := 0; i < n; i++ {
		p.ColCosts = append(p.ColCosts, cost)
		p.ColLower = append(p.ColLower, lower)
		p.ColUpper = append(p.ColUpper, upper)
	}
	return first
}

// SetColBounds overrides a variable's bounds.
func (p *Problem) SetColBounds(col int, lower, upper float64) {
	p.ColLower[col] = lower
	p.ColUpper[col] = upper
}

// AddRow appends a ranged constraint row from parallel column/value slices,
// returning its index. Zero coefficients are dropped.
func (p *Problem) AddRow(lower float64, cols []int, vals []float64, upper float64) int {
	row := len(p.RowLower)
	p.RowLower = append(p.RowLower, lower)
	p.RowUpper = append(p.RowUpper, upper)
	for i, col := range cols {
		if vals[i] != 0 {
			p.Matrix = append(p.Matrix, Nonzero{Row: row, Col: col, Val: vals[i]})
		}
	}
	return row
}

// AddEqRow appends an equality constraint.
func (p *Problem) AddEqRow(cols []int, vals []float64, rhs float64) int {
	return p.AddRow(rhs, cols, vals, rhs)
}

// NumCols returns the number of variables.
func (p *Problem) NumCols() int { return len(p.ColCosts) }

// NumRows returns the number of constraint rows.
func (p *Problem) NumRows() int { return len(p.RowLower) }

// Inf returns +infinity (no bound).
func Inf() float64 { return math.Inf(1) }

// NegInf returns -infinity (no bound).
func NegInf() float64 { return math.Inf(-1) }
