package sim

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"gridsim/internal/formulate"
	"gridsim/internal/model"
	"gridsim/internal/solve"

	"github.com/stretchr/testify/require"
)

// twoBusCase is the canonical round-trip fixture: a single generator at b1
// serving 40MW at b2 over one rated branch.
func twoBusCase(t *testing.T, hours int) *model.Case {
	t.Helper()
	hourIdx := make([]int, hours)
	demandCol := make([]float64, hours)
	for i := range hourIdx {
		hourIdx[i] = i
		demandCol[i] = 40
	}
	demand, err := model.NewProfile(hourIdx, map[string][]float64{"z1": demandCol})
	require.NoError(t, err)

	c, err := model.NewCase(
		[]model.Bus{
			{ID: "b1", Zone: "z1", DemandMW: 0},
			{ID: "b2", Zone: "z1", DemandMW: 40},
		},
		[]model.Branch{{ID: "l1", From: "b1", To: "b2", Reactance: 0.1, RatingMW: 100}},
		nil,
		[]model.Generator{{
			ID: "g1", Fuel: model.FuelNuclear, Bus: "b1", PMinMW: 0, PMaxMW: 100,
			Cost: model.CostCurve{Coeffs: []float64{0, 5, 0.01}},
		}},
		demand, nil, nil, nil,
	)
	require.NoError(t, err)
	return c
}

func TestRunSingleBusPairRoundTrip(t *testing.T) {
	c := twoBusCase(t, 1)

	summary, err := Run(c, solve.HiGHS{}, RunConfig{
		StartHour:     0,
		Intervals:     1,
		IntervalHours: 1,
		Segments:      1,
	})
	require.NoError(t, err)
	require.Len(t, summary.Results, 1)
	r := summary.Results[0]

	require.InDelta(t, 40.0, r.Generation.At(0, 0), 1e-4)
	require.InDelta(t, 40.0, r.Flow.At(0, 0), 1e-4)

	// reactance * flow = angle(to) - angle(from); only the difference is
	// meaningful since no reference bus is pinned.
	diff := r.Angle.At(1, 0) - r.Angle.At(0, 0)
	require.InDelta(t, 4.0, diff, 1e-4)

	// Secant slope over [0,100] of 5x+0.01x^2 is 6; uncongested, so both
	// buses clear at it.
	require.InDelta(t, 6.0, r.NodalPrice.At(0, 0), 1e-4)
	require.InDelta(t, 6.0, r.NodalPrice.At(1, 0), 1e-4)

	require.InDelta(t, 0.0, r.CongestionLower.At(0, 0), 1e-4)
	require.InDelta(t, 0.0, r.CongestionUpper.At(0, 0), 1e-4)

	// Objective equals the linearized cost at 40MW.
	require.InDelta(t, 240.0, r.Objective, 1e-4)
}

func TestRunCongestedBranchPrices(t *testing.T) {
	demand, err := model.NewProfile([]int{0}, map[string][]float64{"z1": {40}})
	require.NoError(t, err)

	c, err := model.NewCase(
		[]model.Bus{
			{ID: "b1", Zone: "z1", DemandMW: 0},
			{ID: "b2", Zone: "z1", DemandMW: 40},
		},
		[]model.Branch{{ID: "l1", From: "b1", To: "b2", Reactance: 0.1, RatingMW: 30}},
		nil,
		[]model.Generator{
			{ID: "cheap", Fuel: model.FuelNuclear, Bus: "b1", PMinMW: 0, PMaxMW: 100,
				Cost: model.CostCurve{Coeffs: []float64{0, 5}}},
			{ID: "dear", Fuel: model.FuelGeothermal, Bus: "b2", PMinMW: 0, PMaxMW: 100,
				Cost: model.CostCurve{Coeffs: []float64{0, 10}}},
		},
		demand, nil, nil, nil,
	)
	require.NoError(t, err)

	summary, err := Run(c, solve.HiGHS{}, RunConfig{Intervals: 1, IntervalHours: 1})
	require.NoError(t, err)
	r := summary.Results[0]

	require.InDelta(t, 30.0, r.Generation.At(0, 0), 1e-4)
	require.InDelta(t, 10.0, r.Generation.At(1, 0), 1e-4)
	require.InDelta(t, 30.0, r.Flow.At(0, 0), 1e-4)

	// Importing bus clears at the expensive unit, exporting at the cheap
	// one; the binding upper limit earns the spread.
	require.InDelta(t, 5.0, r.NodalPrice.At(0, 0), 1e-4)
	require.InDelta(t, 10.0, r.NodalPrice.At(1, 0), 1e-4)
	require.InDelta(t, 5.0, r.CongestionUpper.At(0, 0), 1e-4)
	require.InDelta(t, 0.0, r.CongestionLower.At(0, 0), 1e-4)
}

func TestRunTwoIntervalRampContinuity(t *testing.T) {
	// Coal at 200MW capacity gets ramp30 = 80, so consecutive hours (and
	// the cross-interval seam) may move at most 160MW.
	demand, err := model.NewProfile([]int{0, 1}, map[string][]float64{
		"z1": {10, 200},
	})
	require.NoError(t, err)

	c, err := model.NewCase(
		[]model.Bus{{ID: "b1", Zone: "z1", DemandMW: 10}},
		nil, nil,
		[]model.Generator{{
			ID: "g1", Fuel: model.FuelCoal, Bus: "b1", PMinMW: 0, PMaxMW: 200,
			Cost: model.CostCurve{Coeffs: []float64{0, 5, 0.01}},
		}},
		demand, nil, nil, nil,
	)
	require.NoError(t, err)

	summary, err := Run(c, solve.HiGHS{}, RunConfig{
		Intervals:     2,
		IntervalHours: 1,
		Flags: Flags{
			LoadShed:        true,
			LoadShedPenalty: 1000,
		},
	})
	require.NoError(t, err)
	require.Len(t, summary.Results, 2)

	first := summary.Results[0].Generation.At(0, 0)
	second := summary.Results[1].Generation.At(0, 0)
	require.InDelta(t, 10.0, first, 1e-4)

	ramp30 := c.Generators[0].Ramp30MW
	require.InDelta(t, 80.0, ramp30, 1e-9)
	require.LessOrEqual(t, math.Abs(second-first), 2*ramp30+1e-4)

	// The seam binds: the unit climbs the full 160MW and the remaining
	// 30MW of demand is shed at the penalty price.
	require.InDelta(t, 170.0, second, 1e-4)
	require.InDelta(t, 30.0, summary.Intervals[1].TotalShed, 1e-4)
	require.InDelta(t, 1000.0, summary.Results[1].NodalPrice.At(0, 0), 1e-4)
}

func TestRunPersistsArtifacts(t *testing.T) {
	c := twoBusCase(t, 2)
	out := t.TempDir()

	summary, err := Run(c, solve.HiGHS{}, RunConfig{
		Intervals:     2,
		IntervalHours: 1,
		OutputDir:     out,
	})
	require.NoError(t, err)
	require.Equal(t, filepath.Join(out, summary.RunID), summary.OutputDir)

	for _, name := range []string{
		"audit.json",
		"summary.json",
		filepath.Join("interval_000", "generation.csv"),
		filepath.Join("interval_000", "nodal_price.csv"),
		filepath.Join("interval_001", "flow.csv"),
	} {
		_, err := os.Stat(filepath.Join(summary.OutputDir, name))
		require.NoError(t, err, name)
	}
}

type failingSolver struct{}

func (failingSolver) Solve(*formulate.Problem, solve.Options) (*solve.Solution, error) {
	return nil, solve.ErrSolverFailure
}

func TestRunSolverFailureAborts(t *testing.T) {
	c := twoBusCase(t, 1)
	_, err := Run(c, failingSolver{}, RunConfig{Intervals: 1, IntervalHours: 1})
	require.ErrorIs(t, err, solve.ErrSolverFailure)
}

type recordingSolver struct {
	problems []*formulate.Problem
	dispatch float64
}

func (s *recordingSolver) Solve(p *formulate.Problem, _ solve.Options) (*solve.Solution, error) {
	s.problems = append(s.problems, p)
	sol := &solve.Solution{
		Primal:  make([]float64, p.NumCols()),
		RowDual: make([]float64, p.NumRows()),
	}
	for i := range sol.Primal {
		sol.Primal[i] = s.dispatch
	}
	return sol, nil
}

func TestRunThreadsRampStateBetweenIntervals(t *testing.T) {
	demand, err := model.NewProfile([]int{0, 1}, map[string][]float64{"z1": {10, 10}})
	require.NoError(t, err)
	c, err := model.NewCase(
		[]model.Bus{{ID: "b1", Zone: "z1", DemandMW: 10}},
		nil, nil,
		[]model.Generator{{
			ID: "g1", Fuel: model.FuelCoal, Bus: "b1", PMinMW: 0, PMaxMW: 200,
			Cost: model.CostCurve{Coeffs: []float64{0, 5}},
		}},
		demand, nil, nil, nil,
	)
	require.NoError(t, err)

	solver := &recordingSolver{dispatch: 42}
	_, err = Run(c, solver, RunConfig{Intervals: 2, IntervalHours: 1})
	require.NoError(t, err)
	require.Len(t, solver.problems, 2)

	// The second problem carries one extra row: the seam coupling, bounded
	// around the first interval's (stubbed) final dispatch of 42.
	p1, p2 := solver.problems[0], solver.problems[1]
	require.Equal(t, p1.NumRows()+1, p2.NumRows())
	last := p2.NumRows() - 1
	require.InDelta(t, 42-160, p2.RowLower[last], 1e-9)
	require.InDelta(t, 42+160, p2.RowUpper[last], 1e-9)
}
