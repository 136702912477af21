package formulate

import (
	"math"
	"testing"

	"gridsim/internal/model"
	"gridsim/internal/prep"
	"gridsim/internal/topology"

	"github.com/stretchr/testify/require"
)

// twoBusCase: one gas generator at b1, demand at b2, one rated AC branch.
func twoBusCase(t *testing.T) (*model.Case, *topology.Topology) {
	t.Helper()
	demand, err := model.NewProfile([]int{0, 1, 2, 3}, map[string][]float64{
		"z1": {40, 50, 60, 70},
	})
	require.NoError(t, err)

	c, err := model.NewCase(
		[]model.Bus{
			{ID: "b1", Zone: "z1", DemandMW: 0},
			{ID: "b2", Zone: "z1", DemandMW: 40},
		},
		[]model.Branch{{ID: "l1", From: "b1", To: "b2", Reactance: 0.1, RatingMW: 100}},
		nil,
		[]model.Generator{{
			ID: "g1", Fuel: model.FuelNaturalGas, Bus: "b1",
			PMinMW: 0, PMaxMW: 100,
			Cost:   model.CostCurve{Coeffs: []float64{0, 5, 0.01}},
		}},
		demand, nil, nil, nil,
	)
	require.NoError(t, err)
	require.NoError(t, prep.Preprocess(c, 1))

	topo, err := topology.Build(c)
	require.NoError(t, err)
	return c, topo
}

func TestBuildShape(t *testing.T) {
	c, topo := twoBusCase(t)

	iv, err := Build(c, topo, 0, 2, Options{})
	require.NoError(t, err)

	p, h := iv.Problem, iv.Handles
	// gen 1x2 + flow 1x2 + angle 2x2 = 8 columns.
	require.Equal(t, 8, p.NumCols())
	// balance 2x2 + angle relation 1x2 + limits 2x(1x2) + ramp 1x1 = 11 rows.
	require.Equal(t, 11, p.NumRows())

	require.Equal(t, 2, h.Gen.Size())
	require.Equal(t, []int{0}, h.FiniteLines)
	require.Equal(t, []int{0}, h.RampGens) // gas gets an imputed ramp
	require.Equal(t, 1, h.Ramp.Size())
	require.False(t, h.HasShed)
	require.False(t, h.HasViol)
}

func TestBuildBalanceRows(t *testing.T) {
	c, topo := twoBusCase(t)

	iv, err := Build(c, topo, 1, 2, Options{})
	require.NoError(t, err)
	p, h := iv.Problem, iv.Handles

	// Withdrawal form: RHS is -demand. Zone z1's demand lands on b2.
	r := h.Balance.Row(1, 0) // bus b2, first in-window hour (absolute hour 1)
	require.Equal(t, -50.0, p.RowLower[r])
	require.Equal(t, -50.0, p.RowUpper[r])

	r = h.Balance.Row(0, 1) // bus b1 carries no demand
	require.Equal(t, 0.0, p.RowLower[r])

	// b1's row: -1 on the generator, +1 on the departing flow.
	coefs := map[int]float64{}
	for _, nz := range p.Matrix {
		if nz.Row == h.Balance.Row(0, 0) {
			coefs[nz.Col] = nz.Val
		}
	}
	require.Equal(t, map[int]float64{
		h.Gen.Col(0, 0):  -1,
		h.Flow.Col(0, 0): 1,
	}, coefs)
}

func TestBuildCapacityAndCostSingleSegment(t *testing.T) {
	c, topo := twoBusCase(t)

	iv, err := Build(c, topo, 0, 1, Options{})
	require.NoError(t, err)
	p, h := iv.Problem, iv.Handles

	col := h.Gen.Col(0, 0)
	require.Equal(t, 0.0, p.ColLower[col])
	require.Equal(t, 100.0, p.ColUpper[col])
	// Secant slope over [0,100] of 5x+0.01x^2 is 6.
	require.InDelta(t, 6.0, p.ColCosts[col], 1e-9)
	require.InDelta(t, 0.0, p.Offset, 1e-9)
}

func TestBuildRampRows(t *testing.T) {
	c, topo := twoBusCase(t)
	ramp := c.Generators[0].Ramp30MW // natural gas, 100MW: 0.5 fraction
	require.InDelta(t, 50.0, ramp, 1e-9)

	iv, err := Build(c, topo, 0, 3, Options{})
	require.NoError(t, err)
	h := iv.Handles

	require.Equal(t, 2, h.Ramp.Size())
	r := h.Ramp.Row(0, 0)
	require.Equal(t, -2*ramp, iv.Problem.RowLower[r])
	require.Equal(t, 2*ramp, iv.Problem.RowUpper[r])
}

func TestBuildInitialRamp(t *testing.T) {
	c, topo := twoBusCase(t)

	iv, err := Build(c, topo, 0, 2, Options{
		InitialRamp:    true,
		PrevDispatchMW: []float64{30},
	})
	require.NoError(t, err)
	p, h := iv.Problem, iv.Handles

	require.Equal(t, 1, h.RampInit.Size())
	r := h.RampInit.Row(0, 0)
	require.InDelta(t, 30-100, p.RowLower[r], 1e-9) // prev - 2*ramp30
	require.InDelta(t, 30+100, p.RowUpper[r], 1e-9)
}

func TestBuildInitialRampDimensionMismatch(t *testing.T) {
	c, topo := twoBusCase(t)
	_, err := Build(c, topo, 0, 1, Options{
		InitialRamp:    true,
		PrevDispatchMW: []float64{1, 2},
	})
	require.ErrorIs(t, err, model.ErrDataIntegrity)
}

func TestBuildLoadShedBounds(t *testing.T) {
	c, topo := twoBusCase(t)

	iv, err := Build(c, topo, 0, 1, Options{LoadShed: true, LoadShedPenalty: 9000})
	require.NoError(t, err)
	p, h := iv.Problem, iv.Handles

	require.True(t, h.HasShed)
	col := h.Shed.Col(1, 0) // b2 carries all 40MW
	require.Equal(t, 0.0, p.ColLower[col])
	require.InDelta(t, 40.0, p.ColUpper[col], 1e-9)
	require.Equal(t, 9000.0, p.ColCosts[col])

	require.Equal(t, 0.0, p.ColUpper[h.Shed.Col(0, 0)]) // b1 has no demand
}

func TestBuildViolationSlack(t *testing.T) {
	c, topo := twoBusCase(t)

	iv, err := Build(c, topo, 0, 1, Options{TransViol: true, TransViolPenalty: 5000})
	require.NoError(t, err)
	p, h := iv.Problem, iv.Handles

	require.True(t, h.HasViol)
	vcol := h.Viol.Col(0, 0)
	require.Equal(t, 5000.0, p.ColCosts[vcol])
	require.True(t, math.IsInf(p.ColUpper[vcol], 1))

	// Upper limit row carries -1 on the slack, lower limit row +1.
	var lowerVal, upperVal float64
	for _, nz := range p.Matrix {
		if nz.Col != vcol {
			continue
		}
		switch nz.Row {
		case h.LimitLower.Row(0, 0):
			lowerVal = nz.Val
		case h.LimitUpper.Row(0, 0):
			upperVal = nz.Val
		}
	}
	require.Equal(t, 1.0, lowerVal)
	require.Equal(t, -1.0, upperVal)
}

func TestBuildPiecewiseSegments(t *testing.T) {
	c, topo := twoBusCase(t)
	require.NoError(t, prep.Preprocess(c, 2)) // relinearize with two segments

	iv, err := Build(c, topo, 0, 1, Options{})
	require.NoError(t, err)
	p, h := iv.Problem, iv.Handles

	// gen 1 + seg 2 + flow 1 + angle 2 = 6 columns.
	require.Equal(t, 6, p.NumCols())
	// Segment columns sit right after the generation block.
	seg0, seg1 := h.Gen.End(), h.Gen.End()+1
	require.InDelta(t, 50.0, p.ColUpper[seg0], 1e-9) // widths pmax/k
	require.InDelta(t, 50.0, p.ColUpper[seg1], 1e-9)
	// Convex quadratic: second-segment slope exceeds the first.
	require.Less(t, p.ColCosts[seg0], p.ColCosts[seg1])
	// The generation column itself carries no cost for k>1.
	require.Equal(t, 0.0, p.ColCosts[h.Gen.Col(0, 0)])
}

func TestBuildHydroFixedAndWindCapped(t *testing.T) {
	demand, err := model.NewProfile([]int{0}, map[string][]float64{"z1": {30}})
	require.NoError(t, err)
	hydro, err := model.NewProfile([]int{0}, map[string][]float64{"h1": {12.5}})
	require.NoError(t, err)
	wind, err := model.NewProfile([]int{0}, map[string][]float64{"w1": {7.5}})
	require.NoError(t, err)

	c, err := model.NewCase(
		[]model.Bus{{ID: "b1", Zone: "z1", DemandMW: 30}},
		nil, nil,
		[]model.Generator{
			{ID: "h1", Fuel: model.FuelHydro, Bus: "b1", PMaxMW: 20,
				Cost: model.CostCurve{Coeffs: []float64{0}}},
			{ID: "w1", Fuel: model.FuelWind, Bus: "b1", PMaxMW: 50,
				Cost: model.CostCurve{Coeffs: []float64{0}}},
			{ID: "g1", Fuel: model.FuelNaturalGas, Bus: "b1", PMaxMW: 100,
				Cost: model.CostCurve{Coeffs: []float64{0, 5}}},
		},
		demand, hydro, nil, wind,
	)
	require.NoError(t, err)
	require.NoError(t, prep.Preprocess(c, 1))

	topo, err := topology.Build(c)
	require.NoError(t, err)

	iv, err := Build(c, topo, 0, 1, Options{})
	require.NoError(t, err)
	p, h := iv.Problem, iv.Handles

	// Hydro is fixed to its profile value, wind capped by its profile;
	// neither is limited by pmax.
	require.Equal(t, 12.5, p.ColLower[h.Gen.Col(0, 0)])
	require.Equal(t, 12.5, p.ColUpper[h.Gen.Col(0, 0)])
	require.Equal(t, 0.0, p.ColLower[h.Gen.Col(1, 0)])
	require.Equal(t, 7.5, p.ColUpper[h.Gen.Col(1, 0)])
}

func TestBuildRequiresPreprocessedCase(t *testing.T) {
	demand, err := model.NewProfile([]int{0}, map[string][]float64{"z1": {10}})
	require.NoError(t, err)
	c, err := model.NewCase(
		[]model.Bus{{ID: "b1", Zone: "z1", DemandMW: 10}},
		nil, nil,
		[]model.Generator{{ID: "g1", Fuel: model.FuelCoal, Bus: "b1", PMaxMW: 50,
			Cost: model.CostCurve{Coeffs: []float64{0, 5}}}},
		demand, nil, nil, nil,
	)
	require.NoError(t, err)

	topo, err := topology.Build(c)
	require.NoError(t, err)

	_, err = Build(c, topo, 0, 1, Options{})
	require.ErrorIs(t, err, model.ErrDataIntegrity)
}
