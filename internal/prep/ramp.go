package prep

import "gridsim/internal/model"

// rampCurve is a two-anchor capacity-to-ramp-fraction rating curve: a unit of
// pLo MW can move fLo of its capacity in 30 minutes, a unit of pHi MW only
// fHi, with linear interpolation between and clamping outside.
type rampCurve struct {
	pLo, pHi float64
	fLo, fHi float64
}

// rampCurves is an explicit heuristic, not measured data: only these fuel
// types get an imputed ramp limit, everything else stays unconstrained.
var rampCurves = map[model.Fuel]rampCurve{
	model.FuelCoal:       {pLo: 200, pHi: 1400, fLo: 0.40, fHi: 0.15},
	model.FuelOil:        {pLo: 200, pHi: 1200, fLo: 0.50, fHi: 0.20},
	model.FuelNaturalGas: {pLo: 200, pHi: 600, fLo: 0.50, fHi: 0.20},
}

func (rc rampCurve) fraction(pmax float64) float64 {
	if pmax <= rc.pLo {
		return rc.fLo
	}
	if pmax >= rc.pHi {
		return rc.fHi
	}
	t := (pmax - rc.pLo) / (rc.pHi - rc.pLo)
	return rc.fLo + t*(rc.fHi-rc.fLo)
}

// EstimateRamps resets every generator's ramp limit to unconstrained, then
// imputes ramp30 = pmax * fraction for fuels with a rating curve.
func EstimateRamps(c *model.Case) {
	for i := range c.Generators {
		g := &c.Generators[i]
		g.Ramp30MW = model.Unconstrained()
		if rc, ok := rampCurves[g.Fuel]; ok {
			g.Ramp30MW = g.PMaxMW * rc.fraction(g.PMaxMW)
		}
	}
}
