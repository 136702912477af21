package model

// CostCurve is a generator's cost representation: the original polynomial
// from the snapshot plus, after preprocessing, the derived linear form.
//
// Coeffs are in ascending order of power: Coeffs[0] + Coeffs[1]*x + Coeffs[2]*x^2,
// in $/h with x in MW. Only the quadratic family (up to three coefficients) is
// supported; anything else is rejected at linearization time.
type CostCurve struct {
	Model  string    `json:"model,omitempty"` // "polynomial" (default when empty)
	Coeffs []float64 `json:"coeffs"`

	// Linear is the derived piecewise-linear form, nil until preprocessing.
	Linear *LinearCost `json:"linear,omitempty"`
}

// Eval evaluates the polynomial at power x (MW).
func (cc CostCurve) Eval(x float64) float64 {
	v := 0.0
	for i := len(cc.Coeffs) - 1; i >= 0; i-- {
		v = v*x + cc.Coeffs[i]
	}
	return v
}

// CostPoint pairs a power level with its cost.
type CostPoint struct {
	PowerMW float64 `json:"power_mw"`
	Cost    float64 `json:"cost"`
}

// LinearCost is the piecewise-linear approximation of a quadratic cost curve.
// Exactly one of Fixed / Points is populated:
//   - Fixed for pmin == pmax generators (a single cost point);
//   - Points, k+1 breakpoints strictly increasing in power, otherwise.
type LinearCost struct {
	Fixed  *CostPoint  `json:"fixed,omitempty"`
	Points []CostPoint `json:"points,omitempty"`
}

// Segments returns the number of linear segments (0 for a fixed point).
func (lc *LinearCost) Segments() int {
	if lc == nil || len(lc.Points) < 2 {
		return 0
	}
	return len(lc.Points) - 1
}

// Slope returns the secant slope of segment i ($/MWh).
func (lc *LinearCost) Slope(i int) float64 {
	a, b := lc.Points[i], lc.Points[i+1]
	return (b.Cost - a.Cost) / (b.PowerMW - a.PowerMW)
}

// NoLoad returns the constant cost term for the single-segment form:
// the secant line extrapolated to zero output.
func (lc *LinearCost) NoLoad() float64 {
	p0 := lc.Points[0]
	return p0.Cost - lc.Slope(0)*p0.PowerMW
}
