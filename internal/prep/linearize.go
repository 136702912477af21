package prep

import (
	"errors"
	"fmt"

	"gridsim/internal/model"
)

// ErrUnsupportedCostShape marks a generator cost outside the quadratic
// family a*x^2 + b*x + c. Fatal before linearization.
var ErrUnsupportedCostShape = errors.New("unsupported cost shape")

// LinearizeCosts derives the piecewise-linear cost form for every generator.
//
// For pmin != pmax it emits segments+1 power breakpoints evenly spaced over
// [pmin, pmax], each paired with the quadratic's value there. The secant
// overestimates a convex curve between breakpoints, so the approximation is
// conservative. For pmin == pmax it emits a single fixed cost point.
func LinearizeCosts(c *model.Case, segments int) error {
	if segments < 1 {
		segments = 1
	}
	for i := range c.Generators {
		g := &c.Generators[i]
		lc, err := linearize(g, segments)
		if err != nil {
			return err
		}
		g.Cost.Linear = lc
	}
	return nil
}

func linearize(g *model.Generator, segments int) (*model.LinearCost, error) {
	cc := g.Cost
	if cc.Model != "" && cc.Model != "polynomial" {
		return nil, fmt.Errorf("%w: generator %q: cost model %q",
			ErrUnsupportedCostShape, g.ID, cc.Model)
	}
	if len(cc.Coeffs) == 0 || len(cc.Coeffs) > 3 {
		return nil, fmt.Errorf("%w: generator %q: %d polynomial coefficients",
			ErrUnsupportedCostShape, g.ID, len(cc.Coeffs))
	}

	if g.PMinMW == g.PMaxMW {
		return &model.LinearCost{
			Fixed: &model.CostPoint{PowerMW: g.PMinMW, Cost: cc.Eval(g.PMinMW)},
		}, nil
	}

	step := (g.PMaxMW - g.PMinMW) / float64(segments)
	points := make([]model.CostPoint, segments+1)
	for k := 0; k <= segments; k++ {
		p := g.PMinMW + float64(k)*step
		if k == segments {
			p = g.PMaxMW // avoid drift on the last breakpoint
		}
		points[k] = model.CostPoint{PowerMW: p, Cost: cc.Eval(p)}
	}
	return &model.LinearCost{Points: points}, nil
}
