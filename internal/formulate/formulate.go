// Package formulate assembles one interval's linear program from a Case,
// its topology and the carried ramp state.
package formulate

import (
	"fmt"
	"math"

	"gridsim/internal/model"
	"gridsim/internal/topology"
)

// Options controls the optional parts of an interval model.
type Options struct {
	// LoadShed adds a shed variable per (bus, hour), bounded by nodal
	// demand and charged at LoadShedPenalty $/MWh.
	LoadShed        bool
	LoadShedPenalty float64

	// TransViol relaxes thermal limits with a slack per (line, hour),
	// charged at TransViolPenalty $/MWh.
	TransViol        bool
	TransViolPenalty float64

	// InitialRamp couples the first in-window hour to PrevDispatchMW, the
	// previous interval's final dispatch (one value per generator).
	InitialRamp    bool
	PrevDispatchMW []float64
}

// Interval is a built, not yet solved, interval model.
type Interval struct {
	Problem   *Problem
	Handles   Handles
	StartHour int
	Hours     int
}

// Build formulates the linear program for the window [startHour,
// startHour+hours). The Case must have been preprocessed (linearized costs,
// estimated ramps).
func Build(c *model.Case, topo *topology.Topology, startHour, hours int, opts Options) (*Interval, error) {
	if hours < 1 {
		return nil, fmt.Errorf("%w: interval length %d", model.ErrDataIntegrity, hours)
	}
	if opts.InitialRamp && len(opts.PrevDispatchMW) != len(c.Generators) {
		return nil, fmt.Errorf("%w: previous dispatch has %d entries for %d generators",
			model.ErrDataIntegrity, len(opts.PrevDispatchMW), len(c.Generators))
	}
	for _, g := range c.Generators {
		if g.Cost.Linear == nil {
			return nil, fmt.Errorf("%w: generator %q has no linearized cost; preprocess the case first",
				model.ErrDataIntegrity, g.ID)
		}
	}

	nBus := len(c.Buses)
	nGen := len(c.Generators)
	nLine := len(topo.Lines)
	nAC := len(c.Branches)

	demand, err := nodalDemand(c, topo, startHour, hours)
	if err != nil {
		return nil, err
	}

	p := &Problem{}
	h := Handles{StartHour: startHour, Hours: hours}

	// Generation variables, bounds refined per hour below.
	h.Gen = VarGroup{Offset: p.AddCols(nGen*hours, 0, Inf(), 0), Count: nGen, Hours: hours}

	// Piecewise segment variables for generators with more than one segment.
	segOffset := make(map[int]int)
	for gi, g := range c.Generators {
		lc := g.Cost.Linear
		if lc.Segments() < 2 {
			continue
		}
		first := p.NumCols()
		segOffset[gi] = first
		for s := 0; s < lc.Segments(); s++ {
			width := lc.Points[s+1].PowerMW - lc.Points[s].PowerMW
			p.AddCols(hours, 0, width, lc.Slope(s))
		}
	}

	h.Flow = VarGroup{Offset: p.AddCols(nLine*hours, NegInf(), Inf(), 0), Count: nLine, Hours: hours}
	h.Angle = VarGroup{Offset: p.AddCols(nBus*hours, NegInf(), Inf(), 0), Count: nBus, Hours: hours}

	if opts.LoadShed {
		h.HasShed = true
		h.Shed = VarGroup{Offset: p.AddCols(nBus*hours, 0, 0, opts.LoadShedPenalty), Count: nBus, Hours: hours}
		for b := 0; b < nBus; b++ {
			for t := 0; t < hours; t++ {
				p.SetColBounds(h.Shed.Col(b, t), 0, math.Max(demand[t][b], 0))
			}
		}
	}

	for li, l := range topo.Lines {
		if !l.Unconstrained() {
			h.FiniteLines = append(h.FiniteLines, li)
		}
	}
	if opts.TransViol {
		h.HasViol = true
		h.Viol = VarGroup{
			Offset: p.AddCols(len(h.FiniteLines)*hours, 0, Inf(), opts.TransViolPenalty),
			Count:  len(h.FiniteLines),
			Hours:  hours,
		}
	}

	// Generator bounds and objective terms. Renewables take their ceiling
	// (hydro: exact value) from the profile, not from pmax.
	for gi, g := range c.Generators {
		lc := g.Cost.Linear
		switch {
		case lc.Fixed != nil:
			p.Offset += float64(hours) * lc.Fixed.Cost
		case lc.Segments() == 1:
			p.Offset += float64(hours) * lc.NoLoad()
			for t := 0; t < hours; t++ {
				p.ColCosts[h.Gen.Col(gi, t)] = lc.Slope(0)
			}
		default:
			p.Offset += float64(hours) * lc.Points[0].Cost
		}

		prof := c.RenewableProfile(g)
		for t := 0; t < hours; t++ {
			col := h.Gen.Col(gi, t)
			switch {
			case g.Fuel == model.FuelHydro:
				v, err := prof.At(g.ID, startHour+t)
				if err != nil {
					return nil, err
				}
				p.SetColBounds(col, v, v)
			case g.Fuel.IsRenewable():
				v, err := prof.At(g.ID, startHour+t)
				if err != nil {
					return nil, err
				}
				p.SetColBounds(col, math.Max(g.PMinMW, 0), v)
			case lc.Fixed != nil:
				p.SetColBounds(col, g.PMinMW, g.PMinMW)
			default:
				p.SetColBounds(col, math.Max(g.PMinMW, 0), g.PMaxMW)
			}
		}
	}

	// Power balance, withdrawal form: -(generation + net flow + shed) = -demand.
	// Written this way so that negating the raw dual yields the conventional
	// nodal price under a minimizing solver.
	gensAtBus := make([][]int, nBus)
	for gi, b := range topo.GenBus {
		gensAtBus[b] = append(gensAtBus[b], gi)
	}
	type busLine struct {
		line int
		coef float64 // -incidence
	}
	linesAtBus := make([][]busLine, nBus)
	for _, e := range topo.LineIncidence {
		linesAtBus[e.Col] = append(linesAtBus[e.Col], busLine{line: e.Row, coef: -e.Val})
	}

	h.Balance = ConGroup{Offset: p.NumRows(), Count: nBus, Hours: hours}
	var cols []int
	var vals []float64
	for b := 0; b < nBus; b++ {
		for t := 0; t < hours; t++ {
			cols = cols[:0]
			vals = vals[:0]
			for _, gi := range gensAtBus[b] {
				cols = append(cols, h.Gen.Col(gi, t))
				vals = append(vals, -1)
			}
			for _, bl := range linesAtBus[b] {
				cols = append(cols, h.Flow.Col(bl.line, t))
				vals = append(vals, bl.coef)
			}
			if h.HasShed {
				cols = append(cols, h.Shed.Col(b, t))
				vals = append(vals, -1)
			}
			p.AddEqRow(cols, vals, -demand[t][b])
		}
	}

	// Angle relation, AC branches only: reactance*flow - angle(to) + angle(from) = 0.
	h.AngleRel = ConGroup{Offset: p.NumRows(), Count: nAC, Hours: hours}
	for li := 0; li < nAC; li++ {
		l := topo.Lines[li]
		for t := 0; t < hours; t++ {
			p.AddEqRow(
				[]int{h.Flow.Col(li, t), h.Angle.Col(l.To, t), h.Angle.Col(l.From, t)},
				[]float64{l.Reactance, -1, 1},
				0,
			)
		}
	}

	// Thermal limits as separate lower and upper rows so each side carries
	// its own dual. The violation slack, when present, relaxes both sides.
	h.LimitLower = ConGroup{Offset: p.NumRows(), Count: len(h.FiniteLines), Hours: hours}
	for fi, li := range h.FiniteLines {
		rating := topo.Lines[li].RatingMW
		for t := 0; t < hours; t++ {
			cols := []int{h.Flow.Col(li, t)}
			vals := []float64{1}
			if h.HasViol {
				cols = append(cols, h.Viol.Col(fi, t))
				vals = append(vals, 1)
			}
			p.AddRow(-rating, cols, vals, Inf())
		}
	}
	h.LimitUpper = ConGroup{Offset: p.NumRows(), Count: len(h.FiniteLines), Hours: hours}
	for fi, li := range h.FiniteLines {
		rating := topo.Lines[li].RatingMW
		for t := 0; t < hours; t++ {
			cols := []int{h.Flow.Col(li, t)}
			vals := []float64{1}
			if h.HasViol {
				cols = append(cols, h.Viol.Col(fi, t))
				vals = append(vals, -1)
			}
			p.AddRow(NegInf(), cols, vals, rating)
		}
	}

	// Ramp coupling for finite-ramp generators: |gen[t+1]-gen[t]| <= 2*ramp30.
	for gi, g := range c.Generators {
		if !model.IsUnconstrained(g.Ramp30MW) {
			h.RampGens = append(h.RampGens, gi)
		}
	}
	h.Ramp = ConGroup{Offset: p.NumRows(), Count: len(h.RampGens), Hours: hours - 1}
	for _, gi := range h.RampGens {
		bound := 2 * c.Generators[gi].Ramp30MW
		for t := 0; t < hours-1; t++ {
			p.AddRow(-bound,
				[]int{h.Gen.Col(gi, t+1), h.Gen.Col(gi, t)},
				[]float64{1, -1},
				bound)
		}
	}

	// First-hour coupling to the previous interval's final dispatch.
	if opts.InitialRamp {
		h.RampInit = ConGroup{Offset: p.NumRows(), Count: len(h.RampGens), Hours: 1}
		for _, gi := range h.RampGens {
			bound := 2 * c.Generators[gi].Ramp30MW
			prev := opts.PrevDispatchMW[gi]
			p.AddRow(prev-bound, []int{h.Gen.Col(gi, 0)}, []float64{1}, prev+bound)
		}
	}

	// Piecewise linking: generation = pmin + sum of segment fills.
	for gi, g := range c.Generators {
		first, ok := segOffset[gi]
		if !ok {
			continue
		}
		lc := g.Cost.Linear
		for t := 0; t < hours; t++ {
			cols := []int{h.Gen.Col(gi, t)}
			vals := []float64{1}
			for s := 0; s < lc.Segments(); s++ {
				cols = append(cols, first+s*hours+t)
				vals = append(vals, -1)
			}
			p.AddEqRow(cols, vals, lc.Points[0].PowerMW)
		}
	}

	return &Interval{Problem: p, Handles: h, StartHour: startHour, Hours: hours}, nil
}

// nodalDemand disaggregates the zonal demand profile over the window:
// demand[t][b] for in-window hour t and bus b.
func nodalDemand(c *model.Case, topo *topology.Topology, startHour, hours int) ([][]float64, error) {
	zones := c.Zones()
	out := make([][]float64, hours)
	zonal := make([]float64, len(zones))
	for t := 0; t < hours; t++ {
		for zi, z := range zones {
			v, err := c.Demand.At(z, startHour+t)
			if err != nil {
				return nil, err
			}
			zonal[zi] = v
		}
		out[t] = topo.NodalDemand(zonal)
	}
	return out, nil
}
