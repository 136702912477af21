// Package topology builds the sparse incidence structure and the zonal
// demand disaggregation used by the interval formulation.
package topology

import (
	"fmt"

	"gridsim/internal/model"

	"gonum.org/v1/gonum/mat"
)

// Entry is one nonzero of a sparse incidence matrix.
type Entry struct {
	Row, Col int
	Val      float64
}

// Line is the unified view over AC branches and DC lines: both occupy a slot
// in the flow variable block, but only AC branches get an angle relation.
type Line struct {
	ID        string
	From, To  int // bus indices
	RatingMW  float64
	AC        bool
	Reactance float64 // AC only
}

// Unconstrained reports whether the line has no thermal rating.
func (l Line) Unconstrained() bool { return l.RatingMW == 0 }

// Topology holds the derived network structure for a Case.
type Topology struct {
	// GenBus maps generator index to bus index (the generator->bus
	// incidence has a single 1 per row, so the index vector is the matrix).
	GenBus []int

	// Lines lists AC branches first, then DC lines, in Case order.
	Lines []Line

	// LineIncidence holds -1 at each line's from bus and +1 at its to bus,
	// row = line index, col = bus index.
	LineIncidence []Entry

	// ZoneShares is nBus x nZone; entry (b,z) is bus b's share of zone z's
	// demand. Nodal demand = ZoneShares * zonal demand vector.
	ZoneShares *mat.Dense
}

// Build derives the topology from a Case. Unknown endpoint buses are
// DataIntegrityError, fatal before any formulation.
func Build(c *model.Case) (*Topology, error) {
	t := &Topology{
		GenBus: make([]int, len(c.Generators)),
		Lines:  make([]Line, 0, c.NumLines()),
	}

	for i, g := range c.Generators {
		b, ok := c.BusIndex(g.Bus)
		if !ok {
			return nil, fmt.Errorf("%w: generator %q: unknown bus %q",
				model.ErrDataIntegrity, g.ID, g.Bus)
		}
		t.GenBus[i] = b
	}

	for _, br := range c.Branches {
		from, okF := c.BusIndex(br.From)
		to, okT := c.BusIndex(br.To)
		if !okF || !okT {
			return nil, fmt.Errorf("%w: branch %q: unknown endpoint bus",
				model.ErrDataIntegrity, br.ID)
		}
		t.Lines = append(t.Lines, Line{
			ID: br.ID, From: from, To: to,
			RatingMW: br.RatingMW, AC: true, Reactance: br.Reactance,
		})
	}
	for _, dc := range c.DCLines {
		from, okF := c.BusIndex(dc.From)
		to, okT := c.BusIndex(dc.To)
		if !okF || !okT {
			return nil, fmt.Errorf("%w: dc line %q: unknown endpoint bus",
				model.ErrDataIntegrity, dc.ID)
		}
		t.Lines = append(t.Lines, Line{
			ID: dc.ID, From: from, To: to, RatingMW: dc.RatingMW,
		})
	}

	t.LineIncidence = make([]Entry, 0, 2*len(t.Lines))
	for i, l := range t.Lines {
		t.LineIncidence = append(t.LineIncidence,
			Entry{Row: i, Col: l.From, Val: -1},
			Entry{Row: i, Col: l.To, Val: 1},
		)
	}

	t.ZoneShares = buildZoneShares(c)
	return t, nil
}

// buildZoneShares computes each bus's share of its zone's snapshot demand.
// A zone whose buses carry zero total demand gets zero shares: such zones
// (generation-only pockets) contribute no nodal demand rather than failing
// the run.
func buildZoneShares(c *model.Case) *mat.Dense {
	zones := c.Zones()
	shares := mat.NewDense(len(c.Buses), len(zones), nil)

	totals := make([]float64, len(zones))
	for _, b := range c.Buses {
		z, _ := c.ZoneIndex(b.Zone)
		totals[z] += b.DemandMW
	}
	for i, b := range c.Buses {
		z, _ := c.ZoneIndex(b.Zone)
		if totals[z] > 0 {
			shares.Set(i, z, b.DemandMW/totals[z])
		}
	}
	return shares
}

// NodalDemand disaggregates one hour's zonal demand to buses.
func (t *Topology) NodalDemand(zoneDemand []float64) []float64 {
	n, _ := t.ZoneShares.Dims()
	out := make([]float64, n)
	v := mat.NewVecDense(len(zoneDemand), zoneDemand)
	res := mat.NewVecDense(n, out)
	res.MulVec(t.ZoneShares, v)
	return out
}
