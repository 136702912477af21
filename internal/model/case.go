package model

import (
	"errors"
	"fmt"
	"math"
)

// ErrDataIntegrity marks fatal input problems: unresolved references or
// mismatched dimensions. Integrity failures abort a run before any
// formulation happens.
var ErrDataIntegrity = errors.New("data integrity")

// Unconstrained marks a limit with no finite bound (ramp rate).
func Unconstrained() float64 { return math.Inf(1) }

// IsUnconstrained reports whether v carries no finite bound.
func IsUnconstrained(v float64) bool { return math.IsInf(v, 1) }

// Bus is a network node.
// Units: DemandMW is the snapshot nodal demand used for zone disaggregation;
// the hourly demand comes from the zonal profile.
type Bus struct {
	ID       string  `json:"id"`
	Zone     string  `json:"zone"`
	DemandMW float64 `json:"demand_mw"`
}

// Branch is an AC transmission branch. RatingMW == 0 means unconstrained.
type Branch struct {
	ID        string  `json:"id"`
	From      string  `json:"from"`
	To        string  `json:"to"`
	Reactance float64 `json:"reactance"`
	RatingMW  float64 `json:"rating_mw"`
}

// DCLine is a controllable DC tie. Its flow is a free injection bounded by
// rating, with no angle relation. RatingMW == 0 means unconstrained.
type DCLine struct {
	ID       string  `json:"id"`
	From     string  `json:"from"`
	To       string  `json:"to"`
	RatingMW float64 `json:"rating_mw"`
}

// Generator is a dispatchable or profile-driven unit.
//
// Ramp30MW is the maximum 30-minute output change; +Inf means unconstrained.
// The snapshot may leave it zero or negative, in which case preprocessing
// treats it as unconstrained before re-estimating from the fuel curve.
type Generator struct {
	ID       string    `json:"id"`
	Fuel     Fuel      `json:"fuel"`
	Bus      string    `json:"bus"`
	PMaxMW   float64   `json:"pmax_mw"`
	PMinMW   float64   `json:"pmin_mw"`
	Ramp30MW float64   `json:"ramp30_mw,omitempty"`
	Cost     CostCurve `json:"cost"`
}

// Case is the validated, read-mostly aggregate of topology, generators and
// profiles. It is constructed once; the only mutation afterwards is the
// one-time preprocessing pass (pmin clamp, cost linearization, ramp
// re-estimation).
type Case struct {
	Buses      []Bus
	Branches   []Branch
	DCLines    []DCLine
	Generators []Generator

	Demand *Profile // zonal demand, MW, column per zone
	Hydro  *Profile // fixed output, column per hydro generator
	Solar  *Profile // max output, column per solar generator
	Wind   *Profile // max output, column per wind generator

	busIndex  map[string]int
	zoneIndex map[string]int
	zones     []string
}

// NewCase validates referential integrity and builds lookup tables.
// All failures are ErrDataIntegrity; nothing downstream runs on a bad Case.
func NewCase(buses []Bus, branches []Branch, dclines []DCLine, gens []Generator,
	demand, hydro, solar, wind *Profile) (*Case, error) {

	c := &Case{
		Buses:      buses,
		Branches:   branches,
		DCLines:    dclines,
		Generators: gens,
		Demand:     demand,
		Hydro:      hydro,
		Solar:      solar,
		Wind:       wind,
		busIndex:   make(map[string]int, len(buses)),
		zoneIndex:  make(map[string]int),
	}

	for i, b := range buses {
		if b.ID == "" {
			return nil, fmt.Errorf("%w: bus %d has empty id", ErrDataIntegrity, i)
		}
		if _, dup := c.busIndex[b.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate bus id %q", ErrDataIntegrity, b.ID)
		}
		c.busIndex[b.ID] = i
		if _, ok := c.zoneIndex[b.Zone]; !ok {
			c.zoneIndex[b.Zone] = len(c.zones)
			c.zones = append(c.zones, b.Zone)
		}
	}

	for _, br := range branches {
		if err := c.checkEndpoints("branch", br.ID, br.From, br.To); err != nil {
			return nil, err
		}
		if br.Reactance == 0 {
			return nil, fmt.Errorf("%w: branch %q has zero reactance", ErrDataIntegrity, br.ID)
		}
	}
	for _, dc := range dclines {
		if err := c.checkEndpoints("dc line", dc.ID, dc.From, dc.To); err != nil {
			return nil, err
		}
	}

	for _, g := range gens {
		if _, ok := c.busIndex[g.Bus]; !ok {
			return nil, fmt.Errorf("%w: generator %q: unknown bus %q", ErrDataIntegrity, g.ID, g.Bus)
		}
		if !g.Fuel.Known() {
			return nil, fmt.Errorf("%w: generator %q: unknown fuel %q", ErrDataIntegrity, g.ID, g.Fuel)
		}
	}

	if demand == nil {
		return nil, fmt.Errorf("%w: demand profile is required", ErrDataIntegrity)
	}
	for _, z := range c.zones {
		if !demand.HasColumn(z) {
			return nil, fmt.Errorf("%w: demand profile has no column for zone %q", ErrDataIntegrity, z)
		}
	}
	for _, g := range gens {
		var p *Profile
		switch g.Fuel {
		case FuelHydro:
			p = hydro
		case FuelSolar:
			p = solar
		case FuelWind:
			p = wind
		default:
			continue
		}
		if p == nil || !p.HasColumn(g.ID) {
			return nil, fmt.Errorf("%w: %s profile has no column for generator %q",
				ErrDataIntegrity, g.Fuel, g.ID)
		}
	}

	return c, nil
}

func (c *Case) checkEndpoints(kind, id, from, to string) error {
	if _, ok := c.busIndex[from]; !ok {
		return fmt.Errorf("%w: %s %q: unknown from bus %q", ErrDataIntegrity, kind, id, from)
	}
	if _, ok := c.busIndex[to]; !ok {
		return fmt.Errorf("%w: %s %q: unknown to bus %q", ErrDataIntegrity, kind, id, to)
	}
	return nil
}

// BusIndex returns the positional index for a bus id.
func (c *Case) BusIndex(id string) (int, bool) {
	i, ok := c.busIndex[id]
	return i, ok
}

// Zones returns the zone ids in first-seen bus order.
func (c *Case) Zones() []string { return c.zones }

// ZoneIndex returns the positional index for a zone id.
func (c *Case) ZoneIndex(id string) (int, bool) {
	i, ok := c.zoneIndex[id]
	return i, ok
}

// NumLines returns the number of AC branches plus DC lines.
func (c *Case) NumLines() int { return len(c.Branches) + len(c.DCLines) }

// RenewableProfile returns the output profile backing a renewable generator,
// or nil for other fuels.
func (c *Case) RenewableProfile(g Generator) *Profile {
	switch g.Fuel {
	case FuelHydro:
		return c.Hydro
	case FuelSolar:
		return c.Solar
	case FuelWind:
		return c.Wind
	}
	return nil
}
