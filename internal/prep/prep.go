package prep

import (
	"encoding/json"
	"os"

	"gridsim/internal/model"
)

// Preprocess runs the one-time Case adjustment pass:
//  1. clamp pmin to pmax where the snapshot has pmin > pmax;
//  2. linearize every cost curve into `segments` secant segments;
//  3. relax all ramp limits, then re-estimate them from the fuel curves.
//
// The Case is read-only after this returns.
func Preprocess(c *model.Case, segments int) error {
	for i := range c.Generators {
		g := &c.Generators[i]
		if g.PMinMW > g.PMaxMW {
			g.PMinMW = g.PMaxMW
		}
	}
	if err := LinearizeCosts(c, segments); err != nil {
		return err
	}
	EstimateRamps(c)
	return nil
}

// AuditGenerator is one row of the audit snapshot: the original quadratic
// next to the derived linear form and the adjusted limits.
type AuditGenerator struct {
	ID       string            `json:"id"`
	Fuel     model.Fuel        `json:"fuel"`
	Bus      string            `json:"bus"`
	PMaxMW   float64           `json:"pmax_mw"`
	PMinMW   float64           `json:"pmin_mw"`
	Ramp30MW *float64          `json:"ramp30_mw"` // null when unconstrained
	Coeffs   []float64         `json:"cost_coeffs"`
	Linear   *model.LinearCost `json:"cost_linear"`
}

// AuditSnapshot is written once per run, before the first window, so the
// preprocessing outcome can be inspected after the fact.
type AuditSnapshot struct {
	Segments   int              `json:"segments"`
	Generators []AuditGenerator `json:"generators"`
}

// BuildAudit captures the post-preprocessing generator set.
func BuildAudit(c *model.Case, segments int) AuditSnapshot {
	snap := AuditSnapshot{
		Segments:   segments,
		Generators: make([]AuditGenerator, len(c.Generators)),
	}
	for i, g := range c.Generators {
		var ramp *float64
		if !model.IsUnconstrained(g.Ramp30MW) {
			r := g.Ramp30MW
			ramp = &r
		}
		snap.Generators[i] = AuditGenerator{
			ID:       g.ID,
			Fuel:     g.Fuel,
			Bus:      g.Bus,
			PMaxMW:   g.PMaxMW,
			PMinMW:   g.PMinMW,
			Ramp30MW: ramp,
			Coeffs:   g.Cost.Coeffs,
			Linear:   g.Cost.Linear,
		}
	}
	return snap
}

// WriteAudit persists the audit snapshot as indented JSON.
func WriteAudit(path string, c *model.Case, segments int) error {
	snap := BuildAudit(c, segments)
	raw, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}
