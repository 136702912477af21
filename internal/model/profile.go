package model

import "fmt"

// Profile is an hour-indexed time series with one column per entity
// (zone for demand, generator for hydro/solar/wind output).
//
// Hours are absolute indices and must be contiguous; values are MW.
type Profile struct {
	startHour int
	hours     int
	columns   map[string][]float64
}

// NewProfile builds a Profile from parallel hour and column data.
// Hours must be contiguous and ascending, and every column must have one
// value per hour.
func NewProfile(hours []int, columns map[string][]float64) (*Profile, error) {
	if len(hours) == 0 {
		return nil, fmt.Errorf("%w: profile has no hours", ErrDataIntegrity)
	}
	for i := 1; i < len(hours); i++ {
		if hours[i] != hours[i-1]+1 {
			return nil, fmt.Errorf("%w: profile hours not contiguous at index %d (%d -> %d)",
				ErrDataIntegrity, i, hours[i-1], hours[i])
		}
	}
	for id, vals := range columns {
		if len(vals) != len(hours) {
			return nil, fmt.Errorf("%w: profile column %q has %d values for %d hours",
				ErrDataIntegrity, id, len(vals), len(hours))
		}
	}
	return &Profile{
		startHour: hours[0],
		hours:     len(hours),
		columns:   columns,
	}, nil
}

// StartHour returns the first absolute hour covered by the profile.
func (p *Profile) StartHour() int { return p.startHour }

// Hours returns the number of hours covered.
func (p *Profile) Hours() int { return p.hours }

// HasColumn reports whether the profile carries a column for id.
func (p *Profile) HasColumn(id string) bool {
	_, ok := p.columns[id]
	return ok
}

// At returns the value for entity id at the given absolute hour.
func (p *Profile) At(id string, hour int) (float64, error) {
	vals, ok := p.columns[id]
	if !ok {
		return 0, fmt.Errorf("%w: profile has no column %q", ErrDataIntegrity, id)
	}
	i := hour - p.startHour
	if i < 0 || i >= p.hours {
		return 0, fmt.Errorf("%w: hour %d outside profile range [%d,%d]",
			ErrDataIntegrity, hour, p.startHour, p.startHour+p.hours-1)
	}
	return vals[i], nil
}

// Window returns n consecutive values for entity id starting at an absolute hour.
func (p *Profile) Window(id string, startHour, n int) ([]float64, error) {
	out := make([]float64, n)
	for h := 0; h < n; h++ {
		v, err := p.At(id, startHour+h)
		if err != nil {
			return nil, err
		}
		out[h] = v
	}
	return out, nil
}
