package analysis

import (
	"fmt"
	"math"
	"path/filepath"
	"sort"

	"gridsim/internal/results"
)

// BusPriceStats is a bus-level summary of nodal prices across a run, used
// for ranking buses by how volatile their clearing price was.
type BusPriceStats struct {
	Bus   string `json:"bus"`
	Count int    `json:"count"`

	MinPrice  float64 `json:"min_price"`
	MaxPrice  float64 `json:"max_price"`
	MeanPrice float64 `json:"mean_price"`
	P05Price  float64 `json:"p05_price"`
	P95Price  float64 `json:"p95_price"`

	SpreadP95P05 float64 `json:"spread_p95_p05"`
}

// ComputeBusStats summarizes one bus's hourly price series.
func ComputeBusStats(bus string, prices []float64) BusPriceStats {
	s := BusPriceStats{Bus: bus}
	if len(prices) == 0 {
		return s
	}
	s.Count = len(prices)

	sum := 0.0
	minv := math.Inf(1)
	maxv := math.Inf(-1)
	vals := make([]float64, 0, len(prices))
	for _, v := range prices {
		vals = append(vals, v)
		sum += v
		if v < minv {
			minv = v
		}
		if v > maxv {
			maxv = v
		}
	}
	sort.Float64s(vals)
	s.MinPrice = minv
	s.MaxPrice = maxv
	s.MeanPrice = sum / float64(len(vals))
	s.P05Price = percentileSorted(vals, 0.05)
	s.P95Price = percentileSorted(vals, 0.95)
	s.SpreadP95P05 = s.P95Price - s.P05Price
	return s
}

// RankBySpread computes stats per bus and sorts descending by the
// p95-p05 spread.
func RankBySpread(byBus map[string][]float64) []BusPriceStats {
	out := make([]BusPriceStats, 0, len(byBus))
	for bus, prices := range byBus {
		out = append(out, ComputeBusStats(bus, prices))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SpreadP95P05 != out[j].SpreadP95P05 {
			return out[i].SpreadP95P05 > out[j].SpreadP95P05
		}
		return out[i].Bus < out[j].Bus
	})
	return out
}

// CollectPrices concatenates nodal price series per bus across intervals,
// in window order.
func CollectPrices(rs []*results.Results) map[string][]float64 {
	byBus := make(map[string][]float64)
	for _, r := range rs {
		for i, bus := range r.BusIDs {
			for t := 0; t < r.Hours; t++ {
				byBus[bus] = append(byBus[bus], r.NodalPrice.At(i, t))
			}
		}
	}
	return byBus
}

// LoadRunPrices reads every interval's nodal price file from a finished
// run directory and stitches the series back together per bus.
func LoadRunPrices(runDir string) (map[string][]float64, error) {
	paths, err := filepath.Glob(filepath.Join(runDir, "interval_*", "nodal_price.csv"))
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no interval results under %s", runDir)
	}
	sort.Strings(paths)

	byBus := make(map[string][]float64)
	for _, path := range paths {
		ids, _, values, err := results.ReadMatrixCSV(path)
		if err != nil {
			return nil, err
		}
		for i, bus := range ids {
			byBus[bus] = append(byBus[bus], values[i]...)
		}
	}
	return byBus, nil
}

func percentileSorted(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	// Linear interpolation between order stats.
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
