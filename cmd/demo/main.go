package main

import (
	"flag"
	"fmt"
	"os"

	"gridsim/internal/model"
	"gridsim/internal/sim"
	"gridsim/internal/solve"
)

// Demo:
// - build a small three-bus case inline
// - run one 24-hour window
// - print dispatch, flows and nodal prices to show how the pieces fit together
func main() {
	hours := flag.Int("hours", 24, "Window length in hours")
	segments := flag.Int("segments", 3, "Cost linearization segments")
	flag.Parse()

	cs, err := demoCase(*hours)
	if err != nil {
		fatal(err)
	}

	summary, err := sim.Run(cs, solve.HiGHS{}, sim.RunConfig{
		Intervals:     1,
		IntervalHours: *hours,
		Segments:      *segments,
		Flags: sim.Flags{
			LoadShed:        true,
			LoadShedPenalty: 9000,
		},
	})
	if err != nil {
		fatal(err)
	}
	r := summary.Results[0]

	fmt.Printf("objective: %.2f\n\n", r.Objective)

	fmt.Println("dispatch (MW):")
	for i, id := range r.GeneratorIDs {
		fmt.Printf("  %-8s", id)
		for t := 0; t < r.Hours; t += 6 {
			fmt.Printf(" %7.1f", r.Generation.At(i, t))
		}
		fmt.Println()
	}

	fmt.Println("\nflows (MW):")
	for i, id := range r.LineIDs {
		fmt.Printf("  %-8s", id)
		for t := 0; t < r.Hours; t += 6 {
			fmt.Printf(" %7.1f", r.Flow.At(i, t))
		}
		fmt.Println()
	}

	fmt.Println("\nnodal prices ($/MWh):")
	for i, id := range r.BusIDs {
		fmt.Printf("  %-8s", id)
		for t := 0; t < r.Hours; t += 6 {
			fmt.Printf(" %7.2f", r.NodalPrice.At(i, t))
		}
		fmt.Println()
	}
}

// demoCase is a coal baseload unit and a gas peaker at opposite ends of a
// three-bus loop, with a wind unit riding a day-shaped profile.
func demoCase(hours int) (*model.Case, error) {
	hourIdx := make([]int, hours)
	demand := make([]float64, hours)
	windMax := make([]float64, hours)
	for t := range hourIdx {
		hourIdx[t] = t
		// Morning valley, evening peak.
		demand[t] = 250 + 150*float64((t+18)%24)/23
		windMax[t] = 80 - 60*float64(t%12)/11
	}

	demandProfile, err := model.NewProfile(hourIdx, map[string][]float64{"metro": demand})
	if err != nil {
		return nil, err
	}
	windProfile, err := model.NewProfile(hourIdx, map[string][]float64{"w1": windMax})
	if err != nil {
		return nil, err
	}

	return model.NewCase(
		[]model.Bus{
			{ID: "north", Zone: "metro", DemandMW: 100},
			{ID: "city", Zone: "metro", DemandMW: 300},
			{ID: "coast", Zone: "metro", DemandMW: 0},
		},
		[]model.Branch{
			{ID: "n-c", From: "north", To: "city", Reactance: 0.08, RatingMW: 220},
			{ID: "c-k", From: "city", To: "coast", Reactance: 0.1, RatingMW: 150},
			{ID: "k-n", From: "coast", To: "north", Reactance: 0.12, RatingMW: 150},
		},
		nil,
		[]model.Generator{
			{ID: "coal1", Fuel: model.FuelCoal, Bus: "north", PMinMW: 50, PMaxMW: 400,
				Cost: model.CostCurve{Coeffs: []float64{120, 18, 0.004}}},
			{ID: "gas1", Fuel: model.FuelNaturalGas, Bus: "city", PMinMW: 0, PMaxMW: 250,
				Cost: model.CostCurve{Coeffs: []float64{40, 35, 0.01}}},
			{ID: "w1", Fuel: model.FuelWind, Bus: "coast", PMinMW: 0, PMaxMW: 80,
				Cost: model.CostCurve{Coeffs: []float64{0}}},
		},
		demandProfile, nil, nil, windProfile,
	)
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
