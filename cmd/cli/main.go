package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"gridsim/internal/analysis"
	"gridsim/internal/config"
	"gridsim/internal/data"
	"gridsim/internal/sim"
	"gridsim/internal/solve"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "simulate":
		cmdSimulate(os.Args[2:])
	case "summary":
		cmdSummary(os.Args[2:])
	case "prices":
		cmdPrices(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli simulate --config examples/run.yaml")
	fmt.Println("  cli summary --config examples/run.yaml")
	fmt.Println("  cli prices --run results/<run-id> [--limit 10]")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - simulate writes per-interval CSVs plus summary.json under the output dir")
	fmt.Println("  - prices ranks buses of a finished run by their p95-p05 price spread")
}

func cmdSimulate(args []string) {
	fs := flag.NewFlagSet("simulate", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML run config")
	_ = fs.Parse(args)
	if *cfgPath == "" {
		fatal(fmt.Errorf("simulate: --config is required"))
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fatal(err)
	}
	cs, err := data.LoadCase(cfg.CaseFiles())
	if err != nil {
		fatal(err)
	}

	summary, err := sim.Run(cs, solve.HiGHS{}, cfg.RunConfig())
	if err != nil {
		fatal(err)
	}

	fmt.Printf("run %s: %d intervals, objective %.2f\n",
		summary.RunID, len(summary.Intervals), summary.Objective)
	for _, iv := range summary.Intervals {
		fmt.Printf("  interval %d (hours %d..%d): objective %.2f, shed %.2f MWh\n",
			iv.Index, iv.StartHour, iv.StartHour+iv.Hours-1, iv.Objective, iv.TotalShed)
	}
	if summary.OutputDir != "" {
		fmt.Printf("results written to %s\n", summary.OutputDir)
	}
}

func cmdSummary(args []string) {
	fs := flag.NewFlagSet("summary", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML run config")
	_ = fs.Parse(args)
	if *cfgPath == "" {
		fatal(fmt.Errorf("summary: --config is required"))
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fatal(err)
	}
	cs, err := data.LoadCase(cfg.CaseFiles())
	if err != nil {
		fatal(err)
	}

	byFuel := make(map[string]int)
	capacity := 0.0
	for _, g := range cs.Generators {
		byFuel[string(g.Fuel)]++
		capacity += g.PMaxMW
	}
	out := map[string]any{
		"buses":              len(cs.Buses),
		"branches":           len(cs.Branches),
		"dc_lines":           len(cs.DCLines),
		"generators":         len(cs.Generators),
		"generators_by_fuel": byFuel,
		"total_capacity_mw":  capacity,
		"zones":              cs.Zones(),
		"profile_start_hour": cs.Demand.StartHour(),
		"profile_hours":      cs.Demand.Hours(),
	}
	raw, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		fatal(err)
	}
	fmt.Println(string(raw))
}

func cmdPrices(args []string) {
	fs := flag.NewFlagSet("prices", flag.ExitOnError)
	runDir := fs.String("run", "", "Path to a finished run directory")
	limit := fs.Int("limit", 10, "Top N buses by price spread (0=all)")
	_ = fs.Parse(args)
	if *runDir == "" {
		fatal(fmt.Errorf("prices: --run is required"))
	}

	byBus, err := analysis.LoadRunPrices(*runDir)
	if err != nil {
		fatal(err)
	}
	ranked := analysis.RankBySpread(byBus)
	if *limit > 0 && *limit < len(ranked) {
		ranked = ranked[:*limit]
	}

	fmt.Printf("%-12s %8s %8s %8s %8s %8s\n", "bus", "mean", "min", "max", "p95-p05", "hours")
	for _, s := range ranked {
		fmt.Printf("%-12s %8.2f %8.2f %8.2f %8.2f %8d\n",
			s.Bus, s.MeanPrice, s.MinPrice, s.MaxPrice, s.SpreadP95P05, s.Count)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
