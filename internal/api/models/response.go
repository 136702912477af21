package models

import (
	"gridsim/internal/analysis"
	"gridsim/internal/sim"
)

// SimulateResponse is the response from a simulation run
type SimulateResponse struct {
	RunID     string                `json:"run_id"`
	Status    string                `json:"status"`
	OutputDir string                `json:"output_dir,omitempty"`
	Objective float64               `json:"objective"`
	Intervals []sim.IntervalSummary `json:"intervals"`

	// Prices holds per-bus price stats ranked by spread, when requested.
	Prices []analysis.BusPriceStats `json:"prices,omitempty"`
}

// CaseSummaryResponse is a structural summary of a loaded case
type CaseSummaryResponse struct {
	Buses      int            `json:"buses"`
	Branches   int            `json:"branches"`
	DCLines    int            `json:"dc_lines"`
	Generators int            `json:"generators"`
	Zones      []string       `json:"zones"`
	ByFuel     map[string]int `json:"generators_by_fuel"`
	CapacityMW float64        `json:"total_capacity_mw"`
	StartHour  int            `json:"profile_start_hour"`
	Hours      int            `json:"profile_hours"`
}

// PricesResponse carries ranked bus price stats for a finished run
type PricesResponse struct {
	RunDir string                   `json:"run_dir"`
	Buses  []analysis.BusPriceStats `json:"buses"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
