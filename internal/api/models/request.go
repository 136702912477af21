package models

// SimulateRequest is the request body for running a simulation. Case files
// are paths visible to the server process.
type SimulateRequest struct {
	Case       CaseFilesConfig  `json:"case" binding:"required"`
	Simulation SimulationParams `json:"simulation" binding:"required"`
	Solver     SolverParams     `json:"solver,omitempty"`
	Options    SimulateOptions  `json:"options,omitempty"`
}

// CaseFilesConfig names the input files for one grid case
type CaseFilesConfig struct {
	Grid   string `json:"grid" binding:"required"`
	Demand string `json:"demand" binding:"required"`
	Hydro  string `json:"hydro,omitempty"`
	Solar  string `json:"solar,omitempty"`
	Wind   string `json:"wind,omitempty"`
}

// SimulationParams mirrors the rolling-window run parameters
type SimulationParams struct {
	StartHour     int `json:"start_hour,omitempty"`
	Intervals     int `json:"intervals" binding:"required"`
	IntervalHours int `json:"interval_hours" binding:"required"`
	Segments      int `json:"segments,omitempty"` // default 1

	LoadShed        bool    `json:"load_shed,omitempty"`
	LoadShedPenalty float64 `json:"load_shed_penalty,omitempty"`

	TransViol        bool    `json:"trans_viol,omitempty"`
	TransViolPenalty float64 `json:"trans_viol_penalty,omitempty"`
}

// SolverParams are pass-through solver tuning knobs
type SolverParams struct {
	TimeLimitSec float64 `json:"time_limit_seconds,omitempty"`
	Threads      int     `json:"threads,omitempty"`
	Presolve     string  `json:"presolve,omitempty"`
}

// SimulateOptions contains optional response shaping parameters
type SimulateOptions struct {
	OutputDir     string `json:"output_dir,omitempty"`     // persist per-interval CSVs here
	IncludePrices bool   `json:"include_prices,omitempty"` // per-bus price stats in the response
	PriceLimit    int    `json:"price_limit,omitempty"`    // top N buses by spread, 0 = all
}

// CaseSummaryRequest asks for a structural summary of a case on disk
type CaseSummaryRequest struct {
	Case CaseFilesConfig `json:"case" binding:"required"`
}

// PricesRequest asks for ranked price stats of a finished run
type PricesRequest struct {
	RunDir string `form:"run_dir" binding:"required"`
	Limit  int    `form:"limit,omitempty"` // default 10
}
