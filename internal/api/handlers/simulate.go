package handlers

import (
	"errors"
	"net/http"
	"time"

	"gridsim/internal/analysis"
	"gridsim/internal/api/models"
	"gridsim/internal/data"
	"gridsim/internal/model"
	"gridsim/internal/prep"
	"gridsim/internal/sim"
	"gridsim/internal/solve"

	"github.com/gin-gonic/gin"
)

// SimulateHandler runs simulations on server-local case files.
type SimulateHandler struct {
	solver solve.Solver
}

// NewSimulateHandler creates a simulate handler. A nil solver means the
// embedded HiGHS build.
func NewSimulateHandler(solver solve.Solver) *SimulateHandler {
	if solver == nil {
		solver = solve.HiGHS{}
	}
	return &SimulateHandler{solver: solver}
}

// Run handles POST /api/v1/simulate
func (h *SimulateHandler) Run(c *gin.Context) {
	var req models.SimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err)
		return
	}

	cs, err := data.LoadCase(data.CaseFiles{
		Grid:   req.Case.Grid,
		Demand: req.Case.Demand,
		Hydro:  req.Case.Hydro,
		Solar:  req.Case.Solar,
		Wind:   req.Case.Wind,
	})
	if err != nil {
		code, status := classify(err)
		writeError(c, status, code, err)
		return
	}

	cfg := sim.RunConfig{
		StartHour:     req.Simulation.StartHour,
		Intervals:     req.Simulation.Intervals,
		IntervalHours: req.Simulation.IntervalHours,
		Segments:      req.Simulation.Segments,
		Flags: sim.Flags{
			LoadShed:         req.Simulation.LoadShed,
			LoadShedPenalty:  req.Simulation.LoadShedPenalty,
			TransViol:        req.Simulation.TransViol,
			TransViolPenalty: req.Simulation.TransViolPenalty,
		},
		OutputDir: req.Options.OutputDir,
		Solver: solve.Options{
			TimeLimitSec: req.Solver.TimeLimitSec,
			Threads:      req.Solver.Threads,
			Presolve:     req.Solver.Presolve,
		},
	}

	start := time.Now()
	summary, err := sim.Run(cs, h.solver, cfg)
	simulationSeconds.Observe(time.Since(start).Seconds())
	if err != nil {
		simulationsTotal.WithLabelValues("error").Inc()
		code, status := classify(err)
		writeError(c, status, code, err)
		return
	}
	simulationsTotal.WithLabelValues("ok").Inc()
	lastObjective.Set(summary.Objective)

	resp := models.SimulateResponse{
		RunID:     summary.RunID,
		Status:    "completed",
		OutputDir: summary.OutputDir,
		Objective: summary.Objective,
		Intervals: summary.Intervals,
	}
	if req.Options.IncludePrices {
		ranked := analysis.RankBySpread(analysis.CollectPrices(summary.Results))
		if n := req.Options.PriceLimit; n > 0 && n < len(ranked) {
			ranked = ranked[:n]
		}
		resp.Prices = ranked
	}
	c.JSON(http.StatusOK, resp)
}

// classify maps pipeline sentinels onto API error codes.
func classify(err error) (code string, status int) {
	switch {
	case errors.Is(err, model.ErrDataIntegrity):
		return "INVALID_CASE", http.StatusBadRequest
	case errors.Is(err, prep.ErrUnsupportedCostShape):
		return "UNSUPPORTED_COST_SHAPE", http.StatusBadRequest
	case errors.Is(err, solve.ErrSolverFailure):
		return "SOLVER_FAILURE", http.StatusUnprocessableEntity
	default:
		return "INTERNAL_ERROR", http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, status int, code string, err error) {
	c.JSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{Code: code, Message: err.Error()},
	})
}
