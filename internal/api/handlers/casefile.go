package handlers

import (
	"net/http"

	"gridsim/internal/api/models"
	"gridsim/internal/data"

	"github.com/gin-gonic/gin"
)

// CaseHandler serves structural summaries of case files on disk.
type CaseHandler struct{}

func NewCaseHandler() *CaseHandler { return &CaseHandler{} }

// Summary handles POST /api/v1/case/summary
func (h *CaseHandler) Summary(c *gin.Context) {
	var req models.CaseSummaryRequest
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

	byFuel := make(map[string]int)
	capacity := 0.0
	for _, g := range cs.Generators {
		byFuel[string(g.Fuel)]++
		capacity += g.PMaxMW
	}

	c.JSON(http.StatusOK, models.CaseSummaryResponse{
		Buses:      len(cs.Buses),
		Branches:   len(cs.Branches),
		DCLines:    len(cs.DCLines),
		Generators: len(cs.Generators),
		Zones:      cs.Zones(),
		ByFuel:     byFuel,
		CapacityMW: capacity,
		StartHour:  cs.Demand.StartHour(),
		Hours:      cs.Demand.Hours(),
	})
}
