package handlers

import (
	"net/http"

	"gridsim/internal/analysis"
	"gridsim/internal/api/models"

	"github.com/gin-gonic/gin"
)

// PricesHandler ranks buses of a finished run by price spread.
type PricesHandler struct{}

func NewPricesHandler() *PricesHandler { return &PricesHandler{} }

// Rank handles GET /api/v1/prices
func (h *PricesHandler) Rank(c *gin.Context) {
	var req models.PricesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err)
		return
	}
	if req.Limit <= 0 {
		req.Limit = 10
	}

	byBus, err := analysis.LoadRunPrices(req.RunDir)
	if err != nil {
		writeError(c, http.StatusNotFound, "RUN_NOT_FOUND", err)
		return
	}

	ranked := analysis.RankBySpread(byBus)
	if req.Limit < len(ranked) {
		ranked = ranked[:req.Limit]
	}
	c.JSON(http.StatusOK, models.PricesResponse{
		RunDir: req.RunDir,
		Buses:  ranked,
	})
}
