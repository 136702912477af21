package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	"gridsim/internal/api/models"

	"github.com/gin-gonic/gin"
)

// Recovery converts panics into a JSON 500 so a malformed case or a solver
// crash cannot take the whole server down mid-request.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		msg := "an unexpected error occurred"
		switch v := recovered.(type) {
		case string:
			msg = v
		case error:
			msg = v.Error()
		case fmt.Stringer:
			msg = v.String()
		}
		slog.Error("request panic", "path", c.Request.URL.Path, "panic", msg)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INTERNAL_ERROR",
				Message: msg,
			},
		})
		c.Abort()
	})
}
