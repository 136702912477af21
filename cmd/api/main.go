package main

import (
	"log/slog"
	"os"

	"gridsim/internal/api/handlers"
	"gridsim/internal/api/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	port := os.Getenv("API_PORT")
	if port == "" {
		port = "8080"
	}
	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	router := gin.New()
	router.Use(middleware.CORS())
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	simulateHandler := handlers.NewSimulateHandler(nil)
	caseHandler := handlers.NewCaseHandler()
	pricesHandler := handlers.NewPricesHandler()

	api := router.Group("/api/v1")
	{
		api.POST("/simulate", simulateHandler.Run)
		api.POST("/case/summary", caseHandler.Summary)
		api.GET("/prices", pricesHandler.Rank)
	}

	addr := ":" + port
	slog.Info("starting api server", "addr", addr)
	if err := router.Run(addr); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}
