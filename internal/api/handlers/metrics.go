package handlers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	simulationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gridsim_simulations_total",
		Help: "Simulation requests by outcome.",
	}, []string{"status"})

	simulationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "gridsim_simulation_seconds",
		Help:    "Wall-clock duration of one simulation run.",
		Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
	})

	lastObjective = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gridsim_last_objective",
		Help: "Objective of the most recent successful run.",
	})
)
