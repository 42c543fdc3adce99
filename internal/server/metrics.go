package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	jobsStarted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hive_optimizations_started_total",
		Help: "Optimization jobs started, by algorithm.",
	}, []string{"algorithm"})

	jobsFinished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hive_optimizations_finished_total",
		Help: "Optimization jobs finished, by algorithm and outcome.",
	}, []string{"algorithm", "status"})

	jobIterations = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "hive_optimization_iterations",
		Help:    "Generations run per completed optimization job.",
		Buckets: prometheus.ExponentialBuckets(10, 2, 10),
	})

	jobBestFitness = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "hive_optimization_best_fitness",
		Help:    "Final best fitness of completed optimization jobs.",
		Buckets: prometheus.ExponentialBuckets(1e-6, 10, 12),
	})
)
