package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeOK      = "ok"
	OutcomeNoCases = "no_cases"
	OutcomeError   = "error"
)

var (
	Runs = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "exposuresim_runs_total",
		Help: "Total number of simulation runs, labelled by outcome.",
	}, []string{"outcome"})

	Individuals = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "exposuresim_individuals_total",
		Help: "Individuals produced by completed runs, labelled by case or control.",
	}, []string{"status"})

	Moves = promauto.NewCounter(prometheus.CounterOpts{
		Name: "exposuresim_moves_total",
		Help: "Total number of relocations performed.",
	})

	RunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "exposuresim_run_duration_seconds",
		Help:    "Wall time of a single simulation run.",
		Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
	})

	BatchInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "exposuresim_batch_runs_in_flight",
		Help: "Simulation runs currently executing inside a batch.",
	})
)
