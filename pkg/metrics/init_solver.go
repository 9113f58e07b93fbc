package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initSolverMetrics() {
	r.SolvesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "congestion_solves_total",
			Help: "Total number of Frank-Wolfe solves by objective and outcome",
		},
		[]string{"objective", "status"},
	)

	r.SolveDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "congestion_solve_duration_seconds",
			Help:    "Frank-Wolfe solve duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"objective"},
	)

	r.SolveIterations = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "congestion_solve_iterations",
			Help:    "Iterations used per Frank-Wolfe solve",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500},
		},
		[]string{"objective"},
	)

	r.SolveRelativeGap = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "congestion_solve_relative_gap",
			Help: "Final relative gap of the most recent solve",
		},
		[]string{"objective"},
	)
}
