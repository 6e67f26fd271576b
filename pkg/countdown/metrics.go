package countdown

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Result labels for solvesTotal.
const (
	resultOptimal    = "optimal"
	resultLimit      = "limit"
	resultCanceled   = "canceled"
	resultInfeasible = "infeasible"
)

var (
	// solvesTotal counts solve calls by mode and outcome.
	solvesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "countdown_solves_total",
		Help: "Total solve calls by mode and result",
	}, []string{"mode", "result"})

	solveDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "countdown_solve_duration_seconds",
		Help:    "Solve call duration",
		Buckets: []float64{0.0001, 0.001, 0.01, 0.05, 0.1, 0.5, 1, 5},
	}, []string{"mode"})

	searchNodes = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "countdown_search_nodes",
		Help:    "Search nodes explored per solve call",
		Buckets: prometheus.ExponentialBuckets(10, 4, 10),
	}, []string{"mode"})
)

func observeSolve(mode, result string, stats *SearchStats) {
	solvesTotal.WithLabelValues(mode, result).Inc()
	solveDuration.WithLabelValues(mode).Observe(stats.SearchTime.Seconds())
	searchNodes.WithLabelValues(mode).Observe(float64(stats.NodesExplored))
}
