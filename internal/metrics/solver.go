package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "palletfit"

// SolverMetrics records solver runs.
type SolverMetrics struct {
	solves   *prometheus.CounterVec
	duration *prometheus.HistogramVec
	nodes    *prometheus.CounterVec
}

// NewSolverMetrics creates the solver collectors and registers them with reg.
func NewSolverMetrics(reg prometheus.Registerer) *SolverMetrics {
	m := &SolverMetrics{
		solves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "solver",
			Name:      "solves_total",
			Help:      "Solver invocations by backend and terminal status.",
		}, []string{"backend", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "solver",
			Name:      "solve_duration_seconds",
			Help:      "Wall time spent inside the solver.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"backend"}),
		nodes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "solver",
			Name:      "nodes_total",
			Help:      "Search nodes explored by in-process backends.",
		}, []string{"backend"}),
	}
	reg.MustRegister(m.solves, m.duration, m.nodes)
	return m
}

// Observe records one solve.
func (m *SolverMetrics) Observe(backend, status string, d time.Duration, nodes int) {
	m.solves.WithLabelValues(backend, status).Inc()
	m.duration.WithLabelValues(backend).Observe(d.Seconds())
	if nodes > 0 {
		m.nodes.WithLabelValues(backend).Add(float64(nodes))
	}
}
