package service

import (
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/DaniOmer/planning-automation-backend/internal/models"
)

// MetricsService wraps the Prometheus collectors for solver activity and
// keeps lightweight counters for snapshot consumers.
type MetricsService struct {
	registry       *prometheus.Registry
	solvesTotal    *prometheus.CounterVec
	solveDuration  prometheus.Histogram
	modelVariables prometheus.Histogram

	solveCount    uint64
	feasibleCount uint64
}

// NewMetricsService registers the solver collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	solvesTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "planner_solves_total",
		Help: "Total solve invocations by terminal status",
	}, []string{"status"})

	solveDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "planner_solve_duration_seconds",
		Help:    "Wall-clock duration of solve invocations",
		Buckets: prometheus.DefBuckets,
	})

	modelVariables := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "planner_model_variables",
		Help:    "Decision variable count per constructed model",
		Buckets: prometheus.ExponentialBuckets(64, 4, 10),
	})

	registry.MustRegister(solvesTotal, solveDuration, modelVariables)

	return &MetricsService{
		registry:       registry,
		solvesTotal:    solvesTotal,
		solveDuration:  solveDuration,
		modelVariables: modelVariables,
	}
}

// ObserveSolve records the outcome of one solve invocation.
func (m *MetricsService) ObserveSolve(status string, duration time.Duration, variables int) {
	if m == nil {
		return
	}
	m.solvesTotal.WithLabelValues(status).Inc()
	m.solveDuration.Observe(duration.Seconds())
	m.modelVariables.Observe(float64(variables))

	atomic.AddUint64(&m.solveCount, 1)
	if status == string(models.StatusFeasible) {
		atomic.AddUint64(&m.feasibleCount, 1)
	}
}

// Registry exposes the collector registry for scraping setups.
func (m *MetricsService) Registry() *prometheus.Registry {
	return m.registry
}

// MetricsSnapshot is a cheap point-in-time view for diagnostics.
type MetricsSnapshot struct {
	Solves   uint64 `json:"solves"`
	Feasible uint64 `json:"feasible"`
}

// Snapshot returns current counter values.
func (m *MetricsService) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		Solves:   atomic.LoadUint64(&m.solveCount),
		Feasible: atomic.LoadUint64(&m.feasibleCount),
	}
}
