package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initEngineMetrics() {
	r.CascadeRunsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "contagion_cascade_runs_total",
			Help: "Total number of cascade runs",
		},
		[]string{"status"},
	)

	r.CascadeDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "contagion_cascade_duration_seconds",
			Help:    "Cascade run latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	r.CascadeSteps = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "contagion_cascade_steps",
			Help:    "Propagation rounds per cascade run, including the confirmation step",
			Buckets: []float64{1, 2, 3, 5, 10, 25, 50, 100, 500},
		},
	)

	r.CascadeFailedEntities = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "contagion_cascade_failed_entities",
			Help:    "Final failed-set size per cascade run",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100, 500, 1000},
		},
	)

	r.CriticalityRunsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "contagion_criticality_runs_total",
			Help: "Total number of criticality rankings",
		},
		[]string{"status"},
	)

	r.CriticalityDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "contagion_criticality_duration_seconds",
			Help:    "Criticality ranking latency in seconds",
			Buckets: []float64{.01, .05, .1, .5, 1, 5, 10, 30, 60},
		},
	)
}
