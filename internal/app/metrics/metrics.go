package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts pipeline activity for the /metrics endpoint.
type Metrics struct {
	RunsTotal     *prometheus.CounterVec
	CacheLookups  *prometheus.CounterVec
	StageDuration *prometheus.HistogramVec
}

// New registers the pipeline collectors on reg. Pass a fresh registry in
// tests to avoid duplicate registration.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "clipnotes_pipeline_runs_total",
			Help: "Pipeline runs by terminal state.",
		}, []string{"state"}),
		CacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "clipnotes_cache_lookups_total",
			Help: "Cache lookups by outcome (hit, partial, miss).",
		}, []string{"outcome"}),
		StageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "clipnotes_stage_duration_seconds",
			Help:    "Wall-clock duration of pipeline stages.",
			Buckets: prometheus.ExponentialBuckets(0.01, 4, 10),
		}, []string{"stage"}),
	}
}

// NewNop returns metrics bound to a throwaway registry, for tests and
// callers that do not expose /metrics.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}
