// Package metrics holds the Prometheus collectors shared across the
// discovery service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DefaultBuckets provides a common set of histogram buckets in seconds that can
// be reused across the application for latency metrics.
var DefaultBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10} //nolint: gochecknoglobals

//nolint: gochecknoglobals
var (
	// ProviderFailures counts LM provider failures by provider name and
	// failure class (the serrors provider kind string).
	ProviderFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "discovery",
		Subsystem: "llm",
		Name:      "provider_failures_total",
		Help:      "LM provider failures by provider and failure class.",
	}, []string{"provider", "class"})

	// FallbackActivations counts how often a judgment had to move past the
	// preferred provider, by judging role.
	FallbackActivations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "discovery",
		Subsystem: "llm",
		Name:      "fallback_activations_total",
		Help:      "Judgments serviced by a non-preferred provider, by role.",
	}, []string{"role"})

	// PatternFallbacks counts judgments that degraded all the way to the
	// deterministic pattern judge.
	PatternFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "discovery",
		Subsystem: "llm",
		Name:      "pattern_fallbacks_total",
		Help:      "Judgments serviced by the deterministic pattern judge, by role.",
	}, []string{"role"})

	// PipelineDuration observes end-to-end discovery pipeline latency.
	PipelineDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "discovery",
		Subsystem: "pipeline",
		Name:      "duration_seconds",
		Help:      "End-to-end discovery pipeline latency.",
		Buckets:   DefaultBuckets,
	})

	// BrandRejections counts requests stopped by the brand-recognition gate.
	BrandRejections = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "discovery",
		Subsystem: "pipeline",
		Name:      "brand_rejections_total",
		Help:      "Discovery requests rejected by the brand-recognition gate.",
	})
)
