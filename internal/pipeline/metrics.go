package pipeline

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	invocationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "phiredact_invocations_total",
			Help: "Total number of pipeline invocations",
		},
		[]string{"status"}, // ok, error
	)

	invocationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "phiredact_invocation_duration_seconds",
			Help:    "End-to-end invocation duration in seconds",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"status"},
	)

	stageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "phiredact_stage_duration_seconds",
			Help:    "Per-stage duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"stage"},
	)

	regionsRedacted = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "phiredact_regions_redacted",
			Help:    "Number of regions redacted per invocation",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100},
		},
	)

	lineFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "phiredact_line_classification_failures_total",
			Help: "Total detected lines skipped after classification failures",
		},
	)
)

func observeInvocation(status string, elapsed time.Duration) {
	invocationsTotal.WithLabelValues(status).Inc()
	invocationDuration.WithLabelValues(status).Observe(elapsed.Seconds())
}

func observeStage(stage Stage, start time.Time) {
	stageDuration.WithLabelValues(string(stage)).Observe(time.Since(start).Seconds())
}
