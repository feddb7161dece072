// Package metrics exposes the Prometheus instruments of the dashboard.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	FetchHistogram = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pharmadash_fetch_seconds",
			Help:    "Latency of a full table fetch.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 10),
		},
		[]string{"table", "source"},
	)

	RenderCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pharmadash_renders_total",
			Help: "Dashboard renders by view and outcome.",
		},
		[]string{"view", "outcome"},
	)

	StageErrorCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pharmadash_stage_errors_total",
			Help: "Render failures by pipeline stage.",
		},
		[]string{"stage"},
	)
)

// InstrumentFetch starts a timer for one table fetch. Call the returned
// function when the fetch completes.
func InstrumentFetch(table, source string) func() time.Duration {
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		FetchHistogram.WithLabelValues(table, source).Observe(v)
	}))
	return timer.ObserveDuration
}

// RecordRender counts one render of view
func RecordRender(view string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	RenderCounter.WithLabelValues(view, outcome).Inc()
}

// RecordStageError counts a failure attributed to stage
func RecordStageError(stage string) {
	StageErrorCounter.WithLabelValues(stage).Inc()
}
