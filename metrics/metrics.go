// Package metrics provides Prometheus metrics for the ingestion pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RunsTotal counts fetch-all runs by trigger and outcome.
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "newsdash",
			Name:      "fetch_runs_total",
			Help:      "Total number of fetch-all runs",
		},
		[]string{"trigger", "status"},
	)

	// RunDuration measures fetch-all run duration.
	RunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "newsdash",
			Name:      "fetch_run_duration_seconds",
			Help:      "Duration of fetch-all runs in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
		},
	)

	// SourcesTotal counts per-source fetch attempts.
	SourcesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "newsdash",
			Name:      "source_fetches_total",
			Help:      "Total number of source fetch attempts",
		},
		[]string{"status"},
	)

	// ArticlesStored counts upserted articles per source.
	ArticlesStored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "newsdash",
			Name:      "articles_stored_total",
			Help:      "Total number of articles upserted",
		},
		[]string{"source"},
	)

	// ItemsSkipped counts feed items that did not become articles.
	ItemsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "newsdash",
			Name:      "items_skipped_total",
			Help:      "Total number of feed items skipped",
		},
		[]string{"reason"},
	)
)

// Skip reasons.
const (
	ReasonExtractFailed = "extract_failed"
	ReasonTooShort      = "too_short"
	ReasonStoreFailed   = "store_failed"
)

// RecordRun records a finished fetch-all run.
func RecordRun(trigger, status string, seconds float64) {
	RunsTotal.WithLabelValues(trigger, status).Inc()
	RunDuration.Observe(seconds)
}

// RecordSource records a source fetch attempt.
func RecordSource(ok bool) {
	status := "ok"
	if !ok {
		status = "failed"
	}
	SourcesTotal.WithLabelValues(status).Inc()
}

// RecordSkip records a skipped feed item.
func RecordSkip(reason string) {
	ItemsSkipped.WithLabelValues(reason).Inc()
}

// RecordStored records a stored article.
func RecordStored(source string) {
	ArticlesStored.WithLabelValues(source).Inc()
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
