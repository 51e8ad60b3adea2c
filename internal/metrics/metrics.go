// Package metrics exposes Prometheus counters for the bot's hot paths.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus collectors used by the bot.
type Metrics struct {
	PredictionsTotal      prometheus.Counter
	PredictionErrorsTotal prometheus.Counter
	QuotaDeniedTotal      prometheus.Counter
	CacheHitsTotal        prometheus.Counter
	ComposeDuration       prometheus.Histogram
}

// NewMetrics creates and registers all collectors on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		PredictionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "candlesage_predictions_total",
			Help: "Total number of predictions served.",
		}),
		PredictionErrorsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "candlesage_prediction_errors_total",
			Help: "Total number of failed prediction requests.",
		}),
		QuotaDeniedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "candlesage_quota_denied_total",
			Help: "Total number of requests denied by the daily quota.",
		}),
		CacheHitsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "candlesage_cache_hits_total",
			Help: "Total number of predictions served from cache.",
		}),
		ComposeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "candlesage_compose_duration_seconds",
			Help:    "Time spent composing one prediction.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(
		m.PredictionsTotal,
		m.PredictionErrorsTotal,
		m.QuotaDeniedTotal,
		m.CacheHitsTotal,
		m.ComposeDuration,
	)
	return m
}
