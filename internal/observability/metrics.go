// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Pipeline metrics
	EventsProcessed    *prometheus.CounterVec
	EventsDropped      *prometheus.CounterVec
	EstimatorFallbacks prometheus.Counter
	HolderBuys         *prometheus.CounterVec

	// Enrichment metrics
	LookupFailures *prometheus.CounterVec
	LookupLatency  *prometheus.HistogramVec
	TokenCacheHits prometheus.Counter
	TokenCacheMiss prometheus.Counter

	// Delivery metrics
	AlertsPublished prometheus.Counter
	PublishErrors   *prometheus.CounterVec
	RecordsLogged   *prometheus.CounterVec

	// Relay metrics
	RelayMessages   prometheus.Counter
	RelaySkipped    *prometheus.CounterVec
	RelayReconnects prometheus.Counter

	// OHLCV metrics
	CandlesFetched    prometheus.Counter
	SummariesComputed prometheus.Counter

	// Health metrics
	LastEventTimestamp prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "wallet_alerts"
	}

	return &Metrics{
		EventsProcessed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "events_processed_total",
			Help:      "Total number of classified events by kind",
		}, []string{"kind"}),
		EventsDropped: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "events_dropped_total",
			Help:      "Total number of dropped events by reason",
		}, []string{"reason"}),
		EstimatorFallbacks: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "estimator_fallbacks_total",
			Help:      "Total number of events whose SOL amount used a fallback constant",
		}),
		HolderBuys: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "holder_buys_total",
			Help:      "Total number of buys by holder type",
		}, []string{"holder_type"}),

		LookupFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "enrichment",
			Name:      "lookup_failures_total",
			Help:      "Total number of failed external lookups by source",
		}, []string{"source"}),
		LookupLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "enrichment",
			Name:      "lookup_latency_seconds",
			Help:      "External lookup latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"source"}),
		TokenCacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "enrichment",
			Name:      "token_cache_hits_total",
			Help:      "Total number of token info cache hits",
		}),
		TokenCacheMiss: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "enrichment",
			Name:      "token_cache_misses_total",
			Help:      "Total number of token info cache misses",
		}),

		AlertsPublished: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notify",
			Name:      "alerts_published_total",
			Help:      "Total number of alerts published",
		}),
		PublishErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notify",
			Name:      "publish_errors_total",
			Help:      "Total number of publish errors by sink",
		}, []string{"sink"}),
		RecordsLogged: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "records_logged_total",
			Help:      "Total number of audit records written by store",
		}, []string{"store"}),

		RelayMessages: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "relay",
			Name:      "messages_total",
			Help:      "Total number of relay messages received",
		}),
		RelaySkipped: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "relay",
			Name:      "messages_skipped_total",
			Help:      "Total number of relay messages skipped by reason",
		}, []string{"reason"}),
		RelayReconnects: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "relay",
			Name:      "reconnects_total",
			Help:      "Total number of relay reconnects",
		}),

		CandlesFetched: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ohlcv",
			Name:      "candles_fetched_total",
			Help:      "Total number of OHLCV candles fetched",
		}),
		SummariesComputed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ohlcv",
			Name:      "summaries_computed_total",
			Help:      "Total number of profit/loss summaries computed",
		}),

		LastEventTimestamp: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_event_timestamp",
			Help:      "Unix timestamp of the last processed event",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
