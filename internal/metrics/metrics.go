// Package metrics provides the centralized Prometheus registry for the
// probability pipeline.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pitch_prophet",
		Name:      "http_requests_total",
		Help:      "Total outbound HTTP requests by client",
	}, []string{"client"})
	HTTPRequestErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pitch_prophet",
		Name:      "http_request_errors_total",
		Help:      "Total failed outbound HTTP requests by client",
	}, []string{"client"})
	RateLimiterWaitsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pitch_prophet",
		Name:      "rate_limiter_waits_total",
		Help:      "Total rate limiter waits by client",
	}, []string{"client"})
	OperationRetriesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pitch_prophet",
		Name:      "operation_retries_total",
		Help:      "Total retried store/API operations",
	})
	EventsCreatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pitch_prophet",
		Name:      "events_created_total",
		Help:      "Total fixture events created by the ingestor",
	})
	MatchesCreatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pitch_prophet",
		Name:      "matches_created_total",
		Help:      "Total historical matches created by the ingestor",
	})
	ProbabilitiesWrittenTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pitch_prophet",
		Name:      "probabilities_written_total",
		Help:      "Total probability rows written",
	})
	IngestDuplicatesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pitch_prophet",
		Name:      "ingest_duplicates_total",
		Help:      "Total fixtures/matches skipped as duplicates",
	})
	AnalysisRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pitch_prophet",
		Name:      "analysis_requests_total",
		Help:      "Total probability analyses by strategy",
	}, []string{"strategy"})
	AnalysisFallbacksTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pitch_prophet",
		Name:      "analysis_fallbacks_total",
		Help:      "Total model-strategy analyses that fell back to statistics",
	})
	ChatRequestsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pitch_prophet",
		Name:      "chat_requests_total",
		Help:      "Total chat assistant requests",
	})
)

// Gauge metrics
var (
	UpcomingEvents = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "pitch_prophet",
		Name:      "upcoming_events",
		Help:      "Number of upcoming events returned by the last read",
	})
	SyncInProgress = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "pitch_prophet",
		Name:      "sync_in_progress",
		Help:      "Whether a sync run is currently in flight",
	})
)

// Histogram metrics
var (
	AnalysisDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "pitch_prophet",
		Name:      "analysis_duration_seconds",
		Help:      "Duration of a single event analysis in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"strategy"})
	SyncDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "pitch_prophet",
		Name:      "sync_duration_seconds",
		Help:      "Duration of sync runs in seconds",
		Buckets:   []float64{1, 5, 10, 30, 60, 300, 600, 1800},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(HTTPRequestsTotal)
		registry.MustRegister(HTTPRequestErrorsTotal)
		registry.MustRegister(RateLimiterWaitsTotal)
		registry.MustRegister(OperationRetriesTotal)
		registry.MustRegister(EventsCreatedTotal)
		registry.MustRegister(MatchesCreatedTotal)
		registry.MustRegister(ProbabilitiesWrittenTotal)
		registry.MustRegister(IngestDuplicatesTotal)
		registry.MustRegister(AnalysisRequestsTotal)
		registry.MustRegister(AnalysisFallbacksTotal)
		registry.MustRegister(ChatRequestsTotal)

		registry.MustRegister(UpcomingEvents)
		registry.MustRegister(SyncInProgress)

		registry.MustRegister(AnalysisDuration)
		registry.MustRegister(SyncDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}
