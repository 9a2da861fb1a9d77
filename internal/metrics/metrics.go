package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Fetch outcomes.
const (
	OutcomeSuccess       = "success"
	OutcomeTimeout       = "timeout"
	OutcomeMissingSymbol = "missing_symbol"
	OutcomeInvalidValue  = "invalid_value"
	OutcomeFailed        = "failed"
	OutcomeDeriveError   = "derive_error"
)

// Response sources.
const (
	SourceCache       = "cache"
	SourceLive        = "live"
	SourceStale       = "stale"
	SourceDatabase    = "database"
	SourceUnavailable = "unavailable"
)

type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	RateRequestsTotal       prometheus.Counter
	ConversionRequestsTotal prometheus.Counter

	RateFetchesTotal   *prometheus.CounterVec
	RateFetchDuration  prometheus.Histogram
	RateResponsesTotal *prometheus.CounterVec
}

// NewMetrics registers the collectors with reg. Tests pass a fresh registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"path", "method", "status_code"},
		),

		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"path", "method"},
		),

		RateRequestsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "rate_requests_total",
				Help: "Total number of exchange rate requests",
			},
		),

		ConversionRequestsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "conversion_requests_total",
				Help: "Total number of currency conversion requests",
			},
		),

		RateFetchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rate_fetches_total",
				Help: "Remote rate feed fetches by outcome",
			},
			[]string{"outcome"},
		),

		RateFetchDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "rate_fetch_duration_seconds",
				Help:    "Remote rate feed fetch duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),

		RateResponsesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rate_responses_total",
				Help: "Rate lookups by the source that answered them",
			},
			[]string{"source"},
		),
	}
}
