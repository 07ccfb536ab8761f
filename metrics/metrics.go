// Package metrics provides Prometheus metrics for the comparison API.
// HTTP metrics:
//   - http_request_total: Counter with method, path, and status labels
//   - http_request_duration_seconds: Histogram with method and path labels
//   - http_request_in_flight: Gauge for concurrent requests
//
// Domain metrics:
//   - nlp_requests_total: Counter with outcome label (success, failure, cancelled, cache_hit)
//   - nlp_request_duration_seconds: Histogram of upstream extraction latency
//   - comparisons_total: Counter with result label (caution, clear, failed)
//   - analysis_cache_entries: Gauge of entries held by the memory cache
//
// All metrics are registered with the Prometheus default registry during
// package initialization.
package metrics

import "github.com/prometheus/client_golang/prometheus"

const (
	OutcomeSuccess   = "success"
	OutcomeFailure   = "failure"
	OutcomeCancelled = "cancelled"
	OutcomeCacheHit  = "cache_hit"

	ResultCaution = "caution"
	ResultClear   = "clear"
	ResultFailed  = "failed"
)

var (
	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	HTTPRequestInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_request_in_flight",
			Help: "Current in-flight requests",
		},
	)

	RateLimiterBucketsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rate_limiter_buckets_total",
			Help: "Total number of rate limiter buckets (IPs seen in last ~5 minutes)",
		},
	)

	NLPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nlp_requests_total",
			Help: "Medicine analyses by outcome",
		},
		[]string{"outcome"},
	)

	NLPRequestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "nlp_request_duration_seconds",
			Help:    "Upstream entity extraction latency",
			Buckets: []float64{.05, .1, .25, .5, 1, 2, 5, 10, 15, 30},
		},
	)

	ComparisonsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "comparisons_total",
			Help: "Medicine comparisons by result",
		},
		[]string{"result"},
	)

	AnalysisCacheEntries = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "analysis_cache_entries",
			Help: "Entries held by the in-memory analysis cache",
		},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestTotals)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestInFlight)
	prometheus.MustRegister(RateLimiterBucketsTotal)
	prometheus.MustRegister(NLPRequestsTotal)
	prometheus.MustRegister(NLPRequestDuration)
	prometheus.MustRegister(ComparisonsTotal)
	prometheus.MustRegister(AnalysisCacheEntries)
}
