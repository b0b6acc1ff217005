package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the gateway.
type Metrics struct {
	// Upstream marketplace API calls, labeled by resource and outcome
	// (ok, not_found, rejected, malformed, timeout, unavailable).
	UpstreamRequests *prometheus.CounterVec
	UpstreamLatency  *prometheus.HistogramVec

	// Full-collection refetches triggered after writes.
	Refetches *prometheus.CounterVec

	// Optimistic toggles that had to be rolled back.
	OptimisticReverts *prometheus.CounterVec

	// Candidate-request fallback chain probes (order-type toggle).
	FallbackAttempts *prometheus.CounterVec

	// Handled gateway requests by route, observed by the request logger.
	EndpointLatency *prometheus.HistogramVec

	AuthFailures prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		UpstreamRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "mercato_upstream_requests_total",
			Help: "Total upstream marketplace API requests by resource and outcome",
		}, []string{"resource", "outcome"}),
		UpstreamLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mercato_upstream_latency_seconds",
			Help:    "Latency of upstream marketplace API requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"resource"}),
		Refetches: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "mercato_refetches_total",
			Help: "Full-collection refetches issued after successful writes",
		}, []string{"resource"}),
		OptimisticReverts: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "mercato_optimistic_reverts_total",
			Help: "Optimistic field toggles rolled back after upstream failure",
		}, []string{"resource", "field"}),
		FallbackAttempts: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "mercato_fallback_attempts_total",
			Help: "Candidate requests probed by the order-type fallback chain",
		}, []string{"outcome"}),
		EndpointLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mercato_endpoint_latency_seconds",
			Help:    "Latency of gateway endpoints in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
		AuthFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mercato_auth_failures_total",
			Help: "Total number of rejected admin authentication attempts",
		}),
	}
}

// ObserveEndpoint records one handled gateway request.
func (m *Metrics) ObserveEndpoint(endpoint string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.EndpointLatency.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// ObserveUpstream records one upstream call.
func (m *Metrics) ObserveUpstream(resource, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.UpstreamRequests.WithLabelValues(resource, outcome).Inc()
	m.UpstreamLatency.WithLabelValues(resource).Observe(elapsed.Seconds())
}
