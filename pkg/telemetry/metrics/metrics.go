// Package metrics exposes Prometheus metrics for the gateway.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics tracks gateway request processing.
//
// Metrics:
//   - <ns>_requests_total: request count by category and status
//   - <ns>_request_duration_seconds: end-to-end request duration by category
//   - <ns>_rate_limit_rejections_total: requests rejected by admission control
//   - <ns>_upstream_errors_total: upstream failures by upstream status
//
// All methods are nil-safe so callers can pass a nil *Metrics when metrics
// are disabled.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	rateLimited     prometheus.Counter
	upstreamErrors  *prometheus.CounterVec
}

// New creates and registers gateway metrics on a fresh registry.
func New(namespace string) *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,

		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "requests_total",
				Help:      "Total number of assist requests processed",
			},
			[]string{"category", "status"},
		),

		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "request_duration_seconds",
				Help:      "End-to-end duration of assist requests in seconds",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"category"},
		),

		rateLimited: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rate_limit_rejections_total",
				Help:      "Requests rejected by per-client admission control",
			},
		),

		upstreamErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "upstream_errors_total",
				Help:      "Upstream completion failures by upstream HTTP status",
			},
			[]string{"status"},
		),
	}

	registry.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.rateLimited,
		m.upstreamErrors,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// RecordRequest records one completed assist request.
func (m *Metrics) RecordRequest(category, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(category, status).Inc()
	m.requestDuration.WithLabelValues(category).Observe(duration.Seconds())
}

// RecordRateLimited records a request rejected by admission control.
func (m *Metrics) RecordRateLimited() {
	if m == nil {
		return
	}
	m.rateLimited.Inc()
}

// RecordUpstreamError records an upstream failure by status label
// (e.g. "429", "unavailable").
func (m *Metrics) RecordUpstreamError(status string) {
	if m == nil {
		return
	}
	m.upstreamErrors.WithLabelValues(status).Inc()
}

// Handler returns the HTTP handler serving the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
