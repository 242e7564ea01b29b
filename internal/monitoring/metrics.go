// Package monitoring exposes the service's Prometheus surface. Breaker
// gauges are sampled on scrape via BreakerCollector rather than pushed,
// so the core stays free of reporting schedules.
package monitoring

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the HTTP-level Prometheus metrics.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ErrorsTotal     prometheus.Counter
	FallbacksTotal  prometheus.Counter
}

// NewMetrics registers the HTTP metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bdget_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bdget_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		ErrorsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "bdget_http_errors_total",
				Help: "Total number of HTTP responses with status >= 500",
			},
		),
		FallbacksTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "bdget_fallback_responses_total",
				Help: "Total number of degraded fallback responses served",
			},
		),
	}
}

// RecordRequest tracks one completed HTTP request.
func (m *Metrics) RecordRequest(method, path string, status int, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	if status >= 500 {
		m.ErrorsTotal.Inc()
	}
}
