package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors of the bridge.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	CarrierErrors   *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg. A nil reg
// means the default registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aramex_requests_total",
				Help: "Total number of Aramex operations by operation, environment, and status",
			},
			[]string{"operation", "environment", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "aramex_request_duration_seconds",
				Help:    "Aramex operation duration in seconds by operation and environment",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "environment"},
		),
		CarrierErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aramex_errors_total",
				Help: "Total failed Aramex operations by operation and error kind",
			},
			[]string{"operation", "kind"},
		),
	}
}

// RecordRequest records one finished operation.
func (m *Metrics) RecordRequest(operation, environment, status string, elapsed time.Duration) {
	m.RequestsTotal.WithLabelValues(operation, environment, status).Inc()
	m.RequestDuration.WithLabelValues(operation, environment).Observe(elapsed.Seconds())
}

// RecordError records a failed operation by error kind.
func (m *Metrics) RecordError(operation, kind string) {
	m.CarrierErrors.WithLabelValues(operation, kind).Inc()
}
