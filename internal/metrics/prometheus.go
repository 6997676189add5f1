// Package metrics provides the Prometheus-backed implementation of the
// ledger's MetricsCollector.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusCollector implements wallet.MetricsCollector.
type PrometheusCollector struct {
	transactions  *prometheus.CounterVec
	volume        *prometheus.CounterVec
	errors        *prometheus.CounterVec
	verifications *prometheus.CounterVec
	jobDuration   *prometheus.HistogramVec
}

// NewPrometheusCollector registers the ledger metrics with reg (or the
// default registerer when nil).
func NewPrometheusCollector(reg prometheus.Registerer) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &PrometheusCollector{
		transactions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "centime_transactions_total",
			Help: "Committed transactions by kind.",
		}, []string{"kind"}),
		volume: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "centime_transaction_volume",
			Help: "Total committed amount by kind.",
		}, []string{"kind"}),
		errors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "centime_operation_errors_total",
			Help: "Failed operations by operation and error kind.",
		}, []string{"operation", "error"}),
		verifications: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "centime_verifications_total",
			Help: "Verification outcomes for high-value transactions.",
		}, []string{"outcome"}),
		jobDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "centime_job_duration_seconds",
			Help:    "Background job run duration.",
			Buckets: prometheus.DefBuckets,
		}, []string{"job"}),
	}
}

func (c *PrometheusCollector) RecordTransaction(kind string, amount float64) {
	c.transactions.WithLabelValues(kind).Inc()
	c.volume.WithLabelValues(kind).Add(amount)
}

func (c *PrometheusCollector) RecordError(operation, errType string) {
	c.errors.WithLabelValues(operation, errType).Inc()
}

func (c *PrometheusCollector) RecordVerification(outcome string) {
	c.verifications.WithLabelValues(outcome).Inc()
}

func (c *PrometheusCollector) RecordJobRun(job string, duration time.Duration) {
	c.jobDuration.WithLabelValues(job).Observe(duration.Seconds())
}
