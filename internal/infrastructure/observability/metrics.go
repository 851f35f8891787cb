package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all application metrics
type Metrics struct {
	// Transaction metrics
	TransactionsCreated *prometheus.CounterVec
	WebhooksProcessed   *prometheus.CounterVec
	TransactionsExpired prometheus.Counter

	// Callback metrics
	CallbackDeliveries *prometheus.CounterVec
	CallbackDuration   prometheus.Histogram

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Worker metrics
	WorkerMessagesProcessed *prometheus.CounterVec
}

// NewMetrics creates and registers all metrics against the given registry.
// If reg is nil, prometheus.DefaultRegisterer is used.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := prometheus.WrapRegistererWith(nil, reg)

	m := &Metrics{
		TransactionsCreated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transactions_created_total",
				Help:      "Total number of creation requests by result (created or reused)",
			},
			[]string{"result"},
		),
		WebhooksProcessed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "webhooks_processed_total",
				Help:      "Total number of provider webhooks by resulting status",
			},
			[]string{"status"},
		),
		TransactionsExpired: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transactions_expired_total",
				Help:      "Total number of pending transactions expired by the sweeper",
			},
		),
		CallbackDeliveries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "callback_deliveries_total",
				Help:      "Total number of callback delivery attempts by outcome",
			},
			[]string{"outcome"},
		),
		CallbackDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "callback_duration_seconds",
				Help:      "Callback delivery duration in seconds",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
		),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		WorkerMessagesProcessed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "worker_messages_processed_total",
				Help:      "Total number of worker messages processed",
			},
			[]string{"stream", "status"},
		),
	}

	// Register all collectors
	factory.MustRegister(
		m.TransactionsCreated,
		m.WebhooksProcessed,
		m.TransactionsExpired,
		m.CallbackDeliveries,
		m.CallbackDuration,
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.WorkerMessagesProcessed,
	)

	return m
}
