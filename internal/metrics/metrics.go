package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// NotificationsTotal counts IPN notifications by reconciliation outcome.
	NotificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ipn_notifications_total",
			Help: "Total IPN notifications received, by processing outcome",
		},
		[]string{"outcome"},
	)

	// LogWriteFailures counts best-effort IPN log writes that failed. The
	// webhook still acknowledges 200 when this fires.
	LogWriteFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ipn_log_write_failures_total",
			Help: "Total failed writes to the IPN log file",
		},
	)

	// RefundsTotal counts refund API calls by result.
	RefundsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "refunds_total",
			Help: "Total refund requests sent to the processor, by result",
		},
		[]string{"result"},
	)

	// HTTPRequestsTotal counts HTTP requests by handler, method and status.
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"handler", "method", "status"},
	)

	// HTTPRequestDuration observes HTTP request latency per handler.
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"handler", "method"},
	)
)

func init() {
	prometheus.MustRegister(
		NotificationsTotal,
		LogWriteFailures,
		RefundsTotal,
		HTTPRequestsTotal,
		HTTPRequestDuration,
	)
}
