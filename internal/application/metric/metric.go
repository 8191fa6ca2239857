package metric

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request handling time in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint", "status"},
	)

	httpErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_errors_total",
			Help: "Total number of HTTP errors",
		},
		[]string{"method", "endpoint", "status"},
	)

	channelTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "channel_transitions_total",
			Help: "Membership transitions applied, by operation and outcome",
		},
		[]string{"op", "outcome"},
	)

	auditDegradedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "moderation_audit_degraded_total",
			Help: "Ban audit records that could not be persisted",
		},
	)

	wsActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ws_active_connections",
			Help: "Number of active WebSocket subscriptions",
		},
	)
)

// RecordHTTPMetrics records counters and duration for a finished HTTP request.
func RecordHTTPMetrics(method, endpoint string, status int, duration time.Duration) {
	strStatus := strconv.Itoa(status)

	httpRequestsTotal.WithLabelValues(method, endpoint, strStatus).Inc()
	httpRequestDuration.WithLabelValues(method, endpoint, strStatus).Observe(duration.Seconds())

	if status >= 400 {
		httpErrorsTotal.WithLabelValues(method, endpoint, strStatus).Inc()
	}
}

// RecordTransition counts one membership transition attempt.
func RecordTransition(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}

	channelTransitionsTotal.WithLabelValues(op, outcome).Inc()
}

// RecordAuditDegraded counts a ban whose audit record was lost.
func RecordAuditDegraded() {
	auditDegradedTotal.Inc()
}

func IncrementWSActiveConnections() {
	wsActiveConnections.Inc()
}

func DecrementWSActiveConnections() {
	wsActiveConnections.Dec()
}
