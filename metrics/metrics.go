package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RequestDuration tracks HTTP request duration in seconds by method, route pattern, status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "usermgmt_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts HTTP requests by method, route pattern, status.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "usermgmt_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// AuditEntriesTotal counts audit log entries written by action.
	AuditEntriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "usermgmt_audit_entries_total",
			Help: "Total number of audit log entries written",
		},
		[]string{"action"},
	)
)

// UnmatchedRoute labels requests that matched no registered route
const UnmatchedRoute = "unmatched"

var registerOnce sync.Once

// Register adds the collectors to the default registry. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(RequestDuration, RequestTotal, AuditEntriesTotal)
	})
}

// RecordRequest records duration and count for an HTTP request.
// route is the matched route pattern, e.g. /users/{id}/view; an empty
// route is recorded as UnmatchedRoute.
func RecordRequest(method, route string, statusCode int, durationSeconds float64) {
	if route == "" {
		route = UnmatchedRoute
	}
	status := strconv.Itoa(statusCode)
	RequestDuration.WithLabelValues(method, route, status).Observe(durationSeconds)
	RequestTotal.WithLabelValues(method, route, status).Inc()
}

// IncAuditEntries counts one written audit entry
func IncAuditEntries(action string) {
	AuditEntriesTotal.WithLabelValues(action).Inc()
}
