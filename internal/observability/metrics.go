package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors of the service. A nil *Metrics
// is valid and records nothing.
type Metrics struct {
	requestTotal    *prometheus.CounterVec
	requestLatency  *prometheus.HistogramVec
	errorTotal      *prometheus.CounterVec
	notifications   *prometheus.CounterVec
	eventsPublished *prometheus.CounterVec
}

// NewMetrics registers collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requestTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "http_requests_total", Help: "Total number of HTTP requests."},
			[]string{"route", "method", "status"},
		),
		requestLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),
		errorTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "http_errors_total", Help: "HTTP error responses by domain error code."},
			[]string{"route", "method", "code"},
		),
		notifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "notifications_total", Help: "Notification writes by kind and outcome."},
			[]string{"kind", "outcome"},
		),
		eventsPublished: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "ticket_events_published_total", Help: "Ticket events forwarded to the broker."},
			[]string{"event_type", "outcome"},
		),
	}
	reg.MustRegister(m.requestTotal, m.requestLatency, m.errorTotal, m.notifications, m.eventsPublished)
	return m
}

// RecordRequest counts a finished request.
func (m *Metrics) RecordRequest(route, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.requestLatency.WithLabelValues(route, method).Observe(duration.Seconds())
}

// RecordError counts an error response.
func (m *Metrics) RecordError(route, method, code string) {
	if m == nil {
		return
	}
	m.errorTotal.WithLabelValues(route, method, code).Inc()
}

// RecordNotification counts a notification write attempt.
func (m *Metrics) RecordNotification(kind string, err error) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(kind, outcome(err)).Inc()
}

// RecordEventPublished counts a broker publish attempt.
func (m *Metrics) RecordEventPublished(eventType string, err error) {
	if m == nil {
		return
	}
	m.eventsPublished.WithLabelValues(eventType, outcome(err)).Inc()
}

func outcome(err error) string {
	if err != nil {
		return "failed"
	}
	return "ok"
}
