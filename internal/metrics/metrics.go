package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	HTTPInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "projecthub",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "projecthub",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "projecthub",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "route"},
	)

	// ProjectTransitions counts lifecycle moves by the status entered, plus
	// rejected attempts under result="terminal" or result="conflict".
	ProjectTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "projecthub",
			Subsystem: "projects",
			Name:      "status_transitions_total",
			Help:      "Project status advance attempts by target status and result.",
		},
		[]string{"status", "result"},
	)

	MailDeliveries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "projecthub",
			Subsystem: "mail",
			Name:      "deliveries_total",
			Help:      "Outgoing mails by template and result.",
		},
		[]string{"template", "result"},
	)

	AuthEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "projecthub",
			Subsystem: "auth",
			Name:      "events_total",
			Help:      "Authentication events by kind and result.",
		},
		[]string{"event", "result"},
	)
)

func init() {
	Registry.MustRegister(
		HTTPInFlight,
		HTTPRequests,
		HTTPDuration,
		ProjectTransitions,
		MailDeliveries,
		AuthEvents,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
