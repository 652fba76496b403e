// Package metrics exposes Prometheus metrics for the API.
//
// Metrics live in a private registry so tests can build as many
// instances as they need. Every method is safe on a nil *Metrics,
// which is what callers get when metrics are disabled.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "aurelia"

// Inquiry results.
const (
	ResultStored      = "stored"
	ResultInvalid     = "invalid"
	ResultUnavailable = "unavailable"
	ResultFailed      = "failed"
)

// Reasons the projects listing served the fallback set.
const (
	FallbackNoDatabase   = "no_database"
	FallbackNoCollection = "no_collection"
	FallbackEmpty        = "empty"
	FallbackStoreError   = "store_error"
	FallbackMappingError = "mapping_error"
	FallbackUnexpected   = "unexpected"
)

// Inquiry notification enqueue results.
const (
	NotificationEnqueued   = "enqueued"
	NotificationEnqueueErr = "error"
)

// Metrics holds the API collectors and their registry.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	inquiries        *prometheus.CounterVec
	projectsServed   *prometheus.CounterVec
	projectFallbacks *prometheus.CounterVec
	notifications    *prometheus.CounterVec
}

// New registers the API collectors, plus Go runtime and process
// collectors, in a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		httpRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		inquiries: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inquiries_total",
			Help:      "Contact form submissions by result.",
		}, []string{"result"}),
		projectsServed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "project_listings_total",
			Help:      "Project listings served, by origin (database or fallback).",
		}, []string{"origin"}),
		projectFallbacks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "project_fallbacks_total",
			Help:      "Project listings that served the fallback set, by reason.",
		}, []string{"reason"}),
		notifications: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inquiry_notifications_total",
			Help:      "Inquiry notification jobs by enqueue result.",
		}, []string{"result"}),
	}
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveHTTPRequest records one served request.
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// InquiryResult counts a contact form submission.
func (m *Metrics) InquiryResult(result string) {
	if m == nil {
		return
	}
	m.inquiries.WithLabelValues(result).Inc()
}

// ProjectsFromDatabase counts a listing served from the store.
func (m *Metrics) ProjectsFromDatabase() {
	if m == nil {
		return
	}
	m.projectsServed.WithLabelValues("database").Inc()
}

// ProjectsFallback counts a listing served from the fallback set.
func (m *Metrics) ProjectsFallback(reason string) {
	if m == nil {
		return
	}
	m.projectsServed.WithLabelValues("fallback").Inc()
	m.projectFallbacks.WithLabelValues(reason).Inc()
}

// NotificationResult counts an inquiry notification enqueue attempt.
func (m *Metrics) NotificationResult(result string) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(result).Inc()
}
