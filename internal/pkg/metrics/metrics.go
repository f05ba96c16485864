// Package metrics holds the prometheus collectors shared by the binaries
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry and the collectors registered on it.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	clientRequests  *prometheus.CounterVec
	clientDuration  *prometheus.HistogramVec
	serverRequests  *prometheus.CounterVec
	serverDuration  *prometheus.HistogramVec
	reconciliations *prometheus.CounterVec
	partialFailures prometheus.Counter
}

// New creates the registry and the stockroom collectors
func New() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		clientRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stockroom_api_client_requests_total",
			Help: "Backend requests issued by the client, by resource, method and status code.",
		}, []string{"resource", "method", "code"}),
		clientDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "stockroom_api_client_request_duration_seconds",
			Help:    "Latency of backend requests issued by the client.",
			Buckets: prometheus.DefBuckets,
		}, []string{"resource", "method"}),
		serverRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stockroom_fakeapi_requests_total",
			Help: "Requests served by the development backend, by route and status code.",
		}, []string{"route", "code"}),
		serverDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "stockroom_fakeapi_request_duration_seconds",
			Help:    "Latency of requests served by the development backend.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		reconciliations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stockroom_stock_reconciliations_total",
			Help: "Partial stock movement reports processed by the worker, by outcome.",
		}, []string{"outcome"}),
		partialFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stockroom_stock_partial_failures_total",
			Help: "Stock movements whose transaction record could not be written.",
		}),
	}
	registry.MustRegister(
		m.clientRequests, m.clientDuration,
		m.serverRequests, m.serverDuration,
		m.reconciliations, m.partialFailures,
	)
	m.handler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	return m
}

// Handler returns the /metrics endpoint
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Registerer exposes the registry for additional collectors
func (m *Metrics) Registerer() prometheus.Registerer {
	if m == nil {
		return prometheus.DefaultRegisterer
	}
	return m.registry
}

// Gatherer exposes the registry for inspection
func (m *Metrics) Gatherer() prometheus.Gatherer {
	if m == nil {
		return prometheus.DefaultGatherer
	}
	return m.registry
}

// ObserveClientRequest records one backend call. code 0 means the request never got a response.
func (m *Metrics) ObserveClientRequest(resource, method string, code int, elapsed time.Duration) {
	if m == nil {
		return
	}
	label := "error"
	if code > 0 {
		label = strconv.Itoa(code)
	}
	m.clientRequests.WithLabelValues(resource, method, label).Inc()
	m.clientDuration.WithLabelValues(resource, method).Observe(elapsed.Seconds())
}

// PartialFailure counts a stock movement left half-applied
func (m *Metrics) PartialFailure() {
	if m == nil {
		return
	}
	m.partialFailures.Inc()
}

// Reconciled counts a processed partial-failure report
func (m *Metrics) Reconciled(outcome string) {
	if m == nil {
		return
	}
	m.reconciliations.WithLabelValues(outcome).Inc()
}

// Middleware records served requests by chi route pattern
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		route := routePattern(r)
		m.serverRequests.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
		m.serverDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func routePattern(r *http.Request) string {
	if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil {
		if pattern := routeCtx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unknown"
}
