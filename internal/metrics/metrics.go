// Package metrics exports Prometheus metrics for HTTP traffic and trial consumption
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/magicalwebsite/backend/internal/middlewares"
	"github.com/magicalwebsite/backend/internal/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// unmatchedRoute labels requests that matched no registered route
const unmatchedRoute = "unmatched"

// Metrics holds all application metrics
type Metrics struct {
	registry prometheus.Gatherer

	// HTTP request metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Trial metrics
	TrialsConsumedTotal *prometheus.CounterVec
	TrialsRejectedTotal *prometheus.CounterVec
}

// NewMetrics creates the metrics and registers them in a fresh registry
// that also carries the Go runtime and process collectors
func NewMetrics(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_requests_in_flight",
				Help:      "Current number of HTTP requests being processed",
			},
		),
		TrialsConsumedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "trials_consumed_total",
				Help:      "Total trials consumed by demo type and role",
			},
			[]string{"demo_type", "role"},
		),
		TrialsRejectedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "trials_rejected_total",
				Help:      "Total trial consumptions refused because no trials remained",
			},
			[]string{"role"},
		),
	}
}

const otherDemoType = "other"

// knownDemoTypes are reported under their own label; every other value is
// reported as otherDemoType.
var knownDemoTypes = map[string]struct{}{
	"travel":               {},
	"financial":            {},
	models.DefaultDemoType: {},
}

func demoTypeLabel(demoType string) string {
	if _, ok := knownDemoTypes[demoType]; ok {
		return demoType
	}
	return otherDemoType
}

// TrialConsumed counts a successful trial consumption
func (m *Metrics) TrialConsumed(demoType string, role models.Role) {
	m.TrialsConsumedTotal.WithLabelValues(demoTypeLabel(demoType), string(role)).Inc()
}

// TrialRejected counts a refused trial consumption
func (m *Metrics) TrialRejected(role models.Role) {
	m.TrialsRejectedTotal.WithLabelValues(string(role)).Inc()
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// MetricsMiddleware records request count, duration and in-flight requests.
// Paths are labelled with the chi route pattern to keep label cardinality bounded.
func (m *Metrics) MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		m.HTTPRequestsInFlight.Inc()
		defer m.HTTPRequestsInFlight.Dec()

		wrapped := middlewares.NewStatusRecorder(w)

		next.ServeHTTP(wrapped, r)

		path := routePattern(r)
		status := strconv.Itoa(wrapped.Status())

		m.HTTPRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
		m.HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

// routePattern returns the matched chi route pattern, e.g. /api/admin/users/{id}/reset-trials
func routePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return unmatchedRoute
	}
	if pattern := rctx.RoutePattern(); pattern != "" {
		return pattern
	}
	return unmatchedRoute
}
