// Package metricsx holds the Prometheus collectors the dashboard exports.
package metricsx

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ledger"

// Metrics bundles every collector. A nil *Metrics is valid and records
// nothing, which keeps unit tests free of registry plumbing.
type Metrics struct {
	registry *prometheus.Registry

	requests   *prometheus.CounterVec
	latency    *prometheus.HistogramVec
	duplicates *prometheus.CounterVec
	stale      *prometheus.CounterVec
	sessions   *prometheus.GaugeVec
}

// New registers the collectors on a fresh registry, together with the Go and
// process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		duplicates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "client_duplicate_rejections_total",
			Help:      "Client writes rejected because email or phone is already used by the owner.",
		}, []string{"field"}),
		stale: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "page_stale_responses_total",
			Help:      "List responses discarded because a newer refresh superseded them.",
		}, []string{"page"}),
		sessions: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "page_sessions",
			Help:      "Live page controllers held in the session registry.",
		}, []string{"page"}),
	}

	reg.MustRegister(m.requests, m.latency, m.duplicates, m.stale, m.sessions)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Instrument records request count and latency under route. route should be
// the mux pattern, never the raw path, to keep cardinality bounded.
func (m *Metrics) Instrument(route string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)

			m.requests.WithLabelValues(route, strconv.Itoa(sw.status)).Inc()
			m.latency.WithLabelValues(route).Observe(time.Since(start).Seconds())
		})
	}
}

// DuplicateRejected counts a client write refused on field.
func (m *Metrics) DuplicateRejected(field string) {
	if m == nil {
		return
	}
	m.duplicates.WithLabelValues(field).Inc()
}

// StaleDiscarded counts a superseded list response on page.
func (m *Metrics) StaleDiscarded(page string) {
	if m == nil {
		return
	}
	m.stale.WithLabelValues(page).Inc()
}

// SetSessions reports how many controllers page currently holds.
func (m *Metrics) SetSessions(page string, n int) {
	if m == nil {
		return
	}
	m.sessions.WithLabelValues(page).Set(float64(n))
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }
