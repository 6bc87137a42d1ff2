// Package telemetry exposes Prometheus metrics for the engine encyclopedia
// services and tools.
package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "engines"

// Lookup outcomes.
const (
	OutcomeHit           = "hit"
	OutcomeBrandMissing  = "brand_missing"
	OutcomeEngineMissing = "engine_missing"
)

// Metrics holds every collector. Each Metrics owns its registry, so tests
// and commands can build as many as they like.
type Metrics struct {
	reg *prometheus.Registry

	Lookups        *prometheus.CounterVec
	HTTPRequests   *prometheus.CounterVec
	HTTPDuration   *prometheus.HistogramVec
	RateLimited    prometheus.Counter
	LintFindings   *prometheus.CounterVec
	CatalogEngines prometheus.Gauge
}

// New registers all collectors plus the Go and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		reg: reg,
		Lookups: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lookups_total",
			Help:      "Engine page lookups by outcome",
		}, []string{"outcome"}),
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code",
		}, []string{"route", "code"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"route"}),
		RateLimited: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_rate_limited_total",
			Help:      "Requests rejected by the rate limiter",
		}),
		LintFindings: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lint_findings_total",
			Help:      "Content lint findings by rule and severity",
		}, []string{"rule", "severity"}),
		CatalogEngines: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_engines",
			Help:      "Engine pages in the loaded catalog",
		}),
	}
}

// Registry returns the registry backing m.
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// Handler serves the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

// ObserveLookup counts one lookup.
func (m *Metrics) ObserveLookup(outcome string) {
	m.Lookups.WithLabelValues(outcome).Inc()
}

// ObserveRequest records one served request.
func (m *Metrics) ObserveRequest(route string, status int, d time.Duration) {
	m.HTTPRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(route).Observe(d.Seconds())
}

// ObserveFinding counts one lint finding.
func (m *Metrics) ObserveFinding(rule, severity string) {
	m.LintFindings.WithLabelValues(rule, severity).Inc()
}
