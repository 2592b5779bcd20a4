// Package metrics holds the Prometheus collectors for the server and the
// recipe API client.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder owns a private registry so tests can create as many as they like
type Recorder struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	apiCallsTotal       *prometheus.CounterVec
	apiCallDuration     *prometheus.HistogramVec
	favoritesTotal      prometheus.Gauge
}

// New creates a recorder with all collectors registered
func New() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "savora_http_requests_total",
				Help: "Total number of HTTP requests served",
			},
			[]string{"method", "route", "status_code"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "savora_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		apiCallsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "savora_recipe_api_calls_total",
				Help: "Total number of recipe API calls by endpoint and outcome",
			},
			[]string{"endpoint", "outcome"},
		),
		apiCallDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "savora_recipe_api_call_duration_seconds",
				Help:    "Recipe API call duration in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"endpoint"},
		),
		favoritesTotal: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "savora_favorites",
				Help: "Number of favorited recipes",
			},
		),
	}
}

// ObserveHTTPRequest records one served request
func (r *Recorder) ObserveHTTPRequest(method, route, statusCode string, seconds float64) {
	if r == nil {
		return
	}
	r.httpRequestsTotal.WithLabelValues(method, route, statusCode).Inc()
	r.httpRequestDuration.WithLabelValues(method, route).Observe(seconds)
}

// ObserveAPICall records one recipe API round trip
func (r *Recorder) ObserveAPICall(endpoint, outcome string, seconds float64) {
	if r == nil {
		return
	}
	r.apiCallsTotal.WithLabelValues(endpoint, outcome).Inc()
	r.apiCallDuration.WithLabelValues(endpoint).Observe(seconds)
}

// SetFavorites records the current favorites count
func (r *Recorder) SetFavorites(n int) {
	if r == nil {
		return
	}
	r.favoritesTotal.Set(float64(n))
}

// Registry exposes the underlying registry for gathering in tests
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
