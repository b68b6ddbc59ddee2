// Package metrics exposes Prometheus collectors for article operations.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "article_service"

// Lookup kinds.
const (
	LookupByID     = "id"
	LookupByViewID = "view_id"
)

// Metrics holds the service collectors. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	ArticlesCreated prometheus.Counter
	Lookups         *prometheus.CounterVec
	Filters         *prometheus.CounterVec
	FilterDuration  prometheus.Histogram
	FilterMatches   prometheus.Histogram

	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPInFlight        prometheus.Gauge
}

// New registers the collectors, plus Go and process collectors, on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		ArticlesCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "articles_created_total",
			Help:      "Articles stored.",
		}),
		Lookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lookups_total",
			Help:      "Single-article lookups by key kind and outcome.",
		}, []string{"kind", "result"}),
		Filters: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "filters_total",
			Help:      "Filter queries by outcome.",
		}, []string{"result"}),
		FilterDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "filter_duration_seconds",
			Help:      "Time spent evaluating a filter.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}),
		FilterMatches: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "filter_matches",
			Help:      "Articles returned per filter.",
			Buckets:   []float64{0, 1, 5, 10, 50, 100, 500, 1000},
		}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		HTTPInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Requests currently being served.",
		}),
	}
}

// RecordCreate counts a stored article.
func (m *Metrics) RecordCreate() {
	if m == nil {
		return
	}
	m.ArticlesCreated.Inc()
}

// RecordLookup counts a lookup of kind that did or did not find an article.
func (m *Metrics) RecordLookup(kind string, found bool) {
	if m == nil {
		return
	}
	result := "miss"
	if found {
		result = "hit"
	}
	m.Lookups.WithLabelValues(kind, result).Inc()
}

// RecordFilter records a completed filter.
func (m *Metrics) RecordFilter(elapsed time.Duration, matches int) {
	if m == nil {
		return
	}
	result := "match"
	if matches == 0 {
		result = "empty"
	}
	m.Filters.WithLabelValues(result).Inc()
	m.FilterDuration.Observe(elapsed.Seconds())
	m.FilterMatches.Observe(float64(matches))
}

// Handler serves the registry in the Prometheus exposition format.
// It is nil for a nil *Metrics.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return nil
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
