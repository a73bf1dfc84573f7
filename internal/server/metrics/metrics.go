// Package metrics exposes Prometheus collectors for the HTTP server and the
// rating state it serves.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agentstation/imagerater/pkg/filter"
	"github.com/agentstation/imagerater/pkg/ratings"
)

const namespace = "imagerater"

// Metrics holds the collectors registered on a private registry.
type Metrics struct {
	registry        *prometheus.Registry
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	ratingChanges   *prometheus.CounterVec
	images          *prometheus.GaugeVec
	progress        prometheus.Gauge
}

// New creates the collectors and registers them, along with the Go runtime
// and process collectors, on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "HTTP requests by method and status code.",
			},
			[]string{"method", "code"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request latency.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		ratingChanges: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rating_changes_total",
				Help:      "Rating mutations by action (rate, unrate).",
			},
			[]string{"action"},
		),
		images: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "images",
				Help:      "Images in the fixed list by bucket (unrated, 1..5).",
			},
			[]string{"bucket"},
		),
		progress: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "progress_percent",
				Help:      "Share of the image list that has been rated.",
			},
		),
	}

	reg.MustRegister(
		m.requests,
		m.requestDuration,
		m.ratingChanges,
		m.images,
		m.progress,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware instruments next with request counts and latencies.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return promhttp.InstrumentHandlerDuration(m.requestDuration,
		promhttp.InstrumentHandlerCounter(m.requests, next))
}

// ObserveRatingChange counts a mutation. A zero new rating is an unrate.
func (m *Metrics) ObserveRatingChange(newRating ratings.Rating) {
	action := "rate"
	if newRating == ratings.Unrated {
		action = "unrate"
	}
	m.ratingChanges.WithLabelValues(action).Inc()
}

// SetCounts publishes the per-bucket image counts and progress.
func (m *Metrics) SetCounts(c filter.Counts) {
	m.images.WithLabelValues("unrated").Set(float64(c.Unrated))
	for _, r := range ratings.All() {
		m.images.WithLabelValues(filter.MustStars(r).String()).Set(float64(c.ByStars[r]))
	}
	m.progress.Set(float64(c.Progress()))
}
