// Package metrics exposes Prometheus collectors for searches, content
// cache lookups and booking intents.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns its registry so tests and multiple instances do not
// collide on the global one.  A nil *Metrics is valid and records nothing.
type Metrics struct {
	reg           *prometheus.Registry
	searches      *prometheus.CounterVec
	searchLatency prometheus.Histogram
	cacheLookups  *prometheus.CounterVec
	intents       *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "booking",
			Name:      "searches_total",
			Help:      "Room searches by final state.",
		}, []string{"state"}),
		searchLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "booking",
			Name:      "search_duration_seconds",
			Help:      "Room search API round trip.",
			Buckets:   prometheus.DefBuckets,
		}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "booking",
			Name:      "content_cache_lookups_total",
			Help:      "Content cache lookups by result.",
		}, []string{"result"}),
		intents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "booking",
			Name:      "intents_total",
			Help:      "Booking intents by kind and trigger.",
		}, []string{"kind", "trigger"}),
	}
	m.reg.MustRegister(m.searches, m.searchLatency, m.cacheLookups, m.intents)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// SearchFinished records the final state of a search and its duration.
func (m *Metrics) SearchFinished(state string, took time.Duration) {
	if m == nil {
		return
	}
	m.searches.WithLabelValues(state).Inc()
	m.searchLatency.Observe(took.Seconds())
}

// CacheLookup records a content cache hit or miss.
func (m *Metrics) CacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

// IntentDispatched records a booking intent.
func (m *Metrics) IntentDispatched(kind string, auto bool) {
	if m == nil {
		return
	}
	trigger := "manual"
	if auto {
		trigger = "auto"
	}
	m.intents.WithLabelValues(kind, trigger).Inc()
}
