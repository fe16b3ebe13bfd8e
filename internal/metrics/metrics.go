// Package metrics exposes Prometheus counters for the allocation engine.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ndewijer/Investment-Allocation-Backend/internal/cache"
)

// Registry holds all engine metrics.
type Registry struct {
	registry *prometheus.Registry

	CacheHits         *prometheus.CounterVec
	CacheMisses       *prometheus.CounterVec
	TransportFailures *prometheus.CounterVec
	SchemaMismatches  *prometheus.CounterVec
	FXFallbacks       *prometheus.CounterVec
	CacheClears       prometheus.Counter
}

// NewRegistry creates the metrics and registers them on a private registry.
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
		CacheHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "allocation_cache_hits_total",
				Help: "Total number of cache hits by data kind",
			},
			[]string{"kind"},
		),
		CacheMisses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "allocation_cache_misses_total",
				Help: "Total number of cache misses by data kind",
			},
			[]string{"kind"},
		),
		TransportFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "allocation_transport_failures_total",
				Help: "Spreadsheet reads that failed, by source",
			},
			[]string{"source"},
		),
		SchemaMismatches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "allocation_schema_mismatches_total",
				Help: "Declared columns that could not be located, by source and role",
			},
			[]string{"source", "role"},
		),
		FXFallbacks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "allocation_fx_fallbacks_total",
				Help: "FX lookups answered with the static fallback rate, by pair",
			},
			[]string{"pair"},
		),
		CacheClears: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "allocation_cache_clears_total",
				Help: "Manual cache refreshes",
			},
		),
	}

	r.registry.MustRegister(
		r.CacheHits,
		r.CacheMisses,
		r.TransportFailures,
		r.SchemaMismatches,
		r.FXFallbacks,
		r.CacheClears,
		collectors.NewGoCollector(),
	)
	return r
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// CacheHit implements cache.Observer.
func (r *Registry) CacheHit(kind cache.Kind) {
	r.CacheHits.WithLabelValues(string(kind)).Inc()
}

// CacheMiss implements cache.Observer.
func (r *Registry) CacheMiss(kind cache.Kind) {
	r.CacheMisses.WithLabelValues(string(kind)).Inc()
}

// TransportFailure records a failed read of source.
func (r *Registry) TransportFailure(source string) {
	r.TransportFailures.WithLabelValues(source).Inc()
}

// SchemaMismatch records a missing column.
func (r *Registry) SchemaMismatch(source, role string) {
	r.SchemaMismatches.WithLabelValues(source, role).Inc()
}

// FXFallback records a fallback rate for pair.
func (r *Registry) FXFallback(pair string) {
	r.FXFallbacks.WithLabelValues(pair).Inc()
}

// CacheCleared records a manual refresh.
func (r *Registry) CacheCleared() {
	r.CacheClears.Inc()
}
