package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all Prometheus metrics for the matching engine. Components
// accept a *Registry that may be nil (tests, one-shot CLI); every recording
// method is nil-safe.
type Registry struct {
	reg *prometheus.Registry

	// Match pipeline
	MatchDuration    *prometheus.HistogramVec
	ScorerDuration   *prometheus.HistogramVec
	MatchesTotal     prometheus.Counter
	MatchesInFlight  prometheus.Gauge
	GateTriggers     *prometheus.CounterVec
	DeadlineExceeded prometheus.Counter
	BusyRejections   prometheus.Counter

	// Geo gateway
	GeoCacheHits     *prometheus.CounterVec
	GeoCacheMisses   *prometheus.CounterVec
	GeoProviderCalls *prometheus.CounterVec
	QuotaExhausted   prometheus.Counter
}

// NewRegistry creates a registry with all matching-engine metrics registered.
func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),

		MatchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "matchengine_match_duration_seconds",
				Help:    "End-to-end duration of one matching call",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.15, 0.175, 0.25, 0.5, 1.0},
			},
			[]string{"result"},
		),
		ScorerDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "matchengine_scorer_duration_seconds",
				Help:    "Duration of each scorer component",
				Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.03, 0.05, 0.1},
			},
			[]string{"scorer"},
		),
		MatchesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "matchengine_matches_total",
				Help: "Total number of matching calls",
			},
		),
		MatchesInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "matchengine_matches_in_flight",
				Help: "Matching calls currently executing",
			},
		),
		GateTriggers: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "matchengine_hard_gates_total",
				Help: "Hard gate activations by kind",
			},
			[]string{"kind"},
		),
		DeadlineExceeded: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "matchengine_deadline_exceeded_total",
				Help: "Matching calls that returned partial results past deadline",
			},
		),
		BusyRejections: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "matchengine_busy_rejections_total",
				Help: "Requests rejected by the concurrency limit",
			},
		),

		GeoCacheHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "matchengine_geo_cache_hits_total",
				Help: "Geo cache hits by cache kind and tier",
			},
			[]string{"cache", "tier"},
		),
		GeoCacheMisses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "matchengine_geo_cache_misses_total",
				Help: "Geo cache misses by cache kind",
			},
			[]string{"cache"},
		),
		GeoProviderCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "matchengine_geo_provider_calls_total",
				Help: "Upstream geo provider calls by operation and result",
			},
			[]string{"operation", "result"},
		),
		QuotaExhausted: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "matchengine_geo_quota_exhausted_total",
				Help: "Provider calls refused because a quota budget was spent",
			},
		),
	}

	r.reg.MustRegister(
		r.MatchDuration, r.ScorerDuration, r.MatchesTotal, r.MatchesInFlight,
		r.GateTriggers, r.DeadlineExceeded, r.BusyRejections,
		r.GeoCacheHits, r.GeoCacheMisses, r.GeoProviderCalls, r.QuotaExhausted,
	)
	return r
}

// Handler returns the HTTP handler serving this registry.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// ObserveMatch records one finished matching call.
func (r *Registry) ObserveMatch(result string, d time.Duration) {
	if r == nil {
		return
	}
	r.MatchesTotal.Inc()
	r.MatchDuration.WithLabelValues(result).Observe(d.Seconds())
}

// ObserveScorer records one scorer execution.
func (r *Registry) ObserveScorer(name string, d time.Duration) {
	if r == nil {
		return
	}
	r.ScorerDuration.WithLabelValues(name).Observe(d.Seconds())
}

// RecordGate records a hard gate activation.
func (r *Registry) RecordGate(kind string) {
	if r == nil {
		return
	}
	r.GateTriggers.WithLabelValues(kind).Inc()
}

// RecordDeadlineExceeded records a partial result past deadline.
func (r *Registry) RecordDeadlineExceeded() {
	if r == nil {
		return
	}
	r.DeadlineExceeded.Inc()
}

// RecordBusy records a back-pressure rejection.
func (r *Registry) RecordBusy() {
	if r == nil {
		return
	}
	r.BusyRejections.Inc()
}

// InFlightAdd moves the in-flight gauge.
func (r *Registry) InFlightAdd(delta float64) {
	if r == nil {
		return
	}
	r.MatchesInFlight.Add(delta)
}

// RecordGeoCacheHit records a cache hit for the given cache kind and tier.
func (r *Registry) RecordGeoCacheHit(cache, tier string) {
	if r == nil {
		return
	}
	r.GeoCacheHits.WithLabelValues(cache, tier).Inc()
}

// RecordGeoCacheMiss records a cache miss for the given cache kind.
func (r *Registry) RecordGeoCacheMiss(cache string) {
	if r == nil {
		return
	}
	r.GeoCacheMisses.WithLabelValues(cache).Inc()
}

// RecordProviderCall records one upstream provider call outcome.
func (r *Registry) RecordProviderCall(operation, result string) {
	if r == nil {
		return
	}
	r.GeoProviderCalls.WithLabelValues(operation, result).Inc()
}

// RecordQuotaExhausted records a refused call due to spent quota.
func (r *Registry) RecordQuotaExhausted() {
	if r == nil {
		return
	}
	r.QuotaExhausted.Inc()
}
