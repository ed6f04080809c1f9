package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Per-class request counters
	StrategyRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "strategy_requests_total",
			Help: "Total number of intercepted requests by request class",
		},
		[]string{"class"},
	)

	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"class", "level"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"class"},
	)

	// Stale entries served past the freshness window (the window bounds
	// preference, not staleness; this counter makes the trade-off visible)
	StaleServes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stale_serves_total",
			Help: "Total number of cached responses served past their freshness window",
		},
		[]string{"class"},
	)

	BackgroundRefreshFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "background_refresh_failures_total",
			Help: "Total number of failed background cache refresh tasks",
		},
		[]string{"task"},
	)

	// Responses discarded because a newer request superseded them. These are
	// deliberate no-ops, counted separately from failures.
	GuardDiscards = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "guard_discarded_responses_total",
			Help: "Total number of responses discarded because a newer request was issued",
		},
	)

	PrefetchRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prefetch_runs_total",
			Help: "Total number of background prefetch attempts",
		},
		[]string{"outcome"},
	)

	UnavailableResponses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "synthesized_unavailable_responses_total",
			Help: "Total number of synthesized unavailability responses returned for API requests",
		},
	)

	StrategyDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "strategy_serve_duration_seconds",
			Help:    "Duration of strategy executor serve operations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"class"},
	)

	// L1 capacity metrics only (L2 capacity is owned by KeyDB itself)
	CacheCapacity = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_capacity_bytes",
			Help: "L1 cache capacity in bytes",
		},
		[]string{"level"},
	)

	CacheUsed = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_used_bytes",
			Help: "L1 cache used space in bytes",
		},
		[]string{"level"},
	)
)

// RecordRequest records an intercepted request
func RecordRequest(class string) {
	StrategyRequests.WithLabelValues(class).Inc()
}

// RecordCacheHit records a cache hit at a given tier
func RecordCacheHit(class, level string) {
	CacheHits.WithLabelValues(class, level).Inc()
}

// RecordCacheMiss records a cache miss
func RecordCacheMiss(class string) {
	CacheMisses.WithLabelValues(class).Inc()
}

// RecordStaleServe records a response served past its freshness window
func RecordStaleServe(class string) {
	StaleServes.WithLabelValues(class).Inc()
}

// RecordBackgroundFailure records a failed background refresh task
func RecordBackgroundFailure(task string) {
	BackgroundRefreshFailures.WithLabelValues(task).Inc()
}

// RecordGuardDiscard records a superseded response being dropped
func RecordGuardDiscard() {
	GuardDiscards.Inc()
}

// RecordPrefetch records a prefetch attempt outcome ("warmed", "skipped", "failed")
func RecordPrefetch(outcome string) {
	PrefetchRuns.WithLabelValues(outcome).Inc()
}

// RecordUnavailable records a synthesized unavailability response
func RecordUnavailable() {
	UnavailableResponses.Inc()
}

// TimeStrategyServe returns a timer function for measuring strategy serve duration
func TimeStrategyServe(class string) func() {
	timer := prometheus.NewTimer(StrategyDuration.WithLabelValues(class))
	return func() {
		timer.ObserveDuration()
	}
}

// UpdateL1CacheCapacity updates L1 cache capacity metrics
func UpdateL1CacheCapacity(capacity, used int64) {
	CacheCapacity.WithLabelValues("l1").Set(float64(capacity))
	CacheUsed.WithLabelValues("l1").Set(float64(used))
}
