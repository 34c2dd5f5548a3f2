package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/mentor-api/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheLatency    prometheus.Observer
	cacheWrite      prometheus.Observer
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	dbQueryDuration *prometheus.HistogramVec

	suggestionDuration prometheus.Observer
	suggestionsServed  *prometheus.CounterVec
	modeSwitches       *prometheus.CounterVec
	mentorshipChanges  *prometheus.CounterVec
	mentorCountDrift   prometheus.Counter
}

// NewMetricsService registers core Prometheus collectors on a private registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_latency_seconds",
		Help:    "Latency for cache lookups",
		Buckets: prometheus.DefBuckets,
	})

	cacheWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_write_seconds",
		Help:    "Latency for cache set operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	dbQueryDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "db_query_duration_seconds",
		Help:    "Duration of database queries",
		Buckets: prometheus.DefBuckets,
	}, []string{"query"})

	suggestionDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "mentor_suggestion_select_seconds",
		Help:    "Time spent computing a mentor's suggestion list",
		Buckets: prometheus.DefBuckets,
	})

	suggestionsServed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mentor_suggestions_served_total",
		Help: "Suggested solutions returned to mentors by tier",
	}, []string{"tier"})

	modeSwitches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "track_mode_switches_total",
		Help: "Track mode switch attempts by outcome",
	}, []string{"outcome"})

	mentorshipChanges := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "solution_mentorship_changes_total",
		Help: "Solution mentorship transitions by action",
	}, []string{"action"})

	mentorCountDrift := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "solution_mentor_count_corrections_total",
		Help: "Solutions whose num_mentors was corrected by reconciliation",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(
		requestDuration, requestTotal, cacheLatency, cacheWrite, cacheHits, cacheMisses, dbQueryDuration,
		suggestionDuration, suggestionsServed, modeSwitches, mentorshipChanges, mentorCountDrift, goroutines,
	)

	return &MetricsService{
		registry:           registry,
		handler:            promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:    requestDuration,
		requestTotal:       requestTotal,
		cacheLatency:       cacheLatency,
		cacheWrite:         cacheWrite,
		cacheHits:          cacheHits,
		cacheMisses:        cacheMisses,
		dbQueryDuration:    dbQueryDuration,
		suggestionDuration: suggestionDuration,
		suggestionsServed:  suggestionsServed,
		modeSwitches:       modeSwitches,
		mentorshipChanges:  mentorshipChanges,
		mentorCountDrift:   mentorCountDrift,
	}
}

// Registry exposes the underlying registry, mainly for tests.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordCacheOperation records a cache hit or miss.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	if hit {
		m.cacheHits.Inc()
		return
	}
	m.cacheMisses.Inc()
}

// ObserveCacheWrite tracks the duration for cache write operations.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// ObserveDBQuery records database query timing.
func (m *MetricsService) ObserveDBQuery(label string, duration time.Duration) {
	if m == nil {
		return
	}
	m.dbQueryDuration.WithLabelValues(label).Observe(duration.Seconds())
}

// ObserveSuggestions records one suggestion computation and the tiers it returned.
func (m *MetricsService) ObserveSuggestions(duration time.Duration, suggestions []models.SuggestedSolution) {
	if m == nil {
		return
	}
	m.suggestionDuration.Observe(duration.Seconds())
	for _, s := range suggestions {
		m.suggestionsServed.WithLabelValues(s.Tier.String()).Inc()
	}
}

// RecordModeSwitch counts a track mode switch by outcome (switched, unchanged, not_found, failed).
func (m *MetricsService) RecordModeSwitch(outcome string) {
	if m == nil {
		return
	}
	m.modeSwitches.WithLabelValues(outcome).Inc()
}

// RecordMentorshipChange counts a mentorship transition.
func (m *MetricsService) RecordMentorshipChange(action string) {
	if m == nil {
		return
	}
	m.mentorshipChanges.WithLabelValues(action).Inc()
}

// RecordMentorCountCorrections adds the number of solutions fixed by a recount.
func (m *MetricsService) RecordMentorCountCorrections(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.mentorCountDrift.Add(float64(n))
}
