package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Schedule search metrics
var (
	searchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coursegen_searches_total",
		Help: "Schedule searches by result kind and whether they were continuations",
	}, []string{"result", "continuation"})

	searchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "coursegen_search_duration_seconds",
		Help:    "Wall time of schedule searches",
		Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 15},
	}, []string{"result"})

	searchCombinations = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "coursegen_search_combinations",
		Help:    "Combinations drawn per search",
		Buckets: prometheus.ExponentialBuckets(1, 10, 8),
	})

	schedulesReturned = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "coursegen_schedules_returned",
		Help:    "Schedules returned per successful search",
		Buckets: prometheus.LinearBuckets(0, 1, 11),
	})

	searchLogFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "coursegen_search_log_failures_total",
		Help: "Search outcomes that could not be recorded",
	})
)

// Catalog metrics
var (
	catalogRefreshes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coursegen_catalog_refreshes_total",
		Help: "Catalog refresh attempts by status",
	}, []string{"status"})

	catalogCourses = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "coursegen_catalog_courses",
		Help: "Courses in the active catalog snapshot",
	})

	catalogSections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "coursegen_catalog_sections",
		Help: "Sections in the active catalog snapshot",
	})
)

// HTTP metrics
var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coursegen_http_requests_total",
		Help: "HTTP requests by route and status",
	}, []string{"method", "route", "status"})

	rateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "coursegen_rate_limited_total",
		Help: "Requests rejected by the per-client rate limit",
	})
)

// ObserveSearch records one finished search. result is "success" or an error kind.
func ObserveSearch(result string, continuation bool, elapsed time.Duration, combinations, returned int) {
	searchesTotal.WithLabelValues(result, strconv.FormatBool(continuation)).Inc()
	searchDuration.WithLabelValues(result).Observe(elapsed.Seconds())
	if result == "success" {
		searchCombinations.Observe(float64(combinations))
		schedulesReturned.Observe(float64(returned))
	}
}

// SearchLogFailed counts a search outcome that could not be stored
func SearchLogFailed() {
	searchLogFailures.Inc()
}

// ObserveCatalogRefresh records a refresh attempt and, on success, the snapshot size
func ObserveCatalogRefresh(courses, sections int, err error) {
	if err != nil {
		catalogRefreshes.WithLabelValues("error").Inc()
		return
	}
	catalogRefreshes.WithLabelValues("ok").Inc()
	catalogCourses.Set(float64(courses))
	catalogSections.Set(float64(sections))
}

// ObserveHTTPRequest counts a served request
func ObserveHTTPRequest(method, route string, status int) {
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

// RateLimited counts a request rejected by the rate limiter
func RateLimited() {
	rateLimited.Inc()
}
