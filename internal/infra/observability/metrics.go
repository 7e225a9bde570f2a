package observability

import (
	"time"

	"github.com/brightdesk/finance-api/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds all Prometheus metrics for the report engine.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	fetchErrors     *prometheus.CounterVec
	degradedBuckets *prometheus.CounterVec
	skippedRecords  prometheus.Counter
	cacheHits       *prometheus.CounterVec
	cacheMisses     *prometheus.CounterVec
	requestsTotal   *prometheus.CounterVec
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "finance_request_duration_seconds",
				Help:    "Duration of report operations.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		fetchErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finance_fetch_errors_total",
				Help: "Total record fetcher failures by operation.",
			},
			[]string{"operation"},
		),
		degradedBuckets: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finance_degraded_buckets_total",
				Help: "Rolling-total buckets degraded to zero after a fetch failure.",
			},
			[]string{"bucket"},
		),
		skippedRecords: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "finance_skipped_records_total",
				Help: "Fetched records dropped by the ownership check.",
			},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finance_cache_hits_total",
				Help: "Total cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finance_cache_misses_total",
				Help: "Total cache misses.",
			},
			[]string{"cache"},
		),
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finance_requests_total",
				Help: "Total report requests processed.",
			},
			[]string{"status"},
		),
	}
}

// RecordRequestDuration records the duration of an operation.
func (m *Metrics) RecordRequestDuration(operation string, d time.Duration) {
	m.requestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrFetchError increments the fetch failure counter.
func (m *Metrics) IncrFetchError(operation string) {
	m.fetchErrors.WithLabelValues(operation).Inc()
}

// IncrDegradedBucket counts a rolling-total bucket that degraded to zero.
func (m *Metrics) IncrDegradedBucket(bucket string) {
	m.degradedBuckets.WithLabelValues(bucket).Inc()
}

// AddSkippedRecords counts records dropped by the ownership check.
func (m *Metrics) AddSkippedRecords(n int) {
	m.skippedRecords.Add(float64(n))
}

// IncrCacheHit increments the cache hit counter.
func (m *Metrics) IncrCacheHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

// IncrCacheMiss increments the cache miss counter.
func (m *Metrics) IncrCacheMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}

// IncrRequest increments the request counter with a status label.
func (m *Metrics) IncrRequest(status string) {
	m.requestsTotal.WithLabelValues(status).Inc()
}

// GetReportSnapshot returns a snapshot of report-engine counters for
// the GET /v1/metrics/reports endpoint.
func (m *Metrics) GetReportSnapshot() *domain.ReportMetrics {
	totalRequests := getCounterValue(m.requestsTotal, "success") +
		getCounterValue(m.requestsTotal, "error")
	errorCount := getCounterValue(m.requestsTotal, "error")
	cacheHits := getCounterValue(m.cacheHits, "names")
	cacheMisses := getCounterValue(m.cacheMisses, "names")

	errorRate := float64(0)
	cacheHitRate := float64(0)
	if totalRequests > 0 {
		errorRate = errorCount / totalRequests
	}
	if cacheHits+cacheMisses > 0 {
		cacheHitRate = cacheHits / (cacheHits + cacheMisses)
	}

	var degraded float64
	for _, bucket := range []string{"today", "week", "month", "year", "allTime"} {
		degraded += getCounterValue(m.degradedBuckets, bucket)
	}

	return &domain.ReportMetrics{
		TotalRequests:   int64(totalRequests),
		ErrorRate:       errorRate,
		DegradedBuckets: int64(degraded),
		SkippedRecords:  int64(counterValue(m.skippedRecords)),
		CacheHitRate:    cacheHitRate,
		Period:          "all_time",
	}
}

// getCounterValue extracts the current float64 value from a CounterVec for a given label.
func getCounterValue(cv *prometheus.CounterVec, label string) float64 {
	counter := cv.WithLabelValues(label)
	return counterValue(counter.(prometheus.Metric))
}

func counterValue(c prometheus.Metric) float64 {
	m := &dto.Metric{}
	if err := c.Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}
