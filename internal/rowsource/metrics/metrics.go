package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for row fetching, caching and the breaker.
type Metrics struct {
	// Fetch attempts by outcome: "success" or a failure category
	FetchAttempts *prometheus.CounterVec

	// Latency of a single fetch attempt against the upstream source
	FetchLatency prometheus.Histogram

	// Cache lookups by result: "hit", "miss", "error"
	CacheRequests *prometheus.CounterVec

	// 1 while the circuit is open
	BreakerOpen prometheus.Gauge

	// Fetches answered from the last good snapshot
	FallbackServed prometheus.Counter
}

// New registers the metrics on the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers the metrics on reg.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		FetchAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gifts_rowsource_fetch_attempts_total",
			Help: "Row fetch attempts against the upstream source by outcome",
		}, []string{"outcome"}),

		FetchLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "gifts_rowsource_fetch_duration_seconds",
			Help:    "Duration of a single row fetch attempt",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),

		CacheRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gifts_rowsource_cache_requests_total",
			Help: "Row cache lookups by result",
		}, []string{"result"}),

		BreakerOpen: factory.NewGauge(prometheus.GaugeOpts{
			Name: "gifts_rowsource_breaker_open",
			Help: "1 while the row source circuit breaker is open",
		}),

		FallbackServed: factory.NewCounter(prometheus.CounterOpts{
			Name: "gifts_rowsource_fallback_served_total",
			Help: "Fetches answered from the last good snapshot while the circuit was open",
		}),
	}
}

// IncrementFetchAttempt records one upstream attempt.
func (m *Metrics) IncrementFetchAttempt(outcome string) {
	if m != nil {
		m.FetchAttempts.WithLabelValues(outcome).Inc()
	}
}

// ObserveFetchLatency records the duration of one upstream attempt.
func (m *Metrics) ObserveFetchLatency(d time.Duration) {
	if m != nil {
		m.FetchLatency.Observe(d.Seconds())
	}
}

// IncrementCache records a cache lookup result.
func (m *Metrics) IncrementCache(result string) {
	if m != nil {
		m.CacheRequests.WithLabelValues(result).Inc()
	}
}

// SetBreakerOpen reflects the breaker state.
func (m *Metrics) SetBreakerOpen(open bool) {
	if m == nil {
		return
	}
	if open {
		m.BreakerOpen.Set(1)
		return
	}
	m.BreakerOpen.Set(0)
}

// IncrementFallback records a fetch served from a snapshot.
func (m *Metrics) IncrementFallback() {
	if m != nil {
		m.FallbackServed.Inc()
	}
}
