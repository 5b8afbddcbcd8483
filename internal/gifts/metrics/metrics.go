package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for gift lookups.
type Metrics struct {
	// Lookup outcomes: found, not_found, invalid, unavailable, error
	LookupOutcome *prometheus.CounterVec

	// End-to-end lookup latency including the row fetch
	LookupLatency prometheus.Histogram

	// Gifts returned per successful lookup
	GiftsPerLookup prometheus.Histogram
}

// New registers the metrics on the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers the metrics on reg.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		LookupOutcome: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gifts_lookup_outcomes_total",
			Help: "Gift lookups by outcome",
		}, []string{"outcome"}),

		LookupLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "gifts_lookup_duration_seconds",
			Help:    "Duration of a gift lookup including the row fetch",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),

		GiftsPerLookup: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "gifts_lookup_gifts",
			Help:    "Number of gifts returned by a successful lookup",
			Buckets: []float64{1, 2, 3, 5, 8, 13},
		}),
	}
}

// IncrementOutcome records a lookup outcome.
func (m *Metrics) IncrementOutcome(outcome string) {
	if m != nil {
		m.LookupOutcome.WithLabelValues(outcome).Inc()
	}
}

// ObserveLookupLatency records the total lookup duration.
func (m *Metrics) ObserveLookupLatency(d time.Duration) {
	if m != nil {
		m.LookupLatency.Observe(d.Seconds())
	}
}

// ObserveGifts records how many gifts a lookup returned.
func (m *Metrics) ObserveGifts(n int) {
	if m != nil {
		m.GiftsPerLookup.Observe(float64(n))
	}
}
