package rowsource

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/dcucoch/Gift-checking-App/internal/rowsource/metrics"
	"github.com/dcucoch/Gift-checking-App/pkg/platform/circuit"
	"github.com/dcucoch/Gift-checking-App/pkg/requestcontext"
)

// Guarded records the health of the wrapped source in a circuit breaker and
// keeps the last good rows of every range. While the circuit is open a failed
// fetch is answered from that snapshot when one exists.
type Guarded struct {
	inner   Source
	breaker *circuit.Breaker
	logger  *slog.Logger
	metrics *metrics.Metrics

	mu        sync.RWMutex
	snapshots map[string][]Row
}

// GuardedOption configures a Guarded source.
type GuardedOption func(*Guarded)

// WithGuardLogger sets the logger for state changes and degraded answers.
func WithGuardLogger(logger *slog.Logger) GuardedOption {
	return func(g *Guarded) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithGuardMetrics sets the metrics sink.
func WithGuardMetrics(m *metrics.Metrics) GuardedOption {
	return func(g *Guarded) {
		g.metrics = m
	}
}

// NewGuarded wraps inner with breaker.
func NewGuarded(inner Source, breaker *circuit.Breaker, opts ...GuardedOption) *Guarded {
	g := &Guarded{
		inner:     inner,
		breaker:   breaker,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		snapshots: make(map[string][]Row),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// FetchRows always tries the wrapped source first. Fresh rows win even while
// the circuit is open.
func (g *Guarded) FetchRows(ctx context.Context, readRange string) ([]Row, error) {
	rows, err := g.inner.FetchRows(ctx, readRange)
	if err == nil {
		_, change := g.breaker.RecordSuccess()
		g.onChange(ctx, change)
		g.remember(readRange, rows)
		return rows, nil
	}

	// The caller gave up; that says nothing about the source.
	if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		return nil, err
	}

	useFallback, change := g.breaker.RecordFailure()
	g.onChange(ctx, change)
	if !useFallback {
		return nil, err
	}

	snapshot, ok := g.snapshot(readRange)
	if !ok {
		return nil, err
	}
	g.metrics.IncrementFallback()
	g.logger.WarnContext(ctx, "row source degraded, serving last good snapshot",
		"request_id", requestcontext.RequestID(ctx),
		"breaker", g.breaker.Name(),
		"range", readRange,
		"rows", len(snapshot),
		"error", err,
	)
	return snapshot, nil
}

func (g *Guarded) onChange(ctx context.Context, change circuit.StateChange) {
	switch {
	case change.Opened:
		g.metrics.SetBreakerOpen(true)
		g.logger.ErrorContext(ctx, "row source circuit opened", "breaker", g.breaker.Name())
	case change.Closed:
		g.metrics.SetBreakerOpen(false)
		g.logger.InfoContext(ctx, "row source circuit closed", "breaker", g.breaker.Name())
	}
}

func (g *Guarded) remember(readRange string, rows []Row) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.snapshots[readRange] = rows
}

func (g *Guarded) snapshot(readRange string) ([]Row, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	rows, ok := g.snapshots[readRange]
	return rows, ok
}
