package rowsource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/dcucoch/Gift-checking-App/internal/rowsource/metrics"
	"github.com/dcucoch/Gift-checking-App/pkg/platform/retry"
	"github.com/dcucoch/Gift-checking-App/pkg/requestcontext"
)

const tracerName = "github.com/dcucoch/Gift-checking-App/internal/rowsource"

// Retrying retries transient failures of the wrapped source.
type Retrying struct {
	inner          Source
	policy         retry.Policy
	attemptTimeout time.Duration
	logger         *slog.Logger
	metrics        *metrics.Metrics
	tracer         trace.Tracer
}

// RetryingOption configures a Retrying source.
type RetryingOption func(*Retrying)

// WithRetryLogger sets the logger for attempt failures.
func WithRetryLogger(logger *slog.Logger) RetryingOption {
	return func(r *Retrying) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithRetryMetrics sets the metrics sink for attempts.
func WithRetryMetrics(m *metrics.Metrics) RetryingOption {
	return func(r *Retrying) {
		r.metrics = m
	}
}

// WithAttemptTimeout bounds each individual attempt. Zero means only the
// caller's context applies.
func WithAttemptTimeout(d time.Duration) RetryingOption {
	return func(r *Retrying) {
		r.attemptTimeout = d
	}
}

// WithTracer overrides the global tracer.
func WithTracer(t trace.Tracer) RetryingOption {
	return func(r *Retrying) {
		if t != nil {
			r.tracer = t
		}
	}
}

// NewRetrying wraps inner with policy.
func NewRetrying(inner Source, policy retry.Policy, opts ...RetryingOption) *Retrying {
	r := &Retrying{
		inner:  inner,
		policy: policy,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// FetchRows fetches through the retry policy. Only retryable source errors are
// retried. When every attempt fails the result wraps ErrSourceExhausted and
// the last failure.
func (r *Retrying) FetchRows(ctx context.Context, readRange string) ([]Row, error) {
	ctx, span := r.tracer.Start(ctx, "rowsource.FetchRows",
		trace.WithAttributes(attribute.String("rowsource.range", readRange)))
	defer span.End()

	requestID := requestcontext.RequestID(ctx)
	var rows []Row
	err := retry.Do(ctx, r.policy, func(ctx context.Context, attempt int) error {
		got, err := r.attempt(ctx, readRange)
		if err != nil {
			r.logger.WarnContext(ctx, "row fetch attempt failed",
				"request_id", requestID,
				"range", readRange,
				"attempt", attempt,
				"max_attempts", r.policy.MaxAttempts,
				"category", CategoryOf(err),
				"error", err,
			)
			return err
		}
		rows = got
		return nil
	},
		retry.WithRetryIf(IsRetryable),
		retry.WithNotify(func(attempt int, err error, next time.Duration) {
			span.AddEvent("retry", trace.WithAttributes(
				attribute.Int("attempt", attempt),
				attribute.String("category", string(CategoryOf(err))),
			))
			r.logger.DebugContext(ctx, "retrying row fetch",
				"request_id", requestID,
				"attempt", attempt,
				"next_delay_ms", next.Milliseconds(),
			)
		}),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "row fetch failed")
		if errors.Is(err, retry.ErrExhausted) {
			return nil, fmt.Errorf("%w: %w", ErrSourceExhausted, err)
		}
		return nil, err
	}

	span.SetAttributes(attribute.Int("rowsource.rows", len(rows)))
	return rows, nil
}

func (r *Retrying) attempt(ctx context.Context, readRange string) ([]Row, error) {
	if r.attemptTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.attemptTimeout)
		defer cancel()
	}

	start := time.Now()
	rows, err := r.inner.FetchRows(ctx, readRange)
	r.metrics.ObserveFetchLatency(time.Since(start))
	if err != nil {
		r.metrics.IncrementFetchAttempt(string(CategoryOf(err)))
		return nil, err
	}
	r.metrics.IncrementFetchAttempt("success")
	return rows, nil
}
