// Package cache keeps whole ranges of rows in redis so that bursts of lookups
// hit the spreadsheet API once per TTL.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/dcucoch/Gift-checking-App/internal/rowsource"
	"github.com/dcucoch/Gift-checking-App/internal/rowsource/metrics"
	"github.com/dcucoch/Gift-checking-App/pkg/requestcontext"
)

const (
	// DefaultTTL bounds how stale a cached range may be
	DefaultTTL = 60 * time.Second

	defaultKeyPrefix = "gifts:rows:"
)

// Source is a read-through cache in front of another Source. Redis failures
// degrade to a direct fetch and never fail the caller.
type Source struct {
	inner   rowsource.Source
	client  *redis.Client
	ttl     time.Duration
	prefix  string
	logger  *slog.Logger
	metrics *metrics.Metrics
	group   singleflight.Group
}

// Option configures a cache Source.
type Option func(*Source)

// WithTTL sets the expiry of cached ranges.
func WithTTL(ttl time.Duration) Option {
	return func(s *Source) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithKeyPrefix namespaces cache keys.
func WithKeyPrefix(prefix string) Option {
	return func(s *Source) {
		s.prefix = prefix
	}
}

// WithLogger sets the logger for degraded cache operations.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Source) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Source) {
		s.metrics = m
	}
}

// New wraps inner with a redis cache.
func New(inner rowsource.Source, client *redis.Client, opts ...Option) *Source {
	s := &Source{
		inner:  inner,
		client: client,
		ttl:    DefaultTTL,
		prefix: defaultKeyPrefix,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// FetchRows serves readRange from redis when present. Concurrent misses for
// the same range share one upstream fetch; a caller whose context ends stops
// waiting without cancelling the shared fetch.
func (s *Source) FetchRows(ctx context.Context, readRange string) ([]rowsource.Row, error) {
	key := s.prefix + readRange
	if rows, ok := s.get(ctx, key); ok {
		return rows, nil
	}

	ch := s.group.DoChan(key, func() (any, error) {
		fetchCtx := context.WithoutCancel(ctx)
		rows, err := s.inner.FetchRows(fetchCtx, readRange)
		if err != nil {
			return nil, err
		}
		s.set(fetchCtx, key, rows)
		return rows, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]rowsource.Row), nil
	}
}

// Invalidate drops the cached copy of readRange.
func (s *Source) Invalidate(ctx context.Context, readRange string) error {
	return s.client.Del(ctx, s.prefix+readRange).Err()
}

func (s *Source) get(ctx context.Context, key string) ([]rowsource.Row, bool) {
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		s.metrics.IncrementCache("miss")
		return nil, false
	}
	if err != nil {
		s.metrics.IncrementCache("error")
		s.logger.WarnContext(ctx, "row cache read failed, fetching directly",
			"request_id", requestcontext.RequestID(ctx),
			"key", key,
			"error", err,
		)
		return nil, false
	}

	var rows []rowsource.Row
	if err := json.Unmarshal(data, &rows); err != nil {
		s.metrics.IncrementCache("error")
		s.logger.WarnContext(ctx, "row cache entry corrupt, fetching directly",
			"request_id", requestcontext.RequestID(ctx),
			"key", key,
			"error", err,
		)
		return nil, false
	}
	s.metrics.IncrementCache("hit")
	return rows, true
}

func (s *Source) set(ctx context.Context, key string, rows []rowsource.Row) {
	data, err := json.Marshal(rows)
	if err != nil {
		s.logger.WarnContext(ctx, "row cache encode failed", "key", key, "error", err)
		return
	}
	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		s.logger.WarnContext(ctx, "row cache write failed",
			"request_id", requestcontext.RequestID(ctx),
			"key", key,
			"error", err,
		)
	}
}
