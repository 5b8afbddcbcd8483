package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcucoch/Gift-checking-App/internal/rowsource"
	"github.com/dcucoch/Gift-checking-App/internal/rowsource/metrics"
)

// unreachableClient points at a closed port so every command fails fast.
func unreachableClient(t *testing.T) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestFetchRows_RedisDownDegradesToDirectFetch(t *testing.T) {
	var calls atomic.Int32
	inner := rowsource.SourceFunc(func(ctx context.Context, readRange string) ([]rowsource.Row, error) {
		calls.Add(1)
		return []rowsource.Row{{"a"}}, nil
	})
	m := metrics.NewWith(prometheus.NewRegistry())
	src := New(inner, unreachableClient(t), WithMetrics(m))

	rows, err := src.FetchRows(context.Background(), "r")

	require.NoError(t, err)
	assert.Equal(t, []rowsource.Row{{"a"}}, rows)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheRequests.WithLabelValues("error")))
}

func TestFetchRows_PropagatesInnerError(t *testing.T) {
	want := rowsource.NewSourceError(rowsource.CategoryAuthentication, "test", "denied", nil)
	inner := rowsource.SourceFunc(func(ctx context.Context, readRange string) ([]rowsource.Row, error) {
		return nil, want
	})

	_, err := New(inner, unreachableClient(t)).FetchRows(context.Background(), "r")

	assert.ErrorIs(t, err, want)
}

func TestFetchRows_CoalescesConcurrentMisses(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	inner := rowsource.SourceFunc(func(ctx context.Context, readRange string) ([]rowsource.Row, error) {
		calls.Add(1)
		<-release
		return []rowsource.Row{{"shared"}}, nil
	})
	src := New(inner, unreachableClient(t))

	const callers = 8
	var wg sync.WaitGroup
	results := make([][]rowsource.Row, callers)
	for i := 0; i < callers; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			rows, err := src.FetchRows(context.Background(), "r")
			assert.NoError(t, err)
			results[i] = rows
		}()
	}

	// let every caller reach the shared fetch before releasing it
	time.Sleep(200 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, rows := range results {
		assert.Equal(t, []rowsource.Row{{"shared"}}, rows)
	}
}

func TestFetchRows_CallerDeadlineStopsWaiting(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	inner := rowsource.SourceFunc(func(ctx context.Context, readRange string) ([]rowsource.Row, error) {
		<-release
		return nil, nil
	})
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := New(inner, unreachableClient(t)).FetchRows(ctx, "r")

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
