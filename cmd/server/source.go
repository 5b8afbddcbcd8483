package main

import (
	"context"
	"log/slog"

	"github.com/dcucoch/Gift-checking-App/internal/platform/config"
	"github.com/dcucoch/Gift-checking-App/internal/platform/redis"
	"github.com/dcucoch/Gift-checking-App/internal/rowsource"
	"github.com/dcucoch/Gift-checking-App/internal/rowsource/cache"
	"github.com/dcucoch/Gift-checking-App/internal/rowsource/csvfile"
	"github.com/dcucoch/Gift-checking-App/internal/rowsource/metrics"
	"github.com/dcucoch/Gift-checking-App/internal/rowsource/sheets"
	"github.com/dcucoch/Gift-checking-App/pkg/platform/circuit"
)

// buildSource assembles the row source chain:
// upstream (sheets or file) -> retries -> circuit breaker -> redis cache.
func buildSource(ctx context.Context, cfg *config.Config, log *slog.Logger, m *metrics.Metrics, rc *redis.Client) (rowsource.Source, error) {
	var upstream rowsource.Source
	if cfg.UsesFile() {
		upstream = csvfile.New(cfg.Sheets.File)
	} else {
		s, err := sheets.New(ctx, sheets.Config{
			SpreadsheetID:   cfg.Sheets.SpreadsheetID,
			ClientEmail:     cfg.Sheets.ClientEmail,
			PrivateKey:      cfg.Sheets.PrivateKey,
			CredentialsFile: cfg.Sheets.CredentialsFile,
		})
		if err != nil {
			return nil, err
		}
		upstream = s
	}

	var source rowsource.Source = rowsource.NewRetrying(upstream, cfg.Fetch.Policy(),
		rowsource.WithRetryLogger(log),
		rowsource.WithRetryMetrics(m),
		rowsource.WithAttemptTimeout(cfg.Fetch.Timeout),
	)

	breaker := circuit.New("rowsource",
		circuit.WithFailureThreshold(cfg.Breaker.FailureThreshold),
		circuit.WithSuccessThreshold(cfg.Breaker.SuccessThreshold),
	)
	source = rowsource.NewGuarded(source, breaker,
		rowsource.WithGuardLogger(log),
		rowsource.WithGuardMetrics(m),
	)

	if rc != nil {
		source = cache.New(source, rc.Client,
			cache.WithTTL(cfg.Cache.TTL),
			cache.WithLogger(log),
			cache.WithMetrics(m),
		)
	}
	return source, nil
}
