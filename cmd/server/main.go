package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/dcucoch/Gift-checking-App/internal/gifts"
	giftsHandler "github.com/dcucoch/Gift-checking-App/internal/gifts/handler"
	giftsMetrics "github.com/dcucoch/Gift-checking-App/internal/gifts/metrics"
	"github.com/dcucoch/Gift-checking-App/internal/platform/config"
	"github.com/dcucoch/Gift-checking-App/internal/platform/httpserver"
	"github.com/dcucoch/Gift-checking-App/internal/platform/logger"
	"github.com/dcucoch/Gift-checking-App/internal/platform/metrics"
	"github.com/dcucoch/Gift-checking-App/internal/platform/redis"
	sourceMetrics "github.com/dcucoch/Gift-checking-App/internal/rowsource/metrics"
	httptransport "github.com/dcucoch/Gift-checking-App/internal/transport/http"
)

func main() {
	// A missing .env is normal in deployed environments
	if err := godotenv.Load(); err == nil {
		slog.Info("loaded .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	log.Info("configuration loaded", "config", cfg.String())

	ctx := context.Background()

	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		log.Info("redis connected", "cache_ttl", cfg.Cache.TTL)
	}

	source, err := buildSource(ctx, cfg, log, sourceMetrics.New(), redisClient)
	if err != nil {
		log.Error("failed to build row source", "error", err)
		os.Exit(1)
	}

	service := gifts.NewService(source,
		gifts.WithLogger(log),
		gifts.WithMetrics(giftsMetrics.New()),
		gifts.WithRange(cfg.Sheets.Range),
		gifts.WithStrictRUT(cfg.Lookup.StrictRUT),
	)

	routerCfg := httptransport.RouterConfig{
		Logger:         log,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		RequestTimeout: cfg.Server.RequestTimeout,
		Metrics:        metrics.New(),
	}
	if redisClient != nil {
		routerCfg.Redis = redisClient
	}
	router := httptransport.NewRouter(routerCfg, giftsHandler.New(service, log))

	srv := httpserver.New(cfg.Server.Addr(), router, cfg.Server.ReadHeaderTimeout, cfg.Server.RequestTimeout)

	go func() {
		logStartup(log, cfg)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
	log.Info("server stopped")
}

func logStartup(log *slog.Logger, cfg *config.Config) {
	source := "google_sheets"
	if cfg.UsesFile() {
		source = "file:" + cfg.Sheets.File
	}
	log.Info("server listening",
		"addr", cfg.Server.Addr(),
		"source", source,
		"range", cfg.Sheets.Range,
		"strict_rut", cfg.Lookup.StrictRUT,
	)
	for _, ep := range []string{
		"GET  /lookup?id=<rut>",
		"POST /lookup",
		"GET  /api/getData?rut=<rut>",
		"POST /api/getData",
		"GET  /rut?id=<rut>",
		"GET  /health",
		"GET  /metrics",
	} {
		log.Info("endpoint available", "route", ep)
	}
}
