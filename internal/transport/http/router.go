package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/dcucoch/Gift-checking-App/internal/platform/metrics"
	"github.com/dcucoch/Gift-checking-App/pkg/platform/httputil"
	"github.com/dcucoch/Gift-checking-App/pkg/platform/middleware/metadata"
	"github.com/dcucoch/Gift-checking-App/pkg/platform/middleware/requestid"
	"github.com/dcucoch/Gift-checking-App/pkg/platform/middleware/requestlog"
	"github.com/dcucoch/Gift-checking-App/pkg/platform/middleware/requesttime"
)

// RouteRegistrar mounts a feature's routes.
type RouteRegistrar interface {
	Register(r chi.Router)
}

// HealthChecker reports whether a backing dependency is reachable.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// RouterConfig carries what the router needs beyond the feature handlers.
type RouterConfig struct {
	Logger         *slog.Logger
	AllowedOrigins []string
	RequestTimeout time.Duration
	Metrics        *metrics.Metrics

	// Redis is optional; nil skips the dependency check in /health
	Redis HealthChecker
}

// NewRouter wires middleware, operational endpoints and the feature handlers.
func NewRouter(cfg RouterConfig, handlers ...RouteRegistrar) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(requestid.Middleware)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)
	r.Use(requestlog.Middleware(logger))
	r.Use(chimw.Recoverer)
	r.Use(cfg.Metrics.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Origin", "X-Requested-With", "Content-Type", "Accept", "Authorization"},
		ExposedHeaders: []string{requestid.Header},
		MaxAge:         300,
	}))
	if cfg.RequestTimeout > 0 {
		r.Use(chimw.Timeout(cfg.RequestTimeout))
	}

	r.Get("/health", healthHandler(cfg.Redis, logger))
	r.Handle("/metrics", metrics.Handler())

	for _, h := range handlers {
		h.Register(r)
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusNotFound, httputil.Envelope{Error: "route not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusMethodNotAllowed, httputil.Envelope{Error: "method not allowed"})
	})

	return r
}

type healthResponse struct {
	Status string `json:"status"`
	Redis  string `json:"redis,omitempty"`
}

func healthHandler(redis HealthChecker, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := healthResponse{Status: "ok"}
		status := http.StatusOK

		if redis != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := redis.Health(ctx); err != nil {
				logger.WarnContext(ctx, "redis health check failed", "error", err)
				resp = healthResponse{Status: "degraded", Redis: "down"}
				status = http.StatusServiceUnavailable
			} else {
				resp.Redis = "ok"
			}
		}

		httputil.WriteJSON(w, status, resp)
	}
}
