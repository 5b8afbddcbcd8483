package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dcucoch/Gift-checking-App/internal/gifts"
	"github.com/dcucoch/Gift-checking-App/pkg/platform/httputil"
	"github.com/dcucoch/Gift-checking-App/pkg/requestcontext"
)

// Service defines the interface for gift lookups.
type Service interface {
	Lookup(ctx context.Context, rawRUT string) (*gifts.ApplicantResult, error)
}

// Handler wires lookup endpoints to the gift service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a gift handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts the lookup and identifier endpoints on the router.
// /api/getData is the path the existing web page calls.
func (h *Handler) Register(r chi.Router) {
	for _, path := range []string{"/lookup", "/api/getData"} {
		r.Get(path, h.HandleLookupQuery)
		r.Post(path, h.HandleLookupBody)
	}
	r.Get("/rut", h.HandleRUT)
}

// HandleLookupQuery handles GET /lookup?id=<rut>.
func (h *Handler) HandleLookupQuery(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req := LookupRequestFromQuery(r.URL.Query())
	if err := req.Validate(); err != nil {
		h.logger.WarnContext(ctx, "invalid lookup request",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	h.lookup(w, r, req)
}

// HandleLookupBody handles POST /lookup with {"id": "<rut>"}.
func (h *Handler) HandleLookupBody(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[LookupRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	h.lookup(w, r, req)
}

func (h *Handler) lookup(w http.ResponseWriter, r *http.Request, req *LookupRequest) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	result, err := h.service.Lookup(ctx, req.Identifier())
	if err != nil {
		h.logger.WarnContext(ctx, "gift lookup failed",
			"request_id", requestID,
			"rut", req.Identifier(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "gift lookup served",
		"request_id", requestID,
		"gifts", len(result.Gifts),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteSuccess(w, result)
}

// HandleRUT handles GET /rut?id=<rut>: normalization, formatting and
// checksum verdict for an identifier as typed.
func (h *Handler) HandleRUT(w http.ResponseWriter, r *http.Request) {
	req := LookupRequestFromQuery(r.URL.Query())
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, NewRUTCheckResponse(req.Identifier()))
}
