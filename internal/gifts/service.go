package gifts

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/dcucoch/Gift-checking-App/internal/gifts/metrics"
	"github.com/dcucoch/Gift-checking-App/internal/rowsource"
	id "github.com/dcucoch/Gift-checking-App/pkg/domain"
	dErrors "github.com/dcucoch/Gift-checking-App/pkg/domain-errors"
	"github.com/dcucoch/Gift-checking-App/pkg/requestcontext"
)

// DefaultRange skips the header row and covers columns A through AD.
const DefaultRange = "Hoja 1!A2:AD"

// Service answers gift lookups from a row source.
type Service struct {
	source    rowsource.Source
	readRange string
	schema    Schema
	strict    bool
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithRange overrides the sheet range read per lookup.
func WithRange(readRange string) Option {
	return func(s *Service) {
		if readRange != "" {
			s.readRange = readRange
		}
	}
}

// WithSchema overrides the column layout.
func WithSchema(schema Schema) Option {
	return func(s *Service) {
		s.schema = schema
	}
}

// WithStrictRUT rejects identifiers whose check digit is wrong before the
// source is queried.
func WithStrictRUT(strict bool) Option {
	return func(s *Service) {
		s.strict = strict
	}
}

// NewService builds a Service over source.
func NewService(source rowsource.Source, opts ...Option) *Service {
	s := &Service{
		source:    source,
		readRange: DefaultRange,
		schema:    DefaultSchema(),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Lookup returns every gift recorded for rawRUT.
//
// Errors carry domain codes: validation for a missing identifier (and, in
// strict mode, invalid input for a bad checksum), not found when no row
// matches, unavailable when the source stayed down through every retry and
// internal for anything else.
func (s *Service) Lookup(ctx context.Context, rawRUT string) (*ApplicantResult, error) {
	start := time.Now()
	result, err := s.lookup(ctx, strings.TrimSpace(rawRUT))
	s.metrics.ObserveLookupLatency(time.Since(start))
	s.metrics.IncrementOutcome(outcomeOf(err))
	if err == nil {
		s.metrics.ObserveGifts(len(result.Gifts))
	}
	return result, err
}

func (s *Service) lookup(ctx context.Context, rawRUT string) (*ApplicantResult, error) {
	requestID := requestcontext.RequestID(ctx)

	if id.NormalizeRUT(rawRUT) == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "identifier required")
	}
	if s.strict {
		if _, err := id.ParseRUT(rawRUT); err != nil {
			return nil, err
		}
	}

	rows, err := s.source.FetchRows(ctx, s.readRange)
	if err != nil {
		s.logger.ErrorContext(ctx, "row fetch failed",
			"request_id", requestID,
			"range", s.readRange,
			"category", rowsource.CategoryOf(err),
			"error", err,
		)
		return nil, translateSourceError(err)
	}

	result, err := Project(rows, rawRUT, s.schema)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			s.logger.WarnContext(ctx, "no rows for identifier",
				"request_id", requestID,
				"rut", rawRUT,
				"rows_scanned", len(rows),
			)
		}
		return nil, err
	}

	s.logger.InfoContext(ctx, "gift lookup succeeded",
		"request_id", requestID,
		"rut", result.RUT,
		"gifts", len(result.Gifts),
	)
	return result, nil
}

func translateSourceError(err error) error {
	switch {
	case errors.Is(err, rowsource.ErrSourceExhausted),
		rowsource.IsRetryable(err),
		errors.Is(err, context.DeadlineExceeded):
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "row source unavailable")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "row source failed")
	}
}

func outcomeOf(err error) string {
	switch dErrors.CodeOf(err) {
	case dErrors.CodeValidation, dErrors.CodeInvalidInput, dErrors.CodeBadRequest:
		return "invalid"
	case dErrors.CodeNotFound:
		return "not_found"
	case dErrors.CodeUnavailable:
		return "unavailable"
	}
	if err == nil {
		return "found"
	}
	return "error"
}
