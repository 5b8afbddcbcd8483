// Package httputil holds the JSON envelope every endpoint answers with and the
// translation from domain errors to HTTP statuses.
package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	dErrors "github.com/dcucoch/Gift-checking-App/pkg/domain-errors"
)

// maxBodyBytes bounds request bodies; lookup payloads are a single identifier.
const maxBodyBytes = 1 << 16

// internalErrorMessage is the only text clients see for 5xx responses.
const internalErrorMessage = "internal error"

// Envelope is the response body shape shared by all endpoints.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Details string `json:"details,omitempty"`
}

// Validatable request bodies check and normalize themselves after decoding.
type Validatable interface {
	Validate() error
}

// WriteJSON writes v as JSON with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteSuccess writes a 200 envelope carrying data.
func WriteSuccess(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusOK, Envelope{Success: true, Data: data})
}

// WriteError translates err into a failure envelope. Client errors expose the
// domain message; server errors expose a generic message and put the
// diagnostic in details.
func WriteError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	body := Envelope{Success: false, Error: internalErrorMessage}

	var de *dErrors.Error
	if errors.As(err, &de) {
		status = dErrors.ToHTTPStatus(de.Code)
		if status < http.StatusInternalServerError {
			body.Error = de.Message
		}
	}
	if status >= http.StatusInternalServerError && err != nil {
		body.Details = err.Error()
	}
	WriteJSON(w, status, body)
}

// DecodeJSON decodes a bounded JSON body into T. An empty body decodes to the
// zero value.
func DecodeJSON[T any](r *http.Request) (*T, error) {
	var v T
	if r.Body == nil {
		return &v, nil
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(&v); err != nil && !errors.Is(err, io.EOF) {
		return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid JSON body")
	}
	return &v, nil
}

// DecodeAndPrepare decodes and validates a request body, writing the error
// response itself when either step fails.
func DecodeAndPrepare[T any, PT interface {
	*T
	Validatable
}](w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context, requestID string) (*T, bool) {
	req, err := DecodeJSON[T](r)
	if err != nil {
		logger.WarnContext(ctx, "failed to decode request",
			"request_id", requestID,
			"error", err,
		)
		WriteError(w, err)
		return nil, false
	}
	if err := PT(req).Validate(); err != nil {
		logger.WarnContext(ctx, "invalid request",
			"request_id", requestID,
			"error", err,
		)
		WriteError(w, err)
		return nil, false
	}
	return req, true
}
