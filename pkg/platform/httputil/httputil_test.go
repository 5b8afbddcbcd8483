package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "github.com/dcucoch/Gift-checking-App/pkg/domain-errors"
)

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body
}

func TestWriteError(t *testing.T) {
	t.Run("internal error hides message and carries details", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.Wrap(errors.New("sheets quota"), dErrors.CodeInternal, "lookup failed"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		body := decodeEnvelope(t, w)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "internal error", body["error"])
		assert.Equal(t, "lookup failed: sheets quota", body["details"])
	})

	t.Run("uncoded errors are internal", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, fmt.Errorf("boom"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		body := decodeEnvelope(t, w)
		assert.Equal(t, "internal error", body["error"])
		assert.Equal(t, "boom", body["details"])
	})

	t.Run("validation error exposes message without details", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeValidation, "identifier required"))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeEnvelope(t, w)
		assert.Equal(t, "identifier required", body["error"])
		_, ok := body["details"]
		assert.False(t, ok, "details must be omitted for client errors")
	})

	t.Run("not found maps to 404", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeNotFound, "not found: 1-9"))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "not found: 1-9", decodeEnvelope(t, w)["error"])
	})
}

func TestWriteSuccess(t *testing.T) {
	w := httptest.NewRecorder()
	WriteSuccess(w, map[string]string{"nombre": "Ana"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	body := decodeEnvelope(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, map[string]any{"nombre": "Ana"}, body["data"])
	_, hasError := body["error"]
	assert.False(t, hasError)
}

type probeRequest struct {
	ID string `json:"id"`
}

func (p *probeRequest) Validate() error {
	p.ID = strings.TrimSpace(p.ID)
	if p.ID == "" {
		return dErrors.New(dErrors.CodeValidation, "identifier required")
	}
	return nil
}

func TestDecodeAndPrepare(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("valid body", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/lookup", strings.NewReader(`{"id":" 1-9 "}`))
		w := httptest.NewRecorder()

		req, ok := DecodeAndPrepare[probeRequest](w, r, logger, r.Context(), "req-1")
		require.True(t, ok)
		assert.Equal(t, "1-9", req.ID)
	})

	t.Run("malformed JSON is a bad request", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/lookup", strings.NewReader(`{"id":`))
		w := httptest.NewRecorder()

		_, ok := DecodeAndPrepare[probeRequest](w, r, logger, r.Context(), "req-2")
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "invalid JSON body", decodeEnvelope(t, w)["error"])
	})

	t.Run("empty body fails validation", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/lookup", http.NoBody)
		w := httptest.NewRecorder()

		_, ok := DecodeAndPrepare[probeRequest](w, r, logger, r.Context(), "req-3")
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "identifier required", decodeEnvelope(t, w)["error"])
	})
}
