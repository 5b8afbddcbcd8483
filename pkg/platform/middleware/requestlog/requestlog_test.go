package requestlog

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcucoch/Gift-checking-App/pkg/requestcontext"
)

func serve(t *testing.T, status int) map[string]any {
	t.Helper()
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	h := Middleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/lookup?id=1-9", nil)
	ctx := requestcontext.WithRequestID(req.Context(), "req-7")
	ctx = requestcontext.WithClientMetadata(ctx, "192.0.2.1", "test-agent")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req.WithContext(ctx))
	require.Equal(t, status, rr.Code)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestMiddleware_LogsRequestFields(t *testing.T) {
	entry := serve(t, http.StatusOK)

	assert.Equal(t, "request", entry["msg"])
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "GET", entry["method"])
	assert.Equal(t, "/lookup", entry["path"])
	assert.Equal(t, float64(http.StatusOK), entry["status"])
	assert.Equal(t, "req-7", entry["request_id"])
	assert.Equal(t, "192.0.2.1", entry["client_ip"])
	assert.Equal(t, "test-agent", entry["user_agent"])
	assert.Contains(t, entry, "duration_ms")
}

func TestMiddleware_LevelByStatus(t *testing.T) {
	assert.Equal(t, "WARN", serve(t, http.StatusNotFound)["level"])
	assert.Equal(t, "ERROR", serve(t, http.StatusInternalServerError)["level"])
}
