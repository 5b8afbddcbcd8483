package httpserver

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	h := http.NotFoundHandler()
	srv := New("127.0.0.1:3002", h, 2*time.Second, 30*time.Second)

	assert.Equal(t, "127.0.0.1:3002", srv.Addr)
	assert.Equal(t, 2*time.Second, srv.ReadHeaderTimeout)
	assert.Equal(t, 30*time.Second, srv.ReadTimeout)
	assert.Greater(t, srv.WriteTimeout, 30*time.Second)
	assert.NotNil(t, srv.Handler)
}
