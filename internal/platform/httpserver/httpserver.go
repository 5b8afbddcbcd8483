package httpserver

import (
	"net/http"
	"time"
)

// New builds an HTTP server for the lookup API. The write timeout leaves room
// for the handler's own request timeout to answer first.
func New(addr string, handler http.Handler, readHeaderTimeout, requestTimeout time.Duration) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       requestTimeout,
		WriteTimeout:      requestTimeout + 5*time.Second,
		IdleTimeout:       2 * time.Minute,
	}
}
