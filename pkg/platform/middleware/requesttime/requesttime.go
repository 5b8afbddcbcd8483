// Package requesttime pins a single "now" per request so logged durations and
// any time-dependent decisions agree for the lifetime of the request.
package requesttime

import (
	"net/http"
	"time"

	"github.com/dcucoch/Gift-checking-App/pkg/requestcontext"
)

// Middleware captures the current time at the start of the request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
