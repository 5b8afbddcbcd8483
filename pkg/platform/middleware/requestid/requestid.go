// Package requestid assigns every request an identifier that follows it
// through logs and responses.
package requestid

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/dcucoch/Gift-checking-App/pkg/requestcontext"
)

// Header carries the request id in both directions.
const Header = "X-Request-ID"

// maxInboundLength caps caller-supplied ids so log lines stay bounded.
const maxInboundLength = 128

// Middleware honors an inbound X-Request-ID or generates a UUID, stores it in
// the context and echoes it on the response.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(Header)
		if reqID == "" || len(reqID) > maxInboundLength {
			reqID = uuid.NewString()
		}
		w.Header().Set(Header, reqID)
		ctx := requestcontext.WithRequestID(r.Context(), reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
