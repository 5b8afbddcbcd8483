package testutil

import (
	"net/http"

	"github.com/dcucoch/Gift-checking-App/pkg/requestcontext"
)

// WithRequestID attaches a request ID the way the request id middleware does,
// for handlers mounted without the middleware chain.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	return req.WithContext(requestcontext.WithRequestID(req.Context(), requestID))
}
