// Package request provides request ID correlation middleware.
package request

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"nammasev/pkg/requestcontext"
)

// HeaderRequestID is the inbound/outbound correlation header.
const HeaderRequestID = "X-Request-Id"

// ID assigns each request a correlation ID, honoring one supplied by an
// upstream proxy, and echoes it on the response.
func ID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(HeaderRequestID, requestID)

		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID retrieves the request ID from the context.
func GetRequestID(ctx context.Context) string {
	return requestcontext.RequestID(ctx)
}
