// Package middleware carries the cross-cutting HTTP concerns: request ids,
// structured access logs, panic recovery, CORS and body size limits.
package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type ctxKey int

const requestIDKey ctxKey = 1

// maxInboundIDLen caps client-supplied request ids so log lines stay sane.
const maxInboundIDLen = 64

// RequestID propagates an inbound X-Request-ID or mints a fresh UUID, stores
// it on the context and echoes it back in the response.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rid := r.Header.Get("X-Request-ID")
			if rid == "" || len(rid) > maxInboundIDLen {
				rid = uuid.NewString()
			}
			ctx := context.WithValue(r.Context(), requestIDKey, rid)
			w.Header().Set("X-Request-ID", rid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetRequestID returns the request id stored by RequestID, or "".
func GetRequestID(r *http.Request) string {
	if v := r.Context().Value(requestIDKey); v != nil {
		return v.(string)
	}
	return ""
}
