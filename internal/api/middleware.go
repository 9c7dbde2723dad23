package api

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// RequestIDHeader carries the request id in and out
const RequestIDHeader = "X-Request-ID"

type ctxKey struct{}

// RequestID returns the id attached by RequestIDMiddleware.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(ctxKey{}).(string); ok {
		return id
	}
	return ""
}

// RequestIDMiddleware reuses an incoming X-Request-ID or mints one, echoes
// it on the response and logs the request once it completes.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		start := time.Now()
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))

		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote_addr", r.RemoteAddr).
			Str("request_id", id).
			Dur("duration", time.Since(start)).
			Msg("Request handled")
	})
}
