package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/Unobtainiumrock/toy-problem-performance-analysis/internal/log"
)

// CorrelationHeader carries the correlation ID in requests and responses.
const CorrelationHeader = "X-Correlation-ID"

// CorrelationID stores a correlation ID and chi's request ID in the request
// context so every log record of the request carries them. A caller-supplied
// X-Correlation-ID wins; otherwise the request ID is used. The ID is echoed
// in the response.
func CorrelationID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		reqID := middleware.GetReqID(ctx)

		id := r.Header.Get(CorrelationHeader)
		if id == "" {
			id = reqID
		}
		if id != "" {
			w.Header().Set(CorrelationHeader, id)
			ctx = log.WithCorrelationID(ctx, id)
		}
		if reqID != "" {
			ctx = log.WithRequestID(ctx, reqID)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
