package middleware

import (
	"log/slog"
	"net/http"

	"github.com/dlourenco/taskman/internal/api/shared"
)

// TraceMiddleware adds a trace ID to the request context. Apply it
// before any handler that logs or responds with errors so the ID is
// available for correlation.
func TraceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := shared.SetTraceID(r.Context())

		slog.Debug("request started",
			slog.String("trace_id", shared.GetTraceID(ctx)),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote_addr", r.RemoteAddr))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
