package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/blogem/usermgmt/metrics"
	"github.com/blogem/usermgmt/userctx"
)

// RequestLog logs each request with request_id, method, path, status,
// duration, size and operator, and records the request metrics.
// Use after RequestID and LoadOperator so both are available.
func RequestLog(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			dur := time.Since(start)

			metrics.RecordRequest(r.Method, routePattern(r), status, dur.Seconds())

			level := slog.LevelInfo
			if status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			logger.LogAttrs(r.Context(), level, "request",
				slog.String("request_id", chimw.GetReqID(r.Context())),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", status),
				slog.Int64("duration_ms", dur.Milliseconds()),
				slog.Int("size", ww.BytesWritten()),
				slog.String("remote_addr", r.RemoteAddr),
				slog.String("operator", userctx.OperatorName(r.Context())),
			)
		})
	}
}

// routePattern returns the pattern chi matched, read after routing has run.
// Empty when no route matched.
func routePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return ""
	}
	return rctx.RoutePattern()
}
