package log

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// ContextKey type for context keys
type ContextKey string

const (
	loggerContextKey    ContextKey = "logger"
	requestIDContextKey ContextKey = "request_id"
)

// FromContext extracts a logger from the request context, falling back to a
// default logger.
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(loggerContextKey).(*Logger); ok {
		return logger
	}
	return New(DefaultConfig())
}

// RequestID returns the request ID stored in the context, if any.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDContextKey).(string); ok {
		return id
	}
	return ""
}

// Middleware assigns each request an ID, stashes a request-scoped logger in
// the context, and logs start/completion with method, path, status and
// duration.
func Middleware(logger *Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := uuid.NewString()

			clientIP := r.Header.Get("X-Forwarded-For")
			if clientIP == "" {
				clientIP = r.RemoteAddr
			}

			reqLogger := logger.With(FieldRequestID, requestID)
			ctx := context.WithValue(r.Context(), loggerContextKey, reqLogger)
			ctx = context.WithValue(ctx, requestIDContextKey, requestID)
			r = r.WithContext(ctx)

			reqLogger.InfoContext(ctx, "Request started",
				FieldMethod, r.Method,
				FieldPath, r.URL.Path,
				FieldClientIP, clientIP,
				FieldUserAgent, r.Header.Get("User-Agent"))

			rw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rw, r)

			reqLogger.InfoContext(ctx, "Request completed",
				FieldMethod, r.Method,
				FieldPath, r.URL.Path,
				FieldStatusCode, rw.status,
				FieldDuration, time.Since(start).Milliseconds())
		})
	}
}

// statusWriter wraps http.ResponseWriter to capture the status code
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
