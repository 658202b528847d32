// SPDX-License-Identifier: MIT

package api

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/go-chi/httprate"
	"github.com/google/uuid"

	"github.com/ManuGH/m3ucat/internal/log"
)

const headerRequestID = "X-Request-ID"

// RequestID assigns a unique ID to every request and stores it in the
// context so downstream loggers pick it up.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(headerRequestID)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set(headerRequestID, reqID)
		ctx := log.ContextWithRequestID(r.Context(), reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Recoverer ensures that panics inside any downstream handler do not crash
// the process. The panic is logged with its stack and a 500 JSON is returned.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				buf := make([]byte, 8192)
				n := runtime.Stack(buf, false)

				logger := log.WithComponentFromContext(r.Context(), "panic-recovery")
				logger.Error().
					Str(log.FieldEvent, "panic.recovered").
					Str("method", r.Method).
					Str(log.FieldPath, r.URL.Path).
					Interface("panic_value", rec).
					Str("stack_trace", string(buf[:n])).
					Msg("panic recovered in HTTP handler")

				writeError(w, http.StatusInternalServerError, "internal", "An unexpected error occurred")
			}
		}()

		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

// AccessLog writes one structured log line per completed request.
func AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		logger := log.WithComponentFromContext(r.Context(), "api")
		logger.Info().
			Str(log.FieldEvent, "http.request").
			Str("method", r.Method).
			Str(log.FieldPath, r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Str("remote_addr", r.RemoteAddr).
			Msg("request completed")
	})
}

// RateLimit limits requests per client IP using a sliding window counter.
func RateLimit(limit int, window time.Duration) func(http.Handler) http.Handler {
	return httprate.Limit(
		limit,
		window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Retry-After", fmt.Sprintf("%d", int(window.Seconds())))
			writeError(w, http.StatusTooManyRequests, "rate_limit_exceeded", "Too many requests")
		}),
	)
}

// RefreshRateLimit guards the expensive refresh endpoint with a tighter
// per-IP budget than the general API limit.
func RefreshRateLimit() func(http.Handler) http.Handler {
	return RateLimit(10, time.Minute)
}
