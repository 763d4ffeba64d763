package web

import (
	"context"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// RequestIDInjector makes sure every request carries an id: the caller's X-Request-Id
// when present, otherwise a fresh uuid. The id is echoed back in the response.
func RequestIDInjector(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := ResolveRequestID(r)
		ctx := ContextWithRequestID(r.Context(), reqID)
		ctx = context.WithValue(ctx, middleware.RequestIDKey, reqID)
		w.Header().Set(RequestIDHeader, reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// StructuredLogger logs one record per request. 5xx responses are logged at error
// level and 4xx at warn, everything else at info.
func StructuredLogger(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)

			status := ww.Status()
			level := slog.LevelInfo
			switch {
			case status >= http.StatusInternalServerError:
				level = slog.LevelError
			case status >= http.StatusBadRequest:
				level = slog.LevelWarn
			}
			logger.Log(r.Context(), level, "Request completed",
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes_written", ww.BytesWritten(),
				"duration_ms", float64(time.Since(start).Nanoseconds())/1e6,
				"remote_addr", r.RemoteAddr,
			)
		})
	}
}

// Recoverer turns a handler panic into a 500 JSON error. http.ErrAbortHandler is re-raised.
func Recoverer(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rvr := recover()
				if rvr == nil {
					return
				}
				if rvr == http.ErrAbortHandler {
					panic(rvr)
				}
				logger.ErrorContext(r.Context(), "Panic recovered", "panic", rvr, "stack", string(debug.Stack()))
				RespondError(w, logger, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
			}()
			next.ServeHTTP(w, r)
		})
	}
}
