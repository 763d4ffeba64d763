package web

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// RequestIDHeader carries the correlation id between the client and the backend.
const RequestIDHeader = "X-Request-Id"

type contextKey int

const requestIDContextKey contextKey = iota

// ContextWithRequestID returns a copy of ctx carrying id. An empty id returns ctx unchanged.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDContextKey, id)
}

// RequestIDFromContext returns the id attached by ContextWithRequestID, falling back
// to the one set by chi's RequestID middleware. It returns "" when there is none.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDContextKey).(string); ok {
		return id
	}
	return middleware.GetReqID(ctx)
}

// ResolveRequestID picks the id for r: its X-Request-Id header, then the id in its
// context, then a new uuid.
func ResolveRequestID(r *http.Request) string {
	if id := r.Header.Get(RequestIDHeader); id != "" {
		return id
	}
	if id := RequestIDFromContext(r.Context()); id != "" {
		return id
	}
	return uuid.NewString()
}
