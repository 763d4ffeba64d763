// Package server builds the HTTP servers and routers used by the binaries.
package server

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/abgdnv/produtos/pkg/config"
	"github.com/abgdnv/produtos/pkg/web"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// NewHTTPServer creates an HTTP server for handler. The handler is wrapped with
// otelhttp so each request starts (or continues) a trace.
func NewHTTPServer(cfg config.ServerConfig, operation string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           otelhttp.NewHandler(handler, operation),
		ReadTimeout:       cfg.Timeout.Read,
		WriteTimeout:      cfg.Timeout.Write,
		IdleTimeout:       cfg.Timeout.Idle,
		ReadHeaderTimeout: cfg.Timeout.ReadHeader,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}
}

// NewChiRouter creates a new Chi router with a set of
// middleware for request ID injection, structured logging, and recovery.
// Extra middleware runs after those three.
func NewChiRouter(logger *slog.Logger, extra ...func(http.Handler) http.Handler) *chi.Mux {
	mux := chi.NewRouter()
	mux.Use(web.RequestIDInjector)
	mux.Use(web.StructuredLogger(logger))
	mux.Use(web.Recoverer(logger))
	mux.Use(extra...)
	return mux
}
