// Package app wires the produtos backend together.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/abgdnv/produtos/internal/backend/config"
	"github.com/abgdnv/produtos/internal/backend/store"
	"github.com/abgdnv/produtos/internal/backend/transport/rest"
	"github.com/abgdnv/produtos/internal/product"
	"github.com/abgdnv/produtos/pkg/bootstrap"
	pkgconfig "github.com/abgdnv/produtos/pkg/config"
	"github.com/abgdnv/produtos/pkg/server"
	"github.com/abgdnv/produtos/pkg/web"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Dependencies struct {
	Store    store.ProductStore
	Logger   *slog.Logger
	Registry *prometheus.Registry
}

// SetupDependencies opens the configured store. The returned cleanup releases it.
func SetupDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, func(), error) {
	deps := &Dependencies{
		Logger:   logger,
		Registry: NewRegistry(),
	}
	if cfg.Storage.Kind != pkgconfig.StoragePostgres {
		logger.Info("Using in-memory product store")
		deps.Store = store.NewInMemoryStore()
		return deps, func() {}, nil
	}

	if cfg.Storage.Database.Migrate {
		if err := store.Migrate(cfg.Storage.Database.URL); err != nil {
			return nil, nil, err
		}
		logger.Info("Database migrations applied")
	}
	dbPool, err := bootstrap.NewDbPool(ctx, cfg.Storage.Database.URL, cfg.Storage.Database.Timeout)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create database connection pool: %w", err)
	}
	logger.Info("Successfully connected to the database!")
	deps.Store = store.NewPgStore(dbPool)
	return deps, dbPool.Close, nil
}

// NewRegistry creates a metrics registry with the Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// SetupHttpHandler builds the router with all routes and middleware.
// Used by E2E tests to run the backend in an httptest.Server. A nil Registry disables metrics.
func SetupHttpHandler(deps *Dependencies, metricsPath string) http.Handler {
	var extra []func(http.Handler) http.Handler
	if deps.Registry != nil {
		extra = append(extra, web.RequestMetrics(deps.Registry))
	}
	mux := server.NewChiRouter(deps.Logger, extra...)

	handler := rest.NewHandler(deps.Store, product.NewSchemaValidator(), deps.Logger)
	handler.RegisterRoutes(mux)

	if deps.Registry != nil && metricsPath != "" {
		mux.Handle(metricsPath, promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{Registry: deps.Registry}))
	}
	return mux
}

// SetupHttpServer creates and configures the HTTP server of the backend.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {
	metricsPath := ""
	if cfg.Observability.Metrics.Enabled {
		metricsPath = cfg.Observability.Metrics.Path
	}
	return server.NewHTTPServer(cfg.HTTPServer, "produtos", SetupHttpHandler(deps, metricsPath))
}
