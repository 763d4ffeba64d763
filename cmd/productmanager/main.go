// Package main runs the interactive product manager against a /produtos backend.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/abgdnv/produtos/internal/config"
	"github.com/abgdnv/produtos/internal/console"
	"github.com/abgdnv/produtos/internal/manager"
	"github.com/abgdnv/produtos/internal/notify"
	"github.com/abgdnv/produtos/internal/product"
	"github.com/abgdnv/produtos/internal/remote"
	"github.com/abgdnv/produtos/pkg/bootstrap"
	"github.com/abgdnv/produtos/pkg/config/configloader"
	"github.com/abgdnv/produtos/pkg/telemetry"
)

const serviceName = "productmanager"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Printf("application run failed: %v", err)
		os.Exit(1)
	}
}

// run wires the manager to the remote store and drives it from the terminal.
func run(ctx context.Context) error {
	cfg, cfgErr := configloader.Load[*config.Config](serviceName, configloader.WithDefaults(config.Defaults))
	if cfgErr != nil {
		return fmt.Errorf("failed to load configuration: %w", cfgErr)
	}

	// stdout belongs to the console.
	logger := bootstrap.NewLogger(cfg.Log, os.Stderr)
	slog.SetDefault(logger)
	logger.Debug("Configuration loaded", "config", cfg.String())

	tp, err := telemetry.NewTracerProvider(ctx, serviceName, cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("failed to set up tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = tp.Shutdown(shutdownCtx)
	}()

	client, err := remote.NewClient(cfg.Remote.BaseURL, remote.NewHTTPClient(cfg.Remote, cfg.CircuitBreaker), logger)
	if err != nil {
		return err
	}
	validator, err := product.NewValidator(cfg.Manager.Validation)
	if err != nil {
		return err
	}
	notifier, err := notify.New(cfg.Manager.Notifications, os.Stdout, logger)
	if err != nil {
		return err
	}

	m := manager.New(client, manager.Options{
		Validator: validator,
		Notifier:  notifier,
		Logger:    logger,
	})
	fmt.Fprintf(os.Stdout, "Gerenciador de produtos em %s. Digite help para ver os comandos.\n", cfg.Remote.BaseURL)
	err = console.New(m, os.Stdin, os.Stdout, logger).Run(ctx)
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
