// Package bootstrap builds the process-wide collaborators shared by the binaries.
package bootstrap

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/abgdnv/produtos/pkg/config"
	"github.com/abgdnv/produtos/pkg/logger"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewLogger creates a slog.Logger writing to w. Records are enriched with the
// trace and request ids found in the context.
func NewLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	logLevel := toLevel(cfg.Level)
	loggerOpts := &slog.HandlerOptions{
		AddSource: logLevel == slog.LevelDebug,
		Level:     logLevel,
	}
	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(w, loggerOpts)
	} else {
		handler = slog.NewJSONHandler(w, loggerOpts)
	}
	return slog.New(logger.NewContextHandler(handler))
}

// NewDbPool creates a new database connection pool and pings it within connectTimeout.
func NewDbPool(ctx context.Context, url string, connectTimeout time.Duration) (*pgxpool.Pool, error) {
	poolCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	dbPool, errPool := pgxpool.New(poolCtx, url)
	if errPool != nil {
		return nil, fmt.Errorf("failed to create database connection pool: %w", errPool)
	}
	// Ping the database to ensure the connection is established (fail early if not)
	if err := dbPool.Ping(poolCtx); err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return dbPool, nil
}

// toLevel converts a string representation of a log level to slog.Level.
func toLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
