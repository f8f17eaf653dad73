// Package app assembles the configured preferences backend, the write-behind
// layer and the inventory service for the commands under cmd/.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/rl1809/stock-tally/internal/adapter/storage"
	"github.com/rl1809/stock-tally/internal/config"
	"github.com/rl1809/stock-tally/internal/core/service"
	"github.com/rl1809/stock-tally/internal/port"
	"github.com/rl1809/stock-tally/internal/telemetry"
)

type App struct {
	Config  config.Config
	Logger  *zap.Logger
	Service *service.InventoryService

	prefs           *storage.WriteBehind
	shutdownTracing telemetry.ShutdownFunc
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	shutdown, err := telemetry.InitTracing(ctx, log, telemetry.Config{
		ServiceName: cfg.ServiceName,
		Endpoint:    cfg.OTELEndpoint,
		Probability: cfg.OTELSampleRatio,
	})
	if err != nil {
		return nil, err
	}

	backend, err := OpenBackend(ctx, cfg)
	if err != nil {
		shutdown(ctx)
		return nil, err
	}
	log.Info("preferences backend ready",
		zap.String("backend", cfg.Backend),
		zap.String("namespace", cfg.Namespace),
	)

	prefs := storage.NewWriteBehind(backend, cfg.WriteQueueSize, log.Named("prefs"))

	return &App{
		Config:          cfg,
		Logger:          log,
		Service:         service.NewInventoryService(prefs, log.Named("inventory")),
		prefs:           prefs,
		shutdownTracing: shutdown,
	}, nil
}

// OpenBackend connects the preferences namespace selected by cfg.Backend.
func OpenBackend(ctx context.Context, cfg config.Config) (port.Preferences, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return storage.NewMemoryAdapter(), nil

	case config.BackendRedis:
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		return storage.NewRedisAdapter(rdb, cfg.Namespace), nil

	case config.BackendMySQL:
		return openSQL(ctx, storage.MySQL, cfg.MySQLDSN, cfg.Namespace)

	case config.BackendPostgres:
		return openSQL(ctx, storage.Postgres, cfg.PostgresDSN, cfg.Namespace)

	case config.BackendSQLite:
		return openSQL(ctx, storage.SQLite, cfg.SQLitePath, cfg.Namespace)
	}

	return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
}

func openSQL(ctx context.Context, dialect storage.Dialect, dsn, namespace string) (port.Preferences, error) {
	adapter, err := storage.OpenSQL(ctx, dialect, dsn, namespace)
	if err != nil {
		return nil, err
	}
	return adapter, nil
}

// Flush waits for every accepted save to reach the backend.
func (a *App) Flush(ctx context.Context) error {
	return a.prefs.Flush(ctx)
}

// Close drains pending writes, closes the backend and stops tracing.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if err := a.prefs.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close preferences: %w", err))
	}
	if err := a.shutdownTracing(ctx); err != nil {
		errs = append(errs, fmt.Errorf("shutdown tracing: %w", err))
	}
	return errors.Join(errs...)
}
