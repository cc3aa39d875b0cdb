// Package app initializes and holds long-lived application services,
// acting as a dependency injection container.
package app

import (
	"context"
	"fmt"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/quotesdb/quotes-crawler/internal/logging"
	"github.com/quotesdb/quotes-crawler/internal/repository"
)

// App holds the shared, long-lived services: the logger and the repository.
// It is initialized once at startup and handed to the components that need
// it; components never reach into ambient global state themselves.
type App struct {
	logger *zap.Logger
	store  *repository.SQLStore
}

// GetLogger returns the shared zap logger instance.
func (a *App) GetLogger() *zap.Logger {
	return a.logger
}

// GetStore exposes the configured repository.
func (a *App) GetStore() *repository.SQLStore {
	return a.store
}

// Close shuts down the application services.
func (a *App) Close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Warn("Failed to close repository", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}

// NewApp creates and initializes a new App from the application's
// configuration. It reads values from Viper and connects to the configured
// database engine, failing fast if any critical service cannot start.
func NewApp(ctx context.Context) (*App, error) {
	logger, err := logging.New(viper.GetBool("logging.development"))
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	engine := viper.GetString("database.engine")
	var cfg repository.Config
	switch engine {
	case "postgres":
		cfg.DSN = viper.GetString("database.postgres.dsn")
		if cfg.DSN == "" {
			return nil, fmt.Errorf("database.engine is 'postgres' but database.postgres.dsn is not set")
		}
		logger.Info("Connecting to PostgreSQL...")
	case "sqlite":
		cfg.Path = viper.GetString("database.sqlite.path")
		if cfg.Path == "" {
			return nil, fmt.Errorf("database.engine is 'sqlite' but database.sqlite.path is not set")
		}
		logger.Info("Opening SQLite database", zap.String("path", cfg.Path))
	default:
		return nil, fmt.Errorf("unknown database engine: %s", engine)
	}

	store, err := repository.Open(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return &App{logger: logger, store: store}, nil
}
