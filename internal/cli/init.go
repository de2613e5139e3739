// Package cli provides the initialization shared by the fluxo commands and
// the terminal styles they print with.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"fluxo/internal/amqp"
	"fluxo/internal/config"
	"fluxo/internal/log"
	"fluxo/internal/services"
	"fluxo/internal/storage"
)

// SetupLogger builds the logger described by cfg and makes it the default.
func SetupLogger(cfg *config.Config, out io.Writer) (*log.Logger, error) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logger := log.New(log.Config{
		Level:     level,
		Format:    cfg.LogFormat,
		Component: log.ComponentCLI,
		Output:    out,
	})
	log.SetDefault(logger)
	return logger, nil
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile(paths ...string) {
	_ = godotenv.Load(paths...)
}

// LoadAndValidateConfig loads configuration from the environment, applies
// the overrides in order and validates the result.
func LoadAndValidateConfig(overrides ...func(*config.Config)) (*config.Config, error) {
	cfg := config.Load()
	for _, apply := range overrides {
		apply(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// InitSQLite opens the repository at dbPath. The error wraps
// core.ErrStorageInit and is fatal to the caller.
func InitSQLite(ctx context.Context, logger *log.Logger, dbPath string) (*storage.SQLiteRepository, error) {
	repo, err := storage.NewSQLiteRepository(dbPath)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to initialize SQLite repository", log.FieldError, err, "path", dbPath)
		return nil, err
	}
	logger.DebugContext(ctx, "SQLite repository ready", "path", repo.Path())
	return repo, nil
}

// InitAMQP connects to the broker, or returns nil when AMQP is disabled.
func InitAMQP(ctx context.Context, logger *log.Logger, cfg *config.Config) (*amqp.Client, error) {
	if !cfg.AMQPEnabled() {
		return nil, nil
	}
	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		return nil, fmt.Errorf("connect to AMQP: %w", err)
	}
	client.PublishTimeout = cfg.AMQPPublishTimeout
	logger.DebugContext(ctx, "AMQP client ready", "exchange", cfg.AMQPExchange)
	return client, nil
}

// NewLedger wires the repository and, when configured, the change
// publisher into a ledger service. A broker that cannot be reached is
// logged and skipped so local bookkeeping keeps working.
func NewLedger(ctx context.Context, logger *log.Logger, cfg *config.Config) (*services.LedgerService, error) {
	repo, err := InitSQLite(ctx, logger, cfg.DBPath)
	if err != nil {
		return nil, err
	}

	var publisher services.ChangePublisher
	client, err := InitAMQP(ctx, logger, cfg)
	if err != nil {
		logger.WarnContext(ctx, "Change events disabled", log.FieldError, err)
	} else if client != nil {
		publisher = client
	}

	return services.NewLedgerService(repo, publisher, logger.WithComponent(log.ComponentLedger)), nil
}

// GracefulShutdown returns a context cancelled on SIGINT or SIGTERM. cleanup
// runs once, after the signal and before the context is cancelled.
func GracefulShutdown(parent context.Context, logger *log.Logger, cleanup func()) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigChan)

		select {
		case sig := <-sigChan:
			logger.InfoContext(ctx, "Shutdown signal received", "signal", sig.String())
			if cleanup != nil {
				cleanup()
			}
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
