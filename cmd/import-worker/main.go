package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"habitly/internal/ai"
	"habitly/internal/amqp"
	"habitly/internal/config"
	"habitly/internal/core"
	"habitly/internal/ledger"
	"habitly/internal/log"
	"habitly/internal/services"
	"habitly/internal/store"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := log.New(log.Config{
		Level:     log.DefaultConfig().Level,
		Component: log.ComponentWorker,
	})
	log.SetDefault(logger)

	logger.Info("Starting import worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err.Error())
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the import worker")
		os.Exit(1)
	}

	factory := store.NewFactory(logger)
	result, err := factory.Create(store.Config{
		Type:         store.Type(cfg.DataBackend),
		SQLiteDBPath: cfg.SQLiteDBPath,
		DataDir:      cfg.DataDir,
	})
	if err != nil {
		logger.Error("Failed to initialize backend", log.FieldError, err.Error(), log.FieldBackend, cfg.DataBackend)
		os.Exit(1)
	}
	if result.Cleanup != nil {
		defer func() {
			if err := result.Cleanup(); err != nil {
				logger.Error("Backend cleanup failed", log.FieldError, err.Error())
			}
		}()
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err.Error())
		os.Exit(1)
	}
	defer amqpClient.Close()

	// The worker writes through the same dashboard pipeline the API uses, so
	// imported expenses get classified and the savings ledger reconciled. It
	// does not publish events for its own writes.
	dashboard := services.NewDashboard(
		result.Backend,
		ledger.NewService(result.Backend, logger),
		ai.NewService(nil, logger),
		nil,
		logger,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	handler := importHandler(ctx, dashboard, logger)
	if err := amqpClient.ConsumeExpenseImports(ctx, handler); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Message consumption failed", log.FieldError, err.Error())
		os.Exit(1)
	}

	logger.Info("Import worker stopped gracefully")
}

// importHandler turns import messages into AUTO expenses. A returned error
// requeues the delivery, so messages that can never import (validation
// failures) are logged and dropped instead.
func importHandler(ctx context.Context, dashboard *services.Dashboard, logger *log.Logger) func(*amqp.ExpenseImportMessage) error {
	return func(msg *amqp.ExpenseImportMessage) error {
		userKey := strings.ToLower(strings.TrimSpace(msg.UserKey))
		if userKey == "" {
			userKey = "guest"
		}

		_, err := dashboard.ImportExpense(ctx, userKey, services.NewExpense{
			Description: strings.TrimSpace(msg.Description),
			Amount:      msg.Amount,
			Category:    core.Category(msg.Category),
		}, msg.OccurredAt)
		if core.IsValidationError(err) {
			logger.Warn("Dropping invalid import message",
				log.FieldUserKey, userKey,
				log.FieldCategory, msg.Category,
				log.FieldError, err.Error())
			return nil
		}
		return err
	}
}
