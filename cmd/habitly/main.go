package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"habitly/internal/ai"
	"habitly/internal/amqp"
	"habitly/internal/config"
	apphttp "habitly/internal/http"
	"habitly/internal/ledger"
	"habitly/internal/log"
	"habitly/internal/services"
	"habitly/internal/store"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err.Error())
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

	// AMQP is optional for the API server; expense events are best effort.
	var publisher services.Publisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to connect to AMQP, continuing without event publishing",
				log.FieldError, err.Error())
		} else {
			defer amqpClient.Close()
			publisher = amqpClient
			logger.Info("AMQP event publishing enabled", "exchange", cfg.AMQPExchange)
		}
	}

	var remote ai.Client
	if cfg.AnalyzerBaseURL != "" {
		remote = ai.NewRemoteClient(cfg.AnalyzerBaseURL, cfg.AnalyzerTimeout)
		logger.Info("Remote analyzer enabled", "base_url", cfg.AnalyzerBaseURL)
	} else {
		logger.Info("Remote analyzer disabled, using local heuristics")
	}

	dashboard := services.NewDashboard(
		result.Backend,
		ledger.NewService(result.Backend, logger),
		ai.NewService(remote, logger),
		publisher,
		logger,
	)

	srv := apphttp.NewServer(":"+cfg.Port, dashboard, cfg.AnalysisCacheTTL, logger)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting habitly server", "port", cfg.Port, log.FieldBackend, cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", log.FieldError, err.Error())
		os.Exit(1)
	}

	logger.Info("Server stopped gracefully")
}
