package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"budgetwise/internal/amqp"
	"budgetwise/internal/analytics"
	"budgetwise/internal/config"
	apphttp "budgetwise/internal/http"
	"budgetwise/internal/ledger"
	"budgetwise/internal/log"
	"budgetwise/internal/services"
)

func main() {
	// Load .env if present; real environments set variables directly.
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", log.FieldError, err)
		os.Exit(1)
	}

	ledgerClient, err := ledger.NewClient(cfg.LedgerBaseURL, cfg.LedgerTimeout, logger.Logger)
	if err != nil {
		logger.Error("Failed to initialize ledger client", log.FieldError, err)
		os.Exit(1)
	}

	analyticsClient, err := analytics.NewClient(cfg.AnalyticsBaseURL, cfg.AnalyticsTimeout, logger.Logger)
	if err != nil {
		logger.Error("Failed to initialize analytics client", log.FieldError, err)
		os.Exit(1)
	}
	orchestrator := analytics.NewOrchestrator(analyticsClient, logger.Logger)

	// The broker is optional; without it alerts stay local.
	var publisher services.EventPublisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, continuing without event publishing", log.FieldError, err)
		} else {
			defer client.Close()
			publisher = client
			logger.Info("AMQP publisher initialized",
				"exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	service := services.NewDashboardService(ledgerClient, publisher, logger)
	loader := services.NewLoader(service, logger)

	srv := apphttp.NewServer(":"+cfg.Port, loader, service, orchestrator,
		cfg.CacheMaxSize, cfg.CacheTTL, logger)

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
		cancel()
	}()

	logger.Info("Starting budgetwise insights server",
		"port", cfg.Port,
		"ledger", cfg.LedgerBaseURL,
		"analytics", cfg.AnalyticsBaseURL)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
