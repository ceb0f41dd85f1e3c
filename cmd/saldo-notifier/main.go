package main

import (
	"context"
	"errors"
	"os"

	"golang.org/x/sync/errgroup"

	"saldo/internal/amqp"
	"saldo/internal/cli"
	applog "saldo/internal/log"
	"saldo/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	cli.LoadEnvFile()

	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL")).WithComponent(applog.ComponentNotifier)
	logger.InfoContext(context.Background(), "Starting saldo-notifier",
		applog.FieldOperation, applog.OpStartup)

	cfg := cli.LoadAndValidateConfig(logger)
	if !cfg.EventsEnabled() {
		logger.ErrorContext(context.Background(), "AMQP_URL is required for the notifier",
			applog.FieldErrorType, applog.ErrorTypeConfiguration)
		os.Exit(1)
	}

	ctx, cancel := cli.ShutdownContext(logger)
	defer cancel()

	// Ensures the schema and gives read access to balances
	result := cli.InitBackend(ctx, logger, cfg)
	defer func() {
		if err := result.Cleanup(); err != nil {
			logger.ErrorContext(ctx, "Backend cleanup failed", applog.FieldError, err)
		}
	}()

	consumer, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to initialize AMQP client", applog.FieldError, err)
		os.Exit(1)
	}

	notifier := worker.NewBalanceNotifier(result.Backend, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return consumer.ConsumeLedgerEvents(gctx, notifier.HandleLedgerEvent)
	})
	g.Go(func() error {
		// Closing the connection unblocks a consumer stuck on a dead broker
		<-gctx.Done()
		return consumer.Close()
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.ErrorContext(ctx, "Notifier stopped", applog.FieldError, err)
		cancel()
		os.Exit(1)
	}
	logger.InfoContext(ctx, "Notifier shutdown complete")
}
