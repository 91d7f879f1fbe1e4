package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/floroz/gavel-marketplace/internal/adapters/events"
	"github.com/floroz/gavel-marketplace/pkg/config"
	pkgdb "github.com/floroz/gavel-marketplace/pkg/database"
	pkgevents "github.com/floroz/gavel-marketplace/pkg/events"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := run(ctx, logger)
	stop()
	if err != nil {
		logger.Error("Relay failed", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker stopped")
}

func run(ctx context.Context, logger *slog.Logger) error {
	config.LoadDotEnv()
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.RabbitMQURL == "" {
		return errors.New("RABBITMQ_URL is not set")
	}

	pool, err := pkgdb.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()
	logger.Info("Postgres Connected")

	amqpConn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	defer amqpConn.Close()
	logger.Info("RabbitMQ Connected")

	producer, err := events.NewMarketplaceEventsProducer(pool, amqpConn, events.ProducerConfig{
		LockTimeout: cfg.DBLockTimeout,
		Relay: pkgevents.RelayConfig{
			BatchSize: cfg.OutboxBatchSize,
			Interval:  cfg.OutboxInterval,
		},
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to create events producer: %w", err)
	}
	defer producer.Close()

	logger.Info("Starting Outbox Relay Worker...")
	return producer.Run(ctx)
}
