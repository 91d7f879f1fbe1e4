package events

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/floroz/gavel-marketplace/internal/adapters/database"
	pkgdb "github.com/floroz/gavel-marketplace/pkg/database"
	pkgevents "github.com/floroz/gavel-marketplace/pkg/events"
)

// ProducerConfig configures the outbox relay behind the producer
type ProducerConfig struct {
	LockTimeout time.Duration
	Relay       pkgevents.RelayConfig
}

// MarketplaceEventsProducer relays marketplace events from the outbox to RabbitMQ
type MarketplaceEventsProducer struct {
	relay     *pkgevents.OutboxRelay
	publisher *pkgevents.RabbitMQPublisher
}

// NewMarketplaceEventsProducer wires the outbox table to a RabbitMQ publisher
func NewMarketplaceEventsProducer(pool *pgxpool.Pool, conn *amqp.Connection, cfg ProducerConfig, logger *slog.Logger) (*MarketplaceEventsProducer, error) {
	exchange := cfg.Relay.Exchange
	if exchange == "" {
		exchange = pkgevents.DefaultExchange
	}
	publisher, err := pkgevents.NewRabbitMQPublisher(conn, exchange)
	if err != nil {
		return nil, fmt.Errorf("failed to create publisher: %w", err)
	}

	txManager := pkgdb.NewPostgresTransactionManager(pool, cfg.LockTimeout)
	outboxRepo := database.NewPostgresOutboxRepository(pool)

	relay := pkgevents.NewOutboxRelay(outboxRepo, publisher, txManager, cfg.Relay, logger)

	return &MarketplaceEventsProducer{
		relay:     relay,
		publisher: publisher,
	}, nil
}

// Run starts the relay loop
func (p *MarketplaceEventsProducer) Run(ctx context.Context) error {
	return p.relay.Run(ctx)
}

// Close closes the publisher channel
func (p *MarketplaceEventsProducer) Close() error {
	return p.publisher.Close()
}
