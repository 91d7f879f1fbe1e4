//go:build integration

package events_test

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/rabbitmq"

	"github.com/floroz/gavel-marketplace/internal/adapters/database"
	"github.com/floroz/gavel-marketplace/internal/adapters/events"
	"github.com/floroz/gavel-marketplace/internal/domain/bids"
	pkgdb "github.com/floroz/gavel-marketplace/pkg/database"
	pkgevents "github.com/floroz/gavel-marketplace/pkg/events"
	"github.com/floroz/gavel-marketplace/pkg/testhelpers"
)

func TestMarketplaceEventsProducerIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// 1. Start RabbitMQ
	rabbitmqContainer, err := rabbitmq.Run(ctx,
		"rabbitmq:3.12-management-alpine",
		rabbitmq.WithAdminPassword("password"),
	)
	require.NoError(t, err)
	defer func() {
		if termErr := rabbitmqContainer.Terminate(ctx); termErr != nil {
			t.Fatalf("failed to terminate container: %s", termErr)
		}
	}()

	amqpURL, err := rabbitmqContainer.AmqpURL(ctx)
	require.NoError(t, err)

	// 2. Setup Postgres
	testDB := testhelpers.NewTestDatabase(t, "../../../migrations")
	pool := testDB.Pool

	// 3. Setup Producer
	conn, err := amqp.Dial(amqpURL)
	require.NoError(t, err)
	defer conn.Close()

	producer, err := events.NewMarketplaceEventsProducer(pool, conn, events.ProducerConfig{
		LockTimeout: time.Second,
		Relay:       pkgevents.RelayConfig{BatchSize: 5, Interval: 100 * time.Millisecond},
	}, logger)
	require.NoError(t, err)
	defer producer.Close()

	// 4. Bind a test queue before anything is published
	consumerConn, err := amqp.Dial(amqpURL)
	require.NoError(t, err)
	defer consumerConn.Close()

	ch, err := consumerConn.Channel()
	require.NoError(t, err)
	defer ch.Close()

	q, err := ch.QueueDeclare("", false, false, true, false, nil)
	require.NoError(t, err)
	require.NoError(t, ch.QueueBind(q.Name, "bid.placed", pkgevents.DefaultExchange, false, nil))

	msgs, err := ch.Consume(q.Name, "", true, false, false, false, nil)
	require.NoError(t, err)

	// 5. Run Producer in Background
	ctxProducer, cancelProducer := context.WithCancel(ctx)
	defer cancelProducer()
	go func() {
		_ = producer.Run(ctxProducer)
	}()

	// 6. Place a bid through the domain service so the outbox row is real
	sellerID, bidderID, listingID := uuid.New(), uuid.New(), uuid.New()
	_, err = pool.Exec(ctx, `INSERT INTO users (id, handle) VALUES ($1, 'seller'), ($2, 'bidder')`, sellerID, bidderID)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `INSERT INTO listings (id, seller_id, title, starting_bid) VALUES ($1, $2, 'Clock', 500)`, listingID, sellerID)
	require.NoError(t, err)

	svc := bids.NewAuctionService(
		pkgdb.NewPostgresTransactionManager(pool, time.Second),
		database.NewPostgresBidRepository(pool),
		database.NewPostgresListingRepository(pool),
		database.NewPostgresOutboxRepository(pool),
	)
	bid, err := svc.PlaceBid(ctx, bids.PlaceBidCommand{ListingID: listingID, BidderID: bidderID, Amount: 750})
	require.NoError(t, err)

	// 7. Verify Message Receipt
	select {
	case msg := <-msgs:
		assert.Equal(t, bids.EventBidPlaced, msg.RoutingKey)
		assert.Equal(t, "application/x-protobuf", msg.ContentType)
		payload, decErr := pkgevents.DecodePayload(msg.Body)
		require.NoError(t, decErr)
		assert.Equal(t, bid.ID.String(), payload["bid_id"])
		assert.Equal(t, listingID.String(), payload["listing_id"])
		assert.Equal(t, float64(750), payload["amount"])
	case <-time.After(10 * time.Second):
		t.Fatal("Timeout waiting for message from RabbitMQ")
	}

	// 8. Verify DB Update
	require.Eventually(t, func() bool {
		var pending int
		if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM outbox_events WHERE status = 'pending'").Scan(&pending); err != nil {
			return false
		}
		return pending == 0
	}, 5*time.Second, 100*time.Millisecond, "outbox should be drained")
}
