package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"

	"github.com/floroz/gavel-marketplace/internal/adapters/api"
	"github.com/floroz/gavel-marketplace/internal/adapters/cache"
	"github.com/floroz/gavel-marketplace/internal/adapters/database"
	"github.com/floroz/gavel-marketplace/internal/adapters/events"
	"github.com/floroz/gavel-marketplace/internal/domain/bids"
	"github.com/floroz/gavel-marketplace/internal/domain/comments"
	"github.com/floroz/gavel-marketplace/internal/domain/listings"
	"github.com/floroz/gavel-marketplace/internal/domain/watchlist"
	"github.com/floroz/gavel-marketplace/pkg/auth"
	"github.com/floroz/gavel-marketplace/pkg/config"
	pkgdb "github.com/floroz/gavel-marketplace/pkg/database"
	pkgevents "github.com/floroz/gavel-marketplace/pkg/events"
)

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := run(ctx, logger)
	stop()
	if err != nil {
		logger.Error("Marketplace API stopped", "error", err)
		os.Exit(1)
	}
	logger.Info("Marketplace API stopped")
}

func run(ctx context.Context, logger *slog.Logger) error {
	config.LoadDotEnv()
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// 1. Postgres
	pool, err := pkgdb.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()
	logger.Info("Postgres Connected")

	// 2. Token verification
	publicKey, err := cfg.ReadPublicKey()
	if err != nil {
		return err
	}
	signer, err := auth.NewSignerFromPublicKey(publicKey, cfg.JWTIssuer)
	if err != nil {
		return fmt.Errorf("failed to create token signer: %w", err)
	}

	// 3. Repositories and services
	txManager := pkgdb.NewPostgresTransactionManager(pool, cfg.DBLockTimeout)
	userRepo := database.NewPostgresUserRepository(pool)
	listingRepo := database.NewPostgresListingRepository(pool)
	bidRepo := database.NewPostgresBidRepository(pool)
	commentRepo := database.NewPostgresCommentRepository(pool)
	watchlistRepo := database.NewPostgresWatchlistRepository(pool)
	outboxRepo := database.NewPostgresOutboxRepository(pool)

	auctionService := bids.NewAuctionService(txManager, bidRepo, listingRepo, outboxRepo)

	// Redis is optional; without it summaries are always computed from Postgres
	if cfg.RedisURL != "" {
		rdb, redisErr := cache.NewRedisClient(ctx, cfg.RedisURL)
		if redisErr != nil {
			logger.Warn("Redis connection failed, summary cache disabled", "error", redisErr)
		} else {
			defer rdb.Close()
			auctionService = auctionService.WithSummaryCache(cache.NewRedisSummaryCache(rdb, cfg.SummaryCacheTTL), logger)
			logger.Info("Redis Connected")
		}
	}

	handler := api.NewMarketplaceHandler(
		listings.NewService(txManager, listingRepo, userRepo, outboxRepo),
		auctionService,
		watchlist.NewService(watchlistRepo, listingRepo),
		comments.NewService(txManager, commentRepo, listingRepo, outboxRepo),
	)
	path, rpcHandler := api.NewMarketplaceServiceHandler(handler, signer, logger)

	mux := http.NewServeMux()
	mux.Handle(path, rpcHandler)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Use h2c for HTTP/2 without TLS
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           h2c.NewHandler(mux, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 4. Outbox relay, when a broker is configured
	var producer *events.MarketplaceEventsProducer
	if cfg.RabbitMQURL != "" {
		amqpConn, err := amqp.Dial(cfg.RabbitMQURL)
		if err != nil {
			return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
		}
		defer amqpConn.Close()
		logger.Info("RabbitMQ Connected")

		producer, err = events.NewMarketplaceEventsProducer(pool, amqpConn, events.ProducerConfig{
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
	} else {
		logger.Warn("RABBITMQ_URL is not set, outbox events will stay pending")
	}

	g, gctx := errgroup.WithContext(ctx)

	if producer != nil {
		g.Go(func() error {
			logger.Info("Starting Outbox Relay...")
			return producer.Run(gctx)
		})
	}

	g.Go(func() error {
		logger.Info("Starting Marketplace API", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
