package bids

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/floroz/gavel-marketplace/internal/domain/listings"
	"github.com/floroz/gavel-marketplace/pkg/database"
	"github.com/floroz/gavel-marketplace/pkg/events"
)

// EventBidPlaced is the outbox event type written for every accepted bid
const EventBidPlaced = "bid.placed"

type PlaceBidCommand struct {
	ListingID uuid.UUID
	BidderID  uuid.UUID
	Amount    int64
}

// Validation errors
var (
	ErrSelfBid          = errors.New("seller cannot bid on their own listing")
	ErrInvalidBidAmount = errors.New("bid amount must be positive")
	ErrBelowStartingBid = errors.New("bid must be at least the starting bid")
	ErrBelowCurrentBid  = errors.New("bid must be higher than the current price")
	ErrListingClosed    = errors.New("listing is closed")
)

// validateBid applies the bidding rules in order against the locked listing
// and its bid history.
func validateBid(listing *listings.Listing, history []*Bid, cmd PlaceBidCommand) error {
	if listing.IsOwnedBy(cmd.BidderID) {
		return ErrSelfBid
	}
	if cmd.Amount <= 0 {
		return ErrInvalidBidAmount
	}
	if len(history) == 0 {
		if cmd.Amount < listing.StartingBid {
			return ErrBelowStartingBid
		}
	} else if cmd.Amount <= CurrentPrice(listing.StartingBid, history) {
		return ErrBelowCurrentBid
	}
	if !listing.Active {
		return ErrListingClosed
	}
	return nil
}

// AuctionService implements bid placement and the pricing queries
type AuctionService struct {
	txManager   database.TransactionManager
	bidRepo     BidRepository
	listingRepo ListingRepository
	outboxRepo  OutboxRepository
	cache       SummaryCache
	logger      *slog.Logger
}

// NewAuctionService creates a new auction service
func NewAuctionService(
	txManager database.TransactionManager,
	bidRepo BidRepository,
	listingRepo ListingRepository,
	outboxRepo OutboxRepository,
) *AuctionService {
	return &AuctionService{
		txManager:   txManager,
		bidRepo:     bidRepo,
		listingRepo: listingRepo,
		outboxRepo:  outboxRepo,
		logger:      slog.Default(),
	}
}

// WithSummaryCache enables caching of Summary results. Cache failures are
// logged and the service falls back to the database.
func (s *AuctionService) WithSummaryCache(cache SummaryCache, logger *slog.Logger) *AuctionService {
	s.cache = cache
	if logger != nil {
		s.logger = logger
	}
	return s
}

// PlaceBid validates and stores a bid together with its bid.placed event.
// The listing row lock is held until commit.
func (s *AuctionService) PlaceBid(ctx context.Context, cmd PlaceBidCommand) (*Bid, error) {
	tx, err := s.txManager.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx) // Rollback if commit is not called
	}()

	listing, err := s.listingRepo.GetListingByIDForUpdate(ctx, tx, cmd.ListingID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock listing: %w", err)
	}
	if listing == nil {
		return nil, listings.ErrListingNotFound
	}

	history, err := s.bidRepo.GetBidsByListingIDTx(ctx, tx, cmd.ListingID)
	if err != nil {
		return nil, fmt.Errorf("failed to load bid history: %w", err)
	}

	if valErr := validateBid(listing, history, cmd); valErr != nil {
		return nil, valErr
	}

	bid := &Bid{
		ID:        uuid.New(),
		ListingID: cmd.ListingID,
		BidderID:  cmd.BidderID,
		Amount:    cmd.Amount,
		CreatedAt: time.Now(),
	}

	if saveErr := s.bidRepo.SaveBid(ctx, tx, bid); saveErr != nil {
		return nil, fmt.Errorf("failed to save bid: %w", saveErr)
	}

	event, err := events.NewOutboxEvent(EventBidPlaced, map[string]any{
		"bid_id":     bid.ID.String(),
		"listing_id": bid.ListingID.String(),
		"bidder_id":  bid.BidderID.String(),
		"amount":     bid.Amount,
		"created_at": bid.CreatedAt.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return nil, err
	}
	if saveErr := s.outboxRepo.SaveEvent(ctx, tx, event); saveErr != nil {
		return nil, fmt.Errorf("failed to save outbox event: %w", saveErr)
	}

	if commitErr := tx.Commit(ctx); commitErr != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", commitErr)
	}

	s.invalidate(ctx, bid.ListingID)
	return bid, nil
}

// ListBids returns the bid history of a listing, newest first
func (s *AuctionService) ListBids(ctx context.Context, listingID uuid.UUID) ([]*Bid, error) {
	if _, err := s.getListing(ctx, listingID); err != nil {
		return nil, err
	}
	history, err := s.bidRepo.GetBidsByListingID(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bids: %w", err)
	}
	return history, nil
}

// Summary returns the current price, highest bid and winner of a listing
func (s *AuctionService) Summary(ctx context.Context, listingID uuid.UUID) (*Summary, error) {
	fill := false
	var generation int64
	if s.cache != nil {
		cached, err := s.cache.GetSummary(ctx, listingID)
		if err != nil {
			s.logger.Warn("summary cache read failed", "listing_id", listingID, "error", err)
		} else if cached != nil {
			return cached, nil
		}

		// read before the bids so a bid committed in between invalidates this fill
		generation, err = s.cache.Generation(ctx, listingID)
		if err != nil {
			s.logger.Warn("summary cache generation read failed", "listing_id", listingID, "error", err)
		} else {
			fill = true
		}
	}

	listing, err := s.getListing(ctx, listingID)
	if err != nil {
		return nil, err
	}
	history, err := s.bidRepo.GetBidsByListingID(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bids: %w", err)
	}

	summary := NewSummary(listing.ID, listing.StartingBid, history)
	if fill {
		if err := s.cache.SetSummary(ctx, summary, generation); err != nil {
			s.logger.Warn("summary cache write failed", "listing_id", listingID, "error", err)
		}
	}
	return summary, nil
}

// CurrentBid returns the highest bid, or nil when the listing has no bids
func (s *AuctionService) CurrentBid(ctx context.Context, listingID uuid.UUID) (*Bid, error) {
	summary, err := s.Summary(ctx, listingID)
	if err != nil {
		return nil, err
	}
	return summary.HighestBid, nil
}

// CurrentPrice returns the highest bid amount or the starting bid
func (s *AuctionService) CurrentPrice(ctx context.Context, listingID uuid.UUID) (int64, error) {
	summary, err := s.Summary(ctx, listingID)
	if err != nil {
		return 0, err
	}
	return summary.CurrentPrice, nil
}

// Winner returns the bidder holding the highest bid. The second result is
// false when the listing has no bids.
func (s *AuctionService) Winner(ctx context.Context, listingID uuid.UUID) (uuid.UUID, bool, error) {
	summary, err := s.Summary(ctx, listingID)
	if err != nil {
		return uuid.Nil, false, err
	}
	if summary.Winner == nil {
		return uuid.Nil, false, nil
	}
	return *summary.Winner, true, nil
}

func (s *AuctionService) getListing(ctx context.Context, listingID uuid.UUID) (*listings.Listing, error) {
	listing, err := s.listingRepo.GetListingByID(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}
	if listing == nil {
		return nil, listings.ErrListingNotFound
	}
	return listing, nil
}

func (s *AuctionService) invalidate(ctx context.Context, listingID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateSummary(ctx, listingID); err != nil {
		s.logger.Warn("summary cache invalidation failed", "listing_id", listingID, "error", err)
	}
}
