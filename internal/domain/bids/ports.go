package bids

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/floroz/gavel-marketplace/internal/domain/listings"
	"github.com/floroz/gavel-marketplace/pkg/events"
)

// BidRepository defines the interface for bid persistence
type BidRepository interface {
	// SaveBid saves a bid within a transaction
	SaveBid(ctx context.Context, tx pgx.Tx, bid *Bid) error

	// GetBidsByListingID retrieves all bids for a listing, newest first
	GetBidsByListingID(ctx context.Context, listingID uuid.UUID) ([]*Bid, error)

	// GetBidsByListingIDTx reads the bid history inside tx, after the
	// listing row has been locked
	GetBidsByListingIDTx(ctx context.Context, tx pgx.Tx, listingID uuid.UUID) ([]*Bid, error)
}

// ListingRepository is the part of the listing store bidding needs
type ListingRepository interface {
	GetListingByID(ctx context.Context, id uuid.UUID) (*listings.Listing, error)

	// GetListingByIDForUpdate locks the listing row so concurrent bids on the
	// same listing are validated one at a time
	GetListingByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*listings.Listing, error)
}

// OutboxRepository defines the interface for outbox event persistence
type OutboxRepository interface {
	SaveEvent(ctx context.Context, tx pgx.Tx, event *events.OutboxEvent) error
}

// SummaryCache holds derived listing summaries for read paths.
// GetSummary returns (nil, nil) on a miss. Every invalidation bumps a
// per-listing generation; a fill is only stored while the generation read
// before loading from the database is still current.
type SummaryCache interface {
	GetSummary(ctx context.Context, listingID uuid.UUID) (*Summary, error)
	Generation(ctx context.Context, listingID uuid.UUID) (int64, error)
	// SetSummary is a no-op when the listing was invalidated after generation was read
	SetSummary(ctx context.Context, summary *Summary, generation int64) error
	InvalidateSummary(ctx context.Context, listingID uuid.UUID) error
}
