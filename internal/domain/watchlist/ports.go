package watchlist

import (
	"context"

	"github.com/google/uuid"

	"github.com/floroz/gavel-marketplace/internal/domain/listings"
)

// Repository stores watchlist entries with set semantics
type Repository interface {
	// AddEntry is a no-op when the entry already exists
	AddEntry(ctx context.Context, entry *Entry) error

	// RemoveEntry is a no-op when the entry does not exist
	RemoveEntry(ctx context.Context, userID, listingID uuid.UUID) error

	// ListListings returns the watched listings, newest listing first
	ListListings(ctx context.Context, userID uuid.UUID) ([]*listings.Listing, error)

	HasEntry(ctx context.Context, userID, listingID uuid.UUID) (bool, error)
}

type ListingRepository interface {
	GetListingByID(ctx context.Context, id uuid.UUID) (*listings.Listing, error)
}
