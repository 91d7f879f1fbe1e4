package listings

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/floroz/gavel-marketplace/internal/domain/users"
	"github.com/floroz/gavel-marketplace/pkg/events"
)

// Repository defines the interface for listing persistence.
// Lookups return (nil, nil) when the listing does not exist.
type Repository interface {
	// CreateListing saves a listing within a transaction
	CreateListing(ctx context.Context, tx pgx.Tx, listing *Listing) error

	GetListingByID(ctx context.Context, id uuid.UUID) (*Listing, error)

	// GetListingByIDForUpdate locks the listing row for the rest of tx.
	// Bids and closes on the same listing serialize on this lock.
	GetListingByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*Listing, error)

	SetActive(ctx context.Context, tx pgx.Tx, id uuid.UUID, active bool) error

	// ListActiveListings returns open listings, newest first
	ListActiveListings(ctx context.Context) ([]*Listing, error)

	// ListListingsBySellerID returns all of a seller's listings, newest first
	ListListingsBySellerID(ctx context.Context, sellerID uuid.UUID) ([]*Listing, error)

	ListCategories(ctx context.Context) ([]*CategoryInfo, error)
}

// UserRepository is used to check that a seller exists
type UserRepository interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*users.User, error)
}

// OutboxRepository stores domain events alongside the listing change
type OutboxRepository interface {
	SaveEvent(ctx context.Context, tx pgx.Tx, event *events.OutboxEvent) error
}
