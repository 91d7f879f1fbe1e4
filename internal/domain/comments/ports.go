package comments

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/floroz/gavel-marketplace/internal/domain/listings"
	"github.com/floroz/gavel-marketplace/pkg/events"
)

type Repository interface {
	SaveComment(ctx context.Context, tx pgx.Tx, comment *Comment) error

	// GetCommentsByListingID returns comments newest first
	GetCommentsByListingID(ctx context.Context, listingID uuid.UUID) ([]*Comment, error)
}

type ListingRepository interface {
	GetListingByID(ctx context.Context, id uuid.UUID) (*listings.Listing, error)
}

type OutboxRepository interface {
	SaveEvent(ctx context.Context, tx pgx.Tx, event *events.OutboxEvent) error
}
