package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/floroz/gavel-marketplace/internal/domain/listings"
	"github.com/floroz/gavel-marketplace/internal/domain/watchlist"
)

// PostgresWatchlistRepository implements watchlist.Repository on the
// watchlist_entries join table
type PostgresWatchlistRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresWatchlistRepository(pool *pgxpool.Pool) *PostgresWatchlistRepository {
	return &PostgresWatchlistRepository{pool: pool}
}

func (r *PostgresWatchlistRepository) AddEntry(ctx context.Context, entry *watchlist.Entry) error {
	query := `
		INSERT INTO watchlist_entries (user_id, listing_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, listing_id) DO NOTHING
	`
	_, err := r.pool.Exec(ctx, query, entry.UserID, entry.ListingID, entry.CreatedAt)
	if err != nil {
		if refErr := missingReference(err); refErr != nil {
			return refErr
		}
		return fmt.Errorf("failed to insert watchlist entry: %w", err)
	}
	return nil
}

func (r *PostgresWatchlistRepository) RemoveEntry(ctx context.Context, userID, listingID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM watchlist_entries WHERE user_id = $1 AND listing_id = $2`,
		userID, listingID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete watchlist entry: %w", err)
	}
	return nil
}

// ListListings returns the user's watched listings ordered by listing creation time, newest first
func (r *PostgresWatchlistRepository) ListListings(ctx context.Context, userID uuid.UUID) ([]*listings.Listing, error) {
	query := `
		SELECT l.id, l.seller_id, l.title, l.description, l.starting_bid, l.category_code, l.active, l.created_at
		FROM watchlist_entries w
		JOIN listings l ON l.id = w.listing_id
		WHERE w.user_id = $1
		ORDER BY l.created_at DESC, l.id
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query watchlist: %w", err)
	}
	defer rows.Close()
	return collectListings(rows)
}

func (r *PostgresWatchlistRepository) HasEntry(ctx context.Context, userID, listingID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM watchlist_entries WHERE user_id = $1 AND listing_id = $2)`,
		userID, listingID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check watchlist entry: %w", err)
	}
	return exists, nil
}
