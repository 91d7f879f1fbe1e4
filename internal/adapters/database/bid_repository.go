package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/floroz/gavel-marketplace/internal/domain/bids"
	pkgdb "github.com/floroz/gavel-marketplace/pkg/database"
)

// PostgresBidRepository implements bids.BidRepository using pgx
type PostgresBidRepository struct {
	pool *pgxpool.Pool // Keep pool for read-only operations
}

// NewPostgresBidRepository creates a new PostgreSQL bid repository
func NewPostgresBidRepository(pool *pgxpool.Pool) *PostgresBidRepository {
	return &PostgresBidRepository{pool: pool}
}

// SaveBid saves a bid within a transaction
func (r *PostgresBidRepository) SaveBid(ctx context.Context, tx pgx.Tx, bid *bids.Bid) error {
	query := `
		INSERT INTO bids (id, listing_id, bidder_id, amount, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := tx.Exec(ctx, query,
		bid.ID,
		bid.ListingID,
		bid.BidderID,
		bid.Amount,
		bid.CreatedAt,
	)
	if err != nil {
		if refErr := missingReference(err); refErr != nil {
			return refErr
		}
		return fmt.Errorf("failed to insert bid: %w", err)
	}
	return nil
}

// GetBidsByListingID retrieves all bids for a listing, newest first
func (r *PostgresBidRepository) GetBidsByListingID(ctx context.Context, listingID uuid.UUID) ([]*bids.Bid, error) {
	return r.getBids(ctx, r.pool, listingID)
}

// GetBidsByListingIDTx reads the bid history through tx
func (r *PostgresBidRepository) GetBidsByListingIDTx(ctx context.Context, tx pgx.Tx, listingID uuid.UUID) ([]*bids.Bid, error) {
	return r.getBids(ctx, tx, listingID)
}

func (r *PostgresBidRepository) getBids(ctx context.Context, db pkgdb.DBTX, listingID uuid.UUID) ([]*bids.Bid, error) {
	query := `
		SELECT id, listing_id, bidder_id, amount, created_at
		FROM bids
		WHERE listing_id = $1
		ORDER BY created_at DESC, id
	`
	rows, err := db.Query(ctx, query, listingID)
	if err != nil {
		return nil, fmt.Errorf("failed to query bids: %w", err)
	}
	defer rows.Close()

	var result []*bids.Bid
	for rows.Next() {
		var bid bids.Bid
		if err := rows.Scan(
			&bid.ID,
			&bid.ListingID,
			&bid.BidderID,
			&bid.Amount,
			&bid.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan bid: %w", err)
		}
		result = append(result, &bid)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bids: %w", err)
	}

	return result, nil
}
