package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/floroz/gavel-marketplace/internal/domain/listings"
	pkgdb "github.com/floroz/gavel-marketplace/pkg/database"
)

const listingColumns = `id, seller_id, title, description, starting_bid, category_code, active, created_at`

// PostgresListingRepository implements listings.Repository using pgx
type PostgresListingRepository struct {
	pool *pgxpool.Pool // Keep pool for non-transactional reads
}

// NewPostgresListingRepository creates a new PostgreSQL listing repository
func NewPostgresListingRepository(pool *pgxpool.Pool) *PostgresListingRepository {
	return &PostgresListingRepository{pool: pool}
}

// CreateListing inserts a listing within a transaction
func (r *PostgresListingRepository) CreateListing(ctx context.Context, tx pgx.Tx, listing *listings.Listing) error {
	query := `
		INSERT INTO listings (` + listingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	var category *string
	if listing.Category != nil {
		c := string(*listing.Category)
		category = &c
	}
	_, err := tx.Exec(ctx, query,
		listing.ID,
		listing.SellerID,
		listing.Title,
		listing.Description,
		listing.StartingBid,
		category,
		listing.Active,
		listing.CreatedAt,
	)
	if err != nil {
		if refErr := missingReference(err); refErr != nil {
			return refErr
		}
		return fmt.Errorf("failed to insert listing: %w", err)
	}
	return nil
}

// GetListingByID retrieves a listing by its ID (non-transactional read)
func (r *PostgresListingRepository) GetListingByID(ctx context.Context, id uuid.UUID) (*listings.Listing, error) {
	return r.getListingByID(ctx, r.pool, id, false)
}

// GetListingByIDForUpdate retrieves a listing and locks its row until tx ends
func (r *PostgresListingRepository) GetListingByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*listings.Listing, error) {
	return r.getListingByID(ctx, tx, id, true)
}

// getListingByID is the internal implementation that works with any DBTX
func (r *PostgresListingRepository) getListingByID(ctx context.Context, db pkgdb.DBTX, id uuid.UUID, forUpdate bool) (*listings.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE id = $1`
	if forUpdate {
		query += " FOR UPDATE"
	}

	listing, err := scanListing(db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}
	return listing, nil
}

// SetActive updates the open/closed flag within a transaction
func (r *PostgresListingRepository) SetActive(ctx context.Context, tx pgx.Tx, id uuid.UUID, active bool) error {
	result, err := tx.Exec(ctx, `UPDATE listings SET active = $1 WHERE id = $2`, active, id)
	if err != nil {
		return fmt.Errorf("failed to update listing: %w", err)
	}
	if result.RowsAffected() == 0 {
		return listings.ErrListingNotFound
	}
	return nil
}

// ListActiveListings retrieves open listings, newest first
func (r *PostgresListingRepository) ListActiveListings(ctx context.Context) ([]*listings.Listing, error) {
	query := `
		SELECT ` + listingColumns + `
		FROM listings
		WHERE active = TRUE
		ORDER BY created_at DESC, id
	`
	return r.queryListings(ctx, query)
}

// ListListingsBySellerID retrieves all listings of a seller, newest first
func (r *PostgresListingRepository) ListListingsBySellerID(ctx context.Context, sellerID uuid.UUID) ([]*listings.Listing, error) {
	query := `
		SELECT ` + listingColumns + `
		FROM listings
		WHERE seller_id = $1
		ORDER BY created_at DESC, id
	`
	return r.queryListings(ctx, query, sellerID)
}

// ListCategories returns the category table ordered by display name
func (r *PostgresListingRepository) ListCategories(ctx context.Context) ([]*listings.CategoryInfo, error) {
	rows, err := r.pool.Query(ctx, `SELECT code, name FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var result []*listings.CategoryInfo
	for rows.Next() {
		var code, name string
		if err := rows.Scan(&code, &name); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		result = append(result, &listings.CategoryInfo{Code: listings.Category(code), Name: name})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}
	return result, nil
}

func (r *PostgresListingRepository) queryListings(ctx context.Context, query string, args ...any) ([]*listings.Listing, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query listings: %w", err)
	}
	defer rows.Close()
	return collectListings(rows)
}

func collectListings(rows pgx.Rows) ([]*listings.Listing, error) {
	var result []*listings.Listing
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}
		result = append(result, listing)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating listings: %w", err)
	}
	return result, nil
}

func scanListing(row pgx.Row) (*listings.Listing, error) {
	var (
		listing  listings.Listing
		category *string
	)
	if err := row.Scan(
		&listing.ID,
		&listing.SellerID,
		&listing.Title,
		&listing.Description,
		&listing.StartingBid,
		&category,
		&listing.Active,
		&listing.CreatedAt,
	); err != nil {
		return nil, err
	}
	if category != nil {
		c := listings.Category(*category)
		listing.Category = &c
	}
	return &listing, nil
}
