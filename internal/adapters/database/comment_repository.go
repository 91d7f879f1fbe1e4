package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/floroz/gavel-marketplace/internal/domain/comments"
)

// PostgresCommentRepository implements comments.Repository using pgx
type PostgresCommentRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresCommentRepository(pool *pgxpool.Pool) *PostgresCommentRepository {
	return &PostgresCommentRepository{pool: pool}
}

func (r *PostgresCommentRepository) SaveComment(ctx context.Context, tx pgx.Tx, comment *comments.Comment) error {
	query := `
		INSERT INTO comments (id, listing_id, commenter_id, text, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := tx.Exec(ctx, query,
		comment.ID,
		comment.ListingID,
		comment.CommenterID,
		comment.Text,
		comment.CreatedAt,
	)
	if err != nil {
		if refErr := missingReference(err); refErr != nil {
			return refErr
		}
		return fmt.Errorf("failed to insert comment: %w", err)
	}
	return nil
}

// GetCommentsByListingID returns the comments of a listing, newest first
func (r *PostgresCommentRepository) GetCommentsByListingID(ctx context.Context, listingID uuid.UUID) ([]*comments.Comment, error) {
	query := `
		SELECT id, listing_id, commenter_id, text, created_at
		FROM comments
		WHERE listing_id = $1
		ORDER BY created_at DESC, id
	`
	rows, err := r.pool.Query(ctx, query, listingID)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	var result []*comments.Comment
	for rows.Next() {
		var c comments.Comment
		if err := rows.Scan(&c.ID, &c.ListingID, &c.CommenterID, &c.Text, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		result = append(result, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comments: %w", err)
	}
	return result, nil
}
