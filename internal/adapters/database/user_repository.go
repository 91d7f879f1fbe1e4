package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/floroz/gavel-marketplace/internal/domain/users"
	pkgdb "github.com/floroz/gavel-marketplace/pkg/database"
)

// PostgresUserRepository implements users.Repository
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

func (r *PostgresUserRepository) CreateUser(ctx context.Context, user *users.User) error {
	query := `
		INSERT INTO users (id, handle, created_at)
		VALUES ($1, $2, $3)
	`
	_, err := r.pool.Exec(ctx, query, user.ID, user.Handle, user.CreatedAt)
	if err != nil {
		if pkgdb.IsUniqueViolation(err) {
			return users.ErrHandleTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *PostgresUserRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*users.User, error) {
	return r.getUser(ctx, "id", id)
}

func (r *PostgresUserRepository) GetUserByHandle(ctx context.Context, handle string) (*users.User, error) {
	return r.getUser(ctx, "handle", handle)
}

func (r *PostgresUserRepository) getUser(ctx context.Context, column string, value any) (*users.User, error) {
	query := `SELECT id, handle, created_at FROM users WHERE ` + column + ` = $1`

	var user users.User
	err := r.pool.QueryRow(ctx, query, value).Scan(&user.ID, &user.Handle, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Return nil if not found, let service handle it
		}
		return nil, fmt.Errorf("failed to get user by %s: %w", column, err)
	}
	return &user, nil
}
