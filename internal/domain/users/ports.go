package users

import (
	"context"

	"github.com/google/uuid"
)

// Repository returns (nil, nil) from lookups when no row matches.
type Repository interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetUserByHandle(ctx context.Context, handle string) (*User, error)
}
