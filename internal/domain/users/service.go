package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrHandleTaken   = errors.New("handle is already taken")
	ErrInvalidHandle = errors.New("handle must not be empty")
)

const maxHandleLength = 64

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateUser registers a new handle. Uniqueness is enforced by the store.
func (s *Service) CreateUser(ctx context.Context, handle string) (*User, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" || len(handle) > maxHandleLength {
		return nil, ErrInvalidHandle
	}

	user := &User{
		ID:        uuid.New(),
		Handle:    handle,
		CreatedAt: time.Now(),
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, ErrHandleTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *Service) GetUserByHandle(ctx context.Context, handle string) (*User, error) {
	user, err := s.repo.GetUserByHandle(ctx, strings.TrimSpace(handle))
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}
