package watchlist

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/floroz/gavel-marketplace/internal/domain/listings"
)

type Service struct {
	repo        Repository
	listingRepo ListingRepository
}

func NewService(repo Repository, listingRepo ListingRepository) *Service {
	return &Service{repo: repo, listingRepo: listingRepo}
}

// Add puts the listing on the user's watchlist. Adding twice has no further effect.
func (s *Service) Add(ctx context.Context, userID, listingID uuid.UUID) error {
	listing, err := s.listingRepo.GetListingByID(ctx, listingID)
	if err != nil {
		return fmt.Errorf("failed to get listing: %w", err)
	}
	if listing == nil {
		return listings.ErrListingNotFound
	}

	entry := &Entry{UserID: userID, ListingID: listingID, CreatedAt: time.Now()}
	if err := s.repo.AddEntry(ctx, entry); err != nil {
		return fmt.Errorf("failed to add to watchlist: %w", err)
	}
	return nil
}

// Remove takes the listing off the watchlist if it is there
func (s *Service) Remove(ctx context.Context, userID, listingID uuid.UUID) error {
	if err := s.repo.RemoveEntry(ctx, userID, listingID); err != nil {
		return fmt.Errorf("failed to remove from watchlist: %w", err)
	}
	return nil
}

// List returns the watched listings ordered by listing creation time, newest first
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*listings.Listing, error) {
	watched, err := s.repo.ListListings(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list watchlist: %w", err)
	}
	return watched, nil
}

func (s *Service) Contains(ctx context.Context, userID, listingID uuid.UUID) (bool, error) {
	ok, err := s.repo.HasEntry(ctx, userID, listingID)
	if err != nil {
		return false, fmt.Errorf("failed to check watchlist: %w", err)
	}
	return ok, nil
}
