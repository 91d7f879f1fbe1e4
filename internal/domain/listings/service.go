package listings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/floroz/gavel-marketplace/internal/domain/users"
	"github.com/floroz/gavel-marketplace/pkg/database"
	"github.com/floroz/gavel-marketplace/pkg/events"
)

// Service errors
var (
	ErrListingNotFound    = errors.New("listing not found")
	ErrNotOwner           = errors.New("only the seller can close this listing")
	ErrInvalidStartingBid = errors.New("starting bid must not be negative")
	ErrInvalidTitle       = errors.New("title must not be empty")
	ErrUnknownCategory    = errors.New("unknown category")
)

// Event types emitted by the listing lifecycle
const (
	EventListingCreated = "listing.created"
	EventListingClosed  = "listing.closed"
)

// CreateListingCommand represents the command to create a new listing
type CreateListingCommand struct {
	SellerID    uuid.UUID
	Title       string
	Description string
	StartingBid int64
	Category    *Category
}

// CloseListingCommand represents the command to close a listing
type CloseListingCommand struct {
	ListingID   uuid.UUID
	RequesterID uuid.UUID
}

// Service implements the listing lifecycle
type Service struct {
	txManager  database.TransactionManager
	repo       Repository
	userRepo   UserRepository
	outboxRepo OutboxRepository
}

// NewService creates a new listing service
func NewService(
	txManager database.TransactionManager,
	repo Repository,
	userRepo UserRepository,
	outboxRepo OutboxRepository,
) *Service {
	return &Service{
		txManager:  txManager,
		repo:       repo,
		userRepo:   userRepo,
		outboxRepo: outboxRepo,
	}
}

// CreateListing opens a new auction for the seller
func (s *Service) CreateListing(ctx context.Context, cmd CreateListingCommand) (*Listing, error) {
	title := strings.TrimSpace(cmd.Title)
	if title == "" {
		return nil, ErrInvalidTitle
	}
	if cmd.StartingBid < 0 {
		return nil, ErrInvalidStartingBid
	}
	if cmd.Category != nil && !cmd.Category.IsValid() {
		return nil, ErrUnknownCategory
	}

	seller, err := s.userRepo.GetUserByID(ctx, cmd.SellerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get seller: %w", err)
	}
	if seller == nil {
		return nil, users.ErrUserNotFound
	}

	listing := &Listing{
		ID:          uuid.New(),
		SellerID:    cmd.SellerID,
		Title:       title,
		Description: cmd.Description,
		StartingBid: cmd.StartingBid,
		Category:    cmd.Category,
		Active:      true,
		CreatedAt:   time.Now(),
	}

	tx, err := s.txManager.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := s.repo.CreateListing(ctx, tx, listing); err != nil {
		return nil, fmt.Errorf("failed to create listing: %w", err)
	}

	fields := map[string]any{
		"listing_id":   listing.ID.String(),
		"seller_id":    listing.SellerID.String(),
		"title":        listing.Title,
		"starting_bid": listing.StartingBid,
		"created_at":   listing.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
	if listing.Category != nil {
		fields["category"] = string(*listing.Category)
	}
	event, err := events.NewOutboxEvent(EventListingCreated, fields)
	if err != nil {
		return nil, err
	}
	if err := s.outboxRepo.SaveEvent(ctx, tx, event); err != nil {
		return nil, fmt.Errorf("failed to save outbox event: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return listing, nil
}

// GetListing retrieves a listing by ID
func (s *Service) GetListing(ctx context.Context, id uuid.UUID) (*Listing, error) {
	listing, err := s.repo.GetListingByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}
	if listing == nil {
		return nil, ErrListingNotFound
	}
	return listing, nil
}

// ListActive returns all open listings, newest first
func (s *Service) ListActive(ctx context.Context) ([]*Listing, error) {
	listings, err := s.repo.ListActiveListings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list listings: %w", err)
	}
	return listings, nil
}

// ListSellerListings returns every listing of a seller, open or closed
func (s *Service) ListSellerListings(ctx context.Context, sellerID uuid.UUID) ([]*Listing, error) {
	listings, err := s.repo.ListListingsBySellerID(ctx, sellerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list seller listings: %w", err)
	}
	return listings, nil
}

func (s *Service) ListCategories(ctx context.Context) ([]*CategoryInfo, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// CloseListing ends the auction. Only the seller may close it; closing an
// already closed listing returns it unchanged.
func (s *Service) CloseListing(ctx context.Context, cmd CloseListingCommand) (*Listing, error) {
	tx, err := s.txManager.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	listing, err := s.repo.GetListingByIDForUpdate(ctx, tx, cmd.ListingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}
	if listing == nil {
		return nil, ErrListingNotFound
	}

	if !listing.IsOwnedBy(cmd.RequesterID) {
		return nil, ErrNotOwner
	}

	if !listing.Close() {
		return listing, nil
	}

	if err := s.repo.SetActive(ctx, tx, listing.ID, false); err != nil {
		return nil, fmt.Errorf("failed to close listing: %w", err)
	}

	event, err := events.NewOutboxEvent(EventListingClosed, map[string]any{
		"listing_id": listing.ID.String(),
		"seller_id":  listing.SellerID.String(),
		"closed_at":  time.Now().UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return nil, err
	}
	if err := s.outboxRepo.SaveEvent(ctx, tx, event); err != nil {
		return nil, fmt.Errorf("failed to save outbox event: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return listing, nil
}
