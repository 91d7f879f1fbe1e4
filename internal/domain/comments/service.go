package comments

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/floroz/gavel-marketplace/internal/domain/listings"
	"github.com/floroz/gavel-marketplace/pkg/database"
	"github.com/floroz/gavel-marketplace/pkg/events"
)

const EventCommentAdded = "comment.added"

type AddCommentCommand struct {
	ListingID   uuid.UUID
	CommenterID uuid.UUID
	Text        string
}

type Service struct {
	txManager   database.TransactionManager
	repo        Repository
	listingRepo ListingRepository
	outboxRepo  OutboxRepository
}

func NewService(
	txManager database.TransactionManager,
	repo Repository,
	listingRepo ListingRepository,
	outboxRepo OutboxRepository,
) *Service {
	return &Service{
		txManager:   txManager,
		repo:        repo,
		listingRepo: listingRepo,
		outboxRepo:  outboxRepo,
	}
}

// AddComment appends a comment to an existing listing. The text is stored as given.
func (s *Service) AddComment(ctx context.Context, cmd AddCommentCommand) (*Comment, error) {
	if _, err := s.getListing(ctx, cmd.ListingID); err != nil {
		return nil, err
	}

	comment := &Comment{
		ID:          uuid.New(),
		ListingID:   cmd.ListingID,
		CommenterID: cmd.CommenterID,
		Text:        cmd.Text,
		CreatedAt:   time.Now(),
	}

	tx, err := s.txManager.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := s.repo.SaveComment(ctx, tx, comment); err != nil {
		return nil, fmt.Errorf("failed to save comment: %w", err)
	}

	event, err := events.NewOutboxEvent(EventCommentAdded, map[string]any{
		"comment_id":   comment.ID.String(),
		"listing_id":   comment.ListingID.String(),
		"commenter_id": comment.CommenterID.String(),
		"created_at":   comment.CreatedAt.UTC().Format(time.RFC3339Nano),
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
	return comment, nil
}

// ListComments returns the comments of a listing, newest first
func (s *Service) ListComments(ctx context.Context, listingID uuid.UUID) ([]*Comment, error) {
	if _, err := s.getListing(ctx, listingID); err != nil {
		return nil, err
	}
	out, err := s.repo.GetCommentsByListingID(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return out, nil
}

func (s *Service) getListing(ctx context.Context, id uuid.UUID) (*listings.Listing, error) {
	listing, err := s.listingRepo.GetListingByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}
	if listing == nil {
		return nil, listings.ErrListingNotFound
	}
	return listing, nil
}
