package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	pkgevents "github.com/floroz/gavel-marketplace/pkg/events"
)

var ErrEventNotFound = errors.New("outbox event not found")

const outboxColumns = `id, event_type, payload, status, created_at, processed_at`

// PostgresOutboxRepository is the outbox_events table. Marketplace services
// write listing.created, listing.closed, bid.placed and comment.added rows
// in the same transaction as the change they describe; the relay drains them.
type PostgresOutboxRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresOutboxRepository(pool *pgxpool.Pool) *PostgresOutboxRepository {
	return &PostgresOutboxRepository{pool: pool}
}

// SaveEvent records a marketplace event as part of the caller's transaction
func (r *PostgresOutboxRepository) SaveEvent(ctx context.Context, tx pgx.Tx, event *pkgevents.OutboxEvent) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO outbox_events (id, event_type, payload, status, created_at)
		 VALUES ($1, $2, $3, $4::outbox_status, $5)`,
		event.ID, event.EventType, event.Payload, event.Status, event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert %s event: %w", event.EventType, err)
	}
	return nil
}

// GetPendingEvents claims up to limit of the oldest pending events for the
// lifetime of tx. Rows claimed by another relay are skipped, not waited on.
func (r *PostgresOutboxRepository) GetPendingEvents(ctx context.Context, tx pgx.Tx, limit int) ([]*pkgevents.OutboxEvent, error) {
	rows, err := tx.Query(ctx,
		`SELECT `+outboxColumns+`
		 FROM outbox_events
		 WHERE status = 'pending'
		 ORDER BY created_at
		 LIMIT $1
		 FOR UPDATE SKIP LOCKED`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to claim pending events: %w", err)
	}

	pending, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[pkgevents.OutboxEvent])
	if err != nil {
		return nil, fmt.Errorf("failed to read pending events: %w", err)
	}
	return pending, nil
}

// UpdateEventStatus moves an event along its lifecycle. Terminal statuses
// stamp processed_at; going back to pending or processing clears it.
func (r *PostgresOutboxRepository) UpdateEventStatus(ctx context.Context, tx pgx.Tx, eventID uuid.UUID, status pkgevents.OutboxStatus) error {
	tag, err := tx.Exec(ctx,
		`UPDATE outbox_events
		 SET status = $1::outbox_status,
		     processed_at = CASE WHEN $1::outbox_status IN ('published', 'failed') THEN now() END
		 WHERE id = $2`,
		status, eventID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark event %s as %s: %w", eventID, status, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrEventNotFound
	}
	return nil
}
