package watchlist

import (
	"time"

	"github.com/google/uuid"
)

// Entry records that a user watches a listing. (UserID, ListingID) is unique.
type Entry struct {
	UserID    uuid.UUID `db:"user_id"`
	ListingID uuid.UUID `db:"listing_id"`
	CreatedAt time.Time `db:"created_at"`
}
