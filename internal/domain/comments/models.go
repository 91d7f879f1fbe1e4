package comments

import (
	"time"

	"github.com/google/uuid"
)

// Comment is a public remark on a listing. Text may be empty.
type Comment struct {
	ID          uuid.UUID `json:"id" db:"id"`
	ListingID   uuid.UUID `json:"listing_id" db:"listing_id"`
	CommenterID uuid.UUID `json:"commenter_id" db:"commenter_id"`
	Text        string    `json:"text" db:"text"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
