package bids

import (
	"time"

	"github.com/google/uuid"
)

// Bid represents an offer on a listing. Bids are immutable once stored.
type Bid struct {
	ID        uuid.UUID `json:"id" db:"id"`
	ListingID uuid.UUID `json:"listing_id" db:"listing_id"`
	BidderID  uuid.UUID `json:"bidder_id" db:"bidder_id"`
	Amount    int64     `json:"amount" db:"amount"` // in cents
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Summary is the derived pricing state of a listing
type Summary struct {
	ListingID    uuid.UUID  `json:"listing_id"`
	CurrentPrice int64      `json:"current_price"`
	HighestBid   *Bid       `json:"highest_bid,omitempty"`
	Winner       *uuid.UUID `json:"winner,omitempty"`
	BidCount     int        `json:"bid_count"`
}
