package listings

import (
	"time"

	"github.com/google/uuid"
)

// Category is the short code of a listing category
type Category string

const (
	CategoryFurniture    Category = "FURN"
	CategoryCollectibles Category = "COLLECT"
	CategoryGeneral      Category = "GEN"
)

var categoryLabels = map[Category]string{
	CategoryFurniture:    "Furniture",
	CategoryCollectibles: "Collectibles",
	CategoryGeneral:      "General",
}

// IsValid reports whether c is one of the seeded categories
func (c Category) IsValid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// Label returns the display name, or the raw code for unknown categories
func (c Category) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return string(c)
}

// CategoryInfo is a row of the categories table
type CategoryInfo struct {
	Code Category `json:"code" db:"code"`
	Name string   `json:"name" db:"name"`
}

// Listing is an item offered for auction. A listing is open while Active
// and closing it is permanent.
type Listing struct {
	ID          uuid.UUID `json:"id" db:"id"`
	SellerID    uuid.UUID `json:"seller_id" db:"seller_id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	StartingBid int64     `json:"starting_bid" db:"starting_bid"` // in cents
	Category    *Category `json:"category,omitempty" db:"category_code"`
	Active      bool      `json:"active" db:"active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// IsOwnedBy checks if the listing belongs to the given user
func (l *Listing) IsOwnedBy(userID uuid.UUID) bool {
	return l.SellerID == userID
}

// Close marks the listing inactive and reports whether the state changed
func (l *Listing) Close() bool {
	if !l.Active {
		return false
	}
	l.Active = false
	return true
}
