package api

import (
	"time"

	"github.com/floroz/gavel-marketplace/internal/domain/bids"
	"github.com/floroz/gavel-marketplace/internal/domain/comments"
	"github.com/floroz/gavel-marketplace/internal/domain/listings"
)

// Wire messages. IDs are UUID strings, amounts are decimal strings and
// timestamps are RFC 3339.

type Listing struct {
	ID            string `json:"id"`
	SellerID      string `json:"seller_id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	StartingBid   string `json:"starting_bid"`
	Category      string `json:"category,omitempty"`
	CategoryLabel string `json:"category_label,omitempty"`
	Active        bool   `json:"active"`
	CreatedAt     string `json:"created_at"`
}

type Bid struct {
	ID        string `json:"id"`
	ListingID string `json:"listing_id"`
	BidderID  string `json:"bidder_id"`
	Amount    string `json:"amount"`
	CreatedAt string `json:"created_at"`
}

type Summary struct {
	CurrentPrice string `json:"current_price"`
	HighestBid   *Bid   `json:"highest_bid,omitempty"`
	Winner       string `json:"winner,omitempty"`
	BidCount     int    `json:"bid_count"`
}

type Comment struct {
	ID          string `json:"id"`
	ListingID   string `json:"listing_id"`
	CommenterID string `json:"commenter_id"`
	Text        string `json:"text"`
	CreatedAt   string `json:"created_at"`
}

type Category struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type ListActiveListingsRequest struct{}

type ListActiveListingsResponse struct {
	Listings []*Listing `json:"listings"`
}

type ListSellerListingsRequest struct {
	SellerID string `json:"seller_id"`
}

type ListSellerListingsResponse struct {
	Listings []*Listing `json:"listings"`
}

type GetListingRequest struct {
	ID string `json:"id"`
}

type GetListingResponse struct {
	Listing     *Listing `json:"listing"`
	Summary     *Summary `json:"summary"`
	OnWatchlist bool     `json:"on_watchlist"`
	IsSeller    bool     `json:"is_seller"`
}

type CreateListingRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	StartingBid string `json:"starting_bid"`
	Category    string `json:"category,omitempty"`
}

type CreateListingResponse struct {
	Listing *Listing `json:"listing"`
}

type PlaceBidRequest struct {
	ListingID string `json:"listing_id"`
	Amount    string `json:"amount"`
}

type PlaceBidResponse struct {
	Bid *Bid `json:"bid"`
}

type ListBidsRequest struct {
	ListingID string `json:"listing_id"`
}

type ListBidsResponse struct {
	Bids []*Bid `json:"bids"`
}

type CloseListingRequest struct {
	ListingID string `json:"listing_id"`
}

type CloseListingResponse struct {
	Listing *Listing `json:"listing"`
	Summary *Summary `json:"summary"`
}

type AddCommentRequest struct {
	ListingID string `json:"listing_id"`
	Text      string `json:"text"`
}

type AddCommentResponse struct {
	Comment *Comment `json:"comment"`
}

type ListCommentsRequest struct {
	ListingID string `json:"listing_id"`
}

type ListCommentsResponse struct {
	Comments []*Comment `json:"comments"`
}

type AddToWatchlistRequest struct {
	ListingID string `json:"listing_id"`
}

type AddToWatchlistResponse struct{}

type RemoveFromWatchlistRequest struct {
	ListingID string `json:"listing_id"`
}

type RemoveFromWatchlistResponse struct{}

type ListWatchlistRequest struct{}

type ListWatchlistResponse struct {
	Listings []*Listing `json:"listings"`
}

type ListCategoriesRequest struct{}

type ListCategoriesResponse struct {
	Categories []*Category `json:"categories"`
}

func toListing(l *listings.Listing) *Listing {
	msg := &Listing{
		ID:          l.ID.String(),
		SellerID:    l.SellerID.String(),
		Title:       l.Title,
		Description: l.Description,
		StartingBid: FormatAmount(l.StartingBid),
		Active:      l.Active,
		CreatedAt:   formatTime(l.CreatedAt),
	}
	if l.Category != nil {
		msg.Category = string(*l.Category)
		msg.CategoryLabel = l.Category.Label()
	}
	return msg
}

func toListings(ls []*listings.Listing) []*Listing {
	out := make([]*Listing, 0, len(ls))
	for _, l := range ls {
		out = append(out, toListing(l))
	}
	return out
}

func toBid(b *bids.Bid) *Bid {
	if b == nil {
		return nil
	}
	return &Bid{
		ID:        b.ID.String(),
		ListingID: b.ListingID.String(),
		BidderID:  b.BidderID.String(),
		Amount:    FormatAmount(b.Amount),
		CreatedAt: formatTime(b.CreatedAt),
	}
}

func toSummary(s *bids.Summary) *Summary {
	msg := &Summary{
		CurrentPrice: FormatAmount(s.CurrentPrice),
		HighestBid:   toBid(s.HighestBid),
		BidCount:     s.BidCount,
	}
	if s.Winner != nil {
		msg.Winner = s.Winner.String()
	}
	return msg
}

func toComment(c *comments.Comment) *Comment {
	return &Comment{
		ID:          c.ID.String(),
		ListingID:   c.ListingID.String(),
		CommenterID: c.CommenterID.String(),
		Text:        c.Text,
		CreatedAt:   formatTime(c.CreatedAt),
	}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
