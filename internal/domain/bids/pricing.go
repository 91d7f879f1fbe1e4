package bids

import (
	"github.com/google/uuid"
)

// HighestBid returns the bid with the largest amount. Equal amounts go to
// the earlier bid, then to the smaller ID. Returns nil for no bids.
func HighestBid(bids []*Bid) *Bid {
	var best *Bid
	for _, b := range bids {
		if best == nil || outranks(b, best) {
			best = b
		}
	}
	return best
}

func outranks(a, b *Bid) bool {
	if a.Amount != b.Amount {
		return a.Amount > b.Amount
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID.String() < b.ID.String()
}

// CurrentPrice is the highest bid amount, or the starting bid when nobody has bid
func CurrentPrice(startingBid int64, bids []*Bid) int64 {
	if top := HighestBid(bids); top != nil {
		return top.Amount
	}
	return startingBid
}

// Winner returns the bidder holding the highest bid
func Winner(bids []*Bid) (uuid.UUID, bool) {
	if top := HighestBid(bids); top != nil {
		return top.BidderID, true
	}
	return uuid.Nil, false
}

// NewSummary derives the pricing state of a listing from its bid history
func NewSummary(listingID uuid.UUID, startingBid int64, bids []*Bid) *Summary {
	s := &Summary{
		ListingID:    listingID,
		CurrentPrice: startingBid,
		BidCount:     len(bids),
	}
	if top := HighestBid(bids); top != nil {
		winner := top.BidderID
		s.HighestBid = top
		s.CurrentPrice = top.Amount
		s.Winner = &winner
	}
	return s
}
