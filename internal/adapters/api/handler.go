package api

import (
	"context"
	"fmt"
	"strings"

	"connectrpc.com/connect"

	"github.com/floroz/gavel-marketplace/internal/domain/bids"
	"github.com/floroz/gavel-marketplace/internal/domain/comments"
	"github.com/floroz/gavel-marketplace/internal/domain/listings"
	"github.com/floroz/gavel-marketplace/internal/domain/watchlist"
	"github.com/floroz/gavel-marketplace/pkg/auth"
)

type MarketplaceHandler struct {
	listingService   *listings.Service
	auctionService   *bids.AuctionService
	watchlistService *watchlist.Service
	commentService   *comments.Service
}

func NewMarketplaceHandler(
	listingService *listings.Service,
	auctionService *bids.AuctionService,
	watchlistService *watchlist.Service,
	commentService *comments.Service,
) *MarketplaceHandler {
	return &MarketplaceHandler{
		listingService:   listingService,
		auctionService:   auctionService,
		watchlistService: watchlistService,
		commentService:   commentService,
	}
}

func (h *MarketplaceHandler) ListActiveListings(
	ctx context.Context,
	_ *connect.Request[ListActiveListingsRequest],
) (*connect.Response[ListActiveListingsResponse], error) {
	active, err := h.listingService.ListActive(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&ListActiveListingsResponse{Listings: toListings(active)}), nil
}

func (h *MarketplaceHandler) ListSellerListings(
	ctx context.Context,
	req *connect.Request[ListSellerListingsRequest],
) (*connect.Response[ListSellerListingsResponse], error) {
	sellerID, err := parseID("seller_id", req.Msg.SellerID)
	if err != nil {
		return nil, err
	}

	owned, err := h.listingService.ListSellerListings(ctx, sellerID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&ListSellerListingsResponse{Listings: toListings(owned)}), nil
}

// GetListing is served with optional auth: a signed-in caller also learns
// whether the listing is on their watchlist and whether they are the seller.
func (h *MarketplaceHandler) GetListing(
	ctx context.Context,
	req *connect.Request[GetListingRequest],
) (*connect.Response[GetListingResponse], error) {
	listingID, err := parseID("id", req.Msg.ID)
	if err != nil {
		return nil, err
	}

	listing, err := h.listingService.GetListing(ctx, listingID)
	if err != nil {
		return nil, toConnectError(err)
	}
	summary, err := h.auctionService.Summary(ctx, listingID)
	if err != nil {
		return nil, toConnectError(err)
	}

	res := &GetListingResponse{
		Listing: toListing(listing),
		Summary: toSummary(summary),
	}
	if userID, ok := auth.GetUserID(ctx); ok {
		res.IsSeller = listing.IsOwnedBy(userID)
		res.OnWatchlist, err = h.watchlistService.Contains(ctx, userID, listingID)
		if err != nil {
			return nil, toConnectError(err)
		}
	}
	return connect.NewResponse(res), nil
}

func (h *MarketplaceHandler) CreateListing(
	ctx context.Context,
	req *connect.Request[CreateListingRequest],
) (*connect.Response[CreateListingResponse], error) {
	sellerID := auth.MustGetUserID(ctx)

	startingBid, err := ParseAmount(req.Msg.StartingBid)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("starting_bid: %w", err))
	}

	cmd := listings.CreateListingCommand{
		SellerID:    sellerID,
		Title:       req.Msg.Title,
		Description: req.Msg.Description,
		StartingBid: startingBid,
	}
	if code := strings.TrimSpace(req.Msg.Category); code != "" {
		category := listings.Category(code)
		cmd.Category = &category
	}

	listing, err := h.listingService.CreateListing(ctx, cmd)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&CreateListingResponse{Listing: toListing(listing)}), nil
}

func (h *MarketplaceHandler) PlaceBid(
	ctx context.Context,
	req *connect.Request[PlaceBidRequest],
) (*connect.Response[PlaceBidResponse], error) {
	bidderID := auth.MustGetUserID(ctx)

	listingID, err := parseID("listing_id", req.Msg.ListingID)
	if err != nil {
		return nil, err
	}
	amount, err := ParseAmount(req.Msg.Amount)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("amount: %w", err))
	}

	bid, err := h.auctionService.PlaceBid(ctx, bids.PlaceBidCommand{
		ListingID: listingID,
		BidderID:  bidderID,
		Amount:    amount,
	})
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&PlaceBidResponse{Bid: toBid(bid)}), nil
}

func (h *MarketplaceHandler) ListBids(
	ctx context.Context,
	req *connect.Request[ListBidsRequest],
) (*connect.Response[ListBidsResponse], error) {
	listingID, err := parseID("listing_id", req.Msg.ListingID)
	if err != nil {
		return nil, err
	}

	history, err := h.auctionService.ListBids(ctx, listingID)
	if err != nil {
		return nil, toConnectError(err)
	}
	out := make([]*Bid, 0, len(history))
	for _, b := range history {
		out = append(out, toBid(b))
	}
	return connect.NewResponse(&ListBidsResponse{Bids: out}), nil
}

func (h *MarketplaceHandler) CloseListing(
	ctx context.Context,
	req *connect.Request[CloseListingRequest],
) (*connect.Response[CloseListingResponse], error) {
	requesterID := auth.MustGetUserID(ctx)

	listingID, err := parseID("listing_id", req.Msg.ListingID)
	if err != nil {
		return nil, err
	}

	listing, err := h.listingService.CloseListing(ctx, listings.CloseListingCommand{
		ListingID:   listingID,
		RequesterID: requesterID,
	})
	if err != nil {
		return nil, toConnectError(err)
	}
	summary, err := h.auctionService.Summary(ctx, listingID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&CloseListingResponse{
		Listing: toListing(listing),
		Summary: toSummary(summary),
	}), nil
}

func (h *MarketplaceHandler) AddComment(
	ctx context.Context,
	req *connect.Request[AddCommentRequest],
) (*connect.Response[AddCommentResponse], error) {
	commenterID := auth.MustGetUserID(ctx)

	listingID, err := parseID("listing_id", req.Msg.ListingID)
	if err != nil {
		return nil, err
	}

	comment, err := h.commentService.AddComment(ctx, comments.AddCommentCommand{
		ListingID:   listingID,
		CommenterID: commenterID,
		Text:        req.Msg.Text,
	})
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&AddCommentResponse{Comment: toComment(comment)}), nil
}

func (h *MarketplaceHandler) ListComments(
	ctx context.Context,
	req *connect.Request[ListCommentsRequest],
) (*connect.Response[ListCommentsResponse], error) {
	listingID, err := parseID("listing_id", req.Msg.ListingID)
	if err != nil {
		return nil, err
	}

	list, err := h.commentService.ListComments(ctx, listingID)
	if err != nil {
		return nil, toConnectError(err)
	}
	out := make([]*Comment, 0, len(list))
	for _, c := range list {
		out = append(out, toComment(c))
	}
	return connect.NewResponse(&ListCommentsResponse{Comments: out}), nil
}

func (h *MarketplaceHandler) AddToWatchlist(
	ctx context.Context,
	req *connect.Request[AddToWatchlistRequest],
) (*connect.Response[AddToWatchlistResponse], error) {
	userID := auth.MustGetUserID(ctx)

	listingID, err := parseID("listing_id", req.Msg.ListingID)
	if err != nil {
		return nil, err
	}
	if err := h.watchlistService.Add(ctx, userID, listingID); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&AddToWatchlistResponse{}), nil
}

func (h *MarketplaceHandler) RemoveFromWatchlist(
	ctx context.Context,
	req *connect.Request[RemoveFromWatchlistRequest],
) (*connect.Response[RemoveFromWatchlistResponse], error) {
	userID := auth.MustGetUserID(ctx)

	listingID, err := parseID("listing_id", req.Msg.ListingID)
	if err != nil {
		return nil, err
	}
	if err := h.watchlistService.Remove(ctx, userID, listingID); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&RemoveFromWatchlistResponse{}), nil
}

func (h *MarketplaceHandler) ListWatchlist(
	ctx context.Context,
	_ *connect.Request[ListWatchlistRequest],
) (*connect.Response[ListWatchlistResponse], error) {
	userID := auth.MustGetUserID(ctx)

	watched, err := h.watchlistService.List(ctx, userID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&ListWatchlistResponse{Listings: toListings(watched)}), nil
}

func (h *MarketplaceHandler) ListCategories(
	ctx context.Context,
	_ *connect.Request[ListCategoriesRequest],
) (*connect.Response[ListCategoriesResponse], error) {
	categories, err := h.listingService.ListCategories(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}
	out := make([]*Category, 0, len(categories))
	for _, c := range categories {
		out = append(out, &Category{Code: string(c.Code), Name: c.Name})
	}
	return connect.NewResponse(&ListCategoriesResponse{Categories: out}), nil
}
