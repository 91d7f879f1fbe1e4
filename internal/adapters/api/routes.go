package api

import (
	"log/slog"
	"net/http"

	"connectrpc.com/connect"

	"github.com/floroz/gavel-marketplace/pkg/auth"
)

const ServiceName = "marketplace.v1.MarketplaceService"

const (
	ListActiveListingsProcedure  = "/" + ServiceName + "/ListActiveListings"
	ListSellerListingsProcedure  = "/" + ServiceName + "/ListSellerListings"
	GetListingProcedure          = "/" + ServiceName + "/GetListing"
	CreateListingProcedure       = "/" + ServiceName + "/CreateListing"
	PlaceBidProcedure            = "/" + ServiceName + "/PlaceBid"
	ListBidsProcedure            = "/" + ServiceName + "/ListBids"
	CloseListingProcedure        = "/" + ServiceName + "/CloseListing"
	AddCommentProcedure          = "/" + ServiceName + "/AddComment"
	ListCommentsProcedure        = "/" + ServiceName + "/ListComments"
	AddToWatchlistProcedure      = "/" + ServiceName + "/AddToWatchlist"
	RemoveFromWatchlistProcedure = "/" + ServiceName + "/RemoveFromWatchlist"
	ListWatchlistProcedure       = "/" + ServiceName + "/ListWatchlist"
	ListCategoriesProcedure      = "/" + ServiceName + "/ListCategories"
)

// NewMarketplaceServiceHandler builds the routes for every procedure and
// returns the path prefix to mount them on
func NewMarketplaceServiceHandler(h *MarketplaceHandler, signer *auth.Signer, logger *slog.Logger) (string, http.Handler) {
	options := func(extra ...connect.Interceptor) []connect.HandlerOption {
		interceptors := append([]connect.Interceptor{NewLoggingInterceptor(logger)}, extra...)
		return []connect.HandlerOption{
			connect.WithCodec(jsonCodec{}),
			connect.WithInterceptors(interceptors...),
		}
	}
	public := options()
	optional := options(auth.NewOptionalAuthInterceptor(signer))
	required := options(auth.NewAuthInterceptor(signer))

	mux := http.NewServeMux()
	mux.Handle(ListActiveListingsProcedure, connect.NewUnaryHandler(ListActiveListingsProcedure, h.ListActiveListings, public...))
	mux.Handle(ListSellerListingsProcedure, connect.NewUnaryHandler(ListSellerListingsProcedure, h.ListSellerListings, public...))
	mux.Handle(ListBidsProcedure, connect.NewUnaryHandler(ListBidsProcedure, h.ListBids, public...))
	mux.Handle(ListCommentsProcedure, connect.NewUnaryHandler(ListCommentsProcedure, h.ListComments, public...))
	mux.Handle(ListCategoriesProcedure, connect.NewUnaryHandler(ListCategoriesProcedure, h.ListCategories, public...))

	mux.Handle(GetListingProcedure, connect.NewUnaryHandler(GetListingProcedure, h.GetListing, optional...))

	mux.Handle(CreateListingProcedure, connect.NewUnaryHandler(CreateListingProcedure, h.CreateListing, required...))
	mux.Handle(PlaceBidProcedure, connect.NewUnaryHandler(PlaceBidProcedure, h.PlaceBid, required...))
	mux.Handle(CloseListingProcedure, connect.NewUnaryHandler(CloseListingProcedure, h.CloseListing, required...))
	mux.Handle(AddCommentProcedure, connect.NewUnaryHandler(AddCommentProcedure, h.AddComment, required...))
	mux.Handle(AddToWatchlistProcedure, connect.NewUnaryHandler(AddToWatchlistProcedure, h.AddToWatchlist, required...))
	mux.Handle(RemoveFromWatchlistProcedure, connect.NewUnaryHandler(RemoveFromWatchlistProcedure, h.RemoveFromWatchlist, required...))
	mux.Handle(ListWatchlistProcedure, connect.NewUnaryHandler(ListWatchlistProcedure, h.ListWatchlist, required...))

	return "/" + ServiceName + "/", mux
}
