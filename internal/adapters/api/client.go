package api

import (
	"context"
	"strings"

	"connectrpc.com/connect"
)

// Client calls the marketplace service over the Connect protocol
type Client struct {
	token string

	listActiveListings  *connect.Client[ListActiveListingsRequest, ListActiveListingsResponse]
	listSellerListings  *connect.Client[ListSellerListingsRequest, ListSellerListingsResponse]
	getListing          *connect.Client[GetListingRequest, GetListingResponse]
	createListing       *connect.Client[CreateListingRequest, CreateListingResponse]
	placeBid            *connect.Client[PlaceBidRequest, PlaceBidResponse]
	listBids            *connect.Client[ListBidsRequest, ListBidsResponse]
	closeListing        *connect.Client[CloseListingRequest, CloseListingResponse]
	addComment          *connect.Client[AddCommentRequest, AddCommentResponse]
	listComments        *connect.Client[ListCommentsRequest, ListCommentsResponse]
	addToWatchlist      *connect.Client[AddToWatchlistRequest, AddToWatchlistResponse]
	removeFromWatchlist *connect.Client[RemoveFromWatchlistRequest, RemoveFromWatchlistResponse]
	listWatchlist       *connect.Client[ListWatchlistRequest, ListWatchlistResponse]
	listCategories      *connect.Client[ListCategoriesRequest, ListCategoriesResponse]
}

func NewClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(jsonCodec{})}, opts...)
	return &Client{
		listActiveListings:  connect.NewClient[ListActiveListingsRequest, ListActiveListingsResponse](httpClient, baseURL+ListActiveListingsProcedure, opts...),
		listSellerListings:  connect.NewClient[ListSellerListingsRequest, ListSellerListingsResponse](httpClient, baseURL+ListSellerListingsProcedure, opts...),
		getListing:          connect.NewClient[GetListingRequest, GetListingResponse](httpClient, baseURL+GetListingProcedure, opts...),
		createListing:       connect.NewClient[CreateListingRequest, CreateListingResponse](httpClient, baseURL+CreateListingProcedure, opts...),
		placeBid:            connect.NewClient[PlaceBidRequest, PlaceBidResponse](httpClient, baseURL+PlaceBidProcedure, opts...),
		listBids:            connect.NewClient[ListBidsRequest, ListBidsResponse](httpClient, baseURL+ListBidsProcedure, opts...),
		closeListing:        connect.NewClient[CloseListingRequest, CloseListingResponse](httpClient, baseURL+CloseListingProcedure, opts...),
		addComment:          connect.NewClient[AddCommentRequest, AddCommentResponse](httpClient, baseURL+AddCommentProcedure, opts...),
		listComments:        connect.NewClient[ListCommentsRequest, ListCommentsResponse](httpClient, baseURL+ListCommentsProcedure, opts...),
		addToWatchlist:      connect.NewClient[AddToWatchlistRequest, AddToWatchlistResponse](httpClient, baseURL+AddToWatchlistProcedure, opts...),
		removeFromWatchlist: connect.NewClient[RemoveFromWatchlistRequest, RemoveFromWatchlistResponse](httpClient, baseURL+RemoveFromWatchlistProcedure, opts...),
		listWatchlist:       connect.NewClient[ListWatchlistRequest, ListWatchlistResponse](httpClient, baseURL+ListWatchlistProcedure, opts...),
		listCategories:      connect.NewClient[ListCategoriesRequest, ListCategoriesResponse](httpClient, baseURL+ListCategoriesProcedure, opts...),
	}
}

// WithToken returns a copy of the client that sends token as a bearer credential
func (c *Client) WithToken(token string) *Client {
	clone := *c
	clone.token = token
	return &clone
}

func call[Req, Res any](ctx context.Context, token string, client *connect.Client[Req, Res], msg *Req) (*Res, error) {
	req := connect.NewRequest(msg)
	if token != "" {
		req.Header().Set("Authorization", "Bearer "+token)
	}
	res, err := client.CallUnary(ctx, req)
	if err != nil {
		return nil, err
	}
	return res.Msg, nil
}

func (c *Client) ListActiveListings(ctx context.Context, req *ListActiveListingsRequest) (*ListActiveListingsResponse, error) {
	return call(ctx, c.token, c.listActiveListings, req)
}

func (c *Client) ListSellerListings(ctx context.Context, req *ListSellerListingsRequest) (*ListSellerListingsResponse, error) {
	return call(ctx, c.token, c.listSellerListings, req)
}

func (c *Client) GetListing(ctx context.Context, req *GetListingRequest) (*GetListingResponse, error) {
	return call(ctx, c.token, c.getListing, req)
}

func (c *Client) CreateListing(ctx context.Context, req *CreateListingRequest) (*CreateListingResponse, error) {
	return call(ctx, c.token, c.createListing, req)
}

func (c *Client) PlaceBid(ctx context.Context, req *PlaceBidRequest) (*PlaceBidResponse, error) {
	return call(ctx, c.token, c.placeBid, req)
}

func (c *Client) ListBids(ctx context.Context, req *ListBidsRequest) (*ListBidsResponse, error) {
	return call(ctx, c.token, c.listBids, req)
}

func (c *Client) CloseListing(ctx context.Context, req *CloseListingRequest) (*CloseListingResponse, error) {
	return call(ctx, c.token, c.closeListing, req)
}

func (c *Client) AddComment(ctx context.Context, req *AddCommentRequest) (*AddCommentResponse, error) {
	return call(ctx, c.token, c.addComment, req)
}

func (c *Client) ListComments(ctx context.Context, req *ListCommentsRequest) (*ListCommentsResponse, error) {
	return call(ctx, c.token, c.listComments, req)
}

func (c *Client) AddToWatchlist(ctx context.Context, req *AddToWatchlistRequest) (*AddToWatchlistResponse, error) {
	return call(ctx, c.token, c.addToWatchlist, req)
}

func (c *Client) RemoveFromWatchlist(ctx context.Context, req *RemoveFromWatchlistRequest) (*RemoveFromWatchlistResponse, error) {
	return call(ctx, c.token, c.removeFromWatchlist, req)
}

func (c *Client) ListWatchlist(ctx context.Context, req *ListWatchlistRequest) (*ListWatchlistResponse, error) {
	return call(ctx, c.token, c.listWatchlist, req)
}

func (c *Client) ListCategories(ctx context.Context, req *ListCategoriesRequest) (*ListCategoriesResponse, error) {
	return call(ctx, c.token, c.listCategories, req)
}
