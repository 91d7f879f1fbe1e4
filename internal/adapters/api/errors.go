package api

import (
	"context"
	"errors"
	"fmt"

	"connectrpc.com/connect"
	"github.com/google/uuid"

	"github.com/floroz/gavel-marketplace/internal/domain/bids"
	"github.com/floroz/gavel-marketplace/internal/domain/listings"
	"github.com/floroz/gavel-marketplace/internal/domain/users"
	pkgdb "github.com/floroz/gavel-marketplace/pkg/database"
)

// toConnectError maps domain errors onto Connect status codes
func toConnectError(err error) error {
	switch {
	case errors.Is(err, bids.ErrSelfBid),
		errors.Is(err, listings.ErrNotOwner):
		return connect.NewError(connect.CodePermissionDenied, err)
	case errors.Is(err, bids.ErrBelowStartingBid),
		errors.Is(err, bids.ErrBelowCurrentBid),
		errors.Is(err, bids.ErrListingClosed):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, bids.ErrInvalidBidAmount),
		errors.Is(err, listings.ErrInvalidStartingBid),
		errors.Is(err, listings.ErrInvalidTitle),
		errors.Is(err, listings.ErrUnknownCategory),
		errors.Is(err, users.ErrInvalidHandle),
		errors.Is(err, ErrInvalidAmount):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, listings.ErrListingNotFound),
		errors.Is(err, users.ErrUserNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, users.ErrHandleTaken):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case pkgdb.IsLockTimeout(err):
		return connect.NewError(connect.CodeAborted, errors.New("listing is busy, try again"))
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

func parseID(field, value string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("invalid %s", field))
	}
	return id, nil
}
