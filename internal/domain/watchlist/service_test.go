package watchlist

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/floroz/gavel-marketplace/internal/domain/listings"
	"github.com/floroz/gavel-marketplace/internal/domain/users"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) AddEntry(ctx context.Context, entry *Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockRepository) RemoveEntry(ctx context.Context, userID, listingID uuid.UUID) error {
	args := m.Called(ctx, userID, listingID)
	return args.Error(0)
}

func (m *MockRepository) ListListings(ctx context.Context, userID uuid.UUID) ([]*listings.Listing, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*listings.Listing), args.Error(1)
}

func (m *MockRepository) HasEntry(ctx context.Context, userID, listingID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, listingID)
	return args.Bool(0), args.Error(1)
}

type MockListingRepository struct {
	mock.Mock
}

func (m *MockListingRepository) GetListingByID(ctx context.Context, id uuid.UUID) (*listings.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*listings.Listing), args.Error(1)
}

func TestService_Add(t *testing.T) {
	userID := uuid.New()
	listingID := uuid.New()

	tests := []struct {
		name      string
		setupMock func(*MockRepository, *MockListingRepository)
		wantErr   error
	}{
		{
			name: "adds entry",
			setupMock: func(repo *MockRepository, lr *MockListingRepository) {
				lr.On("GetListingByID", mock.Anything, listingID).Return(&listings.Listing{ID: listingID}, nil)
				repo.On("AddEntry", mock.Anything, mock.MatchedBy(func(e *Entry) bool {
					return e.UserID == userID && e.ListingID == listingID
				})).Return(nil)
			},
		},
		{
			name: "unknown listing",
			setupMock: func(repo *MockRepository, lr *MockListingRepository) {
				lr.On("GetListingByID", mock.Anything, listingID).Return(nil, nil)
			},
			wantErr: listings.ErrListingNotFound,
		},
		{
			name: "unknown user",
			setupMock: func(repo *MockRepository, lr *MockListingRepository) {
				lr.On("GetListingByID", mock.Anything, listingID).Return(&listings.Listing{ID: listingID}, nil)
				repo.On("AddEntry", mock.Anything, mock.Anything).Return(users.ErrUserNotFound)
			},
			wantErr: users.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			lr := new(MockListingRepository)
			tt.setupMock(repo, lr)

			err := NewService(repo, lr).Add(context.Background(), userID, listingID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			repo.AssertExpectations(t)
			lr.AssertExpectations(t)
		})
	}
}

func TestService_AddTwiceDelegatesToIdempotentStore(t *testing.T) {
	userID := uuid.New()
	listingID := uuid.New()
	repo := new(MockRepository)
	lr := new(MockListingRepository)
	lr.On("GetListingByID", mock.Anything, listingID).Return(&listings.Listing{ID: listingID}, nil)
	repo.On("AddEntry", mock.Anything, mock.Anything).Return(nil).Twice()

	svc := NewService(repo, lr)
	require.NoError(t, svc.Add(context.Background(), userID, listingID))
	require.NoError(t, svc.Add(context.Background(), userID, listingID))
	repo.AssertExpectations(t)
}

func TestService_RemoveListContains(t *testing.T) {
	userID := uuid.New()
	listingID := uuid.New()
	repo := new(MockRepository)
	lr := new(MockListingRepository)
	svc := NewService(repo, lr)

	repo.On("RemoveEntry", mock.Anything, userID, listingID).Return(nil)
	require.NoError(t, svc.Remove(context.Background(), userID, listingID))
	lr.AssertNotCalled(t, "GetListingByID", mock.Anything, mock.Anything)

	watched := []*listings.Listing{{ID: listingID}}
	repo.On("ListListings", mock.Anything, userID).Return(watched, nil)
	got, err := svc.List(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, watched, got)

	repo.On("HasEntry", mock.Anything, userID, listingID).Return(true, nil)
	ok, err := svc.Contains(context.Background(), userID, listingID)
	require.NoError(t, err)
	assert.True(t, ok)

	other := uuid.New()
	repo.On("HasEntry", mock.Anything, other, listingID).Return(false, errors.New("timeout"))
	_, err = svc.Contains(context.Background(), other, listingID)
	assert.Error(t, err)
}
