package listings

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/floroz/gavel-marketplace/internal/domain/users"
	"github.com/floroz/gavel-marketplace/pkg/events"
	"github.com/floroz/gavel-marketplace/pkg/testhelpers"
)

// MockRepository is a mock implementation of Repository for testing
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateListing(ctx context.Context, tx pgx.Tx, listing *Listing) error {
	args := m.Called(ctx, tx, listing)
	return args.Error(0)
}

func (m *MockRepository) GetListingByID(ctx context.Context, id uuid.UUID) (*Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Listing), args.Error(1)
}

func (m *MockRepository) GetListingByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*Listing, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Listing), args.Error(1)
}

func (m *MockRepository) SetActive(ctx context.Context, tx pgx.Tx, id uuid.UUID, active bool) error {
	args := m.Called(ctx, tx, id, active)
	return args.Error(0)
}

func (m *MockRepository) ListActiveListings(ctx context.Context) ([]*Listing, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Listing), args.Error(1)
}

func (m *MockRepository) ListListingsBySellerID(ctx context.Context, sellerID uuid.UUID) ([]*Listing, error) {
	args := m.Called(ctx, sellerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Listing), args.Error(1)
}

func (m *MockRepository) ListCategories(ctx context.Context) ([]*CategoryInfo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*CategoryInfo), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*users.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*users.User), args.Error(1)
}

type MockOutboxRepository struct {
	mock.Mock
}

func (m *MockOutboxRepository) SaveEvent(ctx context.Context, tx pgx.Tx, event *events.OutboxEvent) error {
	args := m.Called(ctx, tx, event)
	return args.Error(0)
}

type fixture struct {
	svc    *Service
	repo   *MockRepository
	users  *MockUserRepository
	outbox *MockOutboxRepository
	txm    *testhelpers.MockTxManager
	tx     *testhelpers.MockTx
}

func newFixture() *fixture {
	f := &fixture{
		repo:   new(MockRepository),
		users:  new(MockUserRepository),
		outbox: new(MockOutboxRepository),
		txm:    new(testhelpers.MockTxManager),
		tx:     testhelpers.NewMockTx(),
	}
	f.svc = NewService(f.txm, f.repo, f.users, f.outbox)
	return f
}

func (f *fixture) assertExpectations(t *testing.T) {
	f.repo.AssertExpectations(t)
	f.users.AssertExpectations(t)
	f.outbox.AssertExpectations(t)
	f.txm.AssertExpectations(t)
	f.tx.AssertExpectations(t)
}

func categoryPtr(c Category) *Category { return &c }

func TestService_CreateListing(t *testing.T) {
	sellerID := uuid.New()

	tests := []struct {
		name        string
		cmd         CreateListingCommand
		setupMock   func(*fixture)
		wantErr     error
		checkResult func(*testing.T, *Listing)
	}{
		{
			name: "successfully creates listing",
			cmd: CreateListingCommand{
				SellerID:    sellerID,
				Title:       " Oak chair ",
				Description: "Sturdy",
				StartingBid: 1000,
				Category:    categoryPtr(CategoryFurniture),
			},
			setupMock: func(f *fixture) {
				f.users.On("GetUserByID", mock.Anything, sellerID).Return(&users.User{ID: sellerID}, nil)
				f.txm.On("BeginTx", mock.Anything).Return(f.tx, nil)
				f.repo.On("CreateListing", mock.Anything, f.tx, mock.AnythingOfType("*listings.Listing")).Return(nil)
				f.outbox.On("SaveEvent", mock.Anything, f.tx, mock.MatchedBy(func(e *events.OutboxEvent) bool {
					return e.EventType == EventListingCreated
				})).Return(nil)
				f.tx.On("Commit", mock.Anything).Return(nil)
			},
			checkResult: func(t *testing.T, l *Listing) {
				assert.NotEqual(t, uuid.Nil, l.ID)
				assert.Equal(t, "Oak chair", l.Title)
				assert.True(t, l.Active)
				assert.Equal(t, int64(1000), l.StartingBid)
				assert.Equal(t, CategoryFurniture, *l.Category)
			},
		},
		{
			name: "zero starting bid and no category are allowed",
			cmd:  CreateListingCommand{SellerID: sellerID, Title: "Free lamp"},
			setupMock: func(f *fixture) {
				f.users.On("GetUserByID", mock.Anything, sellerID).Return(&users.User{ID: sellerID}, nil)
				f.txm.On("BeginTx", mock.Anything).Return(f.tx, nil)
				f.repo.On("CreateListing", mock.Anything, f.tx, mock.Anything).Return(nil)
				f.outbox.On("SaveEvent", mock.Anything, f.tx, mock.Anything).Return(nil)
				f.tx.On("Commit", mock.Anything).Return(nil)
			},
			checkResult: func(t *testing.T, l *Listing) {
				assert.Nil(t, l.Category)
				assert.Zero(t, l.StartingBid)
			},
		},
		{
			name:      "fails with negative starting bid",
			cmd:       CreateListingCommand{SellerID: sellerID, Title: "Chair", StartingBid: -1},
			setupMock: func(f *fixture) {},
			wantErr:   ErrInvalidStartingBid,
		},
		{
			name:      "fails with blank title",
			cmd:       CreateListingCommand{SellerID: sellerID, Title: "  "},
			setupMock: func(f *fixture) {},
			wantErr:   ErrInvalidTitle,
		},
		{
			name:      "fails with unknown category",
			cmd:       CreateListingCommand{SellerID: sellerID, Title: "Chair", Category: categoryPtr("CARS")},
			setupMock: func(f *fixture) {},
			wantErr:   ErrUnknownCategory,
		},
		{
			name: "fails when seller does not exist",
			cmd:  CreateListingCommand{SellerID: sellerID, Title: "Chair"},
			setupMock: func(f *fixture) {
				f.users.On("GetUserByID", mock.Anything, sellerID).Return(nil, nil)
			},
			wantErr: users.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			tt.setupMock(f)

			listing, err := f.svc.CreateListing(context.Background(), tt.cmd)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, listing)
			} else {
				require.NoError(t, err)
				tt.checkResult(t, listing)
			}
			f.assertExpectations(t)
		})
	}
}

func TestService_CreateListing_OutboxFailureRollsBack(t *testing.T) {
	f := newFixture()
	sellerID := uuid.New()
	f.users.On("GetUserByID", mock.Anything, sellerID).Return(&users.User{ID: sellerID}, nil)
	f.txm.On("BeginTx", mock.Anything).Return(f.tx, nil)
	f.repo.On("CreateListing", mock.Anything, f.tx, mock.Anything).Return(nil)
	f.outbox.On("SaveEvent", mock.Anything, f.tx, mock.Anything).Return(errors.New("disk full"))

	_, err := f.svc.CreateListing(context.Background(), CreateListingCommand{SellerID: sellerID, Title: "Chair"})
	require.Error(t, err)
	f.tx.AssertNotCalled(t, "Commit", mock.Anything)
	f.tx.AssertCalled(t, "Rollback", mock.Anything)
}

func TestService_CloseListing(t *testing.T) {
	sellerID := uuid.New()
	otherID := uuid.New()
	listingID := uuid.New()

	tests := []struct {
		name       string
		requester  uuid.UUID
		listing    *Listing
		setupMock  func(*fixture, *Listing)
		wantErr    error
		wantActive bool
	}{
		{
			name:      "seller closes open listing",
			requester: sellerID,
			listing:   &Listing{ID: listingID, SellerID: sellerID, Active: true},
			setupMock: func(f *fixture, l *Listing) {
				f.repo.On("SetActive", mock.Anything, f.tx, listingID, false).Return(nil)
				f.outbox.On("SaveEvent", mock.Anything, f.tx, mock.MatchedBy(func(e *events.OutboxEvent) bool {
					return e.EventType == EventListingClosed
				})).Return(nil)
				f.tx.On("Commit", mock.Anything).Return(nil)
			},
			wantActive: false,
		},
		{
			name:       "closing a closed listing is a no-op",
			requester:  sellerID,
			listing:    &Listing{ID: listingID, SellerID: sellerID, Active: false},
			setupMock:  func(f *fixture, l *Listing) {},
			wantActive: false,
		},
		{
			name:       "non-seller cannot close",
			requester:  otherID,
			listing:    &Listing{ID: listingID, SellerID: sellerID, Active: true},
			setupMock:  func(f *fixture, l *Listing) {},
			wantErr:    ErrNotOwner,
			wantActive: true,
		},
		{
			name:      "missing listing",
			requester: sellerID,
			listing:   nil,
			setupMock: func(f *fixture, l *Listing) {},
			wantErr:   ErrListingNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.txm.On("BeginTx", mock.Anything).Return(f.tx, nil)
			if tt.listing == nil {
				f.repo.On("GetListingByIDForUpdate", mock.Anything, f.tx, listingID).Return(nil, nil)
			} else {
				f.repo.On("GetListingByIDForUpdate", mock.Anything, f.tx, listingID).Return(tt.listing, nil)
			}
			tt.setupMock(f, tt.listing)

			got, err := f.svc.CloseListing(context.Background(), CloseListingCommand{
				ListingID:   listingID,
				RequesterID: tt.requester,
			})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				f.repo.AssertNotCalled(t, "SetActive", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantActive, got.Active)
			}
			if tt.listing != nil {
				assert.Equal(t, tt.wantActive, tt.listing.Active)
			}
			f.assertExpectations(t)
		})
	}
}

func TestService_GetListing(t *testing.T) {
	id := uuid.New()

	t.Run("missing listing", func(t *testing.T) {
		f := newFixture()
		f.repo.On("GetListingByID", mock.Anything, id).Return(nil, nil)
		_, err := f.svc.GetListing(context.Background(), id)
		assert.ErrorIs(t, err, ErrListingNotFound)
	})

	t.Run("store failure is not reported as missing", func(t *testing.T) {
		f := newFixture()
		f.repo.On("GetListingByID", mock.Anything, id).Return(nil, errors.New("conn reset"))
		_, err := f.svc.GetListing(context.Background(), id)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrListingNotFound)
	})

	t.Run("found", func(t *testing.T) {
		f := newFixture()
		f.repo.On("GetListingByID", mock.Anything, id).Return(&Listing{ID: id, Title: "Desk"}, nil)
		got, err := f.svc.GetListing(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, "Desk", got.Title)
	})
}

func TestService_Lists(t *testing.T) {
	f := newFixture()
	sellerID := uuid.New()
	active := []*Listing{{ID: uuid.New(), Active: true}}
	all := []*Listing{{ID: uuid.New()}, {ID: uuid.New()}}
	cats := []*CategoryInfo{{Code: CategoryGeneral, Name: "General"}}

	f.repo.On("ListActiveListings", mock.Anything).Return(active, nil)
	f.repo.On("ListListingsBySellerID", mock.Anything, sellerID).Return(all, nil)
	f.repo.On("ListCategories", mock.Anything).Return(cats, nil)

	got, err := f.svc.ListActive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, active, got)

	got, err = f.svc.ListSellerListings(context.Background(), sellerID)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	gotCats, err := f.svc.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, cats, gotCats)
}

func TestCategory(t *testing.T) {
	assert.True(t, CategoryCollectibles.IsValid())
	assert.Equal(t, "Collectibles", CategoryCollectibles.Label())
	assert.False(t, Category("BOATS").IsValid())
	assert.Equal(t, "BOATS", Category("BOATS").Label())
}

func TestListing_Close(t *testing.T) {
	l := &Listing{Active: true}
	assert.True(t, l.Close())
	assert.False(t, l.Active)
	assert.False(t, l.Close())
	assert.False(t, l.Active)
}
