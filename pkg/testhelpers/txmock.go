package testhelpers

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

// MockTx is a pgx.Tx whose Commit and Rollback are recorded. Any other
// method panics, which keeps unit tests honest about touching the database.
type MockTx struct {
	pgx.Tx
	mock.Mock
}

// NewMockTx returns a MockTx that tolerates the deferred Rollback every service issues
func NewMockTx() *MockTx {
	tx := &MockTx{}
	tx.On("Rollback", mock.Anything).Return(nil).Maybe()
	return tx
}

func (m *MockTx) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTx) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockTxManager is a mock database.TransactionManager
type MockTxManager struct {
	mock.Mock
}

func (m *MockTxManager) BeginTx(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}
