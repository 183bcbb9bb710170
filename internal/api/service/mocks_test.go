package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/ledgerbooks/backend/internal/domain/account"
	"github.com/ledgerbooks/backend/internal/domain/ledger"
	"github.com/ledgerbooks/backend/internal/domain/outbox"
	"github.com/ledgerbooks/backend/internal/domain/shared"
	"github.com/ledgerbooks/backend/internal/domain/user"
	"github.com/stretchr/testify/mock"
)

// mockTxRunner runs the transactional closure with a nil tx; the repository
// mocks ignore the tx anyway.
type mockTxRunner struct {
	mock.Mock
}

func (m *mockTxRunner) ExecuteTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	args := m.Called(ctx)
	if args.Error(0) != nil {
		return args.Error(0)
	}
	return fn(nil)
}

type mockBalanceCache struct {
	mock.Mock
}

func (m *mockBalanceCache) Get(ctx context.Context, accountID int64) (account.Balance, bool, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(account.Balance), args.Bool(1), args.Error(2)
}

func (m *mockBalanceCache) Set(ctx context.Context, accountID int64, balance account.Balance) error {
	args := m.Called(ctx, accountID, balance)
	return args.Error(0)
}

func (m *mockBalanceCache) Invalidate(ctx context.Context, accountIDs ...int64) {
	m.Called(ctx, accountIDs)
}

type mockAccountRepo struct {
	mock.Mock
}

func (m *mockAccountRepo) Create(ctx context.Context, acc *account.Account) error {
	args := m.Called(ctx, acc)
	return args.Error(0)
}

func (m *mockAccountRepo) GetByID(ctx context.Context, id int64) (*account.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

func (m *mockAccountRepo) GetByIDs(ctx context.Context, ids []int64) (map[int64]*account.Account, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]*account.Account), args.Error(1)
}

func (m *mockAccountRepo) ListByOwner(ctx context.Context, ownerID int64, typeFilter account.Type) ([]*account.AccountWithBalance, error) {
	args := m.Called(ctx, ownerID, typeFilter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*account.AccountWithBalance), args.Error(1)
}

func (m *mockAccountRepo) Update(ctx context.Context, acc *account.Account) error {
	args := m.Called(ctx, acc)
	return args.Error(0)
}

func (m *mockAccountRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockAccountRepo) SumEntries(ctx context.Context, id int64) (account.Balance, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(account.Balance), args.Error(1)
}

func (m *mockAccountRepo) WithTx(tx pgx.Tx) account.Repository {
	return m
}

type mockLedgerRepo struct {
	mock.Mock
}

func (m *mockLedgerRepo) CreateTransaction(ctx context.Context, transaction *ledger.Transaction) error {
	args := m.Called(ctx, transaction)
	return args.Error(0)
}

func (m *mockLedgerRepo) GetByID(ctx context.Context, id int64, createdBy int64) (*ledger.Transaction, error) {
	args := m.Called(ctx, id, createdBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Transaction), args.Error(1)
}

func (m *mockLedgerRepo) List(ctx context.Context, createdBy int64, filter ledger.ListFilter, limit, offset int) ([]*ledger.Transaction, error) {
	args := m.Called(ctx, createdBy, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledger.Transaction), args.Error(1)
}

func (m *mockLedgerRepo) Count(ctx context.Context, createdBy int64, filter ledger.ListFilter) (int64, error) {
	args := m.Called(ctx, createdBy, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockLedgerRepo) DeleteByID(ctx context.Context, id int64, createdBy int64) error {
	args := m.Called(ctx, id, createdBy)
	return args.Error(0)
}

func (m *mockLedgerRepo) WithTx(tx pgx.Tx) ledger.Repository {
	return m
}

type mockOutboxRepo struct {
	mock.Mock
}

func (m *mockOutboxRepo) Create(ctx context.Context, message *outbox.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *mockOutboxRepo) GetPending(ctx context.Context, limit int) ([]*outbox.Message, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*outbox.Message), args.Error(1)
}

func (m *mockOutboxRepo) UpdateStatus(ctx context.Context, id int64, status shared.OutboxStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *mockOutboxRepo) IncrementAttempts(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockOutboxRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockOutboxRepo) GetByEventID(ctx context.Context, eventID uuid.UUID) (*outbox.Message, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*outbox.Message), args.Error(1)
}

func (m *mockOutboxRepo) WithTx(tx pgx.Tx) outbox.Repository {
	return m
}

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, u *user.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *mockUserRepo) WithTx(tx pgx.Tx) user.Repository {
	return m
}
