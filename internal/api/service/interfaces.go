package service

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/ledgerbooks/backend/internal/domain/account"
	"github.com/ledgerbooks/backend/internal/domain/ledger"
	"github.com/ledgerbooks/backend/internal/domain/report"
	"github.com/ledgerbooks/backend/internal/domain/user"
)

// TxRunner executes a function inside one database transaction, committing
// when it returns nil and rolling back otherwise. *persistence.PostgresDB
// satisfies this.
type TxRunner interface {
	ExecuteTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}

// BalanceCache caches derived account balances. *redis.BalanceCache satisfies this.
type BalanceCache interface {
	Get(ctx context.Context, accountID int64) (account.Balance, bool, error)
	Set(ctx context.Context, accountID int64, balance account.Balance) error
	Invalidate(ctx context.Context, accountIDs ...int64)
}

// UserService defines the interface for registration and authentication
type UserService interface {
	// Register creates a new user with a hashed password.
	// Returns ErrDuplicateUsername or ErrDuplicateEmail on uniqueness violations.
	Register(ctx context.Context, username, email, password string) (*user.User, error)

	// Login verifies the credentials and returns the user with a signed token.
	// Returns user.ErrInvalidCredentials for a bad username or password.
	Login(ctx context.Context, username, password string) (*user.User, string, error)

	// GetUser retrieves a user by id.
	GetUser(ctx context.Context, id int64) (*user.User, error)
}

// AccountService defines the interface for chart-of-accounts operations.
// Every operation is scoped to the requesting owner; referencing another
// user's account yields ErrUnauthorizedAccountAccess.
type AccountService interface {
	CreateAccount(ctx context.Context, ownerID int64, name, accountType, description string) (*account.Account, error)
	GetAccount(ctx context.Context, ownerID, accountID int64) (*account.Account, error)
	ListAccounts(ctx context.Context, ownerID int64, typeFilter string) ([]*account.AccountWithBalance, error)
	UpdateAccount(ctx context.Context, ownerID, accountID int64, name, description string) (*account.Account, error)
	// DeleteAccount removes an account that has no posted entries.
	// Returns ErrAccountHasEntries otherwise.
	DeleteAccount(ctx context.Context, ownerID, accountID int64) error
	// GetBalance returns the account and its derived balance, serving from
	// the cache when possible.
	GetBalance(ctx context.Context, ownerID, accountID int64) (*account.Account, account.Balance, error)
}

// LedgerService defines the interface for posting and querying transactions
type LedgerService interface {
	// PostTransaction validates and atomically persists a balanced transaction
	// together with its outbox event.
	PostTransaction(ctx context.Context, createdBy int64, referenceNumber, description string, transactionDate time.Time, entries []*ledger.Entry, correlationID string) (*ledger.Transaction, error)

	GetTransaction(ctx context.Context, createdBy, id int64) (*ledger.Transaction, error)

	ListTransactions(ctx context.Context, createdBy int64, filter ledger.ListFilter, page, perPage int) ([]*ledger.Transaction, int64, error)

	// DeleteTransaction removes a whole transaction and emits a tombstone event.
	DeleteTransaction(ctx context.Context, createdBy, id int64, correlationID string) error
}

// ReportService defines the interface for account activity reporting
type ReportService interface {
	// GetAccountActivity returns the paginated activity read model rows of an
	// owned account, newest first.
	GetAccountActivity(ctx context.Context, ownerID, accountID int64, page, perPage int) ([]*report.Activity, int64, error)
}
