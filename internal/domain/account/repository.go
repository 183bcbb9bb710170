package account

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5"
)

// AccountWithBalance pairs an account with its aggregated entry totals,
// as produced by the listing query.
type AccountWithBalance struct {
	Account
	Balance Balance
}

// Repository defines chart-of-accounts persistence operations
type Repository interface {
	Create(ctx context.Context, account *Account) error
	GetByID(ctx context.Context, id int64) (*Account, error)
	// GetByIDs resolves a set of account ids in one query; missing ids are
	// simply absent from the result map.
	GetByIDs(ctx context.Context, ids []int64) (map[int64]*Account, error)
	// ListByOwner returns the owner's accounts annotated with their aggregated
	// debit/credit totals, optionally filtered by account type.
	ListByOwner(ctx context.Context, ownerID int64, typeFilter Type) ([]*AccountWithBalance, error)
	Update(ctx context.Context, account *Account) error
	// Delete removes an account with no posted entries.
	// Returns ErrAccountHasEntries if any entry still references it.
	Delete(ctx context.Context, id int64) error
	// SumEntries aggregates the debit and credit totals over all entries
	// referencing the account.
	SumEntries(ctx context.Context, id int64) (Balance, error)
	WithTx(tx pgx.Tx) Repository
}

// ErrAccountNotFound indicates missing account
type ErrAccountNotFound struct {
	AccountID int64
}

func (e ErrAccountNotFound) Error() string {
	return "account not found: " + strconv.FormatInt(e.AccountID, 10)
}

// ErrInvalidAccountType indicates an account type outside the enumerated set
type ErrInvalidAccountType struct {
	Type string
}

func (e ErrInvalidAccountType) Error() string {
	return "invalid account type: " + e.Type
}

// ErrDuplicateAccountName indicates the owner already has an account with this name
type ErrDuplicateAccountName struct {
	Name string
}

func (e ErrDuplicateAccountName) Error() string {
	return "account with this name already exists: " + e.Name
}

// ErrAccountHasEntries indicates the account cannot be deleted because ledger
// entries still reference it
type ErrAccountHasEntries struct {
	AccountID int64
}

func (e ErrAccountHasEntries) Error() string {
	return "account has posted entries and cannot be deleted: " + strconv.FormatInt(e.AccountID, 10)
}

// ErrUnauthorizedAccountAccess indicates the caller referenced an account
// owned by another user
type ErrUnauthorizedAccountAccess struct {
	AccountID int64
	UserID    int64
}

func (e ErrUnauthorizedAccountAccess) Error() string {
	return "account " + strconv.FormatInt(e.AccountID, 10) +
		" is not owned by user " + strconv.FormatInt(e.UserID, 10)
}
