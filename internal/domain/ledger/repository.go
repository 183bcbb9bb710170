package ledger

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
)

// ListFilter narrows a transaction listing to a date window. Nil bounds are open.
type ListFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
}

// Repository manages transaction and entry persistence.
// CreateTransaction and DeleteByID must run inside a surrounding database
// transaction (via WithTx) together with the outbox write so that the header,
// its entries, and the event record commit or roll back as one unit.
type Repository interface {
	// CreateTransaction inserts the header and all entries, assigning ids.
	// Returns ErrDuplicateReference when the reference number is taken;
	// uniqueness is enforced by the storage constraint, not a pre-check.
	CreateTransaction(ctx context.Context, transaction *Transaction) error
	// GetByID loads a transaction with its entries, scoped to its creator.
	GetByID(ctx context.Context, id int64, createdBy int64) (*Transaction, error)
	// List returns the creator's transactions with entries, newest first.
	List(ctx context.Context, createdBy int64, filter ListFilter, limit, offset int) ([]*Transaction, error)
	Count(ctx context.Context, createdBy int64, filter ListFilter) (int64, error)
	// DeleteByID removes the header; entries cascade at the storage layer.
	// Returns ErrTransactionNotFound when no row matches.
	DeleteByID(ctx context.Context, id int64, createdBy int64) error
	WithTx(tx pgx.Tx) Repository
}
