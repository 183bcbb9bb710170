package report

import (
	"context"
	"fmt"
	"time"
)

// Activity is one row of the per-account activity read model kept in MongoDB.
// Each posted transaction fans out into one document per entry so account
// history queries never touch the system of record.
type Activity struct {
	EventID         string    `bson:"event_id" json:"event_id"`
	TransactionID   int64     `bson:"transaction_id" json:"transaction_id"`
	EntryID         int64     `bson:"entry_id" json:"entry_id"`
	AccountID       int64     `bson:"account_id" json:"account_id"`
	DebitAmount     int64     `bson:"debit_amount" json:"debit_amount"`
	CreditAmount    int64     `bson:"credit_amount" json:"credit_amount"`
	ReferenceNumber string    `bson:"reference_number" json:"reference_number"`
	Description     string    `bson:"description,omitempty" json:"description,omitempty"`
	TransactionDate time.Time `bson:"transaction_date" json:"transaction_date"`
	CreatedBy       int64     `bson:"created_by" json:"created_by"`
	RecordedAt      time.Time `bson:"recorded_at" json:"recorded_at"`
}

// Repository manages the account activity read model
type Repository interface {
	// InsertMany stores the activity rows of one posted transaction.
	InsertMany(ctx context.Context, activities []*Activity) error
	// DeleteByTransactionID removes all rows of a transaction. Used both for
	// tombstone events and to make posted-event handling idempotent.
	DeleteByTransactionID(ctx context.Context, transactionID int64) (int64, error)
	// GetByAccountID returns an account's activity, newest first.
	GetByAccountID(ctx context.Context, accountID int64, limit, offset int64) ([]*Activity, error)
	CountByAccountID(ctx context.Context, accountID int64) (int64, error)
	Close(ctx context.Context) error
}

// ErrNoActivity indicates an account with no recorded activity
type ErrNoActivity struct {
	AccountID int64
}

func (e ErrNoActivity) Error() string {
	return fmt.Sprintf("no activity recorded for account: %d", e.AccountID)
}
