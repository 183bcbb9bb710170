package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrEmptyReference indicates a missing reference number
var ErrEmptyReference = errors.New("reference number cannot be empty")

// ErrInsufficientEntries indicates a transaction with fewer than MinEntries entries
type ErrInsufficientEntries struct {
	Count int
}

func (e ErrInsufficientEntries) Error() string {
	return fmt.Sprintf("transaction requires at least %d entries, got %d", MinEntries, e.Count)
}

// ErrAmbiguousEntrySign indicates an entry that is not exactly one of
// debit or credit
type ErrAmbiguousEntrySign struct {
	Index     int
	AccountID int64
}

func (e ErrAmbiguousEntrySign) Error() string {
	return fmt.Sprintf("entry %d (account %d) must have exactly one of debit or credit set", e.Index, e.AccountID)
}

// ErrUnknownAccount indicates an entry referencing a non-existent account
type ErrUnknownAccount struct {
	AccountID int64
}

func (e ErrUnknownAccount) Error() string {
	return fmt.Sprintf("entry references unknown account: %d", e.AccountID)
}

// ErrUnbalancedTransaction indicates total debits differ from total credits.
// Amounts are minor units; the message reports them in currency units.
type ErrUnbalancedTransaction struct {
	Debits  int64
	Credits int64
}

// Difference returns debits minus credits in minor units.
func (e ErrUnbalancedTransaction) Difference() int64 {
	return e.Debits - e.Credits
}

func (e ErrUnbalancedTransaction) Error() string {
	return fmt.Sprintf("transaction is unbalanced: debits %s, credits %s, difference %s",
		decimal.New(e.Debits, -2).StringFixed(2),
		decimal.New(e.Credits, -2).StringFixed(2),
		decimal.New(e.Difference(), -2).StringFixed(2),
	)
}

// ErrDuplicateReference indicates reference number uniqueness violation
type ErrDuplicateReference struct {
	ReferenceNumber string
}

func (e ErrDuplicateReference) Error() string {
	return "transaction with this reference number already exists: " + e.ReferenceNumber
}

// ErrTransactionNotFound indicates missing transaction
type ErrTransactionNotFound struct {
	TransactionID int64
}

func (e ErrTransactionNotFound) Error() string {
	return fmt.Sprintf("transaction not found: %d", e.TransactionID)
}
