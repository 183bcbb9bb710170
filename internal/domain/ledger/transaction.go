// Package ledger holds the double-entry core: transactions, their entries,
// and the invariants every posting must satisfy before it may be persisted.
package ledger

import (
	"strings"
	"time"
)

// MinEntries is the smallest number of entries a transaction may carry.
// Double-entry bookkeeping requires at least one debit and one credit.
const MinEntries = 2

// Entry represents one leg of a transaction: a debit or a credit against a
// single account. Amounts are in minor units (cents); exactly one of
// DebitAmount/CreditAmount is strictly positive and the other is zero.
type Entry struct {
	ID            int64  `json:"id"`
	TransactionID int64  `json:"transaction_id"`
	AccountID     int64  `json:"account_id"`
	DebitAmount   int64  `json:"debit_amount"`  // Stored in cents/minor units
	CreditAmount  int64  `json:"credit_amount"` // Stored in cents/minor units
	Description   string `json:"description,omitempty"`
}

// validSign reports whether the entry is either a debit or a credit,
// never both and never neither.
func (e *Entry) validSign() bool {
	if e.DebitAmount < 0 || e.CreditAmount < 0 {
		return false
	}
	return (e.DebitAmount > 0) != (e.CreditAmount > 0)
}

// Transaction represents a balanced financial event composed of two or more
// entries. Transactions are immutable once posted; the only later lifecycle
// event is whole-transaction deletion.
type Transaction struct {
	ID              int64     `json:"id"`
	ReferenceNumber string    `json:"reference_number"`
	Description     string    `json:"description,omitempty"`
	TransactionDate time.Time `json:"transaction_date"`
	CreatedBy       int64     `json:"created_by"`
	Entries         []*Entry  `json:"entries"`
	CreatedAt       time.Time `json:"created_at"`
}

// NewTransaction builds a transaction and checks its structural invariants:
// a non-empty reference, at least MinEntries entries, and a valid
// debit-xor-credit sign on every entry. Referential and balance checks need
// the chart of accounts and are performed by the posting service.
func NewTransaction(referenceNumber, description string, transactionDate time.Time, createdBy int64, entries []*Entry) (*Transaction, error) {
	referenceNumber = strings.TrimSpace(referenceNumber)
	if referenceNumber == "" {
		return nil, ErrEmptyReference
	}

	if len(entries) < MinEntries {
		return nil, ErrInsufficientEntries{Count: len(entries)}
	}

	for i, entry := range entries {
		if !entry.validSign() {
			return nil, ErrAmbiguousEntrySign{Index: i, AccountID: entry.AccountID}
		}
	}

	if transactionDate.IsZero() {
		transactionDate = time.Now().UTC()
	}

	return &Transaction{
		ReferenceNumber: referenceNumber,
		Description:     description,
		TransactionDate: transactionDate,
		CreatedBy:       createdBy,
		Entries:         entries,
		CreatedAt:       time.Now(),
	}, nil
}

// Totals returns the summed debit and credit amounts over all entries.
func (t *Transaction) Totals() (debits int64, credits int64) {
	for _, entry := range t.Entries {
		debits += entry.DebitAmount
		credits += entry.CreditAmount
	}
	return debits, credits
}

// CheckBalanced verifies the double-entry invariant: total debits equal total
// credits. Amounts are integer minor units, so the comparison is exact.
func (t *Transaction) CheckBalanced() error {
	debits, credits := t.Totals()
	if debits != credits {
		return ErrUnbalancedTransaction{Debits: debits, Credits: credits}
	}
	return nil
}

// AccountIDs returns the distinct account ids referenced by the entries,
// in first-seen order.
func (t *Transaction) AccountIDs() []int64 {
	seen := make(map[int64]struct{}, len(t.Entries))
	ids := make([]int64, 0, len(t.Entries))
	for _, entry := range t.Entries {
		if _, ok := seen[entry.AccountID]; ok {
			continue
		}
		seen[entry.AccountID] = struct{}{}
		ids = append(ids, entry.AccountID)
	}
	return ids
}
