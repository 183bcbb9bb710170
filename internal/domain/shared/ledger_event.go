package shared

import (
	"time"

	"github.com/google/uuid"
	"github.com/ledgerbooks/backend/internal/domain/ledger"
)

// EventKind defines the possible ledger event types
type EventKind string

const (
	EventKindTransactionPosted  EventKind = "TRANSACTION_POSTED"
	EventKindTransactionDeleted EventKind = "TRANSACTION_DELETED"
)

// EventEntry is the wire form of one transaction entry inside a ledger event
type EventEntry struct {
	EntryID      int64 `json:"entry_id"`
	AccountID    int64 `json:"account_id"`
	DebitAmount  int64 `json:"debit_amount"`  // Stored in cents/minor units
	CreditAmount int64 `json:"credit_amount"` // Stored in cents/minor units
}

// LedgerEvent defines a Kafka message describing a committed ledger change.
// Events carry the full entry set so the reporting projector never has to
// read the system of record.
type LedgerEvent struct {
	EventID         uuid.UUID    `json:"event_id"`
	Kind            EventKind    `json:"kind"`
	TransactionID   int64        `json:"transaction_id"`
	ReferenceNumber string       `json:"reference_number"`
	TransactionDate time.Time    `json:"transaction_date"`
	CreatedBy       int64        `json:"created_by"`
	Entries         []EventEntry `json:"entries,omitempty"`
	CorrelationID   string       `json:"correlation_id,omitempty"`
	OccurredAt      time.Time    `json:"occurred_at"`
}

// NewPostedEvent builds the event emitted after a transaction commits.
func NewPostedEvent(t *ledger.Transaction, correlationID string) *LedgerEvent {
	entries := make([]EventEntry, 0, len(t.Entries))
	for _, entry := range t.Entries {
		entries = append(entries, EventEntry{
			EntryID:      entry.ID,
			AccountID:    entry.AccountID,
			DebitAmount:  entry.DebitAmount,
			CreditAmount: entry.CreditAmount,
		})
	}

	return &LedgerEvent{
		EventID:         uuid.New(),
		Kind:            EventKindTransactionPosted,
		TransactionID:   t.ID,
		ReferenceNumber: t.ReferenceNumber,
		TransactionDate: t.TransactionDate,
		CreatedBy:       t.CreatedBy,
		Entries:         entries,
		CorrelationID:   correlationID,
		OccurredAt:      time.Now().UTC(),
	}
}

// NewDeletedEvent builds the tombstone event emitted after a transaction is removed.
func NewDeletedEvent(t *ledger.Transaction, correlationID string) *LedgerEvent {
	return &LedgerEvent{
		EventID:         uuid.New(),
		Kind:            EventKindTransactionDeleted,
		TransactionID:   t.ID,
		ReferenceNumber: t.ReferenceNumber,
		TransactionDate: t.TransactionDate,
		CreatedBy:       t.CreatedBy,
		CorrelationID:   correlationID,
		OccurredAt:      time.Now().UTC(),
	}
}

// OutboxStatus defines message publishing states
type OutboxStatus string

const (
	OutboxStatusPending         OutboxStatus = "PENDING"
	OutboxStatusProcessed       OutboxStatus = "PROCESSED"
	OutboxStatusFailedToPublish OutboxStatus = "FAILED_TO_PUBLISH"
)
