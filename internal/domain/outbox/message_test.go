package outbox

import (
	"testing"
	"time"

	"github.com/ledgerbooks/backend/internal/domain/ledger"
	"github.com/ledgerbooks/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPostedEvent(t *testing.T) *shared.LedgerEvent {
	t.Helper()

	transaction, err := ledger.NewTransaction("INV-100", "supplies", time.Now(), 7, []*ledger.Entry{
		{ID: 1, AccountID: 10, DebitAmount: 2500},
		{ID: 2, AccountID: 20, CreditAmount: 2500},
	})
	require.NoError(t, err)
	transaction.ID = 42

	return shared.NewPostedEvent(transaction, "corr-1")
}

func TestNewMessage(t *testing.T) {
	event := newPostedEvent(t)

	msg, err := NewMessage(event)
	require.NoError(t, err)

	assert.Equal(t, event.EventID, msg.EventID)
	assert.Equal(t, int64(42), msg.TransactionID)
	assert.Equal(t, shared.EventKindTransactionPosted, msg.Kind)
	assert.Equal(t, shared.OutboxStatusPending, msg.Status)
	assert.Zero(t, msg.Attempts)
	assert.Nil(t, msg.LastAttemptAt)
}

func TestMessage_GetLedgerEvent(t *testing.T) {
	event := newPostedEvent(t)

	msg, err := NewMessage(event)
	require.NoError(t, err)

	decoded, err := msg.GetLedgerEvent()
	require.NoError(t, err)
	assert.Equal(t, event.EventID, decoded.EventID)
	assert.Equal(t, event.TransactionID, decoded.TransactionID)
	assert.Equal(t, event.ReferenceNumber, decoded.ReferenceNumber)
	assert.Len(t, decoded.Entries, 2)
	assert.Equal(t, int64(2500), decoded.Entries[0].DebitAmount)
	assert.Equal(t, "corr-1", decoded.CorrelationID)
}

func TestMessage_GetLedgerEvent_BadPayload(t *testing.T) {
	msg := &Message{Payload: []byte("{not json")}
	_, err := msg.GetLedgerEvent()
	assert.Error(t, err)
}

func TestMessage_StatusTransitions(t *testing.T) {
	event := newPostedEvent(t)
	msg, err := NewMessage(event)
	require.NoError(t, err)

	msg.IncrementAttempts()
	assert.Equal(t, 1, msg.Attempts)
	assert.NotNil(t, msg.LastAttemptAt)
	assert.Equal(t, shared.OutboxStatusPending, msg.Status)

	msg.MarkAsProcessed()
	assert.Equal(t, shared.OutboxStatusProcessed, msg.Status)

	msg.MarkAsFailed()
	assert.Equal(t, shared.OutboxStatusFailedToPublish, msg.Status)
}
