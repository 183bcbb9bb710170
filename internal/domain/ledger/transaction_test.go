package ledger

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTransaction(t *testing.T) {
	validEntries := []*Entry{
		{AccountID: 1, DebitAmount: 10000},
		{AccountID: 2, CreditAmount: 10000},
	}

	tests := []struct {
		name            string
		referenceNumber string
		entries         []*Entry
		wantErr         error
	}{
		{
			name:            "valid transaction",
			referenceNumber: "INV-001",
			entries:         validEntries,
			wantErr:         nil,
		},
		{
			name:            "empty reference",
			referenceNumber: "",
			entries:         validEntries,
			wantErr:         ErrEmptyReference,
		},
		{
			name:            "whitespace reference",
			referenceNumber: "   ",
			entries:         validEntries,
			wantErr:         ErrEmptyReference,
		},
		{
			name:            "single entry",
			referenceNumber: "INV-002",
			entries:         []*Entry{{AccountID: 1, DebitAmount: 10000}},
			wantErr:         ErrInsufficientEntries{Count: 1},
		},
		{
			name:            "no entries",
			referenceNumber: "INV-003",
			entries:         nil,
			wantErr:         ErrInsufficientEntries{Count: 0},
		},
		{
			name:            "entry with both sides set",
			referenceNumber: "INV-004",
			entries: []*Entry{
				{AccountID: 1, DebitAmount: 5000, CreditAmount: 5000},
				{AccountID: 2, CreditAmount: 5000},
			},
			wantErr: ErrAmbiguousEntrySign{Index: 0, AccountID: 1},
		},
		{
			name:            "entry with neither side set",
			referenceNumber: "INV-005",
			entries: []*Entry{
				{AccountID: 1, DebitAmount: 5000},
				{AccountID: 2},
			},
			wantErr: ErrAmbiguousEntrySign{Index: 1, AccountID: 2},
		},
		{
			name:            "entry with negative amount",
			referenceNumber: "INV-006",
			entries: []*Entry{
				{AccountID: 1, DebitAmount: -5000},
				{AccountID: 2, CreditAmount: 5000},
			},
			wantErr: ErrAmbiguousEntrySign{Index: 0, AccountID: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transaction, err := NewTransaction(tt.referenceNumber, "test", time.Now(), 7, tt.entries)
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)
				assert.Nil(t, transaction)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.referenceNumber, transaction.ReferenceNumber)
				assert.Equal(t, int64(7), transaction.CreatedBy)
			}
		})
	}
}

func TestNewTransaction_StructuralChecksPrecedeEntryChecks(t *testing.T) {
	// A missing reference wins over a bad entry, and too few entries win
	// over a bad sign on the one entry present.
	_, err := NewTransaction("", "", time.Time{}, 1, []*Entry{{AccountID: 1}})
	assert.ErrorIs(t, err, ErrEmptyReference)

	_, err = NewTransaction("INV-010", "", time.Time{}, 1, []*Entry{{AccountID: 1}})
	var insufficient ErrInsufficientEntries
	assert.True(t, errors.As(err, &insufficient))
}

func TestNewTransaction_DefaultsTransactionDate(t *testing.T) {
	entries := []*Entry{
		{AccountID: 1, DebitAmount: 100},
		{AccountID: 2, CreditAmount: 100},
	}

	transaction, err := NewTransaction("INV-020", "", time.Time{}, 1, entries)
	require.NoError(t, err)
	assert.False(t, transaction.TransactionDate.IsZero())

	explicit := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	transaction, err = NewTransaction("INV-021", "", explicit, 1, entries)
	require.NoError(t, err)
	assert.Equal(t, explicit, transaction.TransactionDate)
}

func TestTransaction_CheckBalanced(t *testing.T) {
	tests := []struct {
		name    string
		entries []*Entry
		wantErr error
	}{
		{
			name: "balanced two entries",
			entries: []*Entry{
				{AccountID: 1, DebitAmount: 10000},
				{AccountID: 2, CreditAmount: 10000},
			},
			wantErr: nil,
		},
		{
			name: "balanced split credit",
			entries: []*Entry{
				{AccountID: 1, DebitAmount: 10000},
				{AccountID: 2, CreditAmount: 4000},
				{AccountID: 3, CreditAmount: 6000},
			},
			wantErr: nil,
		},
		{
			name: "off by one cent",
			entries: []*Entry{
				{AccountID: 1, DebitAmount: 10000},
				{AccountID: 2, CreditAmount: 9999},
			},
			wantErr: ErrUnbalancedTransaction{Debits: 10000, Credits: 9999},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transaction, err := NewTransaction("REF", "", time.Now(), 1, tt.entries)
			require.NoError(t, err)

			err = transaction.CheckBalanced()
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestErrUnbalancedTransaction_Message(t *testing.T) {
	err := ErrUnbalancedTransaction{Debits: 10000, Credits: 9999}
	assert.Equal(t, int64(1), err.Difference())
	assert.Contains(t, err.Error(), "100.00")
	assert.Contains(t, err.Error(), "99.99")
	assert.Contains(t, err.Error(), "0.01")
}

func TestTransaction_AccountIDs(t *testing.T) {
	transaction, err := NewTransaction("REF", "", time.Now(), 1, []*Entry{
		{AccountID: 3, DebitAmount: 100},
		{AccountID: 1, CreditAmount: 50},
		{AccountID: 3, DebitAmount: 25},
		{AccountID: 2, CreditAmount: 75},
	})
	require.NoError(t, err)

	assert.Equal(t, []int64{3, 1, 2}, transaction.AccountIDs())
}

func TestTransaction_Totals(t *testing.T) {
	transaction, err := NewTransaction("REF", "", time.Now(), 1, []*Entry{
		{AccountID: 1, DebitAmount: 7000},
		{AccountID: 2, DebitAmount: 3000},
		{AccountID: 3, CreditAmount: 10000},
	})
	require.NoError(t, err)

	debits, credits := transaction.Totals()
	assert.Equal(t, int64(10000), debits)
	assert.Equal(t, int64(10000), credits)
}
