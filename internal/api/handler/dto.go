package handler

import (
	"errors"
	"time"

	"github.com/ledgerbooks/backend/internal/domain/account"
	"github.com/ledgerbooks/backend/internal/domain/ledger"
	"github.com/ledgerbooks/backend/internal/domain/report"
	"github.com/ledgerbooks/backend/internal/domain/user"
	"github.com/shopspring/decimal"
)

// Amount parsing errors
var (
	ErrInvalidAmount = errors.New("amount must be a decimal number with at most two decimal places")
)

// RegisterRequest represents a request to register a new user
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=64"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

// AuthResponse represents a successful authentication
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// CreateAccountRequest represents a request to create a new account
type CreateAccountRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	AccountType string `json:"account_type" binding:"required"`
	Description string `json:"description"`
}

// UpdateAccountRequest represents a request to rename an account.
// The account type is immutable and deliberately absent.
type UpdateAccountRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description"`
}

// AccountResponse represents an account in API responses
type AccountResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	AccountType string `json:"account_type"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// AccountWithBalanceResponse pairs an account with its derived totals
type AccountWithBalanceResponse struct {
	AccountResponse
	Debits  string `json:"debits"`
	Credits string `json:"credits"`
	Balance string `json:"balance"`
}

// BalanceResponse represents a derived account balance
type BalanceResponse struct {
	AccountID   int64  `json:"account_id"`
	AccountType string `json:"account_type"`
	Debits      string `json:"debits"`
	Credits     string `json:"credits"`
	Balance     string `json:"balance"`
}

// EntryRequest represents one leg of a transaction in a posting request.
// Amounts are decimal strings ("125.50"); exactly one of debit_amount and
// credit_amount must be positive.
type EntryRequest struct {
	AccountID    int64  `json:"account_id" binding:"required"`
	DebitAmount  string `json:"debit_amount"`
	CreditAmount string `json:"credit_amount"`
	Description  string `json:"description"`
}

// CreateTransactionRequest represents a request to post a transaction
type CreateTransactionRequest struct {
	ReferenceNumber string         `json:"reference_number" binding:"required,max=64"`
	Description     string         `json:"description"`
	TransactionDate string         `json:"transaction_date"`
	Entries         []EntryRequest `json:"entries" binding:"required"`
}

// EntryResponse represents one transaction entry in API responses
type EntryResponse struct {
	ID           int64  `json:"id"`
	AccountID    int64  `json:"account_id"`
	DebitAmount  string `json:"debit_amount"`
	CreditAmount string `json:"credit_amount"`
	Description  string `json:"description,omitempty"`
}

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	ID              int64           `json:"id"`
	ReferenceNumber string          `json:"reference_number"`
	Description     string          `json:"description,omitempty"`
	TransactionDate string          `json:"transaction_date"`
	Entries         []EntryResponse `json:"entries"`
	CreatedAt       string          `json:"created_at"`
}

// ActivityResponse represents one account activity row in API responses
type ActivityResponse struct {
	TransactionID   int64  `json:"transaction_id"`
	EntryID         int64  `json:"entry_id"`
	ReferenceNumber string `json:"reference_number"`
	DebitAmount     string `json:"debit_amount"`
	CreditAmount    string `json:"credit_amount"`
	TransactionDate string `json:"transaction_date"`
}

// PaginationParams represents pagination parameters for list endpoints
type PaginationParams struct {
	Page    int `form:"page,default=1" binding:"min=1"`
	PerPage int `form:"per_page,default=10" binding:"min=1,max=100"`
}

// parseAmount converts a decimal string to minor units (cents).
// An empty string is zero. Amounts with more than two decimal places are
// rejected rather than rounded: the ledger stores exact cents.
func parseAmount(raw string) (int64, error) {
	if raw == "" {
		return 0, nil
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, ErrInvalidAmount
	}

	shifted := d.Shift(2)
	if !shifted.IsInteger() {
		return 0, ErrInvalidAmount
	}

	// IntPart truncates silently outside int64 range; reject instead of
	// storing a wrapped amount.
	cents := shifted.BigInt()
	if !cents.IsInt64() {
		return 0, ErrInvalidAmount
	}

	return cents.Int64(), nil
}

// formatAmount renders minor units as a fixed two-decimal string
func formatAmount(minorUnits int64) string {
	return decimal.New(minorUnits, -2).StringFixed(2)
}

// toEntries converts entry DTOs to domain entries
func toEntries(requests []EntryRequest) ([]*ledger.Entry, error) {
	entries := make([]*ledger.Entry, 0, len(requests))
	for _, req := range requests {
		debit, err := parseAmount(req.DebitAmount)
		if err != nil {
			return nil, err
		}
		credit, err := parseAmount(req.CreditAmount)
		if err != nil {
			return nil, err
		}
		entries = append(entries, &ledger.Entry{
			AccountID:    req.AccountID,
			DebitAmount:  debit,
			CreditAmount: credit,
			Description:  req.Description,
		})
	}
	return entries, nil
}

// mapUserToResponse maps a user entity to a user response DTO
func mapUserToResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}

// mapAccountToResponse maps an account entity to an account response DTO
func mapAccountToResponse(acc *account.Account) AccountResponse {
	return AccountResponse{
		ID:          acc.ID,
		Name:        acc.Name,
		AccountType: string(acc.Type),
		Description: acc.Description,
		CreatedAt:   acc.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   acc.UpdatedAt.Format(time.RFC3339),
	}
}

// mapAccountWithBalanceToResponse maps an annotated account to a response DTO
func mapAccountWithBalanceToResponse(awb *account.AccountWithBalance) AccountWithBalanceResponse {
	return AccountWithBalanceResponse{
		AccountResponse: mapAccountToResponse(&awb.Account),
		Debits:          formatAmount(awb.Balance.Debits),
		Credits:         formatAmount(awb.Balance.Credits),
		Balance:         formatAmount(awb.Balance.Reported(awb.Type)),
	}
}

// mapTransactionToResponse maps a transaction entity to a response DTO
func mapTransactionToResponse(t *ledger.Transaction) TransactionResponse {
	entries := make([]EntryResponse, 0, len(t.Entries))
	for _, entry := range t.Entries {
		entries = append(entries, EntryResponse{
			ID:           entry.ID,
			AccountID:    entry.AccountID,
			DebitAmount:  formatAmount(entry.DebitAmount),
			CreditAmount: formatAmount(entry.CreditAmount),
			Description:  entry.Description,
		})
	}

	return TransactionResponse{
		ID:              t.ID,
		ReferenceNumber: t.ReferenceNumber,
		Description:     t.Description,
		TransactionDate: t.TransactionDate.Format(time.RFC3339),
		Entries:         entries,
		CreatedAt:       t.CreatedAt.Format(time.RFC3339),
	}
}

// mapActivityToResponse maps an activity read model row to a response DTO
func mapActivityToResponse(a *report.Activity) ActivityResponse {
	return ActivityResponse{
		TransactionID:   a.TransactionID,
		EntryID:         a.EntryID,
		ReferenceNumber: a.ReferenceNumber,
		DebitAmount:     formatAmount(a.DebitAmount),
		CreditAmount:    formatAmount(a.CreditAmount),
		TransactionDate: a.TransactionDate.Format(time.RFC3339),
	}
}
