package account

import (
	"errors"
	"strings"
	"time"
)

// Common errors
var (
	ErrEmptyName = errors.New("account name cannot be empty")
)

// Type classifies an account within the chart of accounts.
// The type is fixed at creation and determines the reporting sign convention.
type Type string

const (
	TypeAsset     Type = "asset"
	TypeLiability Type = "liability"
	TypeEquity    Type = "equity"
	TypeRevenue   Type = "revenue"
	TypeExpense   Type = "expense"
)

// Types lists every valid account type, in reporting order.
func Types() []Type {
	return []Type{TypeAsset, TypeLiability, TypeEquity, TypeRevenue, TypeExpense}
}

// ParseType validates a raw account type string.
// Returns ErrInvalidAccountType for anything outside the enumerated set.
func ParseType(raw string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(raw)))
	switch t {
	case TypeAsset, TypeLiability, TypeEquity, TypeRevenue, TypeExpense:
		return t, nil
	}
	return "", ErrInvalidAccountType{Type: raw}
}

// DebitNormal reports whether debits increase the account's reported balance.
// Asset and expense accounts are debit-normal; liability, equity and revenue
// accounts are credit-normal.
func (t Type) DebitNormal() bool {
	return t == TypeAsset || t == TypeExpense
}

// Account represents a named, typed account owned by exactly one user.
// Balances are never stored on the account; they are derived from the
// transaction entries that reference it.
type Account struct {
	ID          int64     `json:"id"`
	OwnerID     int64     `json:"owner_id"`
	Name        string    `json:"name"`
	Type        Type      `json:"account_type"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewAccount creates a new account with the given parameters
func NewAccount(ownerID int64, name string, accountType string, description string) (*Account, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	t, err := ParseType(accountType)
	if err != nil {
		return nil, err
	}

	return &Account{
		OwnerID:     ownerID,
		Name:        name,
		Type:        t,
		Description: description,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}, nil
}

// Rename updates the mutable fields of the account. The type is fixed at creation.
func (a *Account) Rename(name string, description string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	a.Name = name
	a.Description = description
	a.UpdatedAt = time.Now()
	return nil
}

// Balance holds the raw debit/credit totals aggregated over an account's entries.
// Amounts are in minor units (cents).
type Balance struct {
	Debits  int64 `json:"debits"`
	Credits int64 `json:"credits"`
}

// Net returns the type-agnostic aggregate: total debits minus total credits.
func (b Balance) Net() int64 {
	return b.Debits - b.Credits
}

// Reported returns the balance adjusted for the account type's normal side:
// debit-normal accounts report debits - credits, credit-normal accounts the inverse.
func (b Balance) Reported(t Type) int64 {
	if t.DebitNormal() {
		return b.Debits - b.Credits
	}
	return b.Credits - b.Debits
}
