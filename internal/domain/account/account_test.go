package account

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseType(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Type
		wantErr bool
	}{
		{name: "asset", raw: "asset", want: TypeAsset},
		{name: "uppercase", raw: "LIABILITY", want: TypeLiability},
		{name: "padded", raw: "  revenue  ", want: TypeRevenue},
		{name: "equity", raw: "equity", want: TypeEquity},
		{name: "expense", raw: "expense", want: TypeExpense},
		{name: "unknown", raw: "fund", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseType(tt.raw)
			if tt.wantErr {
				var invalidType ErrInvalidAccountType
				assert.ErrorAs(t, err, &invalidType)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestNewAccount(t *testing.T) {
	acc, err := NewAccount(1, "Cash", "asset", "petty cash drawer")
	require.NoError(t, err)
	assert.Equal(t, int64(1), acc.OwnerID)
	assert.Equal(t, "Cash", acc.Name)
	assert.Equal(t, TypeAsset, acc.Type)

	_, err = NewAccount(1, "   ", "asset", "")
	assert.ErrorIs(t, err, ErrEmptyName)

	_, err = NewAccount(1, "Cash", "crypto", "")
	var invalidType ErrInvalidAccountType
	assert.ErrorAs(t, err, &invalidType)
}

func TestAccount_Rename(t *testing.T) {
	acc, err := NewAccount(1, "Cash", "asset", "")
	require.NoError(t, err)

	require.NoError(t, acc.Rename("Cash on Hand", "drawer"))
	assert.Equal(t, "Cash on Hand", acc.Name)
	assert.Equal(t, "drawer", acc.Description)

	assert.ErrorIs(t, acc.Rename("", ""), ErrEmptyName)
}

func TestType_DebitNormal(t *testing.T) {
	assert.True(t, TypeAsset.DebitNormal())
	assert.True(t, TypeExpense.DebitNormal())
	assert.False(t, TypeLiability.DebitNormal())
	assert.False(t, TypeEquity.DebitNormal())
	assert.False(t, TypeRevenue.DebitNormal())
}

func TestBalance_Reported(t *testing.T) {
	b := Balance{Debits: 15000, Credits: 4000}

	tests := []struct {
		name        string
		accountType Type
		want        int64
	}{
		{name: "asset reports debits minus credits", accountType: TypeAsset, want: 11000},
		{name: "expense reports debits minus credits", accountType: TypeExpense, want: 11000},
		{name: "liability reports credits minus debits", accountType: TypeLiability, want: -11000},
		{name: "revenue reports credits minus debits", accountType: TypeRevenue, want: -11000},
		{name: "equity reports credits minus debits", accountType: TypeEquity, want: -11000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, b.Reported(tt.accountType))
		})
	}

	assert.Equal(t, int64(11000), b.Net())
}
