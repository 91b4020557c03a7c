package domain_test

import (
	"testing"

	"github.com/SscSPs/bank_core/internal/apperrors"
	"github.com/SscSPs/bank_core/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCurrency(t *testing.T) {
	c, err := domain.ParseCurrency(" usd ")
	require.NoError(t, err)
	assert.Equal(t, domain.USD, c)

	_, err = domain.ParseCurrency("JPY")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestNonBaseCurrencies(t *testing.T) {
	assert.ElementsMatch(t, []domain.CurrencyCode{domain.USD, domain.EUR}, domain.NonBaseCurrencies())
}

func TestRoundToMinorUnit_BankersRounding(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "1.005", want: "1"},
		{in: "1.015", want: "1.02"},
		{in: "1.025", want: "1.02"},
		{in: "2.675", want: "2.68"},
		{in: "10", want: "10"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := domain.RoundToMinorUnit(decimal.RequireFromString(tt.in), domain.GEL)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestPrecisionHelpers(t *testing.T) {
	assert.True(t, domain.HasValidPrecision(decimal.RequireFromString("10.25"), domain.USD))
	assert.False(t, domain.HasValidPrecision(decimal.RequireFromString("10.255"), domain.USD))
	assert.True(t, domain.IsWholeUnit(decimal.NewFromInt(40)))
	assert.False(t, domain.IsWholeUnit(decimal.RequireFromString("40.5")))
}

func TestLedgerEntry_BalanceEffect(t *testing.T) {
	dest := "acc-b"
	transfer := domain.LedgerEntry{
		Kind:                 domain.KindTransfer,
		SourceAccountID:      "acc-a",
		DestinationAccountID: &dest,
		Amount:               decimal.NewFromInt(100),
		Fee:                  decimal.RequireFromString("1.5"),
		CreditedAmount:       decimal.NewFromInt(90),
	}
	deposit := domain.LedgerEntry{Kind: domain.KindDeposit, SourceAccountID: "acc-a", Amount: decimal.NewFromInt(20)}

	assert.True(t, decimal.RequireFromString("-101.5").Equal(transfer.BalanceEffect("acc-a")))
	assert.True(t, decimal.NewFromInt(90).Equal(transfer.BalanceEffect("acc-b")))
	assert.True(t, decimal.NewFromInt(20).Equal(deposit.BalanceEffect("acc-a")))
	assert.True(t, decimal.Zero.Equal(deposit.BalanceEffect("acc-z")))
}
