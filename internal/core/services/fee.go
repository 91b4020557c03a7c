package services

import (
	"github.com/SscSPs/bank_core/internal/core/domain"
	"github.com/shopspring/decimal"
)

var (
	transferFeeRate  = decimal.RequireFromString("0.01")
	transferFeeFixed = decimal.RequireFromString("0.5")
)

// CalculateTransferFee returns the fee charged to the source: nothing between
// accounts of the same owner, otherwise 1% plus 0.50, in the source currency.
func CalculateTransferFee(amount decimal.Decimal, currency domain.CurrencyCode, sameOwner bool) decimal.Decimal {
	if sameOwner {
		return decimal.Zero
	}
	return domain.RoundToMinorUnit(amount.Mul(transferFeeRate).Add(transferFeeFixed), currency)
}
