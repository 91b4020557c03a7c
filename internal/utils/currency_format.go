package utils

import (
	"github.com/SscSPs/bank_core/internal/core/domain"
	"github.com/shopspring/decimal"
)

// FormatWithCurrencyPrecision formats an amount with the precision of its currency
// using banker's rounding.
// Example: 12.345 GEL returns "12.34", 12.355 GEL returns "12.36"
func FormatWithCurrencyPrecision(amount decimal.Decimal, currency domain.CurrencyCode) string {
	return amount.StringFixedBank(currency.MinorUnits())
}

// FormatWithSymbol prefixes the formatted amount with the currency symbol.
func FormatWithSymbol(amount decimal.Decimal, currency domain.CurrencyCode) string {
	formatted := FormatWithCurrencyPrecision(amount, currency)
	if !currency.IsValid() {
		return formatted + " " + string(currency)
	}
	return currency.Details().Symbol + formatted
}
