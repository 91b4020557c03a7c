package domain

import (
	"fmt"
	"strings"

	"github.com/SscSPs/bank_core/internal/apperrors"
	"github.com/shopspring/decimal"
)

// CurrencyCode is an ISO 4217 code of a currency the bank holds accounts in.
type CurrencyCode string

const (
	GEL CurrencyCode = "GEL"
	USD CurrencyCode = "USD"
	EUR CurrencyCode = "EUR"
)

// BaseCurrency is the currency every exchange rate is quoted against.
const BaseCurrency = GEL

// Currency represents a supported currency in the domain.
type Currency struct {
	CurrencyCode CurrencyCode `json:"currencyCode"` // e.g., "USD"
	Symbol       string       `json:"symbol"`       // e.g., "$"
	Name         string       `json:"name"`         // e.g., "US Dollar"
	Precision    int          `json:"precision"`    // Number of minor-unit digits
}

var supportedCurrencies = map[CurrencyCode]Currency{
	GEL: {CurrencyCode: GEL, Symbol: "₾", Name: "Georgian Lari", Precision: 2},
	USD: {CurrencyCode: USD, Symbol: "$", Name: "US Dollar", Precision: 2},
	EUR: {CurrencyCode: EUR, Symbol: "€", Name: "Euro", Precision: 2},
}

// SupportedCurrencies lists every currency in a stable order, base first.
func SupportedCurrencies() []CurrencyCode {
	return []CurrencyCode{GEL, USD, EUR}
}

// NonBaseCurrencies lists the currencies that need a rate fetched from the rate authority.
func NonBaseCurrencies() []CurrencyCode {
	out := make([]CurrencyCode, 0, len(supportedCurrencies)-1)
	for _, c := range SupportedCurrencies() {
		if c != BaseCurrency {
			out = append(out, c)
		}
	}
	return out
}

// ParseCurrency normalises s and checks that it is a supported currency.
func ParseCurrency(s string) (CurrencyCode, error) {
	code := CurrencyCode(strings.ToUpper(strings.TrimSpace(s)))
	if !code.IsValid() {
		return "", fmt.Errorf("%w: unsupported currency %q", apperrors.ErrValidation, s)
	}
	return code, nil
}

// IsValid reports whether c is a supported currency.
func (c CurrencyCode) IsValid() bool {
	_, ok := supportedCurrencies[c]
	return ok
}

// Details returns the metadata of c. Unsupported codes get a zero-precision placeholder.
func (c CurrencyCode) Details() Currency {
	if cur, ok := supportedCurrencies[c]; ok {
		return cur
	}
	return Currency{CurrencyCode: c, Name: string(c)}
}

// MinorUnits is the number of decimal digits of the currency's smallest denomination.
func (c CurrencyCode) MinorUnits() int32 {
	return int32(c.Details().Precision)
}

// RoundToMinorUnit rounds amount to the minor unit of c using banker's rounding.
// This is the only rounding mode used for money in the system.
func RoundToMinorUnit(amount decimal.Decimal, c CurrencyCode) decimal.Decimal {
	return amount.RoundBank(c.MinorUnits())
}

// HasValidPrecision reports whether amount needs no more digits than c's minor unit.
func HasValidPrecision(amount decimal.Decimal, c CurrencyCode) bool {
	return amount.Equal(amount.Truncate(c.MinorUnits()))
}

// IsWholeUnit reports whether amount has no fractional part, as required for cash.
func IsWholeUnit(amount decimal.Decimal) bool {
	return amount.Equal(amount.Truncate(0))
}
