package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRateSnapshot is a complete rate table captured from the rate authority at one moment.
// Rates are quoted against BaseCurrency. A snapshot is replaced wholesale, never mutated.
type ExchangeRateSnapshot struct {
	Base       CurrencyCode                     `json:"base"`
	Rates      map[CurrencyCode]decimal.Decimal `json:"rates"`
	CapturedAt time.Time                        `json:"capturedAt"`
}

// IsFresh reports whether the snapshot is younger than ttl at now.
func (s *ExchangeRateSnapshot) IsFresh(now time.Time, ttl time.Duration) bool {
	return s != nil && now.Sub(s.CapturedAt) < ttl
}

// Rate returns the rate of c. The base currency is always 1.
func (s *ExchangeRateSnapshot) Rate(c CurrencyCode) (decimal.Decimal, bool) {
	if c == s.Base {
		return decimal.NewFromInt(1), true
	}
	r, ok := s.Rates[c]
	return r, ok
}
