package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate is one currency of a recorded snapshot in the exchange_rates table.
type ExchangeRate struct {
	ExchangeRateID string          `db:"exchange_rate_id"`
	BaseCurrency   string          `db:"base_currency"`
	CurrencyCode   string          `db:"currency_code"`
	Rate           decimal.Decimal `db:"rate"`
	CapturedAt     time.Time       `db:"captured_at"`
}
