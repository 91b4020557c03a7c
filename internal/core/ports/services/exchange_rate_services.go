package services

import (
	"context"

	"github.com/SscSPs/bank_core/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ExchangeRateSvc answers rate and conversion queries from a cached snapshot.
type ExchangeRateSvc interface {
	// GetRate returns the rate of currency against the base currency.
	GetRate(ctx context.Context, currency domain.CurrencyCode) (decimal.Decimal, error)

	// Convert converts amount from one currency to another, rounded to the
	// destination's minor unit. Equal currencies return amount unchanged.
	Convert(ctx context.Context, amount decimal.Decimal, from domain.CurrencyCode, to domain.CurrencyCode) (decimal.Decimal, error)

	// Snapshot returns the current snapshot, refreshing it when stale.
	Snapshot(ctx context.Context) (*domain.ExchangeRateSnapshot, error)
}

// RateSource fetches the rate of one currency against the base currency from the rate authority.
type RateSource interface {
	FetchRate(ctx context.Context, currency domain.CurrencyCode) (decimal.Decimal, error)
}
