package dto

import (
	"time"

	"github.com/SscSPs/bank_core/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ExchangeRatesResponse defines the data returned for the current rate snapshot.
type ExchangeRatesResponse struct {
	Base       domain.CurrencyCode                     `json:"base"`
	Rates      map[domain.CurrencyCode]decimal.Decimal `json:"rates"`
	CapturedAt time.Time                               `json:"capturedAt"`
}

// ToExchangeRatesResponse converts a snapshot to ExchangeRatesResponse DTO.
func ToExchangeRatesResponse(s *domain.ExchangeRateSnapshot) ExchangeRatesResponse {
	rates := make(map[domain.CurrencyCode]decimal.Decimal, len(s.Rates))
	for c, r := range s.Rates {
		rates[c] = r
	}
	return ExchangeRatesResponse{Base: s.Base, Rates: rates, CapturedAt: s.CapturedAt}
}

// ConvertParams defines query parameters for a conversion quote.
type ConvertParams struct {
	From   domain.CurrencyCode `form:"from" binding:"required,oneof=GEL USD EUR"`
	To     domain.CurrencyCode `form:"to" binding:"required,oneof=GEL USD EUR"`
	Amount string              `form:"amount" binding:"required"`
}

// ConvertResponse defines a conversion quote.
type ConvertResponse struct {
	From      domain.CurrencyCode `json:"from"`
	To        domain.CurrencyCode `json:"to"`
	Amount    decimal.Decimal     `json:"amount"`
	Converted decimal.Decimal     `json:"converted"`
}
