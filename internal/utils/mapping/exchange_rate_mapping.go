package mapping

import (
	"sort"

	"github.com/SscSPs/bank_core/internal/core/domain"
	"github.com/SscSPs/bank_core/internal/models"
	"github.com/google/uuid"
)

// ToModelExchangeRates flattens a snapshot into one row per currency, ordered by code
func ToModelExchangeRates(s domain.ExchangeRateSnapshot) []models.ExchangeRate {
	codes := make([]string, 0, len(s.Rates))
	for c := range s.Rates {
		codes = append(codes, string(c))
	}
	sort.Strings(codes)

	rows := make([]models.ExchangeRate, 0, len(codes))
	for _, c := range codes {
		rows = append(rows, models.ExchangeRate{
			ExchangeRateID: uuid.NewString(),
			BaseCurrency:   string(s.Base),
			CurrencyCode:   c,
			Rate:           s.Rates[domain.CurrencyCode(c)],
			CapturedAt:     s.CapturedAt,
		})
	}
	return rows
}
