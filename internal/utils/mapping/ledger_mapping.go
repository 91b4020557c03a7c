package mapping

import (
	"database/sql"

	"github.com/SscSPs/bank_core/internal/core/domain"
	"github.com/SscSPs/bank_core/internal/models"
)

func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func fromNullString(n sql.NullString) *string {
	if !n.Valid {
		return nil
	}
	s := n.String
	return &s
}

// ToModelLedgerEntry converts a domain LedgerEntry to a model LedgerEntry
func ToModelLedgerEntry(d domain.LedgerEntry) models.LedgerEntry {
	return models.LedgerEntry{
		EntryID:              d.EntryID,
		Kind:                 string(d.Kind),
		SourceAccountID:      d.SourceAccountID,
		DestinationAccountID: toNullString(d.DestinationAccountID),
		Amount:               d.Amount,
		Fee:                  d.Fee,
		CurrencyCode:         string(d.CurrencyCode),
		CreditedAmount:       d.CreditedAmount,
		CreditedCurrency:     string(d.CreditedCurrency),
		IdempotencyKey:       toNullString(d.IdempotencyKey),
		CreatedAt:            d.CreatedAt,
	}
}

// ToDomainLedgerEntry converts a model LedgerEntry to a domain LedgerEntry
func ToDomainLedgerEntry(m models.LedgerEntry) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:              m.EntryID,
		Kind:                 domain.TransactionKind(m.Kind),
		SourceAccountID:      m.SourceAccountID,
		DestinationAccountID: fromNullString(m.DestinationAccountID),
		Amount:               m.Amount,
		Fee:                  m.Fee,
		CurrencyCode:         domain.CurrencyCode(m.CurrencyCode),
		CreditedAmount:       m.CreditedAmount,
		CreditedCurrency:     domain.CurrencyCode(m.CreditedCurrency),
		IdempotencyKey:       fromNullString(m.IdempotencyKey),
		CreatedAt:            m.CreatedAt,
	}
}

// ToDomainLedgerEntries converts a slice of model LedgerEntry to domain LedgerEntry
func ToDomainLedgerEntries(ms []models.LedgerEntry) []domain.LedgerEntry {
	ds := make([]domain.LedgerEntry, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLedgerEntry(m)
	}
	return ds
}
