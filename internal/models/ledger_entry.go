package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry is a row of the append-only ledger_entries table.
type LedgerEntry struct {
	EntryID              string          `db:"entry_id"`
	Kind                 string          `db:"kind"`
	SourceAccountID      string          `db:"source_account_id"`
	DestinationAccountID sql.NullString  `db:"destination_account_id"`
	Amount               decimal.Decimal `db:"amount"`
	Fee                  decimal.Decimal `db:"fee"`
	CurrencyCode         string          `db:"currency_code"`
	CreditedAmount       decimal.Decimal `db:"credited_amount"`
	CreditedCurrency     string          `db:"credited_currency"`
	IdempotencyKey       sql.NullString  `db:"idempotency_key"`
	CreatedAt            time.Time       `db:"created_at"`
}
