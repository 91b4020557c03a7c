package models

import (
	"github.com/shopspring/decimal"
)

// Account is a row of the accounts table.
type Account struct {
	AccountID    string          `db:"account_id"`
	IBAN         string          `db:"iban"`
	OwnerID      string          `db:"owner_id"`
	CurrencyCode string          `db:"currency_code"`
	Balance      decimal.Decimal `db:"balance"` // numeric(20,2), CHECK >= 0
	IsActive     bool            `db:"is_active"`
	AuditFields
}
