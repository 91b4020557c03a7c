package domain

import (
	"github.com/shopspring/decimal"
)

// MaxBalance is the exclusive upper bound of a balance representable in numeric(20,2).
var MaxBalance = decimal.New(1, 18)

// Account represents a customer's money account within the core domain.
type Account struct {
	AccountID    string          `json:"accountID"` // Primary Key (UUID)
	IBAN         string          `json:"iban"`      // Unique, mod-97 validated
	OwnerID      string          `json:"ownerID"`   // External person reference
	CurrencyCode CurrencyCode    `json:"currencyCode"`
	Balance      decimal.Decimal `json:"balance"` // Never negative
	IsActive     bool            `json:"isActive"`
	AuditFields
}

// CanDebit reports whether amount can leave the account without driving it negative.
func (a Account) CanDebit(amount decimal.Decimal) bool {
	return amount.LessThanOrEqual(a.Balance)
}

// CanCredit reports whether amount can be added without exceeding MaxBalance.
func (a Account) CanCredit(amount decimal.Decimal) bool {
	return a.Balance.Add(amount).LessThan(MaxBalance)
}

// BalanceView is the read model returned by a balance inquiry.
type BalanceView struct {
	AccountID    string          `json:"accountID"`
	IBAN         string          `json:"iban"`
	CurrencyCode CurrencyCode    `json:"currencyCode"`
	Balance      decimal.Decimal `json:"balance"`
}

// View projects the account to its balance read model.
func (a Account) View() BalanceView {
	return BalanceView{
		AccountID:    a.AccountID,
		IBAN:         a.IBAN,
		CurrencyCode: a.CurrencyCode,
		Balance:      a.Balance,
	}
}
