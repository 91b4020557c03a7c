package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind identifies the money movement a ledger entry records.
type TransactionKind string

const (
	KindTransfer   TransactionKind = "TRANSFER"
	KindWithdrawal TransactionKind = "WITHDRAWAL"
	KindDeposit    TransactionKind = "DEPOSIT"
)

// LedgerEntry is the immutable record of one completed money movement.
// Amount and Fee are in CurrencyCode (the source account's currency);
// CreditedAmount is what reached the destination, in CreditedCurrency.
type LedgerEntry struct {
	EntryID              string          `json:"entryID"`
	Kind                 TransactionKind `json:"kind"`
	SourceAccountID      string          `json:"sourceAccountID"`
	DestinationAccountID *string         `json:"destinationAccountID,omitempty"` // Nil for ATM operations
	Amount               decimal.Decimal `json:"amount"`
	Fee                  decimal.Decimal `json:"fee"`
	CurrencyCode         CurrencyCode    `json:"currencyCode"`
	CreditedAmount       decimal.Decimal `json:"creditedAmount"`
	CreditedCurrency     CurrencyCode    `json:"creditedCurrency"`
	IdempotencyKey       *string         `json:"idempotencyKey,omitempty"`
	CreatedAt            time.Time       `json:"createdAt"`
}

// TotalDebit is what left the source account: amount plus fee.
func (e LedgerEntry) TotalDebit() decimal.Decimal {
	return e.Amount.Add(e.Fee)
}

// BalanceEffect returns the signed change this entry applied to accountID.
func (e LedgerEntry) BalanceEffect(accountID string) decimal.Decimal {
	effect := decimal.Zero
	switch e.Kind {
	case KindDeposit:
		if e.SourceAccountID == accountID {
			effect = effect.Add(e.Amount)
		}
	default:
		if e.SourceAccountID == accountID {
			effect = effect.Sub(e.TotalDebit())
		}
		if e.DestinationAccountID != nil && *e.DestinationAccountID == accountID {
			effect = effect.Add(e.CreditedAmount)
		}
	}
	return effect
}

// LedgerPage is one page of an account statement.
type LedgerPage struct {
	Entries   []LedgerEntry `json:"entries"`
	NextToken *string       `json:"nextToken,omitempty"`
}

// TransferCommand asks the engine to move Amount (source currency) between two accounts
// on behalf of CallerID.
type TransferCommand struct {
	CallerID       string
	FromAccountID  string
	ToAccountID    string
	Amount         decimal.Decimal
	IdempotencyKey *string
}
