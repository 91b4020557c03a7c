package dto

import (
	"time"

	"github.com/SscSPs/bank_core/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TransferRequest defines the data needed to move money between two accounts.
type TransferRequest struct {
	FromAccountID  string          `json:"fromAccountID" binding:"required,uuid"`
	ToAccountID    string          `json:"toAccountID" binding:"required,uuid,nefield=FromAccountID"`
	Amount         decimal.Decimal `json:"amount" binding:"required"`
	IdempotencyKey *string         `json:"idempotencyKey" binding:"omitempty,max=64"` // Optional
}

// ListStatementParams defines query parameters for an account statement.
type ListStatementParams struct {
	Limit     int     `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// LedgerEntryResponse defines the data returned for a ledger entry.
type LedgerEntryResponse struct {
	EntryID              string                 `json:"entryID"`
	Kind                 domain.TransactionKind `json:"kind"`
	SourceAccountID      string                 `json:"sourceAccountID"`
	DestinationAccountID *string                `json:"destinationAccountID,omitempty"`
	Amount               decimal.Decimal        `json:"amount"`
	Fee                  decimal.Decimal        `json:"fee"`
	CurrencyCode         domain.CurrencyCode    `json:"currencyCode"`
	CreditedAmount       decimal.Decimal        `json:"creditedAmount"`
	CreditedCurrency     domain.CurrencyCode    `json:"creditedCurrency"`
	CreatedAt            time.Time              `json:"createdAt"`
}

// ToLedgerEntryResponse converts a domain.LedgerEntry to LedgerEntryResponse DTO.
func ToLedgerEntryResponse(e *domain.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		EntryID:              e.EntryID,
		Kind:                 e.Kind,
		SourceAccountID:      e.SourceAccountID,
		DestinationAccountID: e.DestinationAccountID,
		Amount:               e.Amount,
		Fee:                  e.Fee,
		CurrencyCode:         e.CurrencyCode,
		CreditedAmount:       e.CreditedAmount,
		CreditedCurrency:     e.CreditedCurrency,
		CreatedAt:            e.CreatedAt,
	}
}

// StatementResponse is one page of an account statement.
type StatementResponse struct {
	Entries   []LedgerEntryResponse `json:"entries"`
	NextToken *string               `json:"nextToken,omitempty"`
}

// ToStatementResponse converts a domain.LedgerPage to StatementResponse DTO.
func ToStatementResponse(page *domain.LedgerPage) StatementResponse {
	entries := make([]LedgerEntryResponse, len(page.Entries))
	for i, e := range page.Entries {
		entries[i] = ToLedgerEntryResponse(&e)
	}
	return StatementResponse{Entries: entries, NextToken: page.NextToken}
}
