package dto

import (
	"time"

	"github.com/SscSPs/bank_core/internal/core/domain"
	"github.com/SscSPs/bank_core/internal/utils"
	"github.com/shopspring/decimal"
)

// OpenAccountRequest defines the data needed to open a new account.
type OpenAccountRequest struct {
	CurrencyCode domain.CurrencyCode `json:"currencyCode" binding:"required,oneof=GEL USD EUR"`
}

// AccountResponse defines the data returned for an account.
// Mirrors domain.Account.
type AccountResponse struct {
	AccountID     string              `json:"accountID"`
	IBAN          string              `json:"iban"`
	OwnerID       string              `json:"ownerID"`
	CurrencyCode  domain.CurrencyCode `json:"currencyCode"`
	Balance       decimal.Decimal     `json:"balance"`
	IsActive      bool                `json:"isActive"`
	CreatedAt     time.Time           `json:"createdAt"`
	LastUpdatedAt time.Time           `json:"lastUpdatedAt"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:     acc.AccountID,
		IBAN:          acc.IBAN,
		OwnerID:       acc.OwnerID,
		CurrencyCode:  acc.CurrencyCode,
		Balance:       acc.Balance,
		IsActive:      acc.IsActive,
		CreatedAt:     acc.CreatedAt,
		LastUpdatedAt: acc.LastUpdatedAt,
	}
}

// ToListAccountResponse converts a slice of domain.Account to a slice of AccountResponse DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i, acc := range accounts {
		res[i] = ToAccountResponse(&acc)
	}
	return res
}

// ListAccountsResponse wraps the owner's accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// BalanceResponse defines the data returned for a balance inquiry.
type BalanceResponse struct {
	AccountID    string              `json:"accountID"`
	IBAN         string              `json:"iban"`
	CurrencyCode domain.CurrencyCode `json:"currencyCode"`
	Balance      decimal.Decimal     `json:"balance"`
	Display      string              `json:"display"` // e.g. "$12.50", for the ATM screen
}

// ToBalanceResponse converts a domain.BalanceView to BalanceResponse DTO
func ToBalanceResponse(v *domain.BalanceView) BalanceResponse {
	return BalanceResponse{
		AccountID:    v.AccountID,
		IBAN:         v.IBAN,
		CurrencyCode: v.CurrencyCode,
		Balance:      v.Balance,
		Display:      utils.FormatWithSymbol(v.Balance, v.CurrencyCode),
	}
}
