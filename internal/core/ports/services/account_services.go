package services

import (
	"context"

	"github.com/SscSPs/bank_core/internal/core/domain"
	"github.com/SscSPs/bank_core/internal/dto"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// GetAccount retrieves an account owned by ownerID.
	GetAccount(ctx context.Context, ownerID string, accountID string) (*domain.Account, error)

	// ListAccounts retrieves every account owned by ownerID.
	ListAccounts(ctx context.Context, ownerID string) ([]domain.Account, error)

	// GetStatement retrieves ledger entries touching the account, newest first.
	GetStatement(ctx context.Context, ownerID string, accountID string, req dto.ListStatementParams) (*domain.LedgerPage, error)
}

// AccountWriterSvc defines write operations for account data
type AccountWriterSvc interface {
	// OpenAccount creates an empty active account with a fresh IBAN.
	OpenAccount(ctx context.Context, ownerID string, req dto.OpenAccountRequest) (*domain.Account, error)
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
