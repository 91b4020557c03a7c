package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/bank_core/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByIBAN retrieves an account by its IBAN.
	FindAccountByIBAN(ctx context.Context, iban string) (*domain.Account, error)

	// ListAccountsByOwner retrieves every account held by an owner.
	ListAccountsByOwner(ctx context.Context, ownerID string) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account. A duplicate IBAN yields apperrors.ErrDuplicate.
	SaveAccount(ctx context.Context, account domain.Account) error
}

// AccountTransactionSupport defines operations that support money movement
type AccountTransactionSupport interface {
	// FindAccountsByIDsForUpdate selects accounts and locks them until the transaction ends.
	// Rows are locked in ascending ID order. Missing accounts yield apperrors.ErrNotFound.
	FindAccountsByIDsForUpdate(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// UpdateAccountBalances applies signed deltas. A delta that would drive a
	// balance negative fails the whole call.
	UpdateAccountBalances(ctx context.Context, balanceChanges map[string]decimal.Decimal, now time.Time) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountTransactionSupport
}
