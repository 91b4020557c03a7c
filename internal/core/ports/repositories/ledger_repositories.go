package repositories

import (
	"context"

	"github.com/SscSPs/bank_core/internal/core/domain"
)

// LedgerReader defines read operations for ledger entries
type LedgerReader interface {
	// FindEntryByIdempotencyKey retrieves the entry recorded under key.
	FindEntryByIdempotencyKey(ctx context.Context, key string) (*domain.LedgerEntry, error)

	// ListEntriesByAccount retrieves entries where the account is source or destination,
	// newest first, using token-based pagination.
	// It returns the entries, a token for the next page, and an error.
	ListEntriesByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error)
}

// LedgerWriter defines the single write the ledger allows: append.
type LedgerWriter interface {
	// AppendEntry records a new entry. A reused idempotency key yields apperrors.ErrDuplicate.
	AppendEntry(ctx context.Context, entry domain.LedgerEntry) error
}

// LedgerRepositoryFacade combines all ledger-related repository interfaces
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
}
