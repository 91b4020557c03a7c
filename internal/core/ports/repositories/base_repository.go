package repositories

import (
	"context"
)

// Repositories gives access to the repositories bound to one transaction handle.
type Repositories interface {
	Accounts() AccountRepositoryFacade
	Cards() CardRepositoryFacade
	Ledger() LedgerRepositoryFacade
}

// TxHandle is one open storage transaction. Every repository it hands out
// reads and writes through that same transaction.
type TxHandle interface {
	Repositories

	// Commit makes every change made through the handle durable.
	Commit(ctx context.Context) error

	// Rollback discards every change made through the handle. Rolling back a
	// finished handle is not an error.
	Rollback(ctx context.Context) error
}

// TransactionManager opens transactions on the underlying storage engine.
type TransactionManager interface {
	// BeginTx starts a new transaction and binds fresh repositories to it.
	BeginTx(ctx context.Context) (TxHandle, error)
}
