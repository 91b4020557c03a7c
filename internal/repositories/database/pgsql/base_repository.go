package pgsql

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/SscSPs/bank_core/internal/apperrors"
	portsrepo "github.com/SscSPs/bank_core/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres error codes mapped to application errors.
const (
	pgUniqueViolation = "23505"
	pgCheckViolation  = "23514"
	pgFKViolation     = "23503"
)

// DBTX is the part of pgx shared by pools and transactions.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

var (
	_ DBTX = (*pgxpool.Pool)(nil)
	_ DBTX = (pgx.Tx)(nil)
)

// TxManager opens pgx transactions and binds repositories to them.
type TxManager struct {
	Pool *pgxpool.Pool
}

var _ portsrepo.TransactionManager = (*TxManager)(nil)

// BeginTx starts a new database transaction at READ COMMITTED; row locks
// taken with FOR UPDATE serialize concurrent money movement.
func (m *TxManager) BeginTx(ctx context.Context) (portsrepo.TxHandle, error) {
	tx, err := m.Pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to begin transaction", err)
	}
	return &txHandle{
		tx:       tx,
		accounts: &PgxAccountRepository{db: tx},
		cards:    &PgxCardRepository{db: tx},
		ledger:   &PgxLedgerRepository{db: tx},
	}, nil
}

type txHandle struct {
	tx       pgx.Tx
	accounts *PgxAccountRepository
	cards    *PgxCardRepository
	ledger   *PgxLedgerRepository
}

func (h *txHandle) Accounts() portsrepo.AccountRepositoryFacade { return h.accounts }
func (h *txHandle) Cards() portsrepo.CardRepositoryFacade       { return h.cards }
func (h *txHandle) Ledger() portsrepo.LedgerRepositoryFacade    { return h.ledger }

// Commit commits a transaction
func (h *txHandle) Commit(ctx context.Context) error {
	if err := h.tx.Commit(ctx); err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to commit transaction", err)
	}
	return nil
}

// Rollback rolls back a transaction
func (h *txHandle) Rollback(ctx context.Context) error {
	if err := h.tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to rollback transaction", err)
	}
	return nil
}

// mapWriteError converts constraint violations to application errors.
func mapWriteError(err error, what string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s (%s)", apperrors.ErrDuplicate, what, pgErr.ConstraintName)
		case pgCheckViolation:
			return fmt.Errorf("%w: %s violates %s", apperrors.ErrValidation, what, pgErr.ConstraintName)
		case pgFKViolation:
			return fmt.Errorf("%w: %s references a missing row", apperrors.ErrNotFound, what)
		}
	}
	return fmt.Errorf("failed to write %s: %w", what, err)
}
