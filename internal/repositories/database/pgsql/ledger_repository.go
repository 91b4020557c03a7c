package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/bank_core/internal/apperrors"
	"github.com/SscSPs/bank_core/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_core/internal/core/ports/repositories"
	"github.com/SscSPs/bank_core/internal/models"
	"github.com/SscSPs/bank_core/internal/utils/mapping"
	"github.com/SscSPs/bank_core/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
)

const ledgerColumns = `entry_id, kind, source_account_id, destination_account_id, amount, fee, currency_code, credited_amount, credited_currency, idempotency_key, created_at`

// PgxLedgerRepository appends to and reads the ledger through one transaction.
type PgxLedgerRepository struct {
	db DBTX
}

var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

func scanLedgerEntry(row pgx.Row) (models.LedgerEntry, error) {
	var m models.LedgerEntry
	err := row.Scan(
		&m.EntryID,
		&m.Kind,
		&m.SourceAccountID,
		&m.DestinationAccountID,
		&m.Amount,
		&m.Fee,
		&m.CurrencyCode,
		&m.CreditedAmount,
		&m.CreditedCurrency,
		&m.IdempotencyKey,
		&m.CreatedAt,
	)
	return m, err
}

// AppendEntry inserts one ledger entry. Entries are never updated or deleted.
func (r *PgxLedgerRepository) AppendEntry(ctx context.Context, entry domain.LedgerEntry) error {
	m := mapping.ToModelLedgerEntry(entry)
	query := `
		INSERT INTO ledger_entries (` + ledgerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.db.Exec(ctx, query,
		m.EntryID,
		m.Kind,
		m.SourceAccountID,
		m.DestinationAccountID,
		m.Amount,
		m.Fee,
		m.CurrencyCode,
		m.CreditedAmount,
		m.CreditedCurrency,
		m.IdempotencyKey,
		m.CreatedAt,
	)
	if err != nil {
		return mapWriteError(err, "ledger entry "+m.EntryID)
	}
	return nil
}

// FindEntryByIdempotencyKey retrieves the entry recorded under key.
func (r *PgxLedgerRepository) FindEntryByIdempotencyKey(ctx context.Context, key string) (*domain.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM ledger_entries WHERE idempotency_key = $1;`
	m, err := scanLedgerEntry(r.db.QueryRow(ctx, query, key))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: ledger entry for idempotency key", apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find ledger entry by idempotency key: %w", err)
	}
	d := mapping.ToDomainLedgerEntry(m)
	return &d, nil
}

// ListEntriesByAccount retrieves entries touching the account, newest first, using
// keyset pagination on (created_at, entry_id).
func (r *PgxLedgerRepository) ListEntriesByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	args := []any{accountID}
	cursor := ""
	if nextToken != nil && *nextToken != "" {
		createdAt, entryID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		args = append(args, createdAt, entryID)
		cursor = `AND (created_at, entry_id) < ($2, $3::uuid)`
	}
	args = append(args, limit+1)

	query := fmt.Sprintf(`
		SELECT %s
		FROM ledger_entries
		WHERE (source_account_id = $1 OR destination_account_id = $1) %s
		ORDER BY created_at DESC, entry_id DESC
		LIMIT $%d;
	`, ledgerColumns, cursor, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query ledger entries for account %s: %w", accountID, err)
	}
	defer rows.Close()

	ms := []models.LedgerEntry{}
	for rows.Next() {
		m, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan ledger entry row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating ledger entry rows: %w", err)
	}

	var next *string
	if len(ms) > limit {
		ms = ms[:limit]
		last := ms[len(ms)-1]
		token := pagination.EncodeToken(last.CreatedAt, last.EntryID)
		next = &token
	}
	return mapping.ToDomainLedgerEntries(ms), next, nil
}
