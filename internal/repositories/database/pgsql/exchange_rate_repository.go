package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/bank_core/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_core/internal/core/ports/repositories"
	"github.com/SscSPs/bank_core/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxExchangeRateRecorder stores rate snapshots for audit. It runs on the pool,
// outside any money-movement transaction.
type PgxExchangeRateRecorder struct {
	pool *pgxpool.Pool
}

var _ portsrepo.ExchangeRateRecorder = (*PgxExchangeRateRecorder)(nil)

// SaveSnapshot inserts one row per currency of the snapshot in a single transaction.
func (r *PgxExchangeRateRecorder) SaveSnapshot(ctx context.Context, snapshot domain.ExchangeRateSnapshot) error {
	rows := mapping.ToModelExchangeRates(snapshot)
	if len(rows) == 0 {
		return nil
	}

	query := `
		INSERT INTO exchange_rates (exchange_rate_id, base_currency, currency_code, rate, captured_at)
		VALUES ($1, $2, $3, $4, $5);
	`
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, m := range rows {
			batch.Queue(query, m.ExchangeRateID, m.BaseCurrency, m.CurrencyCode, m.Rate, m.CapturedAt)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to record exchange rate snapshot: %w", err)
		}
		return nil
	})
}
