package pgsql

import (
	portsrepo "github.com/SscSPs/bank_core/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires the Postgres storage on top of dbPool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TxManager:    &TxManager{Pool: dbPool},
		RateRecorder: &PgxExchangeRateRecorder{pool: dbPool},
		Close:        dbPool.Close,
	}
}
