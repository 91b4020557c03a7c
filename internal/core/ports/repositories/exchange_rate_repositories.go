package repositories

import (
	"context"

	"github.com/SscSPs/bank_core/internal/core/domain"
)

// ExchangeRateRecorder persists fetched rate snapshots for audit.
type ExchangeRateRecorder interface {
	// SaveSnapshot stores every rate of the snapshot with its capture time.
	SaveSnapshot(ctx context.Context, snapshot domain.ExchangeRateSnapshot) error
}
