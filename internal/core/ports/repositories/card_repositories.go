package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/bank_core/internal/core/domain"
)

// CardReader defines read operations for card data
type CardReader interface {
	// FindCardByNumber retrieves a card by its number.
	FindCardByNumber(ctx context.Context, cardNumber string) (*domain.Card, error)
}

// CardWriter defines write operations for card data
type CardWriter interface {
	// SaveCard persists a newly issued card. A duplicate number yields apperrors.ErrDuplicate.
	SaveCard(ctx context.Context, card domain.Card) error

	// UpdateCardPIN replaces the stored PIN hash of a card.
	UpdateCardPIN(ctx context.Context, cardID string, pinHash string, now time.Time) error
}

// CardRepositoryFacade combines all card-related repository interfaces
type CardRepositoryFacade interface {
	CardReader
	CardWriter
}
