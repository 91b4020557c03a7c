package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/bank_core/internal/apperrors"
	"github.com/SscSPs/bank_core/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_core/internal/core/ports/repositories"
	"github.com/SscSPs/bank_core/internal/models"
	"github.com/SscSPs/bank_core/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

// PgxCardRepository reads and writes cards through one transaction.
type PgxCardRepository struct {
	db DBTX
}

var _ portsrepo.CardRepositoryFacade = (*PgxCardRepository)(nil)

// SaveCard inserts a newly issued card.
func (r *PgxCardRepository) SaveCard(ctx context.Context, card domain.Card) error {
	m := mapping.ToModelCard(card)
	query := `
		INSERT INTO cards (card_id, card_number, pin_hash, cvv_encrypted, expiration_date, account_id, owner_id, is_active, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.db.Exec(ctx, query,
		m.CardID,
		m.CardNumber,
		m.PINHash,
		m.CVVEncrypted,
		m.ExpirationDate,
		m.AccountID,
		m.OwnerID,
		m.IsActive,
		m.CreatedAt,
		m.LastUpdatedAt,
	)
	if err != nil {
		return mapWriteError(err, "card "+m.CardID)
	}
	return nil
}

// FindCardByNumber retrieves a card by its number.
func (r *PgxCardRepository) FindCardByNumber(ctx context.Context, cardNumber string) (*domain.Card, error) {
	query := `
		SELECT card_id, card_number, pin_hash, cvv_encrypted, expiration_date, account_id, owner_id, is_active, created_at, last_updated_at
		FROM cards
		WHERE card_number = $1;
	`
	var m models.Card
	err := r.db.QueryRow(ctx, query, cardNumber).Scan(
		&m.CardID,
		&m.CardNumber,
		&m.PINHash,
		&m.CVVEncrypted,
		&m.ExpirationDate,
		&m.AccountID,
		&m.OwnerID,
		&m.IsActive,
		&m.CreatedAt,
		&m.LastUpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: card %s", apperrors.ErrNotFound, domain.MaskCardNumber(cardNumber))
		}
		return nil, fmt.Errorf("failed to find card %s: %w", domain.MaskCardNumber(cardNumber), err)
	}
	d := mapping.ToDomainCard(m)
	return &d, nil
}

// UpdateCardPIN replaces the stored PIN hash.
func (r *PgxCardRepository) UpdateCardPIN(ctx context.Context, cardID string, pinHash string, now time.Time) error {
	query := `UPDATE cards SET pin_hash = $2, last_updated_at = $3 WHERE card_id = $1;`
	cmdTag, err := r.db.Exec(ctx, query, cardID, pinHash, now)
	if err != nil {
		return fmt.Errorf("failed to update pin of card %s: %w", cardID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: card %s", apperrors.ErrNotFound, cardID)
	}
	return nil
}
