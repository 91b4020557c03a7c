package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/bank_core/internal/apperrors"
	"github.com/SscSPs/bank_core/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_core/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bank_core/internal/core/ports/services"
	"github.com/SscSPs/bank_core/internal/utils"
)

type cardAuthorizer struct {
	BaseService
}

// NewCardAuthorizer creates the card authorization service
func NewCardAuthorizer(options ...ServiceOption) portssvc.CardAuthorizerSvc {
	return &cardAuthorizer{BaseService: newBaseService(options...)}
}

var _ portssvc.CardAuthorizerSvc = (*cardAuthorizer)(nil)

// Authorize short-circuits on the first failing check: existence, PIN, expiry, active flag.
func (a *cardAuthorizer) Authorize(ctx context.Context, cards portsrepo.CardReader, cardNumber string, pin string) (*domain.AuthorizedCard, error) {
	number := domain.NormalizeCardNumber(cardNumber)
	masked := domain.MaskCardNumber(number)

	card, err := cards.FindCardByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			utils.BurnPINCheck(pin)
			a.LogInfo(ctx, "Card authorization failed", slog.String("card", masked), slog.String("reason", "not found"))
			return nil, fmt.Errorf("%w: %w: card %s", apperrors.ErrCardAuthorization, apperrors.ErrNotFound, masked)
		}
		return nil, fmt.Errorf("failed to load card %s: %w", masked, err)
	}

	if !utils.CheckPINHash(pin, card.PINHash) {
		a.LogInfo(ctx, "Card authorization failed", slog.String("card", masked), slog.String("reason", "pin mismatch"))
		return nil, fmt.Errorf("%w: %w: pin mismatch", apperrors.ErrCardAuthorization, apperrors.ErrValidation)
	}

	if card.IsExpired(a.Now()) {
		a.LogInfo(ctx, "Card authorization failed", slog.String("card", masked), slog.String("reason", "expired"))
		return nil, fmt.Errorf("%w: %w: expired", apperrors.ErrCardAuthorization, apperrors.ErrValidation)
	}

	if !card.IsActive {
		a.LogInfo(ctx, "Card authorization failed", slog.String("card", masked), slog.String("reason", "inactive"))
		return nil, fmt.Errorf("%w: %w: inactive", apperrors.ErrCardAuthorization, apperrors.ErrValidation)
	}

	return &domain.AuthorizedCard{
		CardID:    card.CardID,
		AccountID: card.AccountID,
		OwnerID:   card.OwnerID,
		Masked:    masked,
	}, nil
}
