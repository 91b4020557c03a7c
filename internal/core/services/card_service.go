package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/bank_core/internal/apperrors"
	"github.com/SscSPs/bank_core/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_core/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bank_core/internal/core/ports/services"
	"github.com/SscSPs/bank_core/internal/core/uow"
	"github.com/SscSPs/bank_core/internal/dto"
	"github.com/SscSPs/bank_core/internal/utils"
	"github.com/google/uuid"
)

const (
	// CardIssuerPrefix is the issuer identification prefix of card numbers.
	CardIssuerPrefix = "400012"

	// CardValidityYears is how long an issued card stays valid.
	CardValidityYears = 4

	cvvDigits       = 3
	cardMaxAttempts = 5
)

// CVVSealer encrypts CVVs before they reach storage.
type CVVSealer interface {
	Seal(plaintext []byte) ([]byte, error)
}

type cardService struct {
	BaseService
	txManager portsrepo.TransactionManager
	sealer    CVVSealer
}

// NewCardService creates the card issuance service
func NewCardService(txManager portsrepo.TransactionManager, sealer CVVSealer, options ...ServiceOption) portssvc.CardSvcFacade {
	return &cardService{
		BaseService: newBaseService(options...),
		txManager:   txManager,
		sealer:      sealer,
	}
}

var _ portssvc.CardSvcFacade = (*cardService)(nil)

func (s *cardService) IssueCard(ctx context.Context, ownerID string, req dto.IssueCardRequest) (*domain.IssuedCard, error) {
	if !domain.IsValidPIN(req.PIN) {
		return nil, fmt.Errorf("%w: pin must be exactly 4 digits", apperrors.ErrValidation)
	}

	return runOperation(ctx, &s.BaseService, "issue_card", func(ctx context.Context) (*domain.IssuedCard, error) {
		pinHash, err := utils.HashPIN(req.PIN)
		if err != nil {
			return nil, err
		}

		for attempt := 1; attempt <= cardMaxAttempts; attempt++ {
			issued, err := s.newCard(ownerID, req.AccountID, pinHash)
			if err != nil {
				return nil, err
			}

			err = uow.Run(ctx, s.txManager, func(ctx context.Context, c *uow.Coordinator) error {
				account, err := loadOwned(ctx, c.Accounts(), ownerID, req.AccountID)
				if err != nil {
					return err
				}
				if !account.IsActive {
					return fmt.Errorf("%w: account inactive", apperrors.ErrValidation)
				}
				return c.Cards().SaveCard(ctx, issued.Card)
			})
			if err == nil {
				s.LogInfo(ctx, "Card issued",
					slog.String("card_id", issued.Card.CardID),
					slog.String("card", issued.Card.MaskedNumber()),
					slog.String("account_id", req.AccountID))
				return issued, nil
			}
			if !errors.Is(err, apperrors.ErrDuplicate) {
				return nil, err
			}
			s.LogDebug(ctx, "Card number collision, retrying", slog.Int("attempt", attempt))
		}
		return nil, fmt.Errorf("could not allocate a unique card number after %d attempts", cardMaxAttempts)
	})
}

func (s *cardService) newCard(ownerID, accountID, pinHash string) (*domain.IssuedCard, error) {
	body, err := utils.GenerateSecureDigits(domain.CardNumberLength - len(CardIssuerPrefix) - 1)
	if err != nil {
		return nil, err
	}
	payload := CardIssuerPrefix + body
	number := payload + string(domain.LuhnCheckDigit(payload))

	cvv, err := utils.GenerateSecureDigits(cvvDigits)
	if err != nil {
		return nil, err
	}
	sealed, err := s.sealer.Seal([]byte(cvv))
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt cvv: %w", err)
	}

	now := s.Now()
	return &domain.IssuedCard{
		Card: domain.Card{
			CardID:         uuid.NewString(),
			CardNumber:     number,
			PINHash:        pinHash,
			CVVEncrypted:   sealed,
			ExpirationDate: endOfMonth(now.AddDate(CardValidityYears, 0, 0)),
			AccountID:      accountID,
			OwnerID:        ownerID,
			IsActive:       true,
			AuditFields:    domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
		},
		CardNumber: number,
		CVV:        cvv,
	}, nil
}

// endOfMonth returns the last instant of t's month; cards expire at month end.
func endOfMonth(t time.Time) time.Time {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return first.AddDate(0, 1, 0).Add(-time.Nanosecond)
}
