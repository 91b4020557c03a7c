package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/bank_core/internal/apperrors"
	"github.com/SscSPs/bank_core/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_core/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bank_core/internal/core/ports/services"
	"github.com/SscSPs/bank_core/internal/core/uow"
	"github.com/SscSPs/bank_core/internal/dto"
	"github.com/SscSPs/bank_core/internal/utils"
)

type operationsService struct {
	BaseService
	txManager  portsrepo.TransactionManager
	engine     portssvc.MoneyMovementEngine
	authorizer portssvc.CardAuthorizerSvc
}

// NewOperationsService creates the public money operations. Each call runs in its
// own unit of work.
func NewOperationsService(txManager portsrepo.TransactionManager, engine portssvc.MoneyMovementEngine, authorizer portssvc.CardAuthorizerSvc, options ...ServiceOption) portssvc.OperationsSvcFacade {
	return &operationsService{
		BaseService: newBaseService(options...),
		txManager:   txManager,
		engine:      engine,
		authorizer:  authorizer,
	}
}

var _ portssvc.OperationsSvcFacade = (*operationsService)(nil)

func (s *operationsService) Transfer(ctx context.Context, callerID string, req dto.TransferRequest) (*domain.LedgerEntry, error) {
	cmd := domain.TransferCommand{
		CallerID:       callerID,
		FromAccountID:  req.FromAccountID,
		ToAccountID:    req.ToAccountID,
		Amount:         req.Amount,
		IdempotencyKey: req.IdempotencyKey,
	}
	return runOperation(ctx, &s.BaseService, "transfer", func(ctx context.Context) (*domain.LedgerEntry, error) {
		return uow.Do(ctx, s.txManager, func(ctx context.Context, c *uow.Coordinator) (*domain.LedgerEntry, error) {
			return s.engine.Transfer(ctx, c, cmd)
		})
	})
}

func (s *operationsService) Withdraw(ctx context.Context, req dto.CardAmountRequest) (*domain.LedgerEntry, error) {
	return runOperation(ctx, &s.BaseService, "withdraw", func(ctx context.Context) (*domain.LedgerEntry, error) {
		return uow.Do(ctx, s.txManager, func(ctx context.Context, c *uow.Coordinator) (*domain.LedgerEntry, error) {
			card, err := s.authorizer.Authorize(ctx, c.Cards(), req.CardNumber, req.PIN)
			if err != nil {
				return nil, err
			}
			return s.engine.Withdraw(ctx, c, *card, req.Amount)
		})
	})
}

func (s *operationsService) Deposit(ctx context.Context, req dto.CardAmountRequest) (*domain.LedgerEntry, error) {
	return runOperation(ctx, &s.BaseService, "deposit", func(ctx context.Context) (*domain.LedgerEntry, error) {
		return uow.Do(ctx, s.txManager, func(ctx context.Context, c *uow.Coordinator) (*domain.LedgerEntry, error) {
			card, err := s.authorizer.Authorize(ctx, c.Cards(), req.CardNumber, req.PIN)
			if err != nil {
				return nil, err
			}
			return s.engine.Deposit(ctx, c, *card, req.Amount)
		})
	})
}

func (s *operationsService) ShowBalance(ctx context.Context, req dto.CardCredentials) (*domain.BalanceView, error) {
	return runOperation(ctx, &s.BaseService, "show_balance", func(ctx context.Context) (*domain.BalanceView, error) {
		return uow.Do(ctx, s.txManager, func(ctx context.Context, c *uow.Coordinator) (*domain.BalanceView, error) {
			card, err := s.authorizer.Authorize(ctx, c.Cards(), req.CardNumber, req.PIN)
			if err != nil {
				return nil, err
			}
			account, err := c.Accounts().FindAccountByID(ctx, card.AccountID)
			if err != nil {
				return nil, fmt.Errorf("failed to load card account: %w", err)
			}
			view := account.View()
			return &view, nil
		})
	})
}

func (s *operationsService) ChangePin(ctx context.Context, req dto.ChangePinRequest) error {
	if !domain.IsValidPIN(req.NewPIN) {
		return fmt.Errorf("%w: pin must be exactly 4 digits", apperrors.ErrValidation)
	}
	_, err := runOperation(ctx, &s.BaseService, "change_pin", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, uow.Run(ctx, s.txManager, func(ctx context.Context, c *uow.Coordinator) error {
			card, err := s.authorizer.Authorize(ctx, c.Cards(), req.CardNumber, req.PIN)
			if err != nil {
				return err
			}
			hash, err := utils.HashPIN(req.NewPIN)
			if err != nil {
				return err
			}
			if err := c.Cards().UpdateCardPIN(ctx, card.CardID, hash, s.Now()); err != nil {
				return fmt.Errorf("failed to store new pin: %w", err)
			}
			s.LogInfo(ctx, "Card PIN changed", slog.String("card", card.Masked))
			return nil
		})
	})
	return err
}
