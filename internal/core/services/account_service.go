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
	"github.com/SscSPs/bank_core/internal/core/uow"
	"github.com/SscSPs/bank_core/internal/dto"
	"github.com/SscSPs/bank_core/internal/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	// BankCode is the two-letter bank identifier inside issued IBANs.
	BankCode = "NB"

	ibanAccountDigits = 16
	ibanMaxAttempts   = 5

	defaultStatementLimit = 20
	maxStatementLimit     = 100
)

type accountService struct {
	BaseService
	txManager portsrepo.TransactionManager
}

// NewAccountService creates the account issuance and inquiry service
func NewAccountService(txManager portsrepo.TransactionManager, options ...ServiceOption) portssvc.AccountSvcFacade {
	return &accountService{
		BaseService: newBaseService(options...),
		txManager:   txManager,
	}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) OpenAccount(ctx context.Context, ownerID string, req dto.OpenAccountRequest) (*domain.Account, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("%w: owner is required", apperrors.ErrValidation)
	}
	currency, err := domain.ParseCurrency(string(req.CurrencyCode))
	if err != nil {
		return nil, err
	}

	return runOperation(ctx, &s.BaseService, "open_account", func(ctx context.Context) (*domain.Account, error) {
		// A random IBAN may collide with an existing one; retry with fresh digits.
		for attempt := 1; attempt <= ibanMaxAttempts; attempt++ {
			iban, err := newAccountIBAN()
			if err != nil {
				return nil, err
			}
			now := s.Now()
			account := domain.Account{
				AccountID:    uuid.NewString(),
				IBAN:         iban,
				OwnerID:      ownerID,
				CurrencyCode: currency,
				Balance:      decimal.Zero,
				IsActive:     true,
				AuditFields:  domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
			}

			err = uow.Run(ctx, s.txManager, func(ctx context.Context, c *uow.Coordinator) error {
				return c.Accounts().SaveAccount(ctx, account)
			})
			if err == nil {
				s.LogInfo(ctx, "Account opened",
					slog.String("account_id", account.AccountID),
					slog.String("currency", string(currency)))
				return &account, nil
			}
			if !errors.Is(err, apperrors.ErrDuplicate) {
				return nil, fmt.Errorf("failed to save account: %w", err)
			}
			s.LogDebug(ctx, "IBAN collision, retrying", slog.Int("attempt", attempt))
		}
		return nil, fmt.Errorf("could not allocate a unique IBAN after %d attempts", ibanMaxAttempts)
	})
}

func newAccountIBAN() (string, error) {
	digits, err := utils.GenerateSecureDigits(ibanAccountDigits)
	if err != nil {
		return "", err
	}
	return domain.NewIBAN(domain.IBANCountry, BankCode+digits)
}

// loadOwned returns the account if ownerID holds it.
func loadOwned(ctx context.Context, accounts portsrepo.AccountReader, ownerID, accountID string) (*domain.Account, error) {
	account, err := accounts.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: account belongs to another owner", apperrors.ErrForbidden)
	}
	return account, nil
}

func (s *accountService) GetAccount(ctx context.Context, ownerID string, accountID string) (*domain.Account, error) {
	return runOperation(ctx, &s.BaseService, "get_account", func(ctx context.Context) (*domain.Account, error) {
		return uow.Do(ctx, s.txManager, func(ctx context.Context, c *uow.Coordinator) (*domain.Account, error) {
			return loadOwned(ctx, c.Accounts(), ownerID, accountID)
		})
	})
}

func (s *accountService) ListAccounts(ctx context.Context, ownerID string) ([]domain.Account, error) {
	return runOperation(ctx, &s.BaseService, "list_accounts", func(ctx context.Context) ([]domain.Account, error) {
		return uow.Do(ctx, s.txManager, func(ctx context.Context, c *uow.Coordinator) ([]domain.Account, error) {
			return c.Accounts().ListAccountsByOwner(ctx, ownerID)
		})
	})
}

func (s *accountService) GetStatement(ctx context.Context, ownerID string, accountID string, req dto.ListStatementParams) (*domain.LedgerPage, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = defaultStatementLimit
	}
	if limit > maxStatementLimit {
		limit = maxStatementLimit
	}

	return runOperation(ctx, &s.BaseService, "get_statement", func(ctx context.Context) (*domain.LedgerPage, error) {
		return uow.Do(ctx, s.txManager, func(ctx context.Context, c *uow.Coordinator) (*domain.LedgerPage, error) {
			if _, err := loadOwned(ctx, c.Accounts(), ownerID, accountID); err != nil {
				return nil, err
			}
			entries, next, err := c.Ledger().ListEntriesByAccount(ctx, accountID, limit, req.NextToken)
			if err != nil {
				return nil, err
			}
			if entries == nil {
				entries = []domain.LedgerEntry{}
			}
			return &domain.LedgerPage{Entries: entries, NextToken: next}, nil
		})
	})
}
