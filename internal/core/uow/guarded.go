package uow

import (
	"context"
	"time"

	"github.com/SscSPs/bank_core/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_core/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// The guarded repositories resolve the transaction handle on every call, so a
// reference kept past Commit or Rollback fails instead of touching storage
// outside the transaction.

type guardedAccounts struct{ c *Coordinator }

func (g guardedAccounts) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	h, err := g.c.active()
	if err != nil {
		return nil, err
	}
	return h.Accounts().FindAccountByID(ctx, accountID)
}

func (g guardedAccounts) FindAccountByIBAN(ctx context.Context, iban string) (*domain.Account, error) {
	h, err := g.c.active()
	if err != nil {
		return nil, err
	}
	return h.Accounts().FindAccountByIBAN(ctx, iban)
}

func (g guardedAccounts) ListAccountsByOwner(ctx context.Context, ownerID string) ([]domain.Account, error) {
	h, err := g.c.active()
	if err != nil {
		return nil, err
	}
	return h.Accounts().ListAccountsByOwner(ctx, ownerID)
}

func (g guardedAccounts) SaveAccount(ctx context.Context, account domain.Account) error {
	h, err := g.c.active()
	if err != nil {
		return err
	}
	return h.Accounts().SaveAccount(ctx, account)
}

func (g guardedAccounts) FindAccountsByIDsForUpdate(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	h, err := g.c.active()
	if err != nil {
		return nil, err
	}
	return h.Accounts().FindAccountsByIDsForUpdate(ctx, accountIDs)
}

func (g guardedAccounts) UpdateAccountBalances(ctx context.Context, balanceChanges map[string]decimal.Decimal, now time.Time) error {
	h, err := g.c.active()
	if err != nil {
		return err
	}
	return h.Accounts().UpdateAccountBalances(ctx, balanceChanges, now)
}

type guardedCards struct{ c *Coordinator }

func (g guardedCards) FindCardByNumber(ctx context.Context, cardNumber string) (*domain.Card, error) {
	h, err := g.c.active()
	if err != nil {
		return nil, err
	}
	return h.Cards().FindCardByNumber(ctx, cardNumber)
}

func (g guardedCards) SaveCard(ctx context.Context, card domain.Card) error {
	h, err := g.c.active()
	if err != nil {
		return err
	}
	return h.Cards().SaveCard(ctx, card)
}

func (g guardedCards) UpdateCardPIN(ctx context.Context, cardID string, pinHash string, now time.Time) error {
	h, err := g.c.active()
	if err != nil {
		return err
	}
	return h.Cards().UpdateCardPIN(ctx, cardID, pinHash, now)
}

type guardedLedger struct{ c *Coordinator }

func (g guardedLedger) FindEntryByIdempotencyKey(ctx context.Context, key string) (*domain.LedgerEntry, error) {
	h, err := g.c.active()
	if err != nil {
		return nil, err
	}
	return h.Ledger().FindEntryByIdempotencyKey(ctx, key)
}

func (g guardedLedger) ListEntriesByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	h, err := g.c.active()
	if err != nil {
		return nil, nil, err
	}
	return h.Ledger().ListEntriesByAccount(ctx, accountID, limit, nextToken)
}

func (g guardedLedger) AppendEntry(ctx context.Context, entry domain.LedgerEntry) error {
	h, err := g.c.active()
	if err != nil {
		return err
	}
	return h.Ledger().AppendEntry(ctx, entry)
}

var (
	_ portsrepo.AccountRepositoryFacade = guardedAccounts{}
	_ portsrepo.CardRepositoryFacade    = guardedCards{}
	_ portsrepo.LedgerRepositoryFacade  = guardedLedger{}
)
