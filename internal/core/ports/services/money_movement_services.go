package services

import (
	"context"

	"github.com/SscSPs/bank_core/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_core/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// MoneyMovementEngine applies balance changes and ledger appends through repositories
// bound to an active transaction. It never begins or commits.
type MoneyMovementEngine interface {
	// Transfer moves cmd.Amount plus fee out of the source and the converted amount into the destination.
	Transfer(ctx context.Context, repos portsrepo.Repositories, cmd domain.TransferCommand) (*domain.LedgerEntry, error)

	// Withdraw debits a whole amount from the authorized card's account.
	Withdraw(ctx context.Context, repos portsrepo.Repositories, card domain.AuthorizedCard, amount decimal.Decimal) (*domain.LedgerEntry, error)

	// Deposit credits a whole amount to the authorized card's account.
	Deposit(ctx context.Context, repos portsrepo.Repositories, card domain.AuthorizedCard, amount decimal.Decimal) (*domain.LedgerEntry, error)
}
