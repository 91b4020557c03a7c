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
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// transferPrecision is the maximum number of decimals a transfer amount may carry.
const transferPrecision = 2

type moneyMovementEngine struct {
	BaseService
	rates portssvc.ExchangeRateSvc
}

// NewMoneyMovementEngine creates the engine. It only ever works through the
// repositories handed to each call and never opens or commits a transaction.
func NewMoneyMovementEngine(rates portssvc.ExchangeRateSvc, options ...ServiceOption) portssvc.MoneyMovementEngine {
	return &moneyMovementEngine{
		BaseService: newBaseService(options...),
		rates:       rates,
	}
}

var _ portssvc.MoneyMovementEngine = (*moneyMovementEngine)(nil)

func (e *moneyMovementEngine) Transfer(ctx context.Context, repos portsrepo.Repositories, cmd domain.TransferCommand) (*domain.LedgerEntry, error) {
	if cmd.FromAccountID == cmd.ToAccountID {
		return nil, fmt.Errorf("%w: source and destination accounts must differ", apperrors.ErrValidation)
	}
	if !cmd.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	if !cmd.Amount.Equal(cmd.Amount.Truncate(transferPrecision)) {
		return nil, fmt.Errorf("%w: amount must have at most %d decimals", apperrors.ErrValidation, transferPrecision)
	}

	accounts, err := repos.Accounts().FindAccountsByIDsForUpdate(ctx, []string{cmd.FromAccountID, cmd.ToAccountID})
	if err != nil {
		return nil, fmt.Errorf("failed to lock transfer accounts: %w", err)
	}
	source, okSrc := accounts[cmd.FromAccountID]
	destination, okDst := accounts[cmd.ToAccountID]
	if !okSrc || !okDst {
		return nil, fmt.Errorf("%w: transfer account", apperrors.ErrNotFound)
	}

	if source.OwnerID != cmd.CallerID {
		e.LogWarn(ctx, "Transfer attempted from foreign account",
			slog.String("caller_id", cmd.CallerID),
			slog.String("account_id", source.AccountID))
		return nil, fmt.Errorf("%w: caller does not own source account", apperrors.ErrForbidden)
	}
	if !source.IsActive || !destination.IsActive {
		return nil, fmt.Errorf("%w: account inactive", apperrors.ErrValidation)
	}

	// Replays are resolved under the source lock, so a retried request waits for
	// the first one and then sees its entry.
	if cmd.IdempotencyKey != nil {
		existing, err := e.findReplay(ctx, repos, *cmd.IdempotencyKey, cmd.FromAccountID)
		if err != nil || existing != nil {
			return existing, err
		}
	}

	fee := CalculateTransferFee(cmd.Amount, source.CurrencyCode, source.OwnerID == destination.OwnerID)
	totalDebit := cmd.Amount.Add(fee)
	if !source.CanDebit(totalDebit) {
		return nil, fmt.Errorf("%w: insufficient balance", apperrors.ErrValidation)
	}

	credited, err := e.rates.Convert(ctx, cmd.Amount, source.CurrencyCode, destination.CurrencyCode)
	if err != nil {
		return nil, err
	}
	if !destination.CanCredit(credited) {
		return nil, fmt.Errorf("%w: destination balance limit exceeded", apperrors.ErrValidation)
	}

	now := e.Now()
	changes := map[string]decimal.Decimal{
		source.AccountID:      totalDebit.Neg(),
		destination.AccountID: credited,
	}
	if err := repos.Accounts().UpdateAccountBalances(ctx, changes, now); err != nil {
		return nil, fmt.Errorf("failed to apply transfer balances: %w", err)
	}

	destinationID := destination.AccountID
	entry := domain.LedgerEntry{
		EntryID:              uuid.NewString(),
		Kind:                 domain.KindTransfer,
		SourceAccountID:      source.AccountID,
		DestinationAccountID: &destinationID,
		Amount:               cmd.Amount,
		Fee:                  fee,
		CurrencyCode:         source.CurrencyCode,
		CreditedAmount:       credited,
		CreditedCurrency:     destination.CurrencyCode,
		IdempotencyKey:       cmd.IdempotencyKey,
		CreatedAt:            now,
	}
	if err := repos.Ledger().AppendEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to append transfer entry: %w", err)
	}

	e.LogInfo(ctx, "Transfer applied",
		slog.String("entry_id", entry.EntryID),
		slog.String("from", source.AccountID),
		slog.String("to", destination.AccountID),
		slog.String("amount", cmd.Amount.String()),
		slog.String("fee", fee.String()))
	return &entry, nil
}

// findReplay returns the entry already recorded under key, or nil when the key is unused.
func (e *moneyMovementEngine) findReplay(ctx context.Context, repos portsrepo.Repositories, key string, sourceID string) (*domain.LedgerEntry, error) {
	existing, err := repos.Ledger().FindEntryByIdempotencyKey(ctx, key)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up idempotency key: %w", err)
	}
	if existing.Kind != domain.KindTransfer || existing.SourceAccountID != sourceID {
		return nil, fmt.Errorf("%w: idempotency key already used for a different operation", apperrors.ErrDuplicate)
	}
	e.LogInfo(ctx, "Transfer replayed", slog.String("entry_id", existing.EntryID))
	return existing, nil
}

// lockCardAccount locks the account behind an authorized card.
func (e *moneyMovementEngine) lockCardAccount(ctx context.Context, repos portsrepo.Repositories, card domain.AuthorizedCard) (*domain.Account, error) {
	accounts, err := repos.Accounts().FindAccountsByIDsForUpdate(ctx, []string{card.AccountID})
	if err != nil {
		return nil, fmt.Errorf("failed to lock card account: %w", err)
	}
	account, ok := accounts[card.AccountID]
	if !ok {
		return nil, fmt.Errorf("%w: card account", apperrors.ErrNotFound)
	}
	if !account.IsActive {
		return nil, fmt.Errorf("%w: account inactive", apperrors.ErrValidation)
	}
	return &account, nil
}

func validateCashAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	if !domain.IsWholeUnit(amount) {
		return fmt.Errorf("%w: cash amount must be a whole number", apperrors.ErrValidation)
	}
	return nil
}

func (e *moneyMovementEngine) Withdraw(ctx context.Context, repos portsrepo.Repositories, card domain.AuthorizedCard, amount decimal.Decimal) (*domain.LedgerEntry, error) {
	account, err := e.lockCardAccount(ctx, repos, card)
	if err != nil {
		return nil, err
	}
	if err := validateCashAmount(amount); err != nil {
		return nil, err
	}
	if !account.CanDebit(amount) {
		return nil, fmt.Errorf("%w: insufficient balance", apperrors.ErrValidation)
	}

	return e.applyCash(ctx, repos, account, domain.KindWithdrawal, amount, amount.Neg(), card)
}

func (e *moneyMovementEngine) Deposit(ctx context.Context, repos portsrepo.Repositories, card domain.AuthorizedCard, amount decimal.Decimal) (*domain.LedgerEntry, error) {
	account, err := e.lockCardAccount(ctx, repos, card)
	if err != nil {
		return nil, err
	}
	if err := validateCashAmount(amount); err != nil {
		return nil, err
	}
	if !account.CanCredit(amount) {
		return nil, fmt.Errorf("%w: deposit exceeds the maximum balance", apperrors.ErrValidation)
	}

	return e.applyCash(ctx, repos, account, domain.KindDeposit, amount, amount, card)
}

func (e *moneyMovementEngine) applyCash(ctx context.Context, repos portsrepo.Repositories, account *domain.Account, kind domain.TransactionKind, amount, delta decimal.Decimal, card domain.AuthorizedCard) (*domain.LedgerEntry, error) {
	now := e.Now()
	if err := repos.Accounts().UpdateAccountBalances(ctx, map[string]decimal.Decimal{account.AccountID: delta}, now); err != nil {
		return nil, fmt.Errorf("failed to apply %s balance: %w", kind, err)
	}

	entry := domain.LedgerEntry{
		EntryID:          uuid.NewString(),
		Kind:             kind,
		SourceAccountID:  account.AccountID,
		Amount:           amount,
		Fee:              decimal.Zero,
		CurrencyCode:     account.CurrencyCode,
		CreditedAmount:   amount,
		CreditedCurrency: account.CurrencyCode,
		CreatedAt:        now,
	}
	if err := repos.Ledger().AppendEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to append %s entry: %w", kind, err)
	}

	e.LogInfo(ctx, "Cash operation applied",
		slog.String("entry_id", entry.EntryID),
		slog.String("kind", string(kind)),
		slog.String("card", card.Masked),
		slog.String("amount", amount.String()))
	return &entry, nil
}
