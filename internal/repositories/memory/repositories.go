package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/bank_core/internal/apperrors"
	"github.com/SscSPs/bank_core/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_core/internal/core/ports/repositories"
	"github.com/SscSPs/bank_core/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

type accountRepository struct{ tx *Tx }

var _ portsrepo.AccountRepositoryFacade = (*accountRepository)(nil)

func (r *accountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	t := r.tx
	if err := t.usable(); err != nil {
		return err
	}
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	if _, exists := t.account(account.AccountID); exists {
		return fmt.Errorf("%w: account %s", apperrors.ErrDuplicate, account.AccountID)
	}
	_, committed := t.store.ibans[account.IBAN]
	_, staged := t.newIBANs[account.IBAN]
	if committed || staged {
		return fmt.Errorf("%w: iban %s", apperrors.ErrDuplicate, account.IBAN)
	}
	t.accounts[account.AccountID] = account
	t.newIBANs[account.IBAN] = account.AccountID
	return nil
}

func (r *accountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	t := r.tx
	if err := t.usable(); err != nil {
		return nil, err
	}
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	a, ok := t.account(accountID)
	if !ok {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	return &a, nil
}

func (r *accountRepository) FindAccountByIBAN(ctx context.Context, iban string) (*domain.Account, error) {
	t := r.tx
	if err := t.usable(); err != nil {
		return nil, err
	}
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	id, ok := t.newIBANs[iban]
	if !ok {
		id, ok = t.store.ibans[iban]
	}
	if !ok {
		return nil, fmt.Errorf("%w: account with iban %s", apperrors.ErrNotFound, iban)
	}
	a, _ := t.account(id)
	return &a, nil
}

func (r *accountRepository) ListAccountsByOwner(ctx context.Context, ownerID string) ([]domain.Account, error) {
	t := r.tx
	if err := t.usable(); err != nil {
		return nil, err
	}
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	seen := make(map[string]struct{})
	out := []domain.Account{}
	for id := range t.accounts {
		seen[id] = struct{}{}
	}
	for id := range t.store.accounts {
		seen[id] = struct{}{}
	}
	for id := range seen {
		if a, _ := t.account(id); a.OwnerID == ownerID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].AccountID < out[j].AccountID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *accountRepository) FindAccountsByIDsForUpdate(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	t := r.tx
	if err := t.usable(); err != nil {
		return nil, err
	}

	t.store.mu.Lock()
	for _, id := range accountIDs {
		if _, ok := t.account(id); !ok {
			t.store.mu.Unlock()
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, id)
		}
	}
	t.store.mu.Unlock()

	if err := t.acquire(ctx, accountIDs); err != nil {
		return nil, err
	}

	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	out := make(map[string]domain.Account, len(accountIDs))
	for _, id := range accountIDs {
		a, _ := t.account(id)
		out[id] = a
	}
	return out, nil
}

func (r *accountRepository) UpdateAccountBalances(ctx context.Context, balanceChanges map[string]decimal.Decimal, now time.Time) error {
	t := r.tx
	if err := t.usable(); err != nil {
		return err
	}
	ids := make([]string, 0, len(balanceChanges))
	for id := range balanceChanges {
		ids = append(ids, id)
	}
	if err := t.acquire(ctx, ids); err != nil {
		return err
	}

	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	updated := make(map[string]domain.Account, len(ids))
	for _, id := range ids {
		a, ok := t.account(id)
		if !ok {
			return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, id)
		}
		next := a.Balance.Add(balanceChanges[id])
		if next.IsNegative() {
			return fmt.Errorf("%w: balance update for account %s would go negative", apperrors.ErrValidation, id)
		}
		a.Balance = next
		a.LastUpdatedAt = now
		updated[id] = a
	}
	for id, a := range updated {
		t.accounts[id] = a
	}
	return nil
}

type cardRepository struct{ tx *Tx }

var _ portsrepo.CardRepositoryFacade = (*cardRepository)(nil)

func (r *cardRepository) SaveCard(ctx context.Context, card domain.Card) error {
	t := r.tx
	if err := t.usable(); err != nil {
		return err
	}
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	if _, ok := t.account(card.AccountID); !ok {
		return fmt.Errorf("%w: account %s for card", apperrors.ErrNotFound, card.AccountID)
	}
	_, committed := t.store.cardNumbers[card.CardNumber]
	_, staged := t.newNumbers[card.CardNumber]
	if committed || staged {
		return fmt.Errorf("%w: card %s", apperrors.ErrDuplicate, card.MaskedNumber())
	}
	t.cards[card.CardID] = card
	t.newNumbers[card.CardNumber] = card.CardID
	return nil
}

func (r *cardRepository) FindCardByNumber(ctx context.Context, cardNumber string) (*domain.Card, error) {
	t := r.tx
	if err := t.usable(); err != nil {
		return nil, err
	}
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	id, ok := t.newNumbers[cardNumber]
	if !ok {
		id, ok = t.store.cardNumbers[cardNumber]
	}
	if !ok {
		return nil, fmt.Errorf("%w: card %s", apperrors.ErrNotFound, domain.MaskCardNumber(cardNumber))
	}
	c := t.card(id)
	return &c, nil
}

func (r *cardRepository) UpdateCardPIN(ctx context.Context, cardID string, pinHash string, now time.Time) error {
	t := r.tx
	if err := t.usable(); err != nil {
		return err
	}
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	_, staged := t.cards[cardID]
	_, committed := t.store.cards[cardID]
	if !staged && !committed {
		return fmt.Errorf("%w: card %s", apperrors.ErrNotFound, cardID)
	}
	c := t.card(cardID)
	c.PINHash = pinHash
	c.LastUpdatedAt = now
	t.cards[cardID] = c
	return nil
}

// card returns the card as this transaction sees it. Callers hold store.mu.
func (t *Tx) card(id string) domain.Card {
	if c, ok := t.cards[id]; ok {
		return c
	}
	return t.store.cards[id]
}

type ledgerRepository struct{ tx *Tx }

var _ portsrepo.LedgerRepositoryFacade = (*ledgerRepository)(nil)

func (r *ledgerRepository) AppendEntry(ctx context.Context, entry domain.LedgerEntry) error {
	t := r.tx
	if err := t.usable(); err != nil {
		return err
	}
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	if entry.IdempotencyKey != nil {
		key := *entry.IdempotencyKey
		if _, taken := t.store.idemKeys[key]; taken {
			return fmt.Errorf("%w: idempotency key", apperrors.ErrDuplicate)
		}
		for _, e := range t.entries {
			if e.IdempotencyKey != nil && *e.IdempotencyKey == key {
				return fmt.Errorf("%w: idempotency key", apperrors.ErrDuplicate)
			}
		}
	}
	t.entries = append(t.entries, entry)
	return nil
}

func (r *ledgerRepository) FindEntryByIdempotencyKey(ctx context.Context, key string) (*domain.LedgerEntry, error) {
	t := r.tx
	if err := t.usable(); err != nil {
		return nil, err
	}
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	for _, e := range t.entries {
		if e.IdempotencyKey != nil && *e.IdempotencyKey == key {
			found := e
			return &found, nil
		}
	}
	if i, ok := t.store.idemKeys[key]; ok {
		found := t.store.entries[i]
		return &found, nil
	}
	return nil, fmt.Errorf("%w: ledger entry for idempotency key", apperrors.ErrNotFound)
}

func (r *ledgerRepository) ListEntriesByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	t := r.tx
	if err := t.usable(); err != nil {
		return nil, nil, err
	}
	if limit <= 0 {
		limit = 20
	}

	var (
		afterTime time.Time
		afterID   string
		hasCursor bool
	)
	if nextToken != nil && *nextToken != "" {
		var err error
		afterTime, afterID, err = pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		hasCursor = true
	}

	t.store.mu.Lock()
	all := make([]domain.LedgerEntry, 0, len(t.store.entries)+len(t.entries))
	all = append(all, t.store.entries...)
	all = append(all, t.entries...)
	t.store.mu.Unlock()

	matches := []domain.LedgerEntry{}
	for _, e := range all {
		touches := e.SourceAccountID == accountID ||
			(e.DestinationAccountID != nil && *e.DestinationAccountID == accountID)
		if !touches {
			continue
		}
		if hasCursor && !before(e, afterTime, afterID) {
			continue
		}
		matches = append(matches, e)
	}
	sort.Slice(matches, func(i, j int) bool {
		return before(matches[j], matches[i].CreatedAt, matches[i].EntryID)
	})

	var next *string
	if len(matches) > limit {
		matches = matches[:limit]
		last := matches[len(matches)-1]
		token := pagination.EncodeToken(last.CreatedAt, last.EntryID)
		next = &token
	}
	return matches, next, nil
}

// before reports (e.created_at, e.entry_id) < (createdAt, entryID), the row
// comparison the Postgres keyset query uses.
func before(e domain.LedgerEntry, createdAt time.Time, entryID string) bool {
	if e.CreatedAt.Equal(createdAt) {
		return e.EntryID < entryID
	}
	return e.CreatedAt.Before(createdAt)
}
