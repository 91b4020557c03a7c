// Package memory is a storage engine kept entirely in process memory. It honours
// the same transaction contract as the Postgres repositories: row locks taken in
// id order and held until the transaction ends, writes visible to other
// transactions only after commit, and the same uniqueness rules.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/SscSPs/bank_core/internal/apperrors"
	"github.com/SscSPs/bank_core/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_core/internal/core/ports/repositories"
)

// ErrTxDone is returned when a finished transaction is used again.
var ErrTxDone = errors.New("memory: transaction already finished")

// Store holds the committed state.
type Store struct {
	mu sync.Mutex

	accounts    map[string]domain.Account
	ibans       map[string]string // iban -> account id
	cards       map[string]domain.Card
	cardNumbers map[string]string // number -> card id
	entries     []domain.LedgerEntry
	idemKeys    map[string]int // key -> index into entries
	snapshots   []domain.ExchangeRateSnapshot

	// locks has one single-slot channel per account. Holding the slot is holding
	// the row lock.
	locks map[string]chan struct{}
}

var (
	_ portsrepo.TransactionManager   = (*Store)(nil)
	_ portsrepo.ExchangeRateRecorder = (*Store)(nil)
)

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		accounts:    make(map[string]domain.Account),
		ibans:       make(map[string]string),
		cards:       make(map[string]domain.Card),
		cardNumbers: make(map[string]string),
		idemKeys:    make(map[string]int),
		locks:       make(map[string]chan struct{}),
	}
}

// NewRepositoryProvider wires a fresh store as the storage of the service container.
func NewRepositoryProvider() portsrepo.RepositoryProvider {
	s := NewStore()
	return portsrepo.RepositoryProvider{
		TxManager:    s,
		RateRecorder: s,
		Close:        func() {},
	}
}

// BeginTx opens a transaction. Nothing is locked until an account is read for update.
func (s *Store) BeginTx(ctx context.Context) (portsrepo.TxHandle, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	tx := &Tx{
		store:      s,
		held:       make(map[string]struct{}),
		accounts:   make(map[string]domain.Account),
		newIBANs:   make(map[string]string),
		cards:      make(map[string]domain.Card),
		newNumbers: make(map[string]string),
	}
	return tx, nil
}

// SaveSnapshot keeps the snapshot in the rate history.
func (s *Store) SaveSnapshot(ctx context.Context, snapshot domain.ExchangeRateSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots = append(s.snapshots, snapshot)
	return nil
}

// Snapshots returns every recorded rate snapshot, oldest first.
func (s *Store) Snapshots() []domain.ExchangeRateSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.ExchangeRateSnapshot(nil), s.snapshots...)
}

// lockFor returns the lock slot of an account. Callers hold s.mu.
func (s *Store) lockFor(accountID string) chan struct{} {
	ch, ok := s.locks[accountID]
	if !ok {
		ch = make(chan struct{}, 1)
		s.locks[accountID] = ch
	}
	return ch
}

// Tx is one transaction against a Store. It is not safe for concurrent use, in
// the same way a pgx.Tx is not.
type Tx struct {
	store *Store
	done  bool

	held map[string]struct{} // account locks owned by this tx

	// Staged writes, applied to the store on commit.
	accounts   map[string]domain.Account // new and updated accounts
	newIBANs   map[string]string         // iban -> account id
	cards      map[string]domain.Card    // new cards and PIN changes
	newNumbers map[string]string         // number -> card id
	entries    []domain.LedgerEntry
}

var _ portsrepo.TxHandle = (*Tx)(nil)

func (t *Tx) Accounts() portsrepo.AccountRepositoryFacade { return &accountRepository{tx: t} }
func (t *Tx) Cards() portsrepo.CardRepositoryFacade       { return &cardRepository{tx: t} }
func (t *Tx) Ledger() portsrepo.LedgerRepositoryFacade    { return &ledgerRepository{tx: t} }

// Commit publishes the staged writes and releases every lock. A uniqueness
// conflict with a transaction that committed first rolls this one back.
func (t *Tx) Commit(ctx context.Context) error {
	if t.done {
		return apperrors.NewAppError(500, "failed to commit transaction", ErrTxDone)
	}
	if err := ctx.Err(); err != nil {
		t.release()
		return apperrors.NewAppError(500, "failed to commit transaction", err)
	}

	s := t.store
	s.mu.Lock()
	if err := t.checkUnique(); err != nil {
		s.mu.Unlock()
		t.release()
		return err
	}

	for iban, id := range t.newIBANs {
		s.ibans[iban] = id
	}
	for id, a := range t.accounts {
		s.accounts[id] = a
	}
	for number, id := range t.newNumbers {
		s.cardNumbers[number] = id
	}
	for id, c := range t.cards {
		s.cards[id] = c
	}
	for _, e := range t.entries {
		s.entries = append(s.entries, e)
		if e.IdempotencyKey != nil {
			s.idemKeys[*e.IdempotencyKey] = len(s.entries) - 1
		}
	}
	s.mu.Unlock()

	t.release()
	return nil
}

// Rollback discards the staged writes and releases every lock.
func (t *Tx) Rollback(ctx context.Context) error {
	if t.done {
		return nil
	}
	t.release()
	return nil
}

func (t *Tx) checkUnique() error {
	s := t.store
	for iban := range t.newIBANs {
		if _, taken := s.ibans[iban]; taken {
			return fmt.Errorf("%w: iban %s", apperrors.ErrDuplicate, iban)
		}
	}
	for number := range t.newNumbers {
		if _, taken := s.cardNumbers[number]; taken {
			return fmt.Errorf("%w: card %s", apperrors.ErrDuplicate, domain.MaskCardNumber(number))
		}
	}
	for _, e := range t.entries {
		if e.IdempotencyKey == nil {
			continue
		}
		if _, taken := s.idemKeys[*e.IdempotencyKey]; taken {
			return fmt.Errorf("%w: idempotency key", apperrors.ErrDuplicate)
		}
	}
	return nil
}

// release drops every staged write and frees the locks.
func (t *Tx) release() {
	t.done = true
	for id := range t.held {
		t.store.mu.Lock()
		ch := t.store.lockFor(id)
		t.store.mu.Unlock()
		<-ch
	}
	t.held = nil
	t.accounts = nil
	t.cards = nil
	t.entries = nil
	t.newIBANs = nil
	t.newNumbers = nil
}

// acquire takes the locks of ids in ascending order, waiting until each one is
// free or ctx is done. Locks already held by t are skipped.
func (t *Tx) acquire(ctx context.Context, ids []string) error {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	for _, id := range sorted {
		if _, ok := t.held[id]; ok {
			continue
		}
		t.store.mu.Lock()
		ch := t.store.lockFor(id)
		t.store.mu.Unlock()

		select {
		case ch <- struct{}{}:
			t.held[id] = struct{}{}
		case <-ctx.Done():
			return fmt.Errorf("failed to lock account %s: %w", id, ctx.Err())
		}
	}
	return nil
}

func (t *Tx) usable() error {
	if t.done {
		return ErrTxDone
	}
	return nil
}

// account returns the account as this transaction sees it. Callers hold store.mu.
func (t *Tx) account(id string) (domain.Account, bool) {
	if a, ok := t.accounts[id]; ok {
		return a, true
	}
	a, ok := t.store.accounts[id]
	return a, ok
}
