package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/bank_core/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_core/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bank_core/internal/core/ports/services"
	"github.com/SscSPs/bank_core/internal/repositories/memory"
	"github.com/SscSPs/bank_core/internal/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

// --- Mock RateSource ---
type MockRateSource struct {
	mock.Mock
}

var _ portssvc.RateSource = (*MockRateSource)(nil)

func (m *MockRateSource) FetchRate(ctx context.Context, currency domain.CurrencyCode) (decimal.Decimal, error) {
	args := m.Called(ctx, currency)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// --- Mock ExchangeRateRecorder ---
type MockRateRecorder struct {
	mock.Mock
}

var _ portsrepo.ExchangeRateRecorder = (*MockRateRecorder)(nil)

func (m *MockRateRecorder) SaveSnapshot(ctx context.Context, snapshot domain.ExchangeRateSnapshot) error {
	args := m.Called(ctx, snapshot)
	return args.Error(0)
}

// --- Mock CardReader ---
type MockCardReader struct {
	mock.Mock
}

var _ portsrepo.CardReader = (*MockCardReader)(nil)

func (m *MockCardReader) FindCardByNumber(ctx context.Context, cardNumber string) (*domain.Card, error) {
	args := m.Called(ctx, cardNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Card), args.Error(1)
}

// staticRates converts with a fixed table using the same formulas as the cache.
type staticRates struct {
	rates map[domain.CurrencyCode]decimal.Decimal
	err   error
}

var _ portssvc.ExchangeRateSvc = (*staticRates)(nil)

func newStaticRates() *staticRates {
	return &staticRates{rates: map[domain.CurrencyCode]decimal.Decimal{
		domain.USD: decimal.RequireFromString("2.70"),
		domain.EUR: decimal.RequireFromString("3.00"),
	}}
}

func (r *staticRates) Snapshot(ctx context.Context) (*domain.ExchangeRateSnapshot, error) {
	if r.err != nil {
		return nil, r.err
	}
	return &domain.ExchangeRateSnapshot{Base: domain.BaseCurrency, Rates: r.rates, CapturedAt: fixedNow}, nil
}

func (r *staticRates) GetRate(ctx context.Context, currency domain.CurrencyCode) (decimal.Decimal, error) {
	s, err := r.Snapshot(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	rate, _ := s.Rate(currency)
	return rate, nil
}

func (r *staticRates) Convert(ctx context.Context, amount decimal.Decimal, from, to domain.CurrencyCode) (decimal.Decimal, error) {
	if from == to {
		return amount, nil
	}
	s, err := r.Snapshot(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	fromRate, _ := s.Rate(from)
	toRate, _ := s.Rate(to)
	var converted decimal.Decimal
	switch {
	case to == domain.BaseCurrency:
		converted = amount.Mul(fromRate)
	case from == domain.BaseCurrency:
		converted = amount.Div(toRate)
	default:
		converted = amount.Mul(fromRate).Div(toRate)
	}
	return domain.RoundToMinorUnit(converted, to), nil
}

// testPIN and its hash are shared so bcrypt only runs once per package.
const testPIN = "1234"

var (
	testPINHashOnce sync.Once
	testPINHashVal  string
)

func testPINHash(t *testing.T) string {
	t.Helper()
	testPINHashOnce.Do(func() {
		h, err := utils.HashPIN(testPIN)
		if err != nil {
			panic(err)
		}
		testPINHashVal = h
	})
	return testPINHashVal
}

// ledgerSeeder writes fixtures straight into a memory store.
type ledgerSeeder struct {
	t     *testing.T
	store *memory.Store
}

func (s ledgerSeeder) account(id, owner string, currency domain.CurrencyCode, balance string) domain.Account {
	s.t.Helper()
	iban, err := domain.NewIBAN(domain.IBANCountry, "NB"+padDigits(id))
	require.NoError(s.t, err)
	a := domain.Account{
		AccountID:    id,
		IBAN:         iban,
		OwnerID:      owner,
		CurrencyCode: currency,
		Balance:      decimal.RequireFromString(balance),
		IsActive:     true,
		AuditFields:  domain.AuditFields{CreatedAt: fixedNow, LastUpdatedAt: fixedNow},
	}
	s.write(func(ctx context.Context, tx portsrepo.TxHandle) error {
		return tx.Accounts().SaveAccount(ctx, a)
	})
	return a
}

func (s ledgerSeeder) card(id, number, accountID, owner string, expires time.Time, active bool) domain.Card {
	s.t.Helper()
	c := domain.Card{
		CardID:         id,
		CardNumber:     number,
		PINHash:        testPINHash(s.t),
		CVVEncrypted:   []byte("sealed"),
		ExpirationDate: expires,
		AccountID:      accountID,
		OwnerID:        owner,
		IsActive:       active,
		AuditFields:    domain.AuditFields{CreatedAt: fixedNow, LastUpdatedAt: fixedNow},
	}
	s.write(func(ctx context.Context, tx portsrepo.TxHandle) error {
		return tx.Cards().SaveCard(ctx, c)
	})
	return c
}

func (s ledgerSeeder) write(fn func(ctx context.Context, tx portsrepo.TxHandle) error) {
	s.t.Helper()
	ctx := context.Background()
	tx, err := s.store.BeginTx(ctx)
	require.NoError(s.t, err)
	require.NoError(s.t, fn(ctx, tx))
	require.NoError(s.t, tx.Commit(ctx))
}

func (s ledgerSeeder) balance(id string) decimal.Decimal {
	s.t.Helper()
	ctx := context.Background()
	tx, err := s.store.BeginTx(ctx)
	require.NoError(s.t, err)
	defer tx.Rollback(ctx)
	a, err := tx.Accounts().FindAccountByID(ctx, id)
	require.NoError(s.t, err)
	return a.Balance
}

func (s ledgerSeeder) entries(accountID string) []domain.LedgerEntry {
	s.t.Helper()
	ctx := context.Background()
	tx, err := s.store.BeginTx(ctx)
	require.NoError(s.t, err)
	defer tx.Rollback(ctx)
	entries, _, err := tx.Ledger().ListEntriesByAccount(ctx, accountID, 1000, nil)
	require.NoError(s.t, err)
	return entries
}

// padDigits turns a fixture id into the 16 digits of a test IBAN.
func padDigits(id string) string {
	digits := []byte("0000000000000000")
	for i := 0; i < len(id) && i < len(digits); i++ {
		digits[len(digits)-1-i] = '0' + id[len(id)-1-i]%10
	}
	return string(digits)
}

// failingLedgerManager wraps a store so that every ledger append fails after the
// balance update went through.
type failingLedgerManager struct {
	inner portsrepo.TransactionManager
}

type failingLedgerTx struct {
	portsrepo.TxHandle
}

type failingLedger struct {
	portsrepo.LedgerRepositoryFacade
}

var errLedgerDown = errors.New("ledger write failed")

func (m failingLedgerManager) BeginTx(ctx context.Context) (portsrepo.TxHandle, error) {
	tx, err := m.inner.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	return failingLedgerTx{TxHandle: tx}, nil
}

func (t failingLedgerTx) Ledger() portsrepo.LedgerRepositoryFacade {
	return failingLedger{LedgerRepositoryFacade: t.TxHandle.Ledger()}
}

func (failingLedger) AppendEntry(ctx context.Context, entry domain.LedgerEntry) error {
	return errLedgerDown
}
