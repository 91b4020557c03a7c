package services_test

import (
	"context"
	"sync"
	"testing"

	"github.com/SscSPs/bank_core/internal/apperrors"
	"github.com/SscSPs/bank_core/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_core/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bank_core/internal/core/ports/services"
	"github.com/SscSPs/bank_core/internal/core/services"
	"github.com/SscSPs/bank_core/internal/core/uow"
	"github.com/SscSPs/bank_core/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type MoneyMovementTestSuite struct {
	suite.Suite
	store  *memory.Store
	seed   ledgerSeeder
	rates  *staticRates
	engine portssvc.MoneyMovementEngine
	ctx    context.Context
}

func (s *MoneyMovementTestSuite) SetupTest() {
	s.store = memory.NewStore()
	s.seed = ledgerSeeder{t: s.T(), store: s.store}
	s.rates = newStaticRates()
	s.engine = services.NewMoneyMovementEngine(s.rates, services.WithClock(fixedClock))
	s.ctx = context.Background()
}

func TestMoneyMovementTestSuite(t *testing.T) {
	suite.Run(t, new(MoneyMovementTestSuite))
}

func (s *MoneyMovementTestSuite) transfer(manager portsrepo.TransactionManager, cmd domain.TransferCommand) (*domain.LedgerEntry, error) {
	return uow.Do(s.ctx, manager, func(ctx context.Context, c *uow.Coordinator) (*domain.LedgerEntry, error) {
		return s.engine.Transfer(ctx, c, cmd)
	})
}

func dec(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func (s *MoneyMovementTestSuite) TestTransfer_DifferentOwnersChargesFee() {
	s.seed.account("a1", "alice", domain.GEL, "200")
	s.seed.account("b2", "bob", domain.GEL, "0")

	entry, err := s.transfer(s.store, domain.TransferCommand{CallerID: "alice", FromAccountID: "a1", ToAccountID: "b2", Amount: dec("100")})

	s.Require().NoError(err)
	s.True(dec("1.5").Equal(entry.Fee), "fee = 1%% + 0.50, got %s", entry.Fee)
	s.True(dec("98.5").Equal(s.seed.balance("a1")))
	s.True(dec("100").Equal(s.seed.balance("b2")))
	s.Equal(domain.KindTransfer, entry.Kind)
	s.Require().NotNil(entry.DestinationAccountID)
	s.Equal("b2", *entry.DestinationAccountID)
	s.Equal(fixedNow, entry.CreatedAt)
}

func (s *MoneyMovementTestSuite) TestTransfer_SameOwnerNoFee() {
	s.seed.account("a1", "alice", domain.GEL, "100")
	s.seed.account("a2", "alice", domain.GEL, "0")

	entry, err := s.transfer(s.store, domain.TransferCommand{CallerID: "alice", FromAccountID: "a1", ToAccountID: "a2", Amount: dec("100")})

	s.Require().NoError(err)
	s.True(entry.Fee.IsZero())
	s.True(s.seed.balance("a1").IsZero())
	s.True(dec("100").Equal(s.seed.balance("a2")))
}

func (s *MoneyMovementTestSuite) TestTransfer_CrossCurrency() {
	s.seed.account("a1", "alice", domain.USD, "100")
	s.seed.account("a2", "alice", domain.EUR, "0")

	entry, err := s.transfer(s.store, domain.TransferCommand{CallerID: "alice", FromAccountID: "a1", ToAccountID: "a2", Amount: dec("100")})

	s.Require().NoError(err)
	s.True(dec("90").Equal(entry.CreditedAmount))
	s.Equal(domain.EUR, entry.CreditedCurrency)
	s.Equal(domain.USD, entry.CurrencyCode)
	s.True(dec("90").Equal(s.seed.balance("a2")))

	// Both legs are worth the same in GEL: 100 USD * 2.70 == 90 EUR * 3.00.
	debited := entry.Amount.Mul(s.rates.rates[domain.USD])
	credited := entry.CreditedAmount.Mul(s.rates.rates[domain.EUR])
	s.True(debited.Equal(credited), "debited %s GEL, credited %s GEL", debited, credited)
}

// Fee retention: the source loses amount+fee, the destination gains amount, and
// the difference is exactly the recorded fee.
func (s *MoneyMovementTestSuite) TestTransfer_ConservationWithFee() {
	s.seed.account("a1", "alice", domain.GEL, "1000")
	s.seed.account("b2", "bob", domain.GEL, "500")

	amounts := []string{"10", "0.01", "33.33", "250"}
	totalFee := decimal.Zero
	for _, a := range amounts {
		entry, err := s.transfer(s.store, domain.TransferCommand{CallerID: "alice", FromAccountID: "a1", ToAccountID: "b2", Amount: dec(a)})
		s.Require().NoError(err)
		totalFee = totalFee.Add(entry.Fee)
	}

	after := s.seed.balance("a1").Add(s.seed.balance("b2"))
	s.True(dec("1500").Sub(totalFee).Equal(after), "total %s fee %s", after, totalFee)

	// Balances are reconstructable from the ledger.
	for id, start := range map[string]string{"a1": "1000", "b2": "500"} {
		sum := dec(start)
		for _, e := range s.seed.entries(id) {
			sum = sum.Add(e.BalanceEffect(id))
		}
		s.True(s.seed.balance(id).Equal(sum), "account %s", id)
	}
}

func (s *MoneyMovementTestSuite) TestTransfer_Rejections() {
	s.seed.account("a1", "alice", domain.GEL, "100")
	s.seed.account("b2", "bob", domain.GEL, "0")
	s.seed.write(func(ctx context.Context, tx portsrepo.TxHandle) error {
		return tx.Accounts().SaveAccount(ctx, domain.Account{
			AccountID: "c3", IBAN: "GE29NB0000000000000099", OwnerID: "bob",
			CurrencyCode: domain.GEL, Balance: decimal.Zero, IsActive: false,
		})
	})

	tests := []struct {
		name     string
		cmd      domain.TransferCommand
		wantKind apperrors.Kind
		wantMsg  string
	}{
		{name: "same account", cmd: domain.TransferCommand{CallerID: "alice", FromAccountID: "a1", ToAccountID: "a1", Amount: dec("1")}, wantKind: apperrors.KindValidation},
		{name: "zero amount", cmd: domain.TransferCommand{CallerID: "alice", FromAccountID: "a1", ToAccountID: "b2", Amount: decimal.Zero}, wantKind: apperrors.KindValidation},
		{name: "negative amount", cmd: domain.TransferCommand{CallerID: "alice", FromAccountID: "a1", ToAccountID: "b2", Amount: dec("-5")}, wantKind: apperrors.KindValidation},
		{name: "three decimals", cmd: domain.TransferCommand{CallerID: "alice", FromAccountID: "a1", ToAccountID: "b2", Amount: dec("1.001")}, wantKind: apperrors.KindValidation},
		{name: "missing destination", cmd: domain.TransferCommand{CallerID: "alice", FromAccountID: "a1", ToAccountID: "zz", Amount: dec("1")}, wantKind: apperrors.KindNotFound},
		{name: "foreign source", cmd: domain.TransferCommand{CallerID: "bob", FromAccountID: "a1", ToAccountID: "b2", Amount: dec("1")}, wantKind: apperrors.KindForbidden},
		{name: "inactive destination", cmd: domain.TransferCommand{CallerID: "alice", FromAccountID: "a1", ToAccountID: "c3", Amount: dec("1")}, wantKind: apperrors.KindValidation, wantMsg: "account inactive"},
		{name: "fee pushes over balance", cmd: domain.TransferCommand{CallerID: "alice", FromAccountID: "a1", ToAccountID: "b2", Amount: dec("100")}, wantKind: apperrors.KindValidation, wantMsg: "insufficient balance"},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.transfer(s.store, tt.cmd)
			s.Require().Error(err)
			s.Equal(tt.wantKind, apperrors.KindOf(err), err.Error())
			if tt.wantMsg != "" {
				s.Contains(err.Error(), tt.wantMsg)
			}
			s.True(dec("100").Equal(s.seed.balance("a1")), "rejected transfer must not move money")
			s.True(s.seed.balance("b2").IsZero())
		})
	}
}

func (s *MoneyMovementTestSuite) TestTransfer_RateFailureLeavesBalances() {
	s.seed.account("a1", "alice", domain.USD, "100")
	s.seed.account("a2", "alice", domain.EUR, "0")
	s.rates.err = apperrors.ErrFailure

	_, err := s.transfer(s.store, domain.TransferCommand{CallerID: "alice", FromAccountID: "a1", ToAccountID: "a2", Amount: dec("10")})

	s.Equal(apperrors.KindFailure, apperrors.KindOf(err))
	s.True(dec("100").Equal(s.seed.balance("a1")))
}

func (s *MoneyMovementTestSuite) TestTransfer_FailedLedgerAppendRollsBack() {
	s.seed.account("a1", "alice", domain.GEL, "100")
	s.seed.account("b2", "bob", domain.GEL, "0")

	_, err := s.transfer(failingLedgerManager{inner: s.store}, domain.TransferCommand{CallerID: "alice", FromAccountID: "a1", ToAccountID: "b2", Amount: dec("10")})

	s.ErrorIs(err, errLedgerDown)
	s.True(dec("100").Equal(s.seed.balance("a1")))
	s.True(s.seed.balance("b2").IsZero())
}

func (s *MoneyMovementTestSuite) TestTransfer_IdempotentReplay() {
	s.seed.account("a1", "alice", domain.GEL, "100")
	s.seed.account("b2", "bob", domain.GEL, "0")
	key := "req-42"
	cmd := domain.TransferCommand{CallerID: "alice", FromAccountID: "a1", ToAccountID: "b2", Amount: dec("10"), IdempotencyKey: &key}

	first, err := s.transfer(s.store, cmd)
	s.Require().NoError(err)
	second, err := s.transfer(s.store, cmd)
	s.Require().NoError(err)

	s.Equal(first.EntryID, second.EntryID)
	s.True(dec("89.4").Equal(s.seed.balance("a1")), "replay must not debit twice")
	s.Len(s.seed.entries("a1"), 1)
}

func (s *MoneyMovementTestSuite) TestTransfer_IdempotencyKeyReusedForOtherSource() {
	s.seed.account("a1", "alice", domain.GEL, "100")
	s.seed.account("a3", "alice", domain.GEL, "100")
	s.seed.account("b2", "bob", domain.GEL, "0")
	key := "req-7"

	_, err := s.transfer(s.store, domain.TransferCommand{CallerID: "alice", FromAccountID: "a1", ToAccountID: "b2", Amount: dec("1"), IdempotencyKey: &key})
	s.Require().NoError(err)
	_, err = s.transfer(s.store, domain.TransferCommand{CallerID: "alice", FromAccountID: "a3", ToAccountID: "b2", Amount: dec("1"), IdempotencyKey: &key})

	s.Equal(apperrors.KindConflict, apperrors.KindOf(err))
	s.True(dec("100").Equal(s.seed.balance("a3")))
}

func (s *MoneyMovementTestSuite) TestWithdrawDeposit() {
	s.seed.account("a1", "alice", domain.GEL, "100")
	card := domain.AuthorizedCard{CardID: "card-1", AccountID: "a1", OwnerID: "alice", Masked: "************0008"}

	cash := func(withdraw bool, amount string) (*domain.LedgerEntry, error) {
		return uow.Do(s.ctx, s.store, func(ctx context.Context, c *uow.Coordinator) (*domain.LedgerEntry, error) {
			if withdraw {
				return s.engine.Withdraw(ctx, c, card, dec(amount))
			}
			return s.engine.Deposit(ctx, c, card, dec(amount))
		})
	}

	entry, err := cash(true, "40")
	s.Require().NoError(err)
	s.Equal(domain.KindWithdrawal, entry.Kind)
	s.Nil(entry.DestinationAccountID)
	s.True(entry.Fee.IsZero())
	s.True(dec("60").Equal(s.seed.balance("a1")))

	_, err = cash(true, "61")
	s.Equal(apperrors.KindValidation, apperrors.KindOf(err))
	s.Contains(err.Error(), "insufficient balance")

	_, err = cash(true, "60")
	s.Require().NoError(err, "withdrawing the exact balance is allowed")
	s.True(s.seed.balance("a1").IsZero())

	_, err = cash(false, "10.50")
	s.Equal(apperrors.KindValidation, apperrors.KindOf(err), "cash must be whole units")

	_, err = cash(false, "0")
	s.Equal(apperrors.KindValidation, apperrors.KindOf(err))

	entry, err = cash(false, "25")
	s.Require().NoError(err)
	s.Equal(domain.KindDeposit, entry.Kind)
	s.True(dec("25").Equal(s.seed.balance("a1")))

	_, err = cash(false, "1000000000000000000")
	s.Equal(apperrors.KindValidation, apperrors.KindOf(err), "deposit beyond representable balance")
}

func TestMoneyMovement_ConcurrentWithdrawalsNeverOverdraw(t *testing.T) {
	store := memory.NewStore()
	seed := ledgerSeeder{t: t, store: store}
	seed.account("a1", "alice", domain.GEL, "100")
	engine := services.NewMoneyMovementEngine(newStaticRates())
	card := domain.AuthorizedCard{CardID: "card-1", AccountID: "a1", OwnerID: "alice"}

	const attempts = 40
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uow.Do(context.Background(), store, func(ctx context.Context, c *uow.Coordinator) (*domain.LedgerEntry, error) {
				return engine.Withdraw(ctx, c, card, decimal.NewFromInt(7))
			})
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
				return
			}
			assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
		}()
	}
	wg.Wait()

	assert.Equal(t, 14, succeeded, "100 / 7 withdrawals fit")
	assert.True(t, decimal.NewFromInt(2).Equal(seed.balance("a1")))
	assert.False(t, seed.balance("a1").IsNegative())
	assert.Len(t, seed.entries("a1"), 14)
}

func TestMoneyMovement_ConcurrentOpposingTransfersConserve(t *testing.T) {
	store := memory.NewStore()
	seed := ledgerSeeder{t: t, store: store}
	seed.account("a1", "alice", domain.GEL, "500")
	seed.account("a2", "alice", domain.GEL, "500")
	engine := services.NewMoneyMovementEngine(newStaticRates())

	var wg sync.WaitGroup
	for i := 0; i < 60; i++ {
		from, to := "a1", "a2"
		if i%2 == 1 {
			from, to = to, from
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uow.Do(context.Background(), store, func(ctx context.Context, c *uow.Coordinator) (*domain.LedgerEntry, error) {
				return engine.Transfer(ctx, c, domain.TransferCommand{CallerID: "alice", FromAccountID: from, ToAccountID: to, Amount: decimal.NewFromInt(13)})
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	total := seed.balance("a1").Add(seed.balance("a2"))
	require.True(t, decimal.NewFromInt(1000).Equal(total), "got %s", total)
}
