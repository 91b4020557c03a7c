package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/SscSPs/bank_core/internal/apperrors"
	"github.com/SscSPs/bank_core/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_core/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bank_core/internal/core/ports/services"
	"github.com/SscSPs/bank_core/internal/core/services"
	"github.com/SscSPs/bank_core/internal/core/uow"
	"github.com/SscSPs/bank_core/internal/dto"
	"github.com/SscSPs/bank_core/internal/repositories/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type AccountServiceTestSuite struct {
	suite.Suite
	store    *memory.Store
	seed     ledgerSeeder
	accounts portssvc.AccountSvcFacade
	ctx      context.Context
}

func (s *AccountServiceTestSuite) SetupTest() {
	s.store = memory.NewStore()
	s.seed = ledgerSeeder{t: s.T(), store: s.store}
	s.accounts = services.NewAccountService(s.store, services.WithClock(fixedClock))
	s.ctx = context.Background()
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}

func (s *AccountServiceTestSuite) TestOpenAccount() {
	account, err := s.accounts.OpenAccount(s.ctx, "alice", dto.OpenAccountRequest{CurrencyCode: domain.USD})

	s.Require().NoError(err)
	s.NoError(domain.ValidateIBAN(account.IBAN))
	s.True(strings.HasPrefix(account.IBAN, "GE"))
	s.Equal("NB", account.IBAN[4:6])
	s.Len(account.IBAN, 22)
	s.True(account.Balance.IsZero())
	s.True(account.IsActive)
	s.Equal(fixedNow, account.CreatedAt)

	stored, err := s.accounts.GetAccount(s.ctx, "alice", account.AccountID)
	s.Require().NoError(err)
	s.Equal(account.IBAN, stored.IBAN)
}

func (s *AccountServiceTestSuite) TestOpenAccount_Validation() {
	_, err := s.accounts.OpenAccount(s.ctx, "alice", dto.OpenAccountRequest{CurrencyCode: "JPY"})
	s.Equal(apperrors.KindValidation, apperrors.KindOf(err))

	_, err = s.accounts.OpenAccount(s.ctx, "", dto.OpenAccountRequest{CurrencyCode: domain.GEL})
	s.Equal(apperrors.KindValidation, apperrors.KindOf(err))
}

func (s *AccountServiceTestSuite) TestGetAccount_ForeignOwnerForbidden() {
	s.seed.account("a1", "alice", domain.GEL, "10")

	_, err := s.accounts.GetAccount(s.ctx, "bob", "a1")
	s.Equal(apperrors.KindForbidden, apperrors.KindOf(err))

	_, err = s.accounts.GetAccount(s.ctx, "alice", "nope")
	s.Equal(apperrors.KindNotFound, apperrors.KindOf(err))
}

func (s *AccountServiceTestSuite) TestListAccounts() {
	s.seed.account("a1", "alice", domain.GEL, "10")
	s.seed.account("a2", "alice", domain.EUR, "0")
	s.seed.account("b3", "bob", domain.GEL, "0")

	list, err := s.accounts.ListAccounts(s.ctx, "alice")
	s.Require().NoError(err)
	s.Len(list, 2)

	empty, err := s.accounts.ListAccounts(s.ctx, "carol")
	s.Require().NoError(err)
	s.NotNil(empty)
	s.Empty(empty)
}

func (s *AccountServiceTestSuite) TestGetStatement() {
	s.seed.account("a1", "alice", domain.GEL, "1000")
	s.seed.account("b2", "bob", domain.GEL, "0")
	engine := services.NewMoneyMovementEngine(newStaticRates())
	for i := 0; i < 5; i++ {
		_, err := uow.Do(s.ctx, s.store, func(ctx context.Context, c *uow.Coordinator) (*domain.LedgerEntry, error) {
			return engine.Transfer(ctx, c, domain.TransferCommand{CallerID: "alice", FromAccountID: "a1", ToAccountID: "b2", Amount: dec("1")})
		})
		s.Require().NoError(err)
	}

	page, err := s.accounts.GetStatement(s.ctx, "alice", "a1", dto.ListStatementParams{Limit: 3})
	s.Require().NoError(err)
	s.Len(page.Entries, 3)
	s.Require().NotNil(page.NextToken)

	rest, err := s.accounts.GetStatement(s.ctx, "alice", "a1", dto.ListStatementParams{Limit: 3, NextToken: page.NextToken})
	s.Require().NoError(err)
	s.Len(rest.Entries, 2)
	s.Nil(rest.NextToken)

	// The destination sees the same entries.
	bobs, err := s.accounts.GetStatement(s.ctx, "bob", "b2", dto.ListStatementParams{})
	s.Require().NoError(err)
	s.Len(bobs.Entries, 5)

	_, err = s.accounts.GetStatement(s.ctx, "bob", "a1", dto.ListStatementParams{})
	s.Equal(apperrors.KindForbidden, apperrors.KindOf(err))
}

func (s *AccountServiceTestSuite) TestGetStatement_EmptyIsNotNil() {
	s.seed.account("a1", "alice", domain.GEL, "0")

	page, err := s.accounts.GetStatement(s.ctx, "alice", "a1", dto.ListStatementParams{})
	s.Require().NoError(err)
	s.NotNil(page.Entries)
	s.Empty(page.Entries)
}

// --- collidingManager fails SaveAccount with whatever the mock returns ---
type collidingManager struct {
	mock.Mock
	inner portsrepo.TransactionManager
}

type collidingTx struct {
	portsrepo.TxHandle
	m *collidingManager
}

type collidingAccounts struct {
	portsrepo.AccountRepositoryFacade
	m *collidingManager
}

func (m *collidingManager) BeginTx(ctx context.Context) (portsrepo.TxHandle, error) {
	tx, err := m.inner.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	return collidingTx{TxHandle: tx, m: m}, nil
}

func (t collidingTx) Accounts() portsrepo.AccountRepositoryFacade {
	return collidingAccounts{AccountRepositoryFacade: t.TxHandle.Accounts(), m: t.m}
}

func (a collidingAccounts) SaveAccount(ctx context.Context, account domain.Account) error {
	if err := a.m.MethodCalled("SaveAccount").Error(0); err != nil {
		return err
	}
	return a.AccountRepositoryFacade.SaveAccount(ctx, account)
}

func TestAccountService_OpenAccountRetriesIBANCollision(t *testing.T) {
	manager := &collidingManager{inner: memory.NewStore()}
	manager.On("SaveAccount").Return(apperrors.ErrDuplicate).Twice()
	manager.On("SaveAccount").Return(nil)
	svc := services.NewAccountService(manager)

	account, err := svc.OpenAccount(context.Background(), "alice", dto.OpenAccountRequest{CurrencyCode: domain.GEL})

	require.NoError(t, err)
	assert.NotEmpty(t, account.IBAN)
	manager.AssertNumberOfCalls(t, "SaveAccount", 3)
}

func TestAccountService_OpenAccountGivesUpAfterRepeatedCollisions(t *testing.T) {
	manager := &collidingManager{inner: memory.NewStore()}
	manager.On("SaveAccount").Return(apperrors.ErrDuplicate)
	svc := services.NewAccountService(manager)

	_, err := svc.OpenAccount(context.Background(), "alice", dto.OpenAccountRequest{CurrencyCode: domain.GEL})

	assert.Equal(t, apperrors.KindFailure, apperrors.KindOf(err))
	assert.False(t, errors.Is(err, apperrors.ErrDuplicate))
}
