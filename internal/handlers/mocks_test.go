package handlers_test

import (
	"context"

	"github.com/SscSPs/bank_core/internal/core/domain"
	portssvc "github.com/SscSPs/bank_core/internal/core/ports/services"
	"github.com/SscSPs/bank_core/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock OperationsService ---
type MockOperationsService struct {
	mock.Mock
}

var _ portssvc.OperationsSvcFacade = (*MockOperationsService)(nil)

func (m *MockOperationsService) Transfer(ctx context.Context, callerID string, req dto.TransferRequest) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, callerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}

func (m *MockOperationsService) Withdraw(ctx context.Context, req dto.CardAmountRequest) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}

func (m *MockOperationsService) Deposit(ctx context.Context, req dto.CardAmountRequest) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}

func (m *MockOperationsService) ShowBalance(ctx context.Context, req dto.CardCredentials) (*domain.BalanceView, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BalanceView), args.Error(1)
}

func (m *MockOperationsService) ChangePin(ctx context.Context, req dto.ChangePinRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

func (m *MockAccountService) OpenAccount(ctx context.Context, ownerID string, req dto.OpenAccountRequest) (*domain.Account, error) {
	args := m.Called(ctx, ownerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccount(ctx context.Context, ownerID string, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, ownerID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, ownerID string) ([]domain.Account, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountService) GetStatement(ctx context.Context, ownerID string, accountID string, req dto.ListStatementParams) (*domain.LedgerPage, error) {
	args := m.Called(ctx, ownerID, accountID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerPage), args.Error(1)
}

// --- Mock CardService ---
type MockCardService struct {
	mock.Mock
}

var _ portssvc.CardSvcFacade = (*MockCardService)(nil)

func (m *MockCardService) IssueCard(ctx context.Context, ownerID string, req dto.IssueCardRequest) (*domain.IssuedCard, error) {
	args := m.Called(ctx, ownerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IssuedCard), args.Error(1)
}

// --- Mock ExchangeRateService ---
type MockExchangeRateService struct {
	mock.Mock
}

var _ portssvc.ExchangeRateSvc = (*MockExchangeRateService)(nil)

func (m *MockExchangeRateService) GetRate(ctx context.Context, currency domain.CurrencyCode) (decimal.Decimal, error) {
	args := m.Called(ctx, currency)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockExchangeRateService) Convert(ctx context.Context, amount decimal.Decimal, from domain.CurrencyCode, to domain.CurrencyCode) (decimal.Decimal, error) {
	args := m.Called(ctx, amount, from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockExchangeRateService) Snapshot(ctx context.Context) (*domain.ExchangeRateSnapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRateSnapshot), args.Error(1)
}
