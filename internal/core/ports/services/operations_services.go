package services

import (
	"context"

	"github.com/SscSPs/bank_core/internal/core/domain"
	"github.com/SscSPs/bank_core/internal/dto"
)

// TransferSvc defines account-to-account money movement
type TransferSvc interface {
	// Transfer moves money from an account owned by callerID.
	Transfer(ctx context.Context, callerID string, req dto.TransferRequest) (*domain.LedgerEntry, error)
}

// ATMSvc defines the card-authorized operations
type ATMSvc interface {
	// Withdraw takes cash out of the card's account.
	Withdraw(ctx context.Context, req dto.CardAmountRequest) (*domain.LedgerEntry, error)

	// Deposit puts cash into the card's account.
	Deposit(ctx context.Context, req dto.CardAmountRequest) (*domain.LedgerEntry, error)

	// ShowBalance returns the balance of the card's account.
	ShowBalance(ctx context.Context, req dto.CardCredentials) (*domain.BalanceView, error)

	// ChangePin replaces the card's PIN after authorizing with the current one.
	ChangePin(ctx context.Context, req dto.ChangePinRequest) error
}

// OperationsSvcFacade combines all public money operations
type OperationsSvcFacade interface {
	TransferSvc
	ATMSvc
}
