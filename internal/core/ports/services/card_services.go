package services

import (
	"context"

	"github.com/SscSPs/bank_core/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_core/internal/core/ports/repositories"
	"github.com/SscSPs/bank_core/internal/dto"
)

// CardAuthorizerSvc verifies card credentials against the store.
type CardAuthorizerSvc interface {
	// Authorize checks existence, PIN, expiry and active flag, in that order.
	// It reads through cards, which must be bound to the caller's transaction.
	Authorize(ctx context.Context, cards portsrepo.CardReader, cardNumber string, pin string) (*domain.AuthorizedCard, error)
}

// CardIssuerSvc defines card issuance
type CardIssuerSvc interface {
	// IssueCard creates a card for an account owned by ownerID.
	IssueCard(ctx context.Context, ownerID string, req dto.IssueCardRequest) (*domain.IssuedCard, error)
}

// CardSvcFacade combines all card-related service interfaces
type CardSvcFacade interface {
	CardIssuerSvc
}
