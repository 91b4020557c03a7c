package dto

import (
	"time"

	"github.com/SscSPs/bank_core/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CardCredentials identifies and authorizes a card.
type CardCredentials struct {
	CardNumber string `json:"cardNumber" binding:"required,cardnumber"`
	PIN        string `json:"pin" binding:"required,pin"`
}

// CardAmountRequest defines an ATM withdrawal or deposit.
type CardAmountRequest struct {
	CardCredentials
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// ChangePinRequest defines a PIN change authorized by the current PIN.
type ChangePinRequest struct {
	CardCredentials
	NewPIN string `json:"newPin" binding:"required,pin"`
}

// IssueCardRequest defines the data needed to issue a card.
type IssueCardRequest struct {
	AccountID string `json:"accountID" binding:"required,uuid"`
	PIN       string `json:"pin" binding:"required,pin"`
}

// IssuedCardResponse is returned once at issuance.
type IssuedCardResponse struct {
	CardID         string    `json:"cardID"`
	AccountID      string    `json:"accountID"`
	CardNumber     string    `json:"cardNumber"`
	CVV            string    `json:"cvv"`
	ExpirationDate time.Time `json:"expirationDate"`
}

// ToIssuedCardResponse converts a domain.IssuedCard to IssuedCardResponse DTO.
func ToIssuedCardResponse(c *domain.IssuedCard) IssuedCardResponse {
	return IssuedCardResponse{
		CardID:         c.Card.CardID,
		AccountID:      c.Card.AccountID,
		CardNumber:     c.CardNumber,
		CVV:            c.CVV,
		ExpirationDate: c.Card.ExpirationDate,
	}
}
