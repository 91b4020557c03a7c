package mapping

import (
	"github.com/SscSPs/bank_core/internal/core/domain"
	"github.com/SscSPs/bank_core/internal/models"
)

// ToModelCard converts a domain Card to a model Card
func ToModelCard(d domain.Card) models.Card {
	return models.Card{
		CardID:         d.CardID,
		CardNumber:     d.CardNumber,
		PINHash:        d.PINHash,
		CVVEncrypted:   d.CVVEncrypted,
		ExpirationDate: d.ExpirationDate,
		AccountID:      d.AccountID,
		OwnerID:        d.OwnerID,
		IsActive:       d.IsActive,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCard converts a model Card to a domain Card
func ToDomainCard(m models.Card) domain.Card {
	return domain.Card{
		CardID:         m.CardID,
		CardNumber:     m.CardNumber,
		PINHash:        m.PINHash,
		CVVEncrypted:   m.CVVEncrypted,
		ExpirationDate: m.ExpirationDate,
		AccountID:      m.AccountID,
		OwnerID:        m.OwnerID,
		IsActive:       m.IsActive,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}
