package mapping

import (
	"github.com/SscSPs/bank_core/internal/core/domain"
	"github.com/SscSPs/bank_core/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:    d.AccountID,
		IBAN:         d.IBAN,
		OwnerID:      d.OwnerID,
		CurrencyCode: string(d.CurrencyCode),
		Balance:      d.Balance,
		IsActive:     d.IsActive,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:    m.AccountID,
		IBAN:         m.IBAN,
		OwnerID:      m.OwnerID,
		CurrencyCode: domain.CurrencyCode(m.CurrencyCode),
		Balance:      m.Balance,
		IsActive:     m.IsActive,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}
