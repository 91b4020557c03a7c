package models

import "time"

// Card is a row of the cards table.
type Card struct {
	CardID         string    `db:"card_id"`
	CardNumber     string    `db:"card_number"`
	PINHash        string    `db:"pin_hash"`
	CVVEncrypted   []byte    `db:"cvv_encrypted"`
	ExpirationDate time.Time `db:"expiration_date"`
	AccountID      string    `db:"account_id"`
	OwnerID        string    `db:"owner_id"`
	IsActive       bool      `db:"is_active"`
	AuditFields
}
