package domain

import (
	"strings"
	"time"
)

// CardNumberLength is the length of card numbers issued by the bank.
const CardNumberLength = 16

// Card is a payment card linked to exactly one account.
// PIN and CVV never leave the domain in clear text.
type Card struct {
	CardID         string    `json:"cardID"`
	CardNumber     string    `json:"-"` // Unique; exposed only masked
	PINHash        string    `json:"-"` // bcrypt, salt embedded
	CVVEncrypted   []byte    `json:"-"` // AES-256-GCM nonce||ciphertext
	ExpirationDate time.Time `json:"expirationDate"`
	AccountID      string    `json:"accountID"`
	OwnerID        string    `json:"ownerID"`
	IsActive       bool      `json:"isActive"`
	AuditFields
}

// IsExpired reports whether the card's expiration date lies before now.
func (c Card) IsExpired(now time.Time) bool {
	return c.ExpirationDate.Before(now)
}

// MaskedNumber returns the card number with all but the last four digits hidden.
func (c Card) MaskedNumber() string {
	return MaskCardNumber(c.CardNumber)
}

// MaskCardNumber hides all but the last four digits of number. Safe for logs.
func MaskCardNumber(number string) string {
	if len(number) <= 4 {
		return strings.Repeat("*", len(number))
	}
	return strings.Repeat("*", len(number)-4) + number[len(number)-4:]
}

// AuthorizedCard is the proof that a card passed authorization for one operation.
type AuthorizedCard struct {
	CardID    string
	AccountID string
	OwnerID   string
	Masked    string
}

// NormalizeCardNumber removes spaces and dashes.
func NormalizeCardNumber(number string) string {
	clean := strings.ReplaceAll(number, " ", "")
	return strings.ReplaceAll(clean, "-", "")
}

// PassesLuhn implements the standard Mod 10 check used by all card networks.
func PassesLuhn(number string) bool {
	if number == "" {
		return false
	}
	sum := 0
	alternate := false
	for i := len(number) - 1; i >= 0; i-- {
		ch := number[i]
		if ch < '0' || ch > '9' {
			return false
		}
		n := int(ch - '0')
		if alternate {
			n *= 2
			if n > 9 {
				n -= 9
			}
		}
		sum += n
		alternate = !alternate
	}
	return sum%10 == 0
}

// LuhnCheckDigit returns the digit that makes payload+digit pass the Luhn check.
func LuhnCheckDigit(payload string) byte {
	sum := 0
	alternate := true
	for i := len(payload) - 1; i >= 0; i-- {
		n := int(payload[i] - '0')
		if alternate {
			n *= 2
			if n > 9 {
				n -= 9
			}
		}
		sum += n
		alternate = !alternate
	}
	return byte('0' + (10-sum%10)%10)
}

// IsValidPIN reports whether pin is exactly four digits.
func IsValidPIN(pin string) bool {
	return len(pin) == 4 && isDigits(pin)
}

// IssuedCard is returned once at issuance. It is the only time the full number
// and the clear CVV are handed out.
type IssuedCard struct {
	Card       Card   `json:"card"`
	CardNumber string `json:"cardNumber"`
	CVV        string `json:"cvv"`
}
