package domain

import (
	"fmt"
	"strings"

	"github.com/SscSPs/bank_core/internal/apperrors"
)

// IBANCountry is the country prefix of IBANs issued by this bank.
const IBANCountry = "GE"

// ibanLengths holds the fixed IBAN length for countries we expect to see.
// Other countries are accepted within the ISO 13616 bounds.
var ibanLengths = map[string]int{
	"GE": 22,
	"DE": 22,
	"GB": 22,
	"FR": 27,
	"NL": 18,
}

const (
	minIBANLength = 15
	maxIBANLength = 34
)

// NormalizeIBAN strips spaces and upper-cases s.
func NormalizeIBAN(s string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
}

// ValidateIBAN checks structure, length, and the mod-97 checksum of an IBAN.
func ValidateIBAN(s string) error {
	iban := NormalizeIBAN(s)
	if len(iban) < minIBANLength || len(iban) > maxIBANLength {
		return fmt.Errorf("%w: IBAN length %d out of range", apperrors.ErrValidation, len(iban))
	}
	country := iban[:2]
	if !isUpperAlpha(country) || !isDigits(iban[2:4]) {
		return fmt.Errorf("%w: IBAN must start with a country code and two check digits", apperrors.ErrValidation)
	}
	if want, ok := ibanLengths[country]; ok && len(iban) != want {
		return fmt.Errorf("%w: IBAN for %s must be %d characters", apperrors.ErrValidation, country, want)
	}
	for _, r := range iban[4:] {
		if !isAlnum(r) {
			return fmt.Errorf("%w: IBAN contains invalid character %q", apperrors.ErrValidation, r)
		}
	}
	if mod97(iban[4:]+iban[:4]) != 1 {
		return fmt.Errorf("%w: IBAN checksum mismatch", apperrors.ErrValidation)
	}
	return nil
}

// NewIBAN builds a checksummed IBAN from a country code and a BBAN.
func NewIBAN(country, bban string) (string, error) {
	country = strings.ToUpper(country)
	bban = strings.ToUpper(bban)
	if len(country) != 2 || !isUpperAlpha(country) {
		return "", fmt.Errorf("%w: invalid country code %q", apperrors.ErrValidation, country)
	}
	for _, r := range bban {
		if !isAlnum(r) {
			return "", fmt.Errorf("%w: BBAN contains invalid character %q", apperrors.ErrValidation, r)
		}
	}
	check := 98 - mod97(bban+country+"00")
	iban := fmt.Sprintf("%s%02d%s", country, check, bban)
	if err := ValidateIBAN(iban); err != nil {
		return "", err
	}
	return iban, nil
}

// mod97 computes the ISO 7064 remainder, expanding letters to 10..35 on the fly.
func mod97(s string) int {
	rem := 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			rem = (rem*10 + int(r-'0')) % 97
		case r >= 'A' && r <= 'Z':
			rem = (rem*100 + int(r-'A') + 10) % 97
		}
	}
	return rem
}

func isUpperAlpha(s string) bool {
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func isAlnum(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'A' && r <= 'Z')
}
