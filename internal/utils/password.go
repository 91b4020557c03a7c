package utils

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// dummyPINHash is compared against when no card exists so a lookup miss
// costs the same as a PIN mismatch.
var dummyPINHash, _ = bcrypt.GenerateFromPassword([]byte("0000"), bcrypt.DefaultCost)

// HashPIN hashes a plaintext PIN using bcrypt with a fresh salt.
func HashPIN(pin string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash pin: %w", err)
	}
	return string(hash), nil
}

// CheckPINHash compares a plaintext PIN with a bcrypt hash in constant time.
// A malformed hash counts as a mismatch.
func CheckPINHash(pin, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)) == nil
}

// BurnPINCheck performs a comparison whose result is discarded.
func BurnPINCheck(pin string) {
	_ = bcrypt.CompareHashAndPassword(dummyPINHash, []byte(pin))
}
