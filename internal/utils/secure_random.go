package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

var ten = big.NewInt(10)

// GenerateSecureDigits returns n uniformly random decimal digits.
func GenerateSecureDigits(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("digit count must be positive")
	}
	var sb strings.Builder
	sb.Grow(n)
	for i := 0; i < n; i++ {
		d, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", fmt.Errorf("failed to read random digit: %w", err)
		}
		sb.WriteByte(byte('0' + d.Int64()))
	}
	return sb.String(), nil
}
