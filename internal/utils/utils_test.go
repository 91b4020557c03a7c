package utils_test

import (
	"testing"
	"time"

	"github.com/SscSPs/bank_core/internal/core/domain"
	"github.com/SscSPs/bank_core/internal/utils"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPINHash(t *testing.T) {
	hash, err := utils.HashPIN("1234")
	require.NoError(t, err)
	assert.NotEqual(t, "1234", hash)

	other, err := utils.HashPIN("1234")
	require.NoError(t, err)
	assert.NotEqual(t, hash, other, "each hash carries its own salt")

	assert.True(t, utils.CheckPINHash("1234", hash))
	assert.False(t, utils.CheckPINHash("4321", hash))
	assert.False(t, utils.CheckPINHash("1234", "not-a-bcrypt-hash"))
}

func TestSealer_RoundTrip(t *testing.T) {
	s, err := utils.NewSealer("card-encryption-key")
	require.NoError(t, err)

	sealed, err := s.Seal([]byte("123"))
	require.NoError(t, err)
	assert.NotContains(t, string(sealed), "123")

	again, err := s.Seal([]byte("123"))
	require.NoError(t, err)
	assert.NotEqual(t, sealed, again, "nonce must differ per seal")

	plain, err := s.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "123", string(plain))
}

func TestSealer_Errors(t *testing.T) {
	_, err := utils.NewSealer("")
	assert.Error(t, err)

	s, err := utils.NewSealer("key-a")
	require.NoError(t, err)
	other, err := utils.NewSealer("key-b")
	require.NoError(t, err)

	sealed, err := s.Seal([]byte("987"))
	require.NoError(t, err)

	_, err = other.Open(sealed)
	assert.Error(t, err, "wrong key must not decrypt")

	_, err = s.Open([]byte{1, 2})
	assert.Error(t, err)

	sealed[len(sealed)-1] ^= 0xff
	_, err = s.Open(sealed)
	assert.Error(t, err, "tampered ciphertext must not decrypt")
}

func TestGenerateSecureDigits(t *testing.T) {
	digits, err := utils.GenerateSecureDigits(16)
	require.NoError(t, err)
	assert.Len(t, digits, 16)
	for _, ch := range digits {
		assert.True(t, ch >= '0' && ch <= '9')
	}

	_, err = utils.GenerateSecureDigits(0)
	assert.Error(t, err)
}

func TestFormatWithCurrencyPrecision(t *testing.T) {
	assert.Equal(t, "12.34", utils.FormatWithCurrencyPrecision(decimal.RequireFromString("12.345"), domain.GEL))
	assert.Equal(t, "12.36", utils.FormatWithCurrencyPrecision(decimal.RequireFromString("12.355"), domain.GEL))
	assert.Equal(t, "$5.00", utils.FormatWithSymbol(decimal.NewFromInt(5), domain.USD))
	// Unknown codes have no minor unit, so they print whole.
	assert.Equal(t, "5 XYZ", utils.FormatWithSymbol(decimal.NewFromInt(5), domain.CurrencyCode("XYZ")))
}

func TestGenerateJWT(t *testing.T) {
	now := time.Now()
	signed, err := utils.GenerateJWT("owner-1", "secret", time.Hour, "bank_core", now)
	require.NoError(t, err)

	claims := &jwt.RegisteredClaims{}
	_, err = jwt.ParseWithClaims(signed, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "owner-1", claims.Subject)
	assert.Equal(t, "bank_core", claims.Issuer)
}
