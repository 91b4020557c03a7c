package domain_test

import (
	"testing"

	"github.com/SscSPs/bank_core/internal/apperrors"
	"github.com/SscSPs/bank_core/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateIBAN(t *testing.T) {
	tests := []struct {
		name    string
		iban    string
		wantErr bool
	}{
		{name: "georgian example", iban: "GE29NB0000000101904917"},
		{name: "with spaces and lower case", iban: "ge29 nb00 0000 0101 9049 17"},
		{name: "british example", iban: "GB82WEST12345698765432"},
		{name: "german example", iban: "DE89370400440532013000"},
		{name: "bad checksum", iban: "GE29NB0000000101904918", wantErr: true},
		{name: "wrong georgian length", iban: "GE29NB00000001019049", wantErr: true},
		{name: "too short", iban: "GE29NB", wantErr: true},
		{name: "letters in check digits", iban: "GEXXNB0000000101904917", wantErr: true},
		{name: "symbol in bban", iban: "GE29NB000000010190491!", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := domain.ValidateIBAN(tt.iban)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrValidation)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNewIBAN(t *testing.T) {
	iban, err := domain.NewIBAN("GE", "NB0000000101904917")
	require.NoError(t, err)
	assert.Equal(t, "GE29NB0000000101904917", iban)

	_, err = domain.NewIBAN("G1", "NB0000000101904917")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = domain.NewIBAN("GE", "NB00000001019049")
	assert.ErrorIs(t, err, apperrors.ErrValidation, "georgian IBANs are 22 characters")
}
