package apperrors_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/SscSPs/bank_core/internal/apperrors"
	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want apperrors.Kind
	}{
		{name: "nil", err: nil, want: ""},
		{name: "wrapped not found", err: fmt.Errorf("%w: account 42", apperrors.ErrNotFound), want: apperrors.KindNotFound},
		{name: "wrapped validation", err: fmt.Errorf("%w: insufficient balance", apperrors.ErrValidation), want: apperrors.KindValidation},
		{name: "duplicate is conflict", err: apperrors.ErrDuplicate, want: apperrors.KindConflict},
		{name: "forbidden", err: apperrors.ErrForbidden, want: apperrors.KindForbidden},
		{name: "unauthorized", err: apperrors.ErrUnauthorized, want: apperrors.KindUnauthorized},
		{name: "app error wrapping sentinel", err: apperrors.NewAppError(500, "lookup failed", apperrors.ErrNotFound), want: apperrors.KindNotFound},
		{name: "app error by code", err: apperrors.NewAppError(http.StatusConflict, "taken", nil), want: apperrors.KindConflict},
		{name: "plain error", err: errors.New("connection reset"), want: apperrors.KindFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, apperrors.KindOf(tt.err))
		})
	}
}

func TestIsExpected(t *testing.T) {
	assert.True(t, apperrors.IsExpected(apperrors.ErrValidation))
	assert.False(t, apperrors.IsExpected(errors.New("boom")))
	assert.False(t, apperrors.IsExpected(apperrors.ErrFailure))
	assert.False(t, apperrors.IsExpected(nil))
}

func TestKind_HTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, apperrors.KindValidation.HTTPStatus())
	assert.Equal(t, http.StatusNotFound, apperrors.KindNotFound.HTTPStatus())
	assert.Equal(t, http.StatusConflict, apperrors.KindConflict.HTTPStatus())
	assert.Equal(t, http.StatusForbidden, apperrors.KindForbidden.HTTPStatus())
	assert.Equal(t, http.StatusUnauthorized, apperrors.KindUnauthorized.HTTPStatus())
	assert.Equal(t, http.StatusInternalServerError, apperrors.KindFailure.HTTPStatus())
}

func TestAppError_Unwrap(t *testing.T) {
	inner := errors.New("tx closed")
	err := apperrors.NewAppError(500, "failed to commit transaction", inner)

	assert.ErrorIs(t, err, inner)
	assert.Equal(t, "failed to commit transaction: tx closed", err.Error())
}

func TestCardAuthorizationKeepsCategory(t *testing.T) {
	err := fmt.Errorf("%w: %w: pin mismatch", apperrors.ErrCardAuthorization, apperrors.ErrValidation)

	assert.ErrorIs(t, err, apperrors.ErrCardAuthorization)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}
