package handlers

import (
	"fmt"

	"github.com/SscSPs/bank_core/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators adds the card field tags used by the request DTOs to gin's validator.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	if err := v.RegisterValidation("pin", validatePIN); err != nil {
		return fmt.Errorf("register pin validator: %w", err)
	}
	if err := v.RegisterValidation("cardnumber", validateCardNumber); err != nil {
		return fmt.Errorf("register cardnumber validator: %w", err)
	}
	return nil
}

func validatePIN(fl validator.FieldLevel) bool {
	return domain.IsValidPIN(fl.Field().String())
}

func validateCardNumber(fl validator.FieldLevel) bool {
	number := domain.NormalizeCardNumber(fl.Field().String())
	return len(number) == domain.CardNumberLength && domain.PassesLuhn(number)
}
