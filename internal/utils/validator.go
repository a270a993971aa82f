package utils

import (
	"github.com/go-playground/validator/v10"
)

var (
	Validate *validator.Validate

	fssaiValidator = NewValidator()
)

func InitValidator() {
	Validate = NewValidator()
}

// NewValidator returns a validator with the "fssai" alias registered:
// exactly 14 ASCII digits.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterAlias("fssai", "len=14,number")
	return v
}

func IsValidFSSAINumber(s string) bool {
	return fssaiValidator.Var(s, "fssai") == nil
}
