package utils_test

import (
	"testing"

	"foodsafety-backend/internal/utils"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidFSSAINumber(t *testing.T) {
	cases := map[string]bool{
		"12345678901234":  true,
		"1234567890123":   false,
		"123456789012345": false,
		"1234567890123a":  false,
		"":                false,
		" 2345678901234":  false,
		"１2345678901234":  false,
	}
	for input, want := range cases {
		assert.Equal(t, want, utils.IsValidFSSAINumber(input), "input %q", input)
	}
}

func TestValidatorFSSAITag(t *testing.T) {
	type req struct {
		Number string `validate:"required,fssai"`
	}
	v := utils.NewValidator()

	assert.NoError(t, v.Struct(req{Number: "12345678901234"}))
	assert.Error(t, v.Struct(req{Number: "1234567890123"}))

	err := v.Struct(req{Number: "1234567890123x"})
	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	require.Len(t, errs, 1)
	assert.Equal(t, "fssai", errs[0].Tag())
}

func TestValidatorFSSAITag_Optional(t *testing.T) {
	type req struct {
		Number string `validate:"omitempty,fssai"`
	}
	v := utils.NewValidator()

	assert.NoError(t, v.Struct(req{}))
	assert.NoError(t, v.Struct(req{Number: "98765432109876"}))
	assert.Error(t, v.Struct(req{Number: "9876543210987６"}))
}
