package domain

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategory_OptionLabel(t *testing.T) {
	assert.Equal(t, "Color", Category{OptionType: OptionColor}.OptionLabel())
	assert.Equal(t, "Strength", Category{OptionType: OptionStrength}.OptionLabel())
}

func TestVariant_ImageHelpers(t *testing.T) {
	fileID := "AgACAgIAAxkBAAIB"
	url := "https://example.com/black.jpg"
	empty := ""

	assert.False(t, Variant{}.HasImage())
	assert.False(t, Variant{Image: &empty}.HasImage())
	assert.True(t, Variant{Image: &fileID}.HasImage())

	assert.False(t, Variant{Image: &fileID}.ImageIsURL())
	assert.True(t, Variant{Image: &url}.ImageIsURL())
}

func TestVariantDetail_OptionLabel(t *testing.T) {
	d := VariantDetail{
		Variant:    Variant{Option: "Black"},
		Brand:      "Acme",
		OptionType: OptionColor,
	}
	assert.Equal(t, "Color", d.OptionLabel())
}

func TestNewVariant_Validation(t *testing.T) {
	validate := validator.New()

	valid := NewVariant{ProductID: 1, Option: "Black", Price: 25.5, Stock: 3}
	require.NoError(t, validate.Struct(valid))

	free := NewVariant{ProductID: 1, Option: "Black"}
	require.NoError(t, validate.Struct(free), "zero price and stock are allowed")

	for name, nv := range map[string]NewVariant{
		"missing product": {Option: "Black", Price: 25},
		"missing option":  {ProductID: 1, Price: 25},
		"negative price":  {ProductID: 1, Option: "Black", Price: -1},
		"negative stock":  {ProductID: 1, Option: "Black", Stock: -1},
	} {
		assert.Error(t, validate.Struct(nv), name)
	}
}
