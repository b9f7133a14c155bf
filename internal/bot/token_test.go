package bot

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseToken_RoundTrip(t *testing.T) {
	// Every token of the grammar must decode and re-encode to itself.
	cases := []struct {
		data string
		kind TokenKind
		id   int64
	}{
		{"cat_7", TokenShopCategory, 7},
		{"brand_12", TokenShopBrand, 12},
		{"var_3", TokenShopVariant, 3},
		{"back_categories", TokenBackCategories, 0},
		{"back_cat_7", TokenBackCategory, 7},
		{"back_brand_12", TokenBackBrand, 12},
		{"admin_add_brand", TokenAdminAddBrand, 0},
		{"admin_add_variant", TokenAdminAddVariant, 0},
		{"admin_delete", TokenAdminDelete, 0},
		{"back_to_shop", TokenBackToShop, 0},
		{"admin_back_menu", TokenAdminBackMenu, 0},
		{"admin_addbrand_cat_4", TokenAddBrandCategory, 4},
		{"admin_addbrand_confirm_yes", TokenAddBrandConfirmYes, 0},
		{"admin_addbrand_confirm_no", TokenAddBrandConfirmNo, 0},
		{"admin_addvar_cat_4", TokenAddVariantCategory, 4},
		{"admin_addvar_brand_9", TokenAddVariantBrand, 9},
		{"admin_del_brand", TokenDeleteBrandMenu, 0},
		{"admin_del_variant", TokenDeleteVariantMenu, 0},
		{"admin_delbrand_cat_4", TokenDelBrandCategory, 4},
		{"admin_delbrand_confirm_9", TokenDelBrandPick, 9},
		{"admin_delbrand_final_yes_9", TokenDelBrandFinalYes, 9},
		{"admin_delvar_cat_4", TokenDelVariantCategory, 4},
		{"admin_delvar_brand_9", TokenDelVariantBrand, 9},
		{"admin_delvar_confirm_21", TokenDelVariantConfirm, 21},
	}

	for _, tc := range cases {
		t.Run(tc.data, func(t *testing.T) {
			tok, err := ParseToken(tc.data)
			require.NoError(t, err)
			assert.Equal(t, tc.kind, tok.Kind)
			assert.Equal(t, tc.id, tok.ID)
			assert.Equal(t, tc.data, tok.String(), "encode should round-trip")
		})
	}
}

func TestParseToken_LongestPrefixWins(t *testing.T) {
	// back_cat_5 must never decode as cat_ with a mangled payload.
	tok, err := ParseToken("back_cat_5")
	require.NoError(t, err)
	assert.Equal(t, TokenBackCategory, tok.Kind)
	assert.Equal(t, int64(5), tok.ID)

	tok, err = ParseToken("cat_5")
	require.NoError(t, err)
	assert.Equal(t, TokenShopCategory, tok.Kind)

	// admin_delbrand_final_yes_3 shares a prefix region with
	// admin_delbrand_confirm_.
	tok, err = ParseToken("admin_delbrand_final_yes_3")
	require.NoError(t, err)
	assert.Equal(t, TokenDelBrandFinalYes, tok.Kind)
	assert.Equal(t, int64(3), tok.ID)
}

func TestParseToken_Invalid(t *testing.T) {
	for _, data := range []string{
		"",
		"cat_",
		"cat_abc",
		"cat_0",
		"cat_-1",
		"brand_1x",
		"nonsense",
		"admin_addbrand_confirm_maybe",
		"back_cat_",
	} {
		t.Run(data, func(t *testing.T) {
			_, err := ParseToken(data)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrTokenParse))
		})
	}
}

func TestToken_Privileged(t *testing.T) {
	privileged := []string{
		"admin_add_brand", "admin_add_variant", "admin_delete", "admin_back_menu",
		"admin_addbrand_cat_1", "admin_addbrand_confirm_yes", "admin_addbrand_confirm_no",
		"admin_addvar_cat_1", "admin_addvar_brand_1",
		"admin_del_brand", "admin_del_variant",
		"admin_delbrand_cat_1", "admin_delbrand_confirm_1", "admin_delbrand_final_yes_1",
		"admin_delvar_cat_1", "admin_delvar_brand_1", "admin_delvar_confirm_1",
	}
	for _, data := range privileged {
		tok, err := ParseToken(data)
		require.NoError(t, err)
		assert.True(t, tok.Privileged(), "token %q should be privileged", data)
	}

	open := []string{"cat_1", "brand_1", "var_1", "back_categories", "back_cat_1", "back_brand_1", "back_to_shop"}
	for _, data := range open {
		tok, err := ParseToken(data)
		require.NoError(t, err)
		assert.False(t, tok.Privileged(), "token %q should not be privileged", data)
	}
}
