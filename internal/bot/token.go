package bot

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// TokenKind identifies the transition requested by an inline-button press.
type TokenKind int

const (
	TokenUnknown TokenKind = iota

	// Shopper navigation
	TokenShopCategory   // cat_<categoryID>
	TokenShopBrand      // brand_<productID>
	TokenShopVariant    // var_<variantID>
	TokenBackCategories // back_categories
	TokenBackCategory   // back_cat_<categoryID>
	TokenBackBrand      // back_brand_<productID>

	// Admin menu
	TokenAdminAddBrand   // admin_add_brand
	TokenAdminAddVariant // admin_add_variant
	TokenAdminDelete     // admin_delete
	TokenBackToShop      // back_to_shop
	TokenAdminBackMenu   // admin_back_menu

	// Add-brand wizard
	TokenAddBrandCategory   // admin_addbrand_cat_<categoryID>
	TokenAddBrandConfirmYes // admin_addbrand_confirm_yes
	TokenAddBrandConfirmNo  // admin_addbrand_confirm_no

	// Add-variant wizard
	TokenAddVariantCategory // admin_addvar_cat_<categoryID>
	TokenAddVariantBrand    // admin_addvar_brand_<productID>

	// Delete wizards
	TokenDeleteBrandMenu    // admin_del_brand
	TokenDeleteVariantMenu  // admin_del_variant
	TokenDelBrandCategory   // admin_delbrand_cat_<categoryID>
	TokenDelBrandPick       // admin_delbrand_confirm_<productID>
	TokenDelBrandFinalYes   // admin_delbrand_final_yes_<productID>
	TokenDelVariantCategory // admin_delvar_cat_<categoryID>
	TokenDelVariantBrand    // admin_delvar_brand_<productID>
	TokenDelVariantConfirm  // admin_delvar_confirm_<variantID>
)

// ErrTokenParse is returned (wrapped) for callback data outside the grammar.
var ErrTokenParse = errors.New("bot: unparsable token")

// Token is the decoded form of the opaque callback-data string. ID is zero for
// literal (parameterless) tokens.
type Token struct {
	Kind TokenKind
	ID   int64
}

type tokenSpec struct {
	kind       TokenKind
	text       string // full literal, or prefix ending in '_' for ID-carrying kinds
	hasID      bool
	privileged bool
}

// The grammar. Literals are matched exactly before any prefix is tried, and
// prefixes are tried longest-first, so back_cat_<id> never decodes as
// cat_<id>.
var tokenSpecs = []tokenSpec{
	{TokenShopCategory, "cat_", true, false},
	{TokenShopBrand, "brand_", true, false},
	{TokenShopVariant, "var_", true, false},
	{TokenBackCategories, "back_categories", false, false},
	{TokenBackCategory, "back_cat_", true, false},
	{TokenBackBrand, "back_brand_", true, false},

	{TokenAdminAddBrand, "admin_add_brand", false, true},
	{TokenAdminAddVariant, "admin_add_variant", false, true},
	{TokenAdminDelete, "admin_delete", false, true},
	{TokenBackToShop, "back_to_shop", false, false},
	{TokenAdminBackMenu, "admin_back_menu", false, true},

	{TokenAddBrandCategory, "admin_addbrand_cat_", true, true},
	{TokenAddBrandConfirmYes, "admin_addbrand_confirm_yes", false, true},
	{TokenAddBrandConfirmNo, "admin_addbrand_confirm_no", false, true},

	{TokenAddVariantCategory, "admin_addvar_cat_", true, true},
	{TokenAddVariantBrand, "admin_addvar_brand_", true, true},

	{TokenDeleteBrandMenu, "admin_del_brand", false, true},
	{TokenDeleteVariantMenu, "admin_del_variant", false, true},
	{TokenDelBrandCategory, "admin_delbrand_cat_", true, true},
	{TokenDelBrandPick, "admin_delbrand_confirm_", true, true},
	{TokenDelBrandFinalYes, "admin_delbrand_final_yes_", true, true},
	{TokenDelVariantCategory, "admin_delvar_cat_", true, true},
	{TokenDelVariantBrand, "admin_delvar_brand_", true, true},
	{TokenDelVariantConfirm, "admin_delvar_confirm_", true, true},
}

var (
	literalTokens = map[string]tokenSpec{}
	prefixTokens  []tokenSpec
	specByKind    = map[TokenKind]tokenSpec{}
)

func init() {
	for _, s := range tokenSpecs {
		specByKind[s.kind] = s
		if s.hasID {
			prefixTokens = append(prefixTokens, s)
		} else {
			literalTokens[s.text] = s
		}
	}
	sort.Slice(prefixTokens, func(i, j int) bool {
		return len(prefixTokens[i].text) > len(prefixTokens[j].text)
	})
}

// ParseToken decodes callback data into a typed Token. It is the single entry
// point for the token grammar; encode and decode round-trip for every kind.
func ParseToken(data string) (Token, error) {
	if s, ok := literalTokens[data]; ok {
		return Token{Kind: s.kind}, nil
	}
	for _, s := range prefixTokens {
		if !strings.HasPrefix(data, s.text) {
			continue
		}
		id, err := strconv.ParseInt(data[len(s.text):], 10, 64)
		if err != nil || id <= 0 {
			return Token{}, fmt.Errorf("%w: %q", ErrTokenParse, data)
		}
		return Token{Kind: s.kind, ID: id}, nil
	}
	return Token{}, fmt.Errorf("%w: %q", ErrTokenParse, data)
}

// String encodes the token back to its wire form.
func (t Token) String() string {
	s, ok := specByKind[t.Kind]
	if !ok {
		return ""
	}
	if !s.hasID {
		return s.text
	}
	return s.text + strconv.FormatInt(t.ID, 10)
}

// Privileged reports whether dispatching this token requires an authorized
// admin identity.
func (t Token) Privileged() bool {
	return specByKind[t.Kind].privileged
}
