package domain

import "strings"

// OptionType selects the attribute label shown for a category's variants.
type OptionType string

const (
	OptionColor    OptionType = "color"
	OptionStrength OptionType = "strength"
)

// Category is a top-level catalog grouping. Categories are seed data and are
// not created or modified at runtime.
type Category struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	OptionType OptionType `json:"option_type"`
}

// OptionLabel returns the display label for variant attributes in this
// category ("Color" or "Strength").
func (c Category) OptionLabel() string {
	if c.OptionType == OptionColor {
		return "Color"
	}
	return "Strength"
}

// Product is a named brand line belonging to exactly one category.
type Product struct {
	ID         int64  `json:"id"`
	Brand      string `json:"brand"`
	CategoryID int64  `json:"category_id"`
}

// BrandStock is a product annotated with the sum of its variants' stock, as
// shown in the shopper brand listing.
type BrandStock struct {
	ID         int64  `json:"id"`
	Brand      string `json:"brand"`
	TotalStock int    `json:"total_stock"`
}

// BrandInfo is a product annotated with its variant count, as shown in admin
// listings (the count drives the cascade warning on delete).
type BrandInfo struct {
	ID           int64  `json:"id"`
	Brand        string `json:"brand"`
	VariantCount int    `json:"variant_count"`
}

// Variant is a concrete purchasable unit of a product. Image holds either a
// Telegram file ID or an http(s) URL; nil means text-only display.
type Variant struct {
	ID        int64   `json:"id"`
	ProductID int64   `json:"product_id"`
	Option    string  `json:"option"`
	Price     float64 `json:"price"`
	Stock     int     `json:"stock"`
	Image     *string `json:"image,omitempty"`
}

// HasImage reports whether the variant carries a renderable image reference.
func (v Variant) HasImage() bool {
	return v.Image != nil && *v.Image != ""
}

// ImageIsURL reports whether the image reference is a URL rather than a
// transport-native file ID.
func (v Variant) ImageIsURL() bool {
	return v.HasImage() && strings.HasPrefix(*v.Image, "http")
}

// VariantDetail is a variant joined with its parent product and category for
// the detail view.
type VariantDetail struct {
	Variant
	Brand      string     `json:"brand"`
	CategoryID int64      `json:"category_id"`
	OptionType OptionType `json:"option_type"`
}

// OptionLabel returns the attribute label dictated by the owning category.
func (d VariantDetail) OptionLabel() string {
	return Category{OptionType: d.OptionType}.OptionLabel()
}

// NewVariant is the payload committed by the add-variant wizard in a single
// write once every step has collected valid input.
type NewVariant struct {
	ProductID int64   `validate:"required,gt=0"`
	Option    string  `validate:"required"`
	Price     float64 `validate:"gte=0"`
	Stock     int     `validate:"gte=0"`
	Image     *string `validate:"-"`
}
