package store

import (
	"context"

	"catalog-shop-bot/internal/domain"
)

// CatalogReader defines the read-only, stock-aware catalog queries consumed by
// both the shopper and admin flows. Every method is a pure function of the
// store's current contents; nothing is cached between calls, so back
// navigation always reflects live data.
type CatalogReader interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	GetCategory(ctx context.Context, id int64) (*domain.Category, error)

	// ListBrandsInStock returns the category's products whose variants' stock
	// sums to > 0, each annotated with that total, ordered by brand name.
	ListBrandsInStock(ctx context.Context, categoryID int64) ([]domain.BrandStock, error)
	// ListBrands returns every product in the category with its variant count,
	// regardless of stock. Used by the admin wizards.
	ListBrands(ctx context.Context, categoryID int64) ([]domain.BrandInfo, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)

	// ListVariantsInStock returns the product's variants with stock > 0,
	// ordered by option value.
	ListVariantsInStock(ctx context.Context, productID int64) ([]domain.Variant, error)
	// ListVariants returns all variants of the product, ordered by option.
	ListVariants(ctx context.Context, productID int64) ([]domain.Variant, error)
	GetVariantDetail(ctx context.Context, id int64) (*domain.VariantDetail, error)
	CountVariants(ctx context.Context, productID int64) (int, error)
}

// CatalogWriter defines the admin-only mutations. Each write is a single
// statement; multi-step wizard input is committed here atomically and never
// partially persisted.
type CatalogWriter interface {
	// InsertProduct fails with ErrBrandExists when the category already holds
	// a product with that brand name.
	InsertProduct(ctx context.Context, brand string, categoryID int64) (int64, error)
	InsertVariant(ctx context.Context, v domain.NewVariant) (int64, error)
	// DeleteProduct removes the product and, by schema cascade, its variants.
	DeleteProduct(ctx context.Context, id int64) error
	DeleteVariant(ctx context.Context, id int64) error
}
