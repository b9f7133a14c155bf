package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"catalog-shop-bot/internal/domain"
)

// Predefined errors for store operations
var (
	ErrCategoryNotFound = errors.New("store: category not found")
	ErrProductNotFound  = errors.New("store: product not found")
	ErrVariantNotFound  = errors.New("store: variant not found")
	ErrBrandExists      = errors.New("store: brand already exists in category")
)

// PostgresStore implements the CatalogReader and CatalogWriter interfaces
// using PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgresStore instance.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// --- CatalogReader Implementation ---

func (s *PostgresStore) ListCategories(ctx context.Context) ([]domain.Category, error) {
	query := `SELECT id, name, option_type FROM categories ORDER BY id;`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("store: ListCategories failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.OptionType); err != nil {
			return nil, fmt.Errorf("store: ListCategories failed to scan category row: %w", err)
		}
		categories = append(categories, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("store: ListCategories iteration error: %w", err)
	}
	return categories, nil
}

func (s *PostgresStore) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	query := `SELECT id, name, option_type FROM categories WHERE id = $1;`
	var c domain.Category
	err := s.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name, &c.OptionType)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("store: GetCategory failed to scan row: %w", err)
	}
	return &c, nil
}

func (s *PostgresStore) ListBrandsInStock(ctx context.Context, categoryID int64) ([]domain.BrandStock, error) {
	query := `
		SELECT p.id, p.brand, COALESCE(SUM(v.stock), 0) AS total_stock
		FROM products p
		LEFT JOIN variants v ON v.product_id = p.id
		WHERE p.category_id = $1
		GROUP BY p.id, p.brand
		HAVING COALESCE(SUM(v.stock), 0) > 0
		ORDER BY p.brand;
	`
	rows, err := s.db.QueryContext(ctx, query, categoryID)
	if err != nil {
		return nil, fmt.Errorf("store: ListBrandsInStock failed to query products: %w", err)
	}
	defer rows.Close()

	var brands []domain.BrandStock
	for rows.Next() {
		var b domain.BrandStock
		if err := rows.Scan(&b.ID, &b.Brand, &b.TotalStock); err != nil {
			return nil, fmt.Errorf("store: ListBrandsInStock failed to scan product row: %w", err)
		}
		brands = append(brands, b)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("store: ListBrandsInStock iteration error: %w", err)
	}
	return brands, nil
}

func (s *PostgresStore) ListBrands(ctx context.Context, categoryID int64) ([]domain.BrandInfo, error) {
	query := `
		SELECT p.id, p.brand, COUNT(v.id) AS variant_count
		FROM products p
		LEFT JOIN variants v ON v.product_id = p.id
		WHERE p.category_id = $1
		GROUP BY p.id, p.brand
		ORDER BY p.brand;
	`
	rows, err := s.db.QueryContext(ctx, query, categoryID)
	if err != nil {
		return nil, fmt.Errorf("store: ListBrands failed to query products: %w", err)
	}
	defer rows.Close()

	var brands []domain.BrandInfo
	for rows.Next() {
		var b domain.BrandInfo
		if err := rows.Scan(&b.ID, &b.Brand, &b.VariantCount); err != nil {
			return nil, fmt.Errorf("store: ListBrands failed to scan product row: %w", err)
		}
		brands = append(brands, b)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("store: ListBrands iteration error: %w", err)
	}
	return brands, nil
}

func (s *PostgresStore) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	query := `SELECT id, brand, category_id FROM products WHERE id = $1;`
	var p domain.Product
	err := s.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Brand, &p.CategoryID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("store: GetProduct failed to scan row: %w", err)
	}
	return &p, nil
}

func (s *PostgresStore) ListVariantsInStock(ctx context.Context, productID int64) ([]domain.Variant, error) {
	query := `
		SELECT id, product_id, option, price, stock, image_id
		FROM variants
		WHERE product_id = $1 AND stock > 0
		ORDER BY option;
	`
	return s.queryVariants(ctx, query, productID, "ListVariantsInStock")
}

func (s *PostgresStore) ListVariants(ctx context.Context, productID int64) ([]domain.Variant, error) {
	query := `
		SELECT id, product_id, option, price, stock, image_id
		FROM variants
		WHERE product_id = $1
		ORDER BY option;
	`
	return s.queryVariants(ctx, query, productID, "ListVariants")
}

func (s *PostgresStore) queryVariants(ctx context.Context, query string, productID int64, op string) ([]domain.Variant, error) {
	rows, err := s.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("store: %s failed to query variants: %w", op, err)
	}
	defer rows.Close()

	var variants []domain.Variant
	for rows.Next() {
		var v domain.Variant
		var image sql.NullString
		if err := rows.Scan(&v.ID, &v.ProductID, &v.Option, &v.Price, &v.Stock, &image); err != nil {
			return nil, fmt.Errorf("store: %s failed to scan variant row: %w", op, err)
		}
		if image.Valid {
			v.Image = &image.String
		}
		variants = append(variants, v)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("store: %s iteration error: %w", op, err)
	}
	return variants, nil
}

func (s *PostgresStore) GetVariantDetail(ctx context.Context, id int64) (*domain.VariantDetail, error) {
	query := `
		SELECT v.id, v.product_id, v.option, v.price, v.stock, v.image_id,
		       p.brand, p.category_id, c.option_type
		FROM variants v
		JOIN products p ON p.id = v.product_id
		JOIN categories c ON c.id = p.category_id
		WHERE v.id = $1;
	`
	var d domain.VariantDetail
	var image sql.NullString
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&d.ID, &d.ProductID, &d.Option, &d.Price, &d.Stock, &image,
		&d.Brand, &d.CategoryID, &d.OptionType,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVariantNotFound
		}
		return nil, fmt.Errorf("store: GetVariantDetail failed to scan row: %w", err)
	}
	if image.Valid {
		d.Image = &image.String
	}
	return &d, nil
}

func (s *PostgresStore) CountVariants(ctx context.Context, productID int64) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM variants WHERE product_id = $1;`
	if err := s.db.QueryRowContext(ctx, query, productID).Scan(&count); err != nil {
		return 0, fmt.Errorf("store: CountVariants failed to count variants: %w", err)
	}
	return count, nil
}

// --- CatalogWriter Implementation ---

// InsertProduct enforces (brand, category) uniqueness with a pre-insert
// existence check rather than a DB constraint; see DESIGN.md.
func (s *PostgresStore) InsertProduct(ctx context.Context, brand string, categoryID int64) (int64, error) {
	var exists bool
	checkQuery := `SELECT EXISTS(SELECT 1 FROM products WHERE brand = $1 AND category_id = $2);`
	if err := s.db.QueryRowContext(ctx, checkQuery, brand, categoryID).Scan(&exists); err != nil {
		return 0, fmt.Errorf("store: InsertProduct failed to check brand uniqueness: %w", err)
	}
	if exists {
		return 0, ErrBrandExists
	}

	query := `INSERT INTO products (brand, category_id) VALUES ($1, $2) RETURNING id;`
	var id int64
	err := s.db.QueryRowContext(ctx, query, brand, categoryID).Scan(&id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" { // FK violation
			return 0, ErrCategoryNotFound
		}
		return 0, fmt.Errorf("store: InsertProduct failed to scan row: %w", err)
	}
	return id, nil
}

func (s *PostgresStore) InsertVariant(ctx context.Context, v domain.NewVariant) (int64, error) {
	query := `
		INSERT INTO variants (product_id, option, price, stock, image_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id;
	`
	var image sql.NullString
	if v.Image != nil && *v.Image != "" {
		image = sql.NullString{String: *v.Image, Valid: true}
	}

	var id int64
	err := s.db.QueryRowContext(ctx, query, v.ProductID, v.Option, v.Price, v.Stock, image).Scan(&id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" { // FK violation
			return 0, ErrProductNotFound
		}
		return 0, fmt.Errorf("store: InsertVariant failed to scan row: %w", err)
	}
	return id, nil
}

func (s *PostgresStore) DeleteProduct(ctx context.Context, id int64) error {
	query := `DELETE FROM products WHERE id = $1;`
	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("store: DeleteProduct failed to execute delete: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: DeleteProduct failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteVariant(ctx context.Context, id int64) error {
	query := `DELETE FROM variants WHERE id = $1;`
	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("store: DeleteVariant failed to execute delete: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: DeleteVariant failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrVariantNotFound
	}
	return nil
}

// Close closes the underlying database connection pool.
func (s *PostgresStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
