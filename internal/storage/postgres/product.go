package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ambucrackers/shop-backend/internal/domain/product"
)

const (
	productColumns = `id, name, description, mrp, price, category, image_url, is_active, created_at`

	listProductsSQL = `SELECT ` + productColumns + ` FROM products
		WHERE is_active AND ($1 = '' OR category = $1)
		ORDER BY created_at DESC`

	getProductSQL = `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	insertProductSQL = `INSERT INTO products (id, name, description, mrp, price, category, image_url, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`

	updateProductSQL = `UPDATE products SET
			name        = COALESCE($2, name),
			description = COALESCE($3, description),
			mrp         = COALESCE($4, mrp),
			price       = COALESCE($5, price),
			category    = COALESCE($6, category),
			image_url   = COALESCE($7, image_url),
			is_active   = COALESCE($8, is_active)
		WHERE id = $1
		RETURNING ` + productColumns

	deleteProductSQL = `DELETE FROM products WHERE id = $1`
)

var _ product.Repository = (*ProductRepository)(nil)

// ProductRepository implements product.Repository backed by PostgreSQL.
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository returns a ProductRepository that uses the given pool.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// List returns active products, newest first, optionally filtered by category.
func (r *ProductRepository) List(ctx context.Context, category string) ([]product.Product, error) {
	rows, err := r.pool.Query(ctx, listProductsSQL, category)
	if err != nil {
		return nil, errors.Wrap(err, "list products")
	}
	return pgx.CollectRows(rows, scanProduct)
}

// GetByID returns a single product by id.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*product.Product, error) {
	rows, err := r.pool.Query(ctx, getProductSQL, id)
	if err != nil {
		return nil, errors.Wrapf(err, "get product %q", id)
	}

	p, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, product.ErrNotFound
		}
		return nil, errors.Wrapf(err, "get product %q", id)
	}
	return &p, nil
}

// Create inserts a new product and fills in its creation timestamp.
func (r *ProductRepository) Create(ctx context.Context, p *product.Product) error {
	err := r.pool.QueryRow(ctx, insertProductSQL,
		p.ID, p.Name, p.Description, p.MRP, p.Price, p.Category, p.ImageURL, p.IsActive,
	).Scan(&p.CreatedAt)
	if err != nil {
		return errors.Wrapf(err, "create product %q", p.ID)
	}
	return nil
}

// Update applies a partial update and returns the stored product.
func (r *ProductRepository) Update(ctx context.Context, id string, patch product.Patch) (*product.Product, error) {
	rows, err := r.pool.Query(ctx, updateProductSQL,
		id, patch.Name, patch.Description, patch.MRP, patch.Price,
		patch.Category, patch.ImageURL, patch.IsActive,
	)
	if err != nil {
		return nil, errors.Wrapf(err, "update product %q", id)
	}

	p, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, product.ErrNotFound
		}
		return nil, errors.Wrapf(err, "update product %q", id)
	}
	return &p, nil
}

// Delete removes a product.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, deleteProductSQL, id)
	if err != nil {
		return errors.Wrapf(err, "delete product %q", id)
	}
	if tag.RowsAffected() == 0 {
		return product.ErrNotFound
	}
	return nil
}

func scanProduct(row pgx.CollectableRow) (product.Product, error) {
	var p product.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.MRP, &p.Price,
		&p.Category, &p.ImageURL, &p.IsActive, &p.CreatedAt,
	)
	return p, err
}
