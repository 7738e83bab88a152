package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/binkeyit/storefront/types"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

const productColumns = `id, name, images, category_ids, subcategory_ids, unit,
	stock, price, discount, description, publish, created_at, updated_at`

// ProductRepository handles persistence for products.
type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// List returns published products with the total count for pagination.
func (r *ProductRepository) List(ctx context.Context, offset, limit int) ([]types.Product, int, error) {
	const countQuery = `SELECT COUNT(*) FROM products WHERE publish = TRUE`
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery).Scan(&total); err != nil {
		return nil, 0, err
	}

	const query = `
		SELECT ` + productColumns + `
		FROM products
		WHERE publish = TRUE
		ORDER BY created_at DESC
		OFFSET $1 LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	products, err := scanProducts(rows)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// ListByCategory returns published products referencing the given category.
func (r *ProductRepository) ListByCategory(ctx context.Context, categoryID string, offset, limit int) ([]types.Product, int, error) {
	const countQuery = `
		SELECT COUNT(*) FROM products
		WHERE publish = TRUE AND $1 = ANY (category_ids)`
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, categoryID).Scan(&total); err != nil {
		return nil, 0, err
	}

	const query = `
		SELECT ` + productColumns + `
		FROM products
		WHERE publish = TRUE AND $1 = ANY (category_ids)
		ORDER BY created_at DESC
		OFFSET $2 LIMIT $3`
	rows, err := r.db.QueryContext(ctx, query, categoryID, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	products, err := scanProducts(rows)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *ProductRepository) Get(ctx context.Context, id string) (types.Product, error) {
	const query = `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	row := r.db.QueryRowContext(ctx, query, id)

	var p types.Product
	err := row.Scan(
		&p.ID,
		&p.Name,
		pq.Array(&p.Images),
		pq.Array(&p.CategoryIDs),
		pq.Array(&p.SubCategoryIDs),
		&p.Unit,
		&p.Stock,
		&p.Price,
		&p.Discount,
		&p.Description,
		&p.Publish,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Product{}, ErrNotFound
		}
		return types.Product{}, err
	}
	return p, nil
}

func (r *ProductRepository) Create(ctx context.Context, product types.Product) (types.Product, error) {
	now := time.Now()
	product.ID = uuid.NewString()
	product.CreatedAt = now
	product.UpdatedAt = now

	const query = `
		INSERT INTO products (id, name, images, category_ids, subcategory_ids,
			unit, stock, price, discount, description, publish, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.Name,
		pq.Array(product.Images),
		pq.Array(product.CategoryIDs),
		pq.Array(product.SubCategoryIDs),
		product.Unit,
		product.Stock,
		product.Price,
		product.Discount,
		product.Description,
		product.Publish,
		product.CreatedAt,
		product.UpdatedAt,
	)
	if err != nil {
		return types.Product{}, err
	}
	return product, nil
}

func (r *ProductRepository) Update(ctx context.Context, product types.Product) (types.Product, error) {
	product.UpdatedAt = time.Now()

	const query = `
		UPDATE products
		SET name = $1, images = $2, category_ids = $3, subcategory_ids = $4,
			unit = $5, stock = $6, price = $7, discount = $8, description = $9,
			publish = $10, updated_at = $11
		WHERE id = $12`
	result, err := r.db.ExecContext(
		ctx,
		query,
		product.Name,
		pq.Array(product.Images),
		pq.Array(product.CategoryIDs),
		pq.Array(product.SubCategoryIDs),
		product.Unit,
		product.Stock,
		product.Price,
		product.Discount,
		product.Description,
		product.Publish,
		product.UpdatedAt,
		product.ID,
	)
	if err != nil {
		return types.Product{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Product{}, err
	}
	if affected == 0 {
		return types.Product{}, ErrNotFound
	}
	return product, nil
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM products WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func scanProducts(rows *sql.Rows) ([]types.Product, error) {
	var products []types.Product
	for rows.Next() {
		var p types.Product
		err := rows.Scan(
			&p.ID,
			&p.Name,
			pq.Array(&p.Images),
			pq.Array(&p.CategoryIDs),
			pq.Array(&p.SubCategoryIDs),
			&p.Unit,
			&p.Stock,
			&p.Price,
			&p.Discount,
			&p.Description,
			&p.Publish,
			&p.CreatedAt,
			&p.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
