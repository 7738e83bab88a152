package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/binkeyit/storefront/types"
	"github.com/google/uuid"
)

// CategoryRepository handles persistence for categories.
type CategoryRepository struct {
	db *sql.DB
}

func NewCategoryRepository(db *sql.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) List(ctx context.Context) ([]types.Category, error) {
	const query = `
		SELECT id, name, image, created_at, updated_at
		FROM categories
		ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []types.Category
	for rows.Next() {
		var c types.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Image, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *CategoryRepository) Get(ctx context.Context, id string) (types.Category, error) {
	const query = `
		SELECT id, name, image, created_at, updated_at
		FROM categories
		WHERE id = $1`
	var c types.Category
	err := r.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name, &c.Image, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Category{}, ErrNotFound
		}
		return types.Category{}, err
	}
	return c, nil
}

func (r *CategoryRepository) Create(ctx context.Context, category types.Category) (types.Category, error) {
	now := time.Now()
	category.ID = uuid.NewString()
	category.CreatedAt = now
	category.UpdatedAt = now

	const query = `
		INSERT INTO categories (id, name, image, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.db.ExecContext(ctx, query, category.ID, category.Name, category.Image, category.CreatedAt, category.UpdatedAt); err != nil {
		return types.Category{}, err
	}
	return category, nil
}

func (r *CategoryRepository) Update(ctx context.Context, category types.Category) (types.Category, error) {
	category.UpdatedAt = time.Now()

	const query = `
		UPDATE categories
		SET name = $1, image = $2, updated_at = $3
		WHERE id = $4`
	result, err := r.db.ExecContext(ctx, query, category.Name, category.Image, category.UpdatedAt, category.ID)
	if err != nil {
		return types.Category{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Category{}, err
	}
	if affected == 0 {
		return types.Category{}, ErrNotFound
	}
	return category, nil
}

func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM categories WHERE id = $1`
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
