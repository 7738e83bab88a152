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

// SubCategoryRepository handles persistence for subcategories.
type SubCategoryRepository struct {
	db *sql.DB
}

func NewSubCategoryRepository(db *sql.DB) *SubCategoryRepository {
	return &SubCategoryRepository{db: db}
}

func (r *SubCategoryRepository) List(ctx context.Context) ([]types.SubCategory, error) {
	const query = `
		SELECT id, name, image, category_ids, created_at, updated_at
		FROM subcategories
		ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subcategories []types.SubCategory
	for rows.Next() {
		var s types.SubCategory
		if err := rows.Scan(&s.ID, &s.Name, &s.Image, pq.Array(&s.CategoryIDs), &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		subcategories = append(subcategories, s)
	}
	return subcategories, rows.Err()
}

func (r *SubCategoryRepository) Get(ctx context.Context, id string) (types.SubCategory, error) {
	const query = `
		SELECT id, name, image, category_ids, created_at, updated_at
		FROM subcategories
		WHERE id = $1`
	var s types.SubCategory
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&s.ID, &s.Name, &s.Image, pq.Array(&s.CategoryIDs), &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.SubCategory{}, ErrNotFound
		}
		return types.SubCategory{}, err
	}
	return s, nil
}

func (r *SubCategoryRepository) Create(ctx context.Context, subcategory types.SubCategory) (types.SubCategory, error) {
	now := time.Now()
	subcategory.ID = uuid.NewString()
	subcategory.CreatedAt = now
	subcategory.UpdatedAt = now

	const query = `
		INSERT INTO subcategories (id, name, image, category_ids, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(
		ctx,
		query,
		subcategory.ID,
		subcategory.Name,
		subcategory.Image,
		pq.Array(subcategory.CategoryIDs),
		subcategory.CreatedAt,
		subcategory.UpdatedAt,
	)
	if err != nil {
		return types.SubCategory{}, err
	}
	return subcategory, nil
}

func (r *SubCategoryRepository) Update(ctx context.Context, subcategory types.SubCategory) (types.SubCategory, error) {
	subcategory.UpdatedAt = time.Now()

	const query = `
		UPDATE subcategories
		SET name = $1, image = $2, category_ids = $3, updated_at = $4
		WHERE id = $5`
	result, err := r.db.ExecContext(
		ctx,
		query,
		subcategory.Name,
		subcategory.Image,
		pq.Array(subcategory.CategoryIDs),
		subcategory.UpdatedAt,
		subcategory.ID,
	)
	if err != nil {
		return types.SubCategory{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.SubCategory{}, err
	}
	if affected == 0 {
		return types.SubCategory{}, ErrNotFound
	}
	return subcategory, nil
}

func (r *SubCategoryRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM subcategories WHERE id = $1`
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
