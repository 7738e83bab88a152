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

// CartRepository handles persistence for cart items.
type CartRepository struct {
	db *sql.DB
}

func NewCartRepository(db *sql.DB) *CartRepository {
	return &CartRepository{db: db}
}

// ListByUser returns the user's cart items joined with their products.
func (r *CartRepository) ListByUser(ctx context.Context, userID string) ([]types.CartItem, error) {
	const query = `
		SELECT ci.id, ci.user_id, ci.product_id, ci.quantity, ci.created_at, ci.updated_at,
			p.id, p.name, p.images, p.unit, p.stock, p.price, p.discount, p.description, p.publish
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.user_id = $1
		ORDER BY ci.created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []types.CartItem
	for rows.Next() {
		var item types.CartItem
		var product types.Product
		err := rows.Scan(
			&item.ID,
			&item.UserID,
			&item.ProductID,
			&item.Quantity,
			&item.CreatedAt,
			&item.UpdatedAt,
			&product.ID,
			&product.Name,
			pq.Array(&product.Images),
			&product.Unit,
			&product.Stock,
			&product.Price,
			&product.Discount,
			&product.Description,
			&product.Publish,
		)
		if err != nil {
			return nil, err
		}
		item.Product = &product
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *CartRepository) Get(ctx context.Context, id string) (types.CartItem, error) {
	const query = `
		SELECT id, user_id, product_id, quantity, created_at, updated_at
		FROM cart_items
		WHERE id = $1`
	var item types.CartItem
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&item.ID, &item.UserID, &item.ProductID, &item.Quantity, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.CartItem{}, ErrNotFound
		}
		return types.CartItem{}, err
	}
	return item, nil
}

func (r *CartRepository) Create(ctx context.Context, item types.CartItem) (types.CartItem, error) {
	now := time.Now()
	item.ID = uuid.NewString()
	item.CreatedAt = now
	item.UpdatedAt = now
	if item.Quantity <= 0 {
		item.Quantity = 1
	}

	const query = `
		INSERT INTO cart_items (id, user_id, product_id, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(
		ctx,
		query,
		item.ID,
		item.UserID,
		item.ProductID,
		item.Quantity,
		item.CreatedAt,
		item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return types.CartItem{}, ErrDuplicate
		}
		return types.CartItem{}, err
	}
	return item, nil
}

// UpdateQuantity changes the quantity of the user's cart item. The user id
// guard keeps one user from editing another's cart.
func (r *CartRepository) UpdateQuantity(ctx context.Context, id, userID string, quantity int) error {
	const query = `
		UPDATE cart_items
		SET quantity = $1, updated_at = NOW()
		WHERE id = $2 AND user_id = $3`
	result, err := r.db.ExecContext(ctx, query, quantity, id, userID)
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

func (r *CartRepository) Delete(ctx context.Context, id, userID string) error {
	const query = `DELETE FROM cart_items WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, id, userID)
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

// DeleteByUser empties the user's cart, used after checkout.
func (r *CartRepository) DeleteByUser(ctx context.Context, userID string) error {
	const query = `DELETE FROM cart_items WHERE user_id = $1`
	_, err := r.db.ExecContext(ctx, query, userID)
	return err
}
