package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/binkeyit/storefront/types"
	"github.com/google/uuid"
)

const orderColumns = `id, user_id, order_ref, product_id, product_name,
	product_image, quantity, payment_status, delivery_address_id,
	subtotal_amount, total_amount, invoice_receipt, created_at, updated_at`

// OrderRepository handles persistence for orders.
type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// CreateBatch inserts all order lines of a checkout in one transaction so a
// partial checkout never becomes visible.
func (r *OrderRepository) CreateBatch(ctx context.Context, orders []types.Order) ([]types.Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	const query = `
		INSERT INTO orders (id, user_id, order_ref, product_id, product_name,
			product_image, quantity, payment_status, delivery_address_id,
			subtotal_amount, total_amount, invoice_receipt, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	now := time.Now()
	created := make([]types.Order, 0, len(orders))
	for _, order := range orders {
		order.ID = uuid.NewString()
		order.CreatedAt = now
		order.UpdatedAt = now
		_, err := tx.ExecContext(
			ctx,
			query,
			order.ID,
			order.UserID,
			order.OrderRef,
			order.ProductID,
			order.ProductName,
			order.ProductImage,
			order.Quantity,
			order.PaymentStatus,
			order.DeliveryAddressID,
			order.SubTotalAmount,
			order.TotalAmount,
			order.InvoiceReceipt,
			order.CreatedAt,
			order.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		created = append(created, order)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return created, nil
}

// ListByUser returns the user's order history, newest first.
func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]types.Order, error) {
	const query = `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []types.Order
	for rows.Next() {
		var o types.Order
		err := rows.Scan(
			&o.ID,
			&o.UserID,
			&o.OrderRef,
			&o.ProductID,
			&o.ProductName,
			&o.ProductImage,
			&o.Quantity,
			&o.PaymentStatus,
			&o.DeliveryAddressID,
			&o.SubTotalAmount,
			&o.TotalAmount,
			&o.InvoiceReceipt,
			&o.CreatedAt,
			&o.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}
