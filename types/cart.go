package types

import "time"

// CartItem links a user to a product with a quantity.
type CartItem struct {
	ID        string    `json:"_id" db:"id"`
	UserID    string    `json:"userId" db:"user_id"`
	ProductID string    `json:"productId" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	// Product is populated on reads for cart display.
	Product *Product `json:"product,omitempty" db:"-"`
}
