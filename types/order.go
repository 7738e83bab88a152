package types

import "time"

// Payment statuses recorded on an order. Payment processing itself happens
// outside this service.
const (
	PaymentCashOnDelivery = "CASH ON DELIVERY"
	PaymentPaid           = "PAID"
)

// Order is one ordered product line. A checkout with several products
// produces several orders sharing an order reference, mirroring how the
// storefront groups them for display.
type Order struct {
	ID       string `json:"_id" db:"id"`
	UserID   string `json:"userId" db:"user_id"`
	OrderRef string `json:"orderId" db:"order_ref"`

	ProductID string `json:"productId" db:"product_id"`
	// ProductName and ProductImage are snapshots taken at order time so
	// later catalog edits do not rewrite order history.
	ProductName  string `json:"product_name" db:"product_name"`
	ProductImage string `json:"product_image" db:"product_image"`
	Quantity     int    `json:"quantity" db:"quantity"`

	PaymentStatus     string  `json:"payment_status" db:"payment_status"`
	DeliveryAddressID string  `json:"delivery_address" db:"delivery_address_id"`
	SubTotalAmount    float64 `json:"subTotalAmt" db:"subtotal_amount"`
	TotalAmount       float64 `json:"totalAmt" db:"total_amount"`
	InvoiceReceipt    string  `json:"invoice_receipt" db:"invoice_receipt"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
