package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/binkeyit/storefront/internal/store"
	"github.com/binkeyit/storefront/types"
	"github.com/google/uuid"
)

// OrderRepository defines persistence operations for orders.
type OrderRepository interface {
	CreateBatch(ctx context.Context, orders []types.Order) ([]types.Order, error)
	ListByUser(ctx context.Context, userID string) ([]types.Order, error)
}

// OrderItemInput is one product line of a checkout request.
type OrderItemInput struct {
	ProductID string
	Quantity  int
}

// OrderService encapsulates checkout and order history. Payment processing
// happens outside this service; orders are recorded as cash on delivery.
type OrderService struct {
	orders    OrderRepository
	products  ProductRepository
	addresses AddressRepository
	cart      CartRepository
	logger    *slog.Logger
}

func NewOrderService(
	orders OrderRepository,
	products ProductRepository,
	addresses AddressRepository,
	cart CartRepository,
	logger *slog.Logger,
) *OrderService {
	if logger == nil {
		logger = slog.Default()
	}
	return &OrderService{
		orders:    orders,
		products:  products,
		addresses: addresses,
		cart:      cart,
		logger:    logger,
	}
}

// CashOnDelivery places an order for the given items against one of the
// user's active addresses, then empties the cart. One order row is written
// per product line, all sharing a generated order reference.
func (s *OrderService) CashOnDelivery(ctx context.Context, userID, addressID string, items []OrderItemInput) ([]types.Order, error) {
	if strings.TrimSpace(addressID) == "" {
		return nil, failf(ErrValidation, "delivery address id can't be blank")
	}
	if len(items) == 0 {
		return nil, failf(ErrValidation, "order must contain at least one item")
	}

	address, err := s.addresses.Get(ctx, addressID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, failf(ErrNotFound, "delivery address not found")
		}
		return nil, err
	}
	if address.UserID != userID || !address.Status {
		return nil, failf(ErrNotFound, "delivery address not found")
	}

	orderRef := "ORD-" + uuid.NewString()
	orders := make([]types.Order, 0, len(items))
	for _, item := range items {
		quantity := item.Quantity
		if quantity <= 0 {
			quantity = 1
		}

		product, err := s.products.Get(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, failf(ErrNotFound, "product %s not found", item.ProductID)
			}
			return nil, err
		}

		image := ""
		if len(product.Images) > 0 {
			image = product.Images[0]
		}

		subtotal := product.Price * float64(quantity)
		total := subtotal * (1 - product.Discount/100)

		orders = append(orders, types.Order{
			UserID:            userID,
			OrderRef:          orderRef,
			ProductID:         product.ID,
			ProductName:       product.Name,
			ProductImage:      image,
			Quantity:          quantity,
			PaymentStatus:     types.PaymentCashOnDelivery,
			DeliveryAddressID: address.ID,
			SubTotalAmount:    subtotal,
			TotalAmount:       total,
		})
	}

	created, err := s.orders.CreateBatch(ctx, orders)
	if err != nil {
		return nil, fmt.Errorf("create orders: %w", err)
	}

	// The order is already placed; a cart cleanup failure is not worth
	// failing the checkout for.
	if err := s.cart.DeleteByUser(ctx, userID); err != nil {
		s.logger.Error("cart cleanup after checkout failed", "user_id", userID, "err", err)
	}

	return created, nil
}

// History returns the user's orders, newest first.
func (s *OrderService) History(ctx context.Context, userID string) ([]types.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}
