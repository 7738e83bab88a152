package services

import (
	"context"
	"errors"
	"strings"

	"github.com/binkeyit/storefront/internal/store"
	"github.com/binkeyit/storefront/types"
)

// CartRepository defines persistence operations for cart items.
type CartRepository interface {
	ListByUser(ctx context.Context, userID string) ([]types.CartItem, error)
	Get(ctx context.Context, id string) (types.CartItem, error)
	Create(ctx context.Context, item types.CartItem) (types.CartItem, error)
	UpdateQuantity(ctx context.Context, id, userID string, quantity int) error
	Delete(ctx context.Context, id, userID string) error
	DeleteByUser(ctx context.Context, userID string) error
}

// CartService encapsulates shopping cart use-cases.
type CartService struct {
	cart     CartRepository
	products ProductRepository
}

func NewCartService(cart CartRepository, products ProductRepository) *CartService {
	return &CartService{cart: cart, products: products}
}

func (s *CartService) List(ctx context.Context, userID string) ([]types.CartItem, error) {
	return s.cart.ListByUser(ctx, userID)
}

// AddItem puts a product in the user's cart. A product can appear only once;
// adding it again is a conflict so the client updates the quantity instead.
func (s *CartService) AddItem(ctx context.Context, userID, productID string, quantity int) (types.CartItem, error) {
	if strings.TrimSpace(productID) == "" {
		return types.CartItem{}, failf(ErrValidation, "product id can't be blank")
	}
	if quantity <= 0 {
		quantity = 1
	}

	if _, err := s.products.Get(ctx, productID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.CartItem{}, failf(ErrNotFound, "product not found")
		}
		return types.CartItem{}, err
	}

	item, err := s.cart.Create(ctx, types.CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return types.CartItem{}, failf(ErrConflict, "item already in cart")
		}
		return types.CartItem{}, err
	}
	return item, nil
}

func (s *CartService) UpdateQuantity(ctx context.Context, userID, itemID string, quantity int) error {
	if strings.TrimSpace(itemID) == "" {
		return failf(ErrValidation, "cart item id can't be blank")
	}
	if quantity <= 0 {
		return failf(ErrValidation, "quantity must be positive")
	}
	if err := s.cart.UpdateQuantity(ctx, itemID, userID, quantity); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return failf(ErrNotFound, "cart item not found")
		}
		return err
	}
	return nil
}

func (s *CartService) RemoveItem(ctx context.Context, userID, itemID string) error {
	if strings.TrimSpace(itemID) == "" {
		return failf(ErrValidation, "cart item id can't be blank")
	}
	if err := s.cart.Delete(ctx, itemID, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return failf(ErrNotFound, "cart item not found")
		}
		return err
	}
	return nil
}
