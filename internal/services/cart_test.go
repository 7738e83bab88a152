package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/binkeyit/storefront/internal/store"
	"github.com/binkeyit/storefront/types"
)

type memoryCartRepo struct {
	items map[string]types.CartItem
}

func newMemoryCartRepo() *memoryCartRepo {
	return &memoryCartRepo{items: make(map[string]types.CartItem)}
}

func (m *memoryCartRepo) ListByUser(_ context.Context, userID string) ([]types.CartItem, error) {
	var out []types.CartItem
	for _, item := range m.items {
		if item.UserID == userID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (m *memoryCartRepo) Get(_ context.Context, id string) (types.CartItem, error) {
	if item, ok := m.items[id]; ok {
		return item, nil
	}
	return types.CartItem{}, store.ErrNotFound
}

func (m *memoryCartRepo) Create(_ context.Context, item types.CartItem) (types.CartItem, error) {
	for _, existing := range m.items {
		if existing.UserID == item.UserID && existing.ProductID == item.ProductID {
			return types.CartItem{}, store.ErrDuplicate
		}
	}
	item.ID = uuid.NewString()
	m.items[item.ID] = item
	return item, nil
}

func (m *memoryCartRepo) UpdateQuantity(_ context.Context, id, userID string, quantity int) error {
	item, ok := m.items[id]
	if !ok || item.UserID != userID {
		return store.ErrNotFound
	}
	item.Quantity = quantity
	m.items[id] = item
	return nil
}

func (m *memoryCartRepo) Delete(_ context.Context, id, userID string) error {
	item, ok := m.items[id]
	if !ok || item.UserID != userID {
		return store.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *memoryCartRepo) DeleteByUser(_ context.Context, userID string) error {
	for id, item := range m.items {
		if item.UserID == userID {
			delete(m.items, id)
		}
	}
	return nil
}

func newTestCartService() (*CartService, string) {
	products := &fakeProductRepo{products: map[string]types.Product{
		"p1": {ID: "p1", Name: "Basmati Rice", Price: 100},
	}}
	return NewCartService(newMemoryCartRepo(), products), uuid.NewString()
}

func TestAddItem(t *testing.T) {
	svc, userID := newTestCartService()
	ctx := context.Background()

	item, err := svc.AddItem(ctx, userID, "p1", 0)
	require.NoError(t, err)
	assert.Equal(t, 1, item.Quantity, "zero quantity defaults to one")

	_, err = svc.AddItem(ctx, userID, "p1", 1)
	assert.ErrorIs(t, err, ErrConflict, "a product appears in the cart at most once")

	_, err = svc.AddItem(ctx, userID, "missing", 1)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.AddItem(ctx, userID, "", 1)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateQuantity(t *testing.T) {
	svc, userID := newTestCartService()
	ctx := context.Background()

	item, err := svc.AddItem(ctx, userID, "p1", 1)
	require.NoError(t, err)

	require.NoError(t, svc.UpdateQuantity(ctx, userID, item.ID, 4))

	assert.ErrorIs(t, svc.UpdateQuantity(ctx, userID, item.ID, 0), ErrValidation)
	assert.ErrorIs(t, svc.UpdateQuantity(ctx, userID, uuid.NewString(), 2), ErrNotFound)

	// Another user cannot touch the item.
	assert.ErrorIs(t, svc.UpdateQuantity(ctx, uuid.NewString(), item.ID, 2), ErrNotFound)
}

func TestRemoveItem(t *testing.T) {
	svc, userID := newTestCartService()
	ctx := context.Background()

	item, err := svc.AddItem(ctx, userID, "p1", 1)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.RemoveItem(ctx, uuid.NewString(), item.ID), ErrNotFound)
	require.NoError(t, svc.RemoveItem(ctx, userID, item.ID))

	items, err := svc.List(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, items)
}
