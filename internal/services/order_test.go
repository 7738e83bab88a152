package services

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/binkeyit/storefront/internal/store"
	"github.com/binkeyit/storefront/types"
)

type fakeProductRepo struct {
	products map[string]types.Product
}

func (f *fakeProductRepo) List(_ context.Context, _, _ int) ([]types.Product, int, error) {
	return nil, 0, nil
}

func (f *fakeProductRepo) ListByCategory(_ context.Context, _ string, _, _ int) ([]types.Product, int, error) {
	return nil, 0, nil
}

func (f *fakeProductRepo) Get(_ context.Context, id string) (types.Product, error) {
	if p, ok := f.products[id]; ok {
		return p, nil
	}
	return types.Product{}, store.ErrNotFound
}

func (f *fakeProductRepo) Create(_ context.Context, p types.Product) (types.Product, error) {
	return p, nil
}

func (f *fakeProductRepo) Update(_ context.Context, p types.Product) (types.Product, error) {
	return p, nil
}

func (f *fakeProductRepo) Delete(_ context.Context, _ string) error { return nil }

type fakeAddressRepo struct {
	addresses map[string]types.Address
}

func (f *fakeAddressRepo) ListByUser(_ context.Context, _ string) ([]types.Address, error) {
	return nil, nil
}

func (f *fakeAddressRepo) Get(_ context.Context, id string) (types.Address, error) {
	if a, ok := f.addresses[id]; ok {
		return a, nil
	}
	return types.Address{}, store.ErrNotFound
}

func (f *fakeAddressRepo) Create(_ context.Context, a types.Address) (types.Address, error) {
	return a, nil
}

func (f *fakeAddressRepo) Update(_ context.Context, _, _ string, _ types.AddressUpdate) error {
	return nil
}

func (f *fakeAddressRepo) Disable(_ context.Context, _, _ string) error { return nil }

type fakeCartRepo struct {
	clearedFor []string
	deleteErr  error
}

func (f *fakeCartRepo) ListByUser(_ context.Context, _ string) ([]types.CartItem, error) {
	return nil, nil
}

func (f *fakeCartRepo) Get(_ context.Context, _ string) (types.CartItem, error) {
	return types.CartItem{}, store.ErrNotFound
}

func (f *fakeCartRepo) Create(_ context.Context, item types.CartItem) (types.CartItem, error) {
	return item, nil
}

func (f *fakeCartRepo) UpdateQuantity(_ context.Context, _, _ string, _ int) error { return nil }

func (f *fakeCartRepo) Delete(_ context.Context, _, _ string) error { return nil }

func (f *fakeCartRepo) DeleteByUser(_ context.Context, userID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.clearedFor = append(f.clearedFor, userID)
	return nil
}

type fakeOrderRepo struct {
	created []types.Order
}

func (f *fakeOrderRepo) CreateBatch(_ context.Context, orders []types.Order) ([]types.Order, error) {
	for i := range orders {
		orders[i].ID = uuid.NewString()
	}
	f.created = append(f.created, orders...)
	return orders, nil
}

func (f *fakeOrderRepo) ListByUser(_ context.Context, userID string) ([]types.Order, error) {
	var out []types.Order
	for _, o := range f.created {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func newTestOrderService() (*OrderService, *fakeOrderRepo, *fakeCartRepo, string, string) {
	userID := uuid.NewString()
	addressID := uuid.NewString()

	products := &fakeProductRepo{products: map[string]types.Product{
		"p1": {ID: "p1", Name: "Basmati Rice", Images: []string{"https://img.example/rice.jpg"}, Price: 100, Discount: 10},
		"p2": {ID: "p2", Name: "Ghee", Price: 50},
	}}
	addresses := &fakeAddressRepo{addresses: map[string]types.Address{
		addressID: {ID: addressID, UserID: userID, AddressLine: "1 Main St", Status: true},
	}}
	cart := &fakeCartRepo{}
	orders := &fakeOrderRepo{}

	return NewOrderService(orders, products, addresses, cart, nil), orders, cart, userID, addressID
}

func TestCashOnDelivery(t *testing.T) {
	svc, _, cart, userID, addressID := newTestOrderService()
	ctx := context.Background()

	created, err := svc.CashOnDelivery(ctx, userID, addressID, []OrderItemInput{
		{ProductID: "p1", Quantity: 2},
		{ProductID: "p2", Quantity: 0},
	})
	require.NoError(t, err)
	require.Len(t, created, 2)

	// All lines of one checkout share the order reference.
	assert.Equal(t, created[0].OrderRef, created[1].OrderRef)
	assert.Contains(t, created[0].OrderRef, "ORD-")

	first := created[0]
	assert.Equal(t, "Basmati Rice", first.ProductName)
	assert.Equal(t, "https://img.example/rice.jpg", first.ProductImage)
	assert.Equal(t, 2, first.Quantity)
	assert.Equal(t, types.PaymentCashOnDelivery, first.PaymentStatus)
	assert.InDelta(t, 200.0, first.SubTotalAmount, 0.001)
	assert.InDelta(t, 180.0, first.TotalAmount, 0.001, "discount applies to the total")

	second := created[1]
	assert.Equal(t, 1, second.Quantity, "non-positive quantity defaults to one")
	assert.InDelta(t, 50.0, second.SubTotalAmount, 0.001)
	assert.InDelta(t, 50.0, second.TotalAmount, 0.001)

	assert.Equal(t, []string{userID}, cart.clearedFor, "checkout empties the cart")
}

func TestCashOnDeliverySurvivesCartCleanupFailure(t *testing.T) {
	svc, orders, cart, userID, addressID := newTestOrderService()
	ctx := context.Background()

	var logBuf bytes.Buffer
	svc.logger = slog.New(slog.NewJSONHandler(&logBuf, nil))
	cart.deleteErr = errors.New("connection reset")

	created, err := svc.CashOnDelivery(ctx, userID, addressID, []OrderItemInput{
		{ProductID: "p1", Quantity: 1},
	})
	require.NoError(t, err, "a cart cleanup failure must not fail the checkout")
	assert.Len(t, created, 1)
	assert.Len(t, orders.created, 1)

	assert.Contains(t, logBuf.String(), "cart cleanup after checkout failed")
}

func TestCashOnDeliveryValidation(t *testing.T) {
	svc, _, _, userID, addressID := newTestOrderService()
	ctx := context.Background()

	_, err := svc.CashOnDelivery(ctx, userID, "", []OrderItemInput{{ProductID: "p1", Quantity: 1}})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CashOnDelivery(ctx, userID, addressID, nil)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CashOnDelivery(ctx, userID, addressID, []OrderItemInput{{ProductID: "missing", Quantity: 1}})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCashOnDeliveryRejectsForeignAddress(t *testing.T) {
	svc, _, _, _, addressID := newTestOrderService()
	ctx := context.Background()

	_, err := svc.CashOnDelivery(ctx, uuid.NewString(), addressID, []OrderItemInput{{ProductID: "p1", Quantity: 1}})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCashOnDeliveryRejectsDisabledAddress(t *testing.T) {
	svc, orders, _, userID, _ := newTestOrderService()
	ctx := context.Background()

	disabledID := uuid.NewString()
	addresses := &fakeAddressRepo{addresses: map[string]types.Address{
		disabledID: {ID: disabledID, UserID: userID, AddressLine: "1 Main St", Status: false},
	}}
	svc.addresses = addresses

	_, err := svc.CashOnDelivery(ctx, userID, disabledID, []OrderItemInput{{ProductID: "p1", Quantity: 1}})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, orders.created)
}

func TestOrderHistory(t *testing.T) {
	svc, _, _, userID, addressID := newTestOrderService()
	ctx := context.Background()

	_, err := svc.CashOnDelivery(ctx, userID, addressID, []OrderItemInput{{ProductID: "p1", Quantity: 1}})
	require.NoError(t, err)

	history, err := svc.History(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, history, 1)

	other, err := svc.History(ctx, uuid.NewString())
	require.NoError(t, err)
	assert.Empty(t, other)
}
