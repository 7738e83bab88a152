package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/binkeyit/storefront/internal/services"
)

// OrderHandler provides checkout and order history endpoints. Every route
// requires an authenticated user.
type OrderHandler struct {
	orders *services.OrderService
}

func NewOrderHandler(orders *services.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// OrderRouter registers order routes on the given router.
func OrderRouter(r chi.Router, orders *services.OrderService, gate func(http.Handler) http.Handler) {
	handler := NewOrderHandler(orders)

	r.Use(gate)
	r.Post("/cash-on-delivery", handler.CashOnDelivery)
	r.Get("/", handler.History)
}

func (h *OrderHandler) CashOnDelivery(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeFailure(w, http.StatusUnauthorized, "unauthorized access")
		return
	}

	var req checkoutRequest
	if !decodeBody(w, r, &req) {
		return
	}

	items := make([]services.OrderItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, services.OrderItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	orders, err := h.orders.CashOnDelivery(r.Context(), userID, req.AddressID, items)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "order placed successfully", orders)
}

func (h *OrderHandler) History(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeFailure(w, http.StatusUnauthorized, "unauthorized access")
		return
	}

	orders, err := h.orders.History(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "order list", orders)
}

type checkoutRequest struct {
	AddressID string `json:"addressId"`
	Items     []struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	} `json:"list_items"`
}
