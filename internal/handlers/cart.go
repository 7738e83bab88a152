package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/binkeyit/storefront/internal/services"
)

// CartHandler provides the shopping cart endpoints. Every route requires an
// authenticated user.
type CartHandler struct {
	cart *services.CartService
}

func NewCartHandler(cart *services.CartService) *CartHandler {
	return &CartHandler{cart: cart}
}

// CartRouter registers cart routes on the given router.
func CartRouter(r chi.Router, cart *services.CartService, gate func(http.Handler) http.Handler) {
	handler := NewCartHandler(cart)

	r.Use(gate)
	r.Get("/", handler.List)
	r.Post("/", handler.AddItem)
	r.Put("/{id}", handler.UpdateQuantity)
	r.Delete("/{id}", handler.RemoveItem)
}

func (h *CartHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeFailure(w, http.StatusUnauthorized, "unauthorized access")
		return
	}

	items, err := h.cart.List(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "cart items", items)
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeFailure(w, http.StatusUnauthorized, "unauthorized access")
		return
	}

	var req addCartItemRequest
	if !decodeBody(w, r, &req) {
		return
	}

	item, err := h.cart.AddItem(r.Context(), userID, req.ProductID, req.Quantity)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "item added successfully", item)
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeFailure(w, http.StatusUnauthorized, "unauthorized access")
		return
	}

	var req updateCartItemRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.cart.UpdateQuantity(r.Context(), userID, chi.URLParam(r, "id"), req.Quantity); err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "cart updated", nil)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeFailure(w, http.StatusUnauthorized, "unauthorized access")
		return
	}

	if err := h.cart.RemoveItem(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "item removed", nil)
}

type addCartItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity"`
}
