package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/binkeyit/storefront/internal/services"
	"github.com/binkeyit/storefront/types"
)

// AddressHandler provides delivery address endpoints. Every route requires an
// authenticated user.
type AddressHandler struct {
	addresses *services.AddressService
}

func NewAddressHandler(addresses *services.AddressService) *AddressHandler {
	return &AddressHandler{addresses: addresses}
}

// AddressRouter registers address routes on the given router.
func AddressRouter(r chi.Router, addresses *services.AddressService, gate func(http.Handler) http.Handler) {
	handler := NewAddressHandler(addresses)

	r.Use(gate)
	r.Get("/", handler.List)
	r.Post("/", handler.Create)
	r.Put("/{id}", handler.Update)
	r.Delete("/{id}", handler.Disable)
}

func (h *AddressHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeFailure(w, http.StatusUnauthorized, "unauthorized access")
		return
	}

	addresses, err := h.addresses.List(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "address list", addresses)
}

func (h *AddressHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeFailure(w, http.StatusUnauthorized, "unauthorized access")
		return
	}

	var req addressRequest
	if !decodeBody(w, r, &req) {
		return
	}

	address, err := h.addresses.Create(r.Context(), types.Address{
		UserID:      userID,
		AddressLine: req.AddressLine,
		City:        req.City,
		State:       req.State,
		Pincode:     req.Pincode,
		Country:     req.Country,
		Mobile:      req.Mobile,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "address created successfully", address)
}

func (h *AddressHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeFailure(w, http.StatusUnauthorized, "unauthorized access")
		return
	}

	var req addressUpdateRequest
	if !decodeBody(w, r, &req) {
		return
	}

	update := types.AddressUpdate{
		AddressLine: req.AddressLine,
		City:        req.City,
		State:       req.State,
		Pincode:     req.Pincode,
		Country:     req.Country,
		Mobile:      req.Mobile,
	}
	if err := h.addresses.Update(r.Context(), userID, chi.URLParam(r, "id"), update); err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "address updated", nil)
}

func (h *AddressHandler) Disable(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeFailure(w, http.StatusUnauthorized, "unauthorized access")
		return
	}

	if err := h.addresses.Disable(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "address removed", nil)
}

type addressRequest struct {
	AddressLine string `json:"address_line"`
	City        string `json:"city"`
	State       string `json:"state"`
	Pincode     string `json:"pincode"`
	Country     string `json:"country"`
	Mobile      string `json:"mobile"`
}

type addressUpdateRequest struct {
	AddressLine *string `json:"address_line"`
	City        *string `json:"city"`
	State       *string `json:"state"`
	Pincode     *string `json:"pincode"`
	Country     *string `json:"country"`
	Mobile      *string `json:"mobile"`
}
