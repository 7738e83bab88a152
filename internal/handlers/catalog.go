package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/binkeyit/storefront/internal/services"
	"github.com/binkeyit/storefront/types"
)

// CatalogHandler provides category, subcategory and product endpoints.
// Reads are public; writes are restricted to admins.
type CatalogHandler struct {
	catalog *services.CatalogService
}

func NewCatalogHandler(catalog *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// CategoryRouter registers category routes on the given router.
func CategoryRouter(r chi.Router, catalog *services.CatalogService, gate, admin func(http.Handler) http.Handler) {
	handler := NewCatalogHandler(catalog)

	r.Get("/", handler.ListCategories)
	r.With(gate, admin).Post("/", handler.CreateCategory)
	r.With(gate, admin).Put("/{id}", handler.UpdateCategory)
	r.With(gate, admin).Delete("/{id}", handler.DeleteCategory)
}

// SubCategoryRouter registers subcategory routes on the given router.
func SubCategoryRouter(r chi.Router, catalog *services.CatalogService, gate, admin func(http.Handler) http.Handler) {
	handler := NewCatalogHandler(catalog)

	r.Get("/", handler.ListSubCategories)
	r.With(gate, admin).Post("/", handler.CreateSubCategory)
	r.With(gate, admin).Put("/{id}", handler.UpdateSubCategory)
	r.With(gate, admin).Delete("/{id}", handler.DeleteSubCategory)
}

// ProductRouter registers product routes on the given router.
func ProductRouter(r chi.Router, catalog *services.CatalogService, gate, admin func(http.Handler) http.Handler) {
	handler := NewCatalogHandler(catalog)

	r.Get("/", handler.ListProducts)
	r.Get("/by-category/{categoryID}", handler.ListProductsByCategory)
	r.Get("/{id}", handler.GetProduct)
	r.With(gate, admin).Post("/", handler.CreateProduct)
	r.With(gate, admin).Put("/{id}", handler.UpdateProduct)
	r.With(gate, admin).Delete("/{id}", handler.DeleteProduct)
}

func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "category list", categories)
}

func (h *CatalogHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if !decodeBody(w, r, &req) {
		return
	}

	category, err := h.catalog.CreateCategory(r.Context(), types.Category{
		Name:  req.Name,
		Image: req.Image,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "category added", category)
}

func (h *CatalogHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if !decodeBody(w, r, &req) {
		return
	}

	category, err := h.catalog.UpdateCategory(r.Context(), types.Category{
		ID:    chi.URLParam(r, "id"),
		Name:  req.Name,
		Image: req.Image,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "category updated", category)
}

func (h *CatalogHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteCategory(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "category deleted", nil)
}

func (h *CatalogHandler) ListSubCategories(w http.ResponseWriter, r *http.Request) {
	subcategories, err := h.catalog.ListSubCategories(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "subcategory list", subcategories)
}

func (h *CatalogHandler) CreateSubCategory(w http.ResponseWriter, r *http.Request) {
	var req subCategoryRequest
	if !decodeBody(w, r, &req) {
		return
	}

	subcategory, err := h.catalog.CreateSubCategory(r.Context(), types.SubCategory{
		Name:        req.Name,
		Image:       req.Image,
		CategoryIDs: req.CategoryIDs,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "subcategory created", subcategory)
}

func (h *CatalogHandler) UpdateSubCategory(w http.ResponseWriter, r *http.Request) {
	var req subCategoryRequest
	if !decodeBody(w, r, &req) {
		return
	}

	subcategory, err := h.catalog.UpdateSubCategory(r.Context(), types.SubCategory{
		ID:          chi.URLParam(r, "id"),
		Name:        req.Name,
		Image:       req.Image,
		CategoryIDs: req.CategoryIDs,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "subcategory updated", subcategory)
}

func (h *CatalogHandler) DeleteSubCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteSubCategory(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "subcategory deleted", nil)
}

func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	offset, limit := pagination(r)
	products, total, err := h.catalog.ListProducts(r.Context(), offset, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "product list", productListResponse{
		Products:   products,
		TotalCount: total,
	})
}

func (h *CatalogHandler) ListProductsByCategory(w http.ResponseWriter, r *http.Request) {
	offset, limit := pagination(r)
	categoryID := chi.URLParam(r, "categoryID")
	products, total, err := h.catalog.ListProductsByCategory(r.Context(), categoryID, offset, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "product list by category", productListResponse{
		Products:   products,
		TotalCount: total,
	})
}

func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalog.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "product details", product)
}

func (h *CatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if !decodeBody(w, r, &req) {
		return
	}

	product, err := h.catalog.CreateProduct(r.Context(), req.toProduct(""))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "product created successfully", product)
}

func (h *CatalogHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if !decodeBody(w, r, &req) {
		return
	}

	product, err := h.catalog.UpdateProduct(r.Context(), req.toProduct(chi.URLParam(r, "id")))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "updated successfully", product)
}

func (h *CatalogHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "deleted successfully", nil)
}

func pagination(r *http.Request) (offset, limit int) {
	query := r.URL.Query()
	offset, _ = strconv.Atoi(query.Get("offset"))
	limit, _ = strconv.Atoi(query.Get("limit"))
	return offset, limit
}

type categoryRequest struct {
	Name  string `json:"name"`
	Image string `json:"image"`
}

type subCategoryRequest struct {
	Name        string   `json:"name"`
	Image       string   `json:"image"`
	CategoryIDs []string `json:"category"`
}

type productRequest struct {
	Name           string   `json:"name"`
	Images         []string `json:"image"`
	CategoryIDs    []string `json:"category"`
	SubCategoryIDs []string `json:"subCategory"`
	Unit           string   `json:"unit"`
	Stock          int      `json:"stock"`
	Price          float64  `json:"price"`
	Discount       float64  `json:"discount"`
	Description    string   `json:"description"`
	Publish        bool     `json:"publish"`
}

func (req productRequest) toProduct(id string) types.Product {
	return types.Product{
		ID:             id,
		Name:           req.Name,
		Images:         req.Images,
		CategoryIDs:    req.CategoryIDs,
		SubCategoryIDs: req.SubCategoryIDs,
		Unit:           req.Unit,
		Stock:          req.Stock,
		Price:          req.Price,
		Discount:       req.Discount,
		Description:    req.Description,
		Publish:        req.Publish,
	}
}

type productListResponse struct {
	Products   []types.Product `json:"data"`
	TotalCount int             `json:"totalCount"`
}
