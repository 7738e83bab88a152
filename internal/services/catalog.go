package services

import (
	"context"
	"errors"
	"strings"

	"github.com/binkeyit/storefront/internal/store"
	"github.com/binkeyit/storefront/types"
)

// CategoryRepository defines persistence operations for categories.
type CategoryRepository interface {
	List(ctx context.Context) ([]types.Category, error)
	Get(ctx context.Context, id string) (types.Category, error)
	Create(ctx context.Context, category types.Category) (types.Category, error)
	Update(ctx context.Context, category types.Category) (types.Category, error)
	Delete(ctx context.Context, id string) error
}

// SubCategoryRepository defines persistence operations for subcategories.
type SubCategoryRepository interface {
	List(ctx context.Context) ([]types.SubCategory, error)
	Get(ctx context.Context, id string) (types.SubCategory, error)
	Create(ctx context.Context, subcategory types.SubCategory) (types.SubCategory, error)
	Update(ctx context.Context, subcategory types.SubCategory) (types.SubCategory, error)
	Delete(ctx context.Context, id string) error
}

// ProductRepository defines persistence operations for products.
type ProductRepository interface {
	List(ctx context.Context, offset, limit int) ([]types.Product, int, error)
	ListByCategory(ctx context.Context, categoryID string, offset, limit int) ([]types.Product, int, error)
	Get(ctx context.Context, id string) (types.Product, error)
	Create(ctx context.Context, product types.Product) (types.Product, error)
	Update(ctx context.Context, product types.Product) (types.Product, error)
	Delete(ctx context.Context, id string) error
}

// CatalogService encapsulates category, subcategory and product use-cases.
type CatalogService struct {
	categories    CategoryRepository
	subcategories SubCategoryRepository
	products      ProductRepository
}

func NewCatalogService(
	categories CategoryRepository,
	subcategories SubCategoryRepository,
	products ProductRepository,
) *CatalogService {
	return &CatalogService{
		categories:    categories,
		subcategories: subcategories,
		products:      products,
	}
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]types.Category, error) {
	return s.categories.List(ctx)
}

func (s *CatalogService) CreateCategory(ctx context.Context, category types.Category) (types.Category, error) {
	if strings.TrimSpace(category.Name) == "" {
		return types.Category{}, failf(ErrValidation, "category name can't be blank")
	}
	return s.categories.Create(ctx, category)
}

func (s *CatalogService) UpdateCategory(ctx context.Context, category types.Category) (types.Category, error) {
	if strings.TrimSpace(category.Name) == "" {
		return types.Category{}, failf(ErrValidation, "category name can't be blank")
	}
	updated, err := s.categories.Update(ctx, category)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.Category{}, failf(ErrNotFound, "category not found")
		}
		return types.Category{}, err
	}
	return updated, nil
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id string) error {
	if err := s.categories.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return failf(ErrNotFound, "category not found")
		}
		return err
	}
	return nil
}

func (s *CatalogService) ListSubCategories(ctx context.Context) ([]types.SubCategory, error) {
	return s.subcategories.List(ctx)
}

func (s *CatalogService) CreateSubCategory(ctx context.Context, subcategory types.SubCategory) (types.SubCategory, error) {
	if strings.TrimSpace(subcategory.Name) == "" {
		return types.SubCategory{}, failf(ErrValidation, "subcategory name can't be blank")
	}
	return s.subcategories.Create(ctx, subcategory)
}

func (s *CatalogService) UpdateSubCategory(ctx context.Context, subcategory types.SubCategory) (types.SubCategory, error) {
	if strings.TrimSpace(subcategory.Name) == "" {
		return types.SubCategory{}, failf(ErrValidation, "subcategory name can't be blank")
	}
	updated, err := s.subcategories.Update(ctx, subcategory)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.SubCategory{}, failf(ErrNotFound, "subcategory not found")
		}
		return types.SubCategory{}, err
	}
	return updated, nil
}

func (s *CatalogService) DeleteSubCategory(ctx context.Context, id string) error {
	if err := s.subcategories.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return failf(ErrNotFound, "subcategory not found")
		}
		return err
	}
	return nil
}

func (s *CatalogService) ListProducts(ctx context.Context, offset, limit int) ([]types.Product, int, error) {
	return s.products.List(ctx, clampOffset(offset), clampLimit(limit))
}

func (s *CatalogService) ListProductsByCategory(ctx context.Context, categoryID string, offset, limit int) ([]types.Product, int, error) {
	if strings.TrimSpace(categoryID) == "" {
		return nil, 0, failf(ErrValidation, "category id can't be blank")
	}
	return s.products.ListByCategory(ctx, categoryID, clampOffset(offset), clampLimit(limit))
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (types.Product, error) {
	product, err := s.products.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.Product{}, failf(ErrNotFound, "product not found")
		}
		return types.Product{}, err
	}
	return product, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, product types.Product) (types.Product, error) {
	if strings.TrimSpace(product.Name) == "" {
		return types.Product{}, failf(ErrValidation, "product name can't be blank")
	}
	if product.Price < 0 {
		return types.Product{}, failf(ErrValidation, "product price can't be negative")
	}
	return s.products.Create(ctx, product)
}

func (s *CatalogService) UpdateProduct(ctx context.Context, product types.Product) (types.Product, error) {
	if strings.TrimSpace(product.Name) == "" {
		return types.Product{}, failf(ErrValidation, "product name can't be blank")
	}
	updated, err := s.products.Update(ctx, product)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.Product{}, failf(ErrNotFound, "product not found")
		}
		return types.Product{}, err
	}
	return updated, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.products.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return failf(ErrNotFound, "product not found")
		}
		return err
	}
	return nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return 20
	}
	if limit > 100 {
		return 100
	}
	return limit
}

func clampOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
