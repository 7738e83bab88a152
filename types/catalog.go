package types

import "time"

// Category is a top-level product grouping.
type Category struct {
	ID        string    `json:"_id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Image     string    `json:"image" db:"image"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// SubCategory is a second-level grouping referencing one or more categories.
type SubCategory struct {
	ID          string    `json:"_id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Image       string    `json:"image" db:"image"`
	CategoryIDs []string  `json:"category" db:"category_ids"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Product is a sellable catalog item.
type Product struct {
	ID             string   `json:"_id" db:"id"`
	Name           string   `json:"name" db:"name"`
	Images         []string `json:"image" db:"images"`
	CategoryIDs    []string `json:"category" db:"category_ids"`
	SubCategoryIDs []string `json:"subCategory" db:"subcategory_ids"`

	// Unit is the display unit, e.g. "500g" or "1 dozen".
	Unit        string  `json:"unit" db:"unit"`
	Stock       int     `json:"stock" db:"stock"`
	Price       float64 `json:"price" db:"price"`
	Discount    float64 `json:"discount" db:"discount"`
	Description string  `json:"description" db:"description"`

	// Publish controls storefront visibility.
	Publish bool `json:"publish" db:"publish"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
