package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/avinashm/sparkcart-backend/pkg/db/models"
	"github.com/avinashm/sparkcart-backend/pkg/pagination"
)

// ProductDTO is the catalog payload returned to clients.
type ProductDTO struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Description   *string   `json:"description,omitempty"`
	Category      string    `json:"category"`
	Price         int       `json:"price"`
	OriginalPrice int       `json:"original_price"`
	Stock         int       `json:"stock"`
	IsActive      bool      `json:"is_active"`
	ImageURL      *string   `json:"image_url,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewProductDTO builds a DTO from the persisted model.
func NewProductDTO(product *models.Product) *ProductDTO {
	return &ProductDTO{
		ID:            product.ID,
		Name:          product.Name,
		Description:   product.Description,
		Category:      product.Category,
		Price:         product.Price,
		OriginalPrice: product.OriginalPrice,
		Stock:         product.Stock,
		IsActive:      product.IsActive,
		ImageURL:      product.ImageURL,
		CreatedAt:     product.CreatedAt,
		UpdatedAt:     product.UpdatedAt,
	}
}

// ListFilters describe the supported filter knobs for the browse endpoint.
type ListFilters struct {
	Category *string `json:"category,omitempty"`
	Query    string  `json:"q,omitempty"`
	InStock  *bool   `json:"in_stock,omitempty"`
}

// ListInput captures the inputs needed to paginate and filter the catalog.
type ListInput struct {
	Filters    ListFilters
	Pagination pagination.Params
}

// ProductList is one page of catalog results.
type ProductList struct {
	Products   []ProductDTO `json:"products"`
	NextCursor *string      `json:"next_cursor,omitempty"`
}

// CreateProductInput carries the admin create payload.
type CreateProductInput struct {
	Name          string  `json:"name" validate:"required"`
	Description   *string `json:"description"`
	Category      string  `json:"category" validate:"required"`
	Price         int     `json:"price" validate:"gte=0"`
	OriginalPrice int     `json:"original_price" validate:"gte=0"`
	Stock         int     `json:"stock" validate:"gte=0"`
	ImageURL      *string `json:"image_url"`
}

// UpdateProductInput carries the admin update payload. Nil fields are left
// untouched.
type UpdateProductInput struct {
	Name          *string `json:"name"`
	Description   *string `json:"description"`
	Category      *string `json:"category"`
	Price         *int    `json:"price" validate:"omitempty,gte=0"`
	OriginalPrice *int    `json:"original_price" validate:"omitempty,gte=0"`
	Stock         *int    `json:"stock" validate:"omitempty,gte=0"`
	ImageURL      *string `json:"image_url"`
	IsActive      *bool   `json:"is_active"`
}
