package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/catalog"
)

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	Code           string           `json:"code" binding:"required,notblank,max=50"`
	Name           string           `json:"name" binding:"required,notblank,max=200"`
	Description    string           `json:"description" binding:"max=5000"`
	CategoryID     *uuid.UUID       `json:"category_id"`
	Price          decimal.Decimal  `json:"price" binding:"required"`
	CompareAtPrice *decimal.Decimal `json:"compare_at_price"`
	Quantity       *int64           `json:"quantity" binding:"omitempty,min=0"`
	MinStock       *int64           `json:"min_stock" binding:"omitempty,min=0"`
}

// UpdateProductRequest represents a request to update a product
type UpdateProductRequest struct {
	Name           *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Description    *string          `json:"description" binding:"omitempty,max=5000"`
	CategoryID     *uuid.UUID       `json:"category_id"`
	Price          *decimal.Decimal `json:"price"`
	CompareAtPrice *decimal.Decimal `json:"compare_at_price"`
	ClearCompareAt bool             `json:"clear_compare_at"`
	Quantity       *int64           `json:"quantity" binding:"omitempty,min=0"`
	MinStock       *int64           `json:"min_stock" binding:"omitempty,min=0"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID              uuid.UUID        `json:"id"`
	Code            string           `json:"code"`
	Name            string           `json:"name"`
	Description     string           `json:"description"`
	CategoryID      *uuid.UUID       `json:"category_id"`
	Price           decimal.Decimal  `json:"price"`
	CompareAtPrice  *decimal.Decimal `json:"compare_at_price,omitempty"`
	DiscountPercent decimal.Decimal  `json:"discount_percent"`
	Quantity        int64            `json:"quantity"`
	InStock         bool             `json:"in_stock"`
	Status          string           `json:"status"`
	ImageURL        string           `json:"image_url,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
	Version         int              `json:"version"`
}

// ProductListFilter represents filter options for product list
type ProductListFilter struct {
	Search     string     `form:"search"`
	Status     string     `form:"status" binding:"omitempty,oneof=draft pending active suspended revoked"`
	CategoryID *uuid.UUID `form:"category_id"`
	InStock    *bool      `form:"in_stock"`
	MinPrice   *float64   `form:"min_price"`
	MaxPrice   *float64   `form:"max_price"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// CreateCategoryRequest represents a request to create a category
type CreateCategoryRequest struct {
	Code        string `json:"code" binding:"required,notblank,max=50"`
	Name        string `json:"name" binding:"required,notblank,max=100"`
	Description string `json:"description" binding:"max=2000"`
	SortOrder   *int   `json:"sort_order"`
}

// UpdateCategoryRequest represents a request to update a category
type UpdateCategoryRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	SortOrder   *int    `json:"sort_order"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	SortOrder   int       `json:"sort_order"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ImageUploadRequest represents a request for a presigned image upload URL
type ImageUploadRequest struct {
	FileName    string `json:"file_name" binding:"required,min=1,max=200"`
	ContentType string `json:"content_type" binding:"required"`
}

// ImageUploadResponse carries the presigned upload URL for an image
type ImageUploadResponse struct {
	UploadURL  string    `json:"upload_url"`
	StorageKey string    `json:"storage_key"`
	PublicURL  string    `json:"public_url"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:              p.ID,
		Code:            p.Code,
		Name:            p.Name,
		Description:     p.Description,
		CategoryID:      p.CategoryID,
		Price:           p.Price,
		CompareAtPrice:  p.CompareAtPrice,
		DiscountPercent: p.DiscountPercent(),
		Quantity:        p.Quantity,
		InStock:         p.Quantity > 0,
		Status:          string(p.Status),
		ImageURL:        p.ImageURL,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
		Version:         p.Version,
	}
}

// ToProductResponses converts a slice of domain Products
func ToProductResponses(products []catalog.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses
}

// ToCategoryResponse converts a domain Category to CategoryResponse
func ToCategoryResponse(c *catalog.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Code:        c.Code,
		Name:        c.Name,
		Description: c.Description,
		SortOrder:   c.SortOrder,
		Status:      string(c.Status),
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// ToCategoryResponses converts a slice of domain Categories
func ToCategoryResponses(categories []catalog.Category) []CategoryResponse {
	responses := make([]CategoryResponse, len(categories))
	for i := range categories {
		responses[i] = ToCategoryResponse(&categories[i])
	}
	return responses
}
