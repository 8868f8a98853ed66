package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AddItemRequest represents a request to add a product to the cart
type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int64     `json:"quantity" binding:"required,min=1,max=100"`
}

// UpdateItemRequest represents a request to change a line quantity.
// A quantity of zero removes the line.
type UpdateItemRequest struct {
	Quantity int64 `json:"quantity" binding:"min=0,max=100"`
}

// ItemResponse is a single cart line priced at current catalog prices
type ItemResponse struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int64           `json:"quantity"`
	LineTotal   decimal.Decimal `json:"line_total"`
	ImageURL    string          `json:"image_url,omitempty"`
	Available   int64           `json:"available"`
}

// CartResponse represents the cart in API responses
type CartResponse struct {
	ID         uuid.UUID       `json:"id"`
	Items      []ItemResponse  `json:"items"`
	TotalItems int64           `json:"total_items"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	// RemovedProducts lists lines dropped because the product is no
	// longer available for sale
	RemovedProducts []uuid.UUID `json:"removed_products,omitempty"`
	UpdatedAt       time.Time   `json:"updated_at"`
}
