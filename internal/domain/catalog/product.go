package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// ProductStatus represents the status of a product
type ProductStatus string

const (
	ProductStatusActive    ProductStatus = "active"
	ProductStatusRevoked   ProductStatus = "revoked"
	ProductStatusPending   ProductStatus = "pending"
	ProductStatusDraft     ProductStatus = "draft"
	ProductStatusSuspended ProductStatus = "suspended"
)

// IsValid checks if the status is a valid ProductStatus
func (s ProductStatus) IsValid() bool {
	switch s {
	case ProductStatusActive, ProductStatusRevoked, ProductStatusPending, ProductStatusDraft, ProductStatusSuspended:
		return true
	}
	return false
}

// String returns the string representation of ProductStatus
func (s ProductStatus) String() string {
	return string(s)
}

// Product represents a sellable item in the catalog
// It is the aggregate root for product-related operations
type Product struct {
	shared.BaseAggregateRoot
	Code           string           `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name           string           `gorm:"type:varchar(200);not null"`
	Description    string           `gorm:"type:text"`
	CategoryID     *uuid.UUID       `gorm:"type:uuid;index"`
	Price          decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	CompareAtPrice *decimal.Decimal `gorm:"type:decimal(18,4)"` // Original price before markdown
	Quantity       int64            `gorm:"not null;default:0"` // Quantity on hand
	MinStock       int64            `gorm:"not null;default:0"` // Reorder threshold for supply reports
	Status         ProductStatus    `gorm:"type:varchar(20);not null;default:'draft';index"`
	ImageURL       string           `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product in draft status
func NewProduct(code, name string, price valueobject.Money) (*Product, error) {
	if err := validateProductCode(code); err != nil {
		return nil, err
	}
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if price.Amount().IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}

	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		Name:              name,
		Price:             price.Amount(),
		Status:            ProductStatusDraft,
	}, nil
}

// Update updates the product's basic information
func (p *Product) Update(name, description string) error {
	if err := validateProductName(name); err != nil {
		return err
	}

	p.Name = name
	p.Description = description
	p.touch()

	return nil
}

// SetPrice updates the selling price
func (p *Product) SetPrice(price valueobject.Money) error {
	if price.Amount().IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}

	p.Price = price.Amount()
	p.touch()

	return nil
}

// SetCompareAtPrice sets the original price used for discount display
func (p *Product) SetCompareAtPrice(price *valueobject.Money) error {
	if price == nil {
		p.CompareAtPrice = nil
		p.touch()
		return nil
	}
	if price.Amount().IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Compare-at price cannot be negative")
	}

	amount := price.Amount()
	p.CompareAtPrice = &amount
	p.touch()

	return nil
}

// SetCategory sets the product category
func (p *Product) SetCategory(categoryID *uuid.UUID) {
	p.CategoryID = categoryID
	p.touch()
}

// SetImageURL sets the hosted product image location
func (p *Product) SetImageURL(url string) error {
	if len(url) > 500 {
		return shared.NewDomainError("INVALID_IMAGE_URL", "Image URL cannot exceed 500 characters")
	}
	p.ImageURL = url
	p.touch()
	return nil
}

// SetQuantity sets the quantity on hand (admin restock/correction)
func (p *Product) SetQuantity(quantity int64) error {
	if quantity < 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity on hand cannot be negative")
	}
	p.Quantity = quantity
	p.touch()
	return nil
}

// SetMinStock sets the reorder threshold
func (p *Product) SetMinStock(minStock int64) error {
	if minStock < 0 {
		return shared.NewDomainError("INVALID_MIN_STOCK", "Minimum stock cannot be negative")
	}
	p.MinStock = minStock
	p.touch()
	return nil
}

// Activate makes the product sellable
func (p *Product) Activate() error {
	if p.Status == ProductStatusRevoked {
		return shared.NewDomainError("INVALID_STATE", "A revoked product must be reactivated by an administrator")
	}
	p.Status = ProductStatusActive
	p.touch()
	return nil
}

// Revoke removes the product from sale (admin moderation)
func (p *Product) Revoke() error {
	if p.Status == ProductStatusRevoked {
		return shared.NewDomainError("INVALID_STATE", "Product is already revoked")
	}
	p.Status = ProductStatusRevoked
	p.touch()
	return nil
}

// Reactivate returns a revoked or suspended product to active status
func (p *Product) Reactivate() error {
	if p.Status != ProductStatusRevoked && p.Status != ProductStatusSuspended {
		return shared.NewDomainError("INVALID_STATE", "Only revoked or suspended products can be reactivated")
	}
	p.Status = ProductStatusActive
	p.touch()
	return nil
}

// Suspend temporarily removes the product from sale
func (p *Product) Suspend() error {
	if p.Status != ProductStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Only active products can be suspended")
	}
	p.Status = ProductStatusSuspended
	p.touch()
	return nil
}

// IsSellable returns true if the product can appear in carts and orders
func (p *Product) IsSellable() bool {
	return p.Status == ProductStatusActive
}

// InStock returns true if at least the requested quantity is on hand
func (p *Product) InStock(requested int64) bool {
	return p.Quantity >= requested
}

// NeedsRestock returns true if the quantity on hand is at or below the
// reorder threshold
func (p *Product) NeedsRestock() bool {
	return p.MinStock > 0 && p.Quantity <= p.MinStock
}

// DiscountPercent derives the markdown percentage from the compare-at price.
// Computed on read, never persisted.
func (p *Product) DiscountPercent() decimal.Decimal {
	if p.CompareAtPrice == nil || !p.CompareAtPrice.IsPositive() {
		return decimal.Zero
	}
	if p.Price.GreaterThanOrEqual(*p.CompareAtPrice) {
		return decimal.Zero
	}
	hundred := decimal.NewFromInt(100)
	return p.CompareAtPrice.Sub(p.Price).
		Div(*p.CompareAtPrice).
		Mul(hundred).
		Round(0)
}

// PriceMoney returns the price as a Money value object
func (p *Product) PriceMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(p.Price)
}

func (p *Product) touch() {
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

func validateProductCode(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Product code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Product code cannot exceed 50 characters")
	}
	return nil
}

func validateProductName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}
