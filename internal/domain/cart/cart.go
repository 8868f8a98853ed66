package cart

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/shared"
)

// MaxLineQuantity is the largest quantity a single cart line may hold
const MaxLineQuantity = 100

// CartItem represents one (product, quantity) line in a cart
type CartItem struct {
	ID        uuid.UUID
	CartID    uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID `gorm:"type:uuid;not null"`
	Quantity  int64     `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the table name for GORM
func (CartItem) TableName() string {
	return "cart_items"
}

// Cart represents a user's shopping cart aggregate.
// There is exactly one cart per user; it is created lazily and emptied,
// never deleted, on checkout.
type Cart struct {
	shared.BaseAggregateRoot
	UserID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex"`
	Items  []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Cart) TableName() string {
	return "carts"
}

// NewCart creates an empty cart for a user
func NewCart(userID uuid.UUID) (*Cart, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}

	return &Cart{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		Items:             make([]CartItem, 0),
	}, nil
}

// AddItem merges the requested quantity into an existing line for the product
// or appends a new line. available is the product's current quantity on hand;
// the merged quantity may not exceed it.
func (c *Cart) AddItem(productID uuid.UUID, quantity, available int64) error {
	if productID == uuid.Nil {
		return shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity < 1 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}

	merged := quantity
	if existing := c.itemIndex(productID); existing >= 0 {
		merged += c.Items[existing].Quantity
	}
	if merged > MaxLineQuantity {
		return shared.NewDomainError("INVALID_QUANTITY",
			fmt.Sprintf("Cart line quantity cannot exceed %d", MaxLineQuantity))
	}
	if merged > available {
		return shared.ErrInsufficientStock
	}

	now := time.Now()
	if existing := c.itemIndex(productID); existing >= 0 {
		c.Items[existing].Quantity = merged
		c.Items[existing].UpdatedAt = now
	} else {
		c.Items = append(c.Items, CartItem{
			ID:        uuid.New(),
			CartID:    c.ID,
			ProductID: productID,
			Quantity:  quantity,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	c.UpdatedAt = now

	return nil
}

// SetItemQuantity replaces the quantity of an existing line.
// Quantity 0 removes the line.
func (c *Cart) SetItemQuantity(productID uuid.UUID, quantity, available int64) error {
	if quantity < 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	if quantity == 0 {
		c.RemoveItem(productID)
		return nil
	}
	if quantity > MaxLineQuantity {
		return shared.NewDomainError("INVALID_QUANTITY",
			fmt.Sprintf("Cart line quantity cannot exceed %d", MaxLineQuantity))
	}
	if quantity > available {
		return shared.ErrInsufficientStock
	}

	idx := c.itemIndex(productID)
	if idx < 0 {
		return shared.NewDomainError("ITEM_NOT_FOUND", "Product is not in the cart")
	}

	c.Items[idx].Quantity = quantity
	c.Items[idx].UpdatedAt = time.Now()
	c.UpdatedAt = c.Items[idx].UpdatedAt

	return nil
}

// RemoveItem removes the line for a product. Removing an absent product is a
// no-op success.
func (c *Cart) RemoveItem(productID uuid.UUID) {
	idx := c.itemIndex(productID)
	if idx < 0 {
		return
	}
	c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
	c.UpdatedAt = time.Now()
}

// Clear empties all lines
func (c *Cart) Clear() {
	c.Items = c.Items[:0]
	c.UpdatedAt = time.Now()
}

// Prune drops lines whose product is no longer sellable. keep is the set of
// product IDs that remain valid. Returns true if any line was dropped.
func (c *Cart) Prune(keep map[uuid.UUID]bool) bool {
	pruned := c.Items[:0]
	dropped := false
	for _, item := range c.Items {
		if keep[item.ProductID] {
			pruned = append(pruned, item)
		} else {
			dropped = true
		}
	}
	c.Items = pruned
	if dropped {
		c.UpdatedAt = time.Now()
	}
	return dropped
}

// QuantityOf returns the line quantity for a product, 0 when absent
func (c *Cart) QuantityOf(productID uuid.UUID) int64 {
	if idx := c.itemIndex(productID); idx >= 0 {
		return c.Items[idx].Quantity
	}
	return 0
}

// TotalItems returns the sum of all line quantities
func (c *Cart) TotalItems() int64 {
	var total int64
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// IsEmpty returns true if the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c *Cart) itemIndex(productID uuid.UUID) int {
	for idx := range c.Items {
		if c.Items[idx].ProductID == productID {
			return idx
		}
	}
	return -1
}
