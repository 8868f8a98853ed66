package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/shared"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByCode finds a product by its code
	FindByCode(ctx context.Context, code string) (*Product, error)

	// FindAll finds all products matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)

	// FindActive finds all active (sellable) products
	FindActive(ctx context.Context, filter shared.Filter) ([]Product, error)

	// FindByCategory finds active products in a specific category
	FindByCategory(ctx context.Context, categoryID uuid.UUID, filter shared.Filter) ([]Product, error)

	// FindByStatus finds products by status
	FindByStatus(ctx context.Context, status ProductStatus, filter shared.Filter) ([]Product, error)

	// FindByIDs finds multiple products by their IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)

	// FindDiscounted finds active products with a compare-at price above the
	// current price
	FindDiscounted(ctx context.Context, filter shared.Filter) ([]Product, error)

	// FindBelowMinStock finds products at or below their reorder threshold
	FindBelowMinStock(ctx context.Context) ([]Product, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// Delete deletes a product
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts products matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountByStatus counts products by status
	CountByStatus(ctx context.Context, status ProductStatus) (int64, error)

	// ExistsByCode checks if a product with the given code exists
	ExistsByCode(ctx context.Context, code string) (bool, error)

	// DecrementStock atomically decrements quantity on hand for an active
	// product, but only when at least the requested quantity remains.
	// Returns ErrInsufficientStock when the conditional update matches no row.
	DecrementStock(ctx context.Context, productID uuid.UUID, quantity int64) error

	// RestoreStock adds quantity back after a cancellation or rollback
	RestoreStock(ctx context.Context, productID uuid.UUID, quantity int64) error
}
