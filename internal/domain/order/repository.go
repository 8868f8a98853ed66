package order

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/shared"
)

// StatusCount pairs an order status with the number of orders in it
type StatusCount struct {
	Status OrderStatus
	Count  int64
}

// DailyRevenue is an aggregated revenue row for one calendar day
type DailyRevenue struct {
	Day     time.Time
	Orders  int64
	Revenue decimal.Decimal
}

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByID finds an order with its items by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByOrderNumber finds an order by its human-readable number
	FindByOrderNumber(ctx context.Context, orderNumber string) (*Order, error)

	// FindByUser finds orders belonging to a user, newest first
	FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) (*shared.Paginated[Order], error)

	// FindAll finds all orders with pagination and optional status filter
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[Order], error)

	// Save creates or updates an order together with its items
	Save(ctx context.Context, o *Order) error

	// GenerateOrderNumber produces the next free order number for the given
	// day: the date-prefixed sequence continues from the highest number
	// already issued that day
	GenerateOrderNumber(ctx context.Context, day time.Time) (string, error)

	// ExistsByOrderNumber checks if an order number is already taken
	ExistsByOrderNumber(ctx context.Context, orderNumber string) (bool, error)

	// Count returns the total number of orders
	Count(ctx context.Context) (int64, error)

	// CountByStatus returns per-status order counts
	CountByStatus(ctx context.Context) ([]StatusCount, error)

	// RevenueSince sums the totals of paid orders created at or after the
	// given time
	RevenueSince(ctx context.Context, since time.Time) (decimal.Decimal, error)

	// RevenueByDay aggregates paid order revenue per calendar day
	RevenueByDay(ctx context.Context, since time.Time) ([]DailyRevenue, error)
}
