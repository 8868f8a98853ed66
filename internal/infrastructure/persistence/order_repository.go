package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
)

// orderNumberPrefix is the fixed prefix of generated order numbers
const orderNumberPrefix = "ORD"

// maxDailySequence is the largest per-day sequence an order number can carry
const maxDailySequence = 9999

// GormOrderRepository implements order.OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order with its items by ID
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	var o order.Order
	if err := dbFor(ctx, r.db).
		Preload("Items").
		First(&o, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// FindByOrderNumber finds an order by its human-readable number
func (r *GormOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*order.Order, error) {
	var o order.Order
	if err := dbFor(ctx, r.db).
		Preload("Items").
		First(&o, "order_number = ?", orderNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// FindByUser finds orders belonging to a user
func (r *GormOrderRepository) FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) (*shared.Paginated[order.Order], error) {
	return r.findPaginated(ctx, filter, "user_id = ?", userID)
}

// FindAll finds all orders with pagination and optional status filter
func (r *GormOrderRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[order.Order], error) {
	return r.findPaginated(ctx, filter, "")
}

func (r *GormOrderRepository) findPaginated(ctx context.Context, filter shared.Filter, cond string, args ...interface{}) (*shared.Paginated[order.Order], error) {
	query := dbFor(ctx, r.db).Model(&order.Order{})
	if cond != "" {
		query = query.Where(cond, args...)
	}
	query = r.applyFilterWithoutPagination(query, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	orderDir := "DESC"
	orderBy := "created_at"
	if filter.OrderBy != "" {
		orderBy = filter.OrderBy
		if strings.ToLower(filter.OrderDir) == "asc" {
			orderDir = "ASC"
		}
	}

	var orders []order.Order
	if err := query.
		Preload("Items").
		Offset((filter.Page - 1) * filter.PageSize).
		Limit(filter.PageSize).
		Order(orderBy + " " + orderDir).
		Find(&orders).Error; err != nil {
		return nil, err
	}

	result := shared.NewPaginated(orders, total, filter.Page, filter.PageSize)
	return &result, nil
}

func (r *GormOrderRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("order_number ILIKE ?", "%"+filter.Search+"%")
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "payment_status":
			query = query.Where("payment_status = ?", value)
		case "start_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("created_at >= ?", t)
			}
		case "end_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("created_at <= ?", t)
			}
		}
	}

	return query
}

// Save creates or updates an order together with its items
func (r *GormOrderRepository) Save(ctx context.Context, o *order.Order) error {
	// Totals must hold before every persistence, never silently patched
	if err := o.ValidateTotals(); err != nil {
		return err
	}
	return dbFor(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(o).Error; err != nil {
			return err
		}

		for i := range o.Items {
			o.Items[i].OrderID = o.ID
			if err := tx.Save(&o.Items[i]).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// GenerateOrderNumber generates the next free order number for a day.
// Format: ORD-YYYYMMDD-NNNN (e.g. ORD-20260830-0001). The sequence continues
// from the highest number already issued that day; the uniqueness recheck
// covers the race where two checkouts read the same highest number.
func (r *GormOrderRepository) GenerateOrderNumber(ctx context.Context, day time.Time) (string, error) {
	prefix := fmt.Sprintf("%s-%s-", orderNumberPrefix, day.Format("20060102"))

	var lastOrder order.Order
	err := dbFor(ctx, r.db).
		Model(&order.Order{}).
		Where("order_number LIKE ?", prefix+"%").
		Order("order_number DESC").
		First(&lastOrder).Error

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var nextNum int64 = 1
	if err == nil && lastOrder.OrderNumber != "" {
		parts := strings.Split(lastOrder.OrderNumber, "-")
		if len(parts) == 3 {
			var num int64
			if _, parseErr := fmt.Sscanf(parts[2], "%d", &num); parseErr == nil {
				nextNum = num + 1
			}
		}
	}

	for ; nextNum <= maxDailySequence; nextNum++ {
		orderNumber := fmt.Sprintf("%s%04d", prefix, nextNum)
		exists, err := r.ExistsByOrderNumber(ctx, orderNumber)
		if err != nil {
			return "", err
		}
		if !exists {
			return orderNumber, nil
		}
	}

	return "", shared.NewDomainError("ORDER_NUMBER_EXHAUSTED",
		fmt.Sprintf("Daily order number space for %s is exhausted", day.Format("2006-01-02")))
}

// ExistsByOrderNumber checks if an order number is already taken
func (r *GormOrderRepository) ExistsByOrderNumber(ctx context.Context, orderNumber string) (bool, error) {
	var count int64
	if err := dbFor(ctx, r.db).Model(&order.Order{}).
		Where("order_number = ?", orderNumber).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Count returns the total number of orders
func (r *GormOrderRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := dbFor(ctx, r.db).Model(&order.Order{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus returns per-status order counts
func (r *GormOrderRepository) CountByStatus(ctx context.Context) ([]order.StatusCount, error) {
	var counts []order.StatusCount
	if err := dbFor(ctx, r.db).Model(&order.Order{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&counts).Error; err != nil {
		return nil, err
	}
	return counts, nil
}

// RevenueSince sums the totals of paid orders created at or after the given time
func (r *GormOrderRepository) RevenueSince(ctx context.Context, since time.Time) (decimal.Decimal, error) {
	var result struct {
		Revenue decimal.Decimal
	}
	if err := dbFor(ctx, r.db).Model(&order.Order{}).
		Select("COALESCE(SUM(total), 0) as revenue").
		Where("payment_status = ? AND created_at >= ?", order.PaymentStatusPaid, since).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Revenue, nil
}

// RevenueByDay aggregates paid order revenue per calendar day
func (r *GormOrderRepository) RevenueByDay(ctx context.Context, since time.Time) ([]order.DailyRevenue, error) {
	var rows []order.DailyRevenue
	if err := dbFor(ctx, r.db).Model(&order.Order{}).
		Select("DATE_TRUNC('day', created_at) as day, COUNT(*) as orders, COALESCE(SUM(total), 0) as revenue").
		Where("payment_status = ? AND created_at >= ?", order.PaymentStatusPaid, since).
		Group("DATE_TRUNC('day', created_at)").
		Order("day ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
