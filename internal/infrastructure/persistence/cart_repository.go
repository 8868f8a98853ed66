package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shared"
)

// GormCartRepository implements cart.CartRepository using GORM
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository creates a new GormCartRepository
func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// FindByUser finds a user's cart with its lines
func (r *GormCartRepository) FindByUser(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	var c cart.Cart
	if err := dbFor(ctx, r.db).
		Preload("Items").
		First(&c, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// Save creates or updates a cart, replacing its line set. Lines removed from
// the aggregate are deleted; lines added or changed are upserted.
func (r *GormCartRepository) Save(ctx context.Context, c *cart.Cart) error {
	return dbFor(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(c).Error; err != nil {
			return err
		}

		currentItemIDs := make([]uuid.UUID, len(c.Items))
		for i, item := range c.Items {
			currentItemIDs[i] = item.ID
		}

		if len(currentItemIDs) > 0 {
			if err := tx.Where("cart_id = ? AND id NOT IN ?", c.ID, currentItemIDs).
				Delete(&cart.CartItem{}).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Where("cart_id = ?", c.ID).
				Delete(&cart.CartItem{}).Error; err != nil {
				return err
			}
		}

		for i := range c.Items {
			c.Items[i].CartID = c.ID
			if err := tx.Save(&c.Items[i]).Error; err != nil {
				return err
			}
		}

		return nil
	})
}
