package cart

import (
	"context"

	"github.com/google/uuid"
)

// CartRepository defines the interface for cart persistence
type CartRepository interface {
	// FindByUser finds a user's cart with its lines.
	// Returns shared.ErrNotFound when the user has no cart yet.
	FindByUser(ctx context.Context, userID uuid.UUID) (*Cart, error)

	// Save creates or updates a cart and replaces its lines
	Save(ctx context.Context, cart *Cart) error
}
