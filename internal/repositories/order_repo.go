package repositories

import (
	"context"

	"storefront/internal/models"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	GetByID(ctx context.Context, id string) (*models.Order, error)
	// GetByUserID returns the user's orders, oldest first.
	GetByUserID(ctx context.Context, userID string) ([]models.Order, error)
	Create(ctx context.Context, order *models.Order) error
	Delete(ctx context.Context, id string) error
}

// CheckoutRepository is implemented by order stores that can insert an order
// and empty the buyer's cart in a single transaction.
type CheckoutRepository interface {
	CreateAndClearCart(ctx context.Context, order *models.Order) error
}
