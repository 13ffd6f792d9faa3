package cache

import (
	"context"
	"errors"

	"storefront/internal/models"
)

var ErrCacheMiss = errors.New("cache miss")

// ProductCache stores catalog products by ID.
type ProductCache interface {
	Get(ctx context.Context, id string) (*models.Product, error)
	Set(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) error
}
