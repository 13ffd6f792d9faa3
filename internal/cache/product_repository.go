package cache

import (
	"context"
	"errors"
	"log"
	"time"

	"storefront/internal/models"
	"storefront/internal/repositories"

	"golang.org/x/sync/singleflight"
)

// loadTimeout bounds a shared cache-or-store read.
const loadTimeout = 5 * time.Second

// ProductRepository is a read-through caching decorator around a
// repositories.ProductRepository. Only single-product reads are cached; list
// and count calls go straight to the store.
type ProductRepository struct {
	repositories.ProductRepository
	cache ProductCache
	sfg   singleflight.Group
}

// NewProductRepository wraps repo with cache.
func NewProductRepository(repo repositories.ProductRepository, cache ProductCache) *ProductRepository {
	return &ProductRepository{
		ProductRepository: repo,
		cache:             cache,
	}
}

// GetByID serves from the cache and falls back to the store on a miss.
// Concurrent misses for the same ID share one store read. The shared read is
// detached from any single caller, so one cancelled request does not fail the
// others waiting on it.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	ch := r.sfg.DoChan(id, func() (interface{}, error) {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()

		product, err := r.cache.Get(ctx, id)
		if err == nil {
			return product, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			log.Printf("product cache get error: %v", err)
		}

		product, err = r.ProductRepository.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := r.cache.Set(ctx, product); err != nil {
			log.Printf("product cache set error: %v", err)
		}
		return product, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		product := *res.Val.(*models.Product)
		return &product, nil
	}
}

// Update writes through to the store and invalidates the cached entry.
func (r *ProductRepository) Update(ctx context.Context, product *models.Product) error {
	if err := r.ProductRepository.Update(ctx, product); err != nil {
		return err
	}
	r.invalidate(product.ID)
	return nil
}

// Delete removes the product from the store and the cache.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	if err := r.ProductRepository.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(id)
	return nil
}

func (r *ProductRepository) invalidate(id string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := r.cache.Delete(ctx, id); err != nil {
		log.Printf("product cache invalidate error: %v", err)
	}
}
