package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"storefront/internal/models"
)

// MemoryOrderRepository is an in-memory implementation of OrderRepository.
// Stored orders are deep copies; callers never share the product slice.
type MemoryOrderRepository struct {
	orders map[string]models.Order
	seq    map[string]int
	next   int
	mu     sync.RWMutex
}

// NewMemoryOrderRepository creates a new instance of MemoryOrderRepository.
func NewMemoryOrderRepository() *MemoryOrderRepository {
	return &MemoryOrderRepository{
		orders: make(map[string]models.Order),
		seq:    make(map[string]int),
	}
}

// GetByID returns an order by its ID.
func (r *MemoryOrderRepository) GetByID(_ context.Context, id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("order with ID %s %w", id, ErrNotFound)
	}
	cp := order.Clone()
	return &cp, nil
}

// GetByUserID returns the orders of a user in insertion order.
func (r *MemoryOrderRepository) GetByUserID(_ context.Context, userID string) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orderList := make([]models.Order, 0)
	for _, order := range r.orders {
		if order.User.UserID == userID {
			orderList = append(orderList, order.Clone())
		}
	}
	sort.Slice(orderList, func(i, j int) bool {
		return r.seq[orderList[i].ID] < r.seq[orderList[j].ID]
	})
	return orderList, nil
}

// Create adds a new order.
func (r *MemoryOrderRepository) Create(_ context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if order.ID == "" {
		order.ID = NewID()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	r.orders[order.ID] = order.Clone()
	r.next++
	r.seq[order.ID] = r.next
	return nil
}

// Delete removes an order by its ID.
func (r *MemoryOrderRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[id]; !ok {
		return fmt.Errorf("order with ID %s %w", id, ErrNotFound)
	}
	delete(r.orders, id)
	delete(r.seq, id)
	return nil
}
