package repositories

import (
	"context"
	"fmt"
	"sync"
	"time"

	"storefront/internal/models"
)

// MemoryUserRepository is an in-memory implementation of UserRepository.
type MemoryUserRepository struct {
	users map[string]models.User
	mu    sync.RWMutex
}

// NewMemoryUserRepository creates a new instance of MemoryUserRepository.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users: make(map[string]models.User),
	}
}

// Create adds a new user. Username and email must be unique.
func (r *MemoryUserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return fmt.Errorf("failed to create user: username or email already exists")
		}
	}
	if user.ID == "" {
		user.ID = NewID()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = cloneUser(*user)
	return nil
}

func (r *MemoryUserRepository) find(match func(models.User) bool, what string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if match(u) {
			found := cloneUser(u)
			return &found, nil
		}
	}
	return nil, fmt.Errorf("user with %s %w", what, ErrNotFound)
}

// GetByUsername returns a user by username.
func (r *MemoryUserRepository) GetByUsername(_ context.Context, username string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.Username == username }, "username "+username)
}

// GetByEmail returns a user by email.
func (r *MemoryUserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.Email == email }, "email "+email)
}

// GetByID returns a user by ID.
func (r *MemoryUserRepository) GetByID(_ context.Context, id string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.ID == id }, "id "+id)
}

// UpdateCart replaces the cart of the user.
func (r *MemoryUserRepository) UpdateCart(_ context.Context, userID string, cart models.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[userID]
	if !ok {
		return fmt.Errorf("user with id %s %w", userID, ErrNotFound)
	}
	user.Cart = models.Cart{Items: append([]models.CartItem(nil), cart.Items...)}
	user.UpdatedAt = time.Now()
	r.users[userID] = user
	return nil
}

func cloneUser(u models.User) models.User {
	u.Cart.Items = append([]models.CartItem(nil), u.Cart.Items...)
	return u
}
