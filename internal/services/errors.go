package services

import (
	"errors"
	"fmt"

	"storefront/internal/repositories"
)

var (
	// ErrNotFound is returned when a product or order does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is returned when a user acts on an order they do not own.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrEmptyCart is returned when an order is placed from a cart with no
	// resolvable products.
	ErrEmptyCart = errors.New("cart is empty")
)

// BackingStoreError wraps any persistence failure.
type BackingStoreError struct {
	Op  string
	Err error
}

func (e *BackingStoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *BackingStoreError) Unwrap() error {
	return e.Err
}

// storeError classifies a repository error: missing records become
// ErrNotFound, everything else a BackingStoreError.
func storeError(op string, err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return &BackingStoreError{Op: op, Err: err}
}
