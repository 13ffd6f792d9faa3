package repositories

import "github.com/google/uuid"

// NewID returns a time-ordered UUIDv7, so ids created in the same clock tick
// still sort in creation order.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
