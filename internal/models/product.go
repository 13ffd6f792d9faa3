package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a catalog entry. The cart and order code never mutates it.
type Product struct {
	ID          string          `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Title       string          `json:"title" validate:"required,min=1,max=200"`
	Price       decimal.Decimal `json:"price" gorm:"type:numeric(12,2)"`
	Description string          `json:"description" validate:"omitempty,max=2000"`
	ImageURL    string          `json:"image_url"`
	CreatedAt   time.Time       `json:"created_at" gorm:"index"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Snapshot copies the product's current field values.
func (p Product) Snapshot() ProductSnapshot {
	return ProductSnapshot{
		ID:          p.ID,
		Title:       p.Title,
		Price:       p.Price,
		Description: p.Description,
		ImageURL:    p.ImageURL,
	}
}
