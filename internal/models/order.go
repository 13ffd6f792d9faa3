package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductSnapshot is a value copy of a Product taken when an order is placed.
// Later edits or deletion of the catalog product never reach it.
type ProductSnapshot struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	ImageURL    string          `json:"image_url"`
}

// OrderProduct is one line of an order.
type OrderProduct struct {
	Quantity int             `json:"quantity"`
	Product  ProductSnapshot `json:"product"`
}

// Subtotal returns quantity * unit price.
func (op OrderProduct) Subtotal() decimal.Decimal {
	return op.Product.Price.Mul(decimal.NewFromInt(int64(op.Quantity)))
}

// OrderUser identifies the buyer; the email is copied at creation time.
type OrderUser struct {
	UserID string `json:"user_id" gorm:"column:user_id;index;type:varchar(36)"`
	Email  string `json:"email" gorm:"column:user_email;type:varchar(255)"`
}

// Order represents a completed purchase. It is never updated, only deleted.
type Order struct {
	ID        string         `json:"id" gorm:"primaryKey;type:varchar(36)"`
	User      OrderUser      `json:"user" gorm:"embedded"`
	Products  []OrderProduct `json:"products" gorm:"serializer:json"`
	CreatedAt time.Time      `json:"created_at" gorm:"index"`
}

// Total sums the subtotals of all products in the order.
func (o Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, p := range o.Products {
		total = total.Add(p.Subtotal())
	}
	return total
}

// Clone returns a deep copy so callers cannot alias the stored product list.
func (o Order) Clone() Order {
	cp := o
	cp.Products = append([]OrderProduct(nil), o.Products...)
	return cp
}
