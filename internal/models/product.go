package models

import (
	"time"

	"github.com/google/uuid"
)

type Product struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Name      string    `json:"name" db:"name"`
	SKU       string    `json:"sku" db:"sku"`
	Category  string    `json:"category" db:"category"`
	UnitPrice float64   `json:"unit_price" db:"unit_price"`
	Stock     float64   `json:"stock" db:"stock"`
	MinStock  *float64  `json:"min_stock,omitempty" db:"min_stock"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

func NewProduct(userID, name, category string, unitPrice, stock float64, minStock *float64) *Product {
	now := time.Now()
	return &Product{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      name,
		Category:  category,
		UnitPrice: unitPrice,
		Stock:     stock,
		MinStock:  minStock,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// LowStock reports whether the product has fallen to or below its minimum
// stock threshold, when one is configured.
func (p *Product) LowStock() bool {
	return p.MinStock != nil && p.Stock <= *p.MinStock
}
