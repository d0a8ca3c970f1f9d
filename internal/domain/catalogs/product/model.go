// Package product provides the Product catalog.
// A product carries its unit price and the on-hand quantity that checkout
// and restock mutate. Quantity is a whole number of pieces and is never
// allowed to go negative.
package product

import (
	"context"

	"github.com/shopspring/decimal"

	"invenpos/internal/core/apperror"
	"invenpos/internal/core/entity"
	"invenpos/internal/core/types"
)

// DefaultLowStockThreshold flags products running out on the dashboard.
const DefaultLowStockThreshold = 10

// Product represents a sellable item.
type Product struct {
	entity.Catalog

	// CategoryID is the reference to the product category (nullable)
	CategoryID *string `db:"category_id" json:"categoryId,omitempty"`

	// Price is the unit sale price
	Price types.Money `db:"price" json:"price"`

	// Quantity is the current on-hand stock
	Quantity int `db:"quantity" json:"quantity"`

	// LowStockThreshold marks the level at which the item is considered low
	LowStockThreshold int `db:"low_stock_threshold" json:"lowStockThreshold"`

	// Description is an optional detailed description
	Description *string `db:"description" json:"description,omitempty"`
}

// NewProduct creates a new Product with required fields.
func NewProduct(code, name string, price types.Money) *Product {
	return &Product{
		Catalog:           entity.NewCatalog(code, name),
		Price:             price,
		LowStockThreshold: DefaultLowStockThreshold,
	}
}

// Validate implements entity.Validatable interface.
func (p *Product) Validate(ctx context.Context) error {
	if err := p.Catalog.Validate(ctx); err != nil {
		return err
	}

	if p.Price.IsNegative() {
		return apperror.NewValidation("price cannot be negative").
			WithDetail("field", "price")
	}

	if p.Quantity < 0 {
		return apperror.NewValidation("quantity cannot be negative").
			WithDetail("field", "quantity")
	}

	if p.LowStockThreshold < 0 {
		return apperror.NewValidation("low stock threshold cannot be negative").
			WithDetail("field", "lowStockThreshold")
	}

	return nil
}

// IsLowStock reports whether on-hand quantity is at or below the threshold.
func (p *Product) IsLowStock() bool {
	return p.Quantity <= p.LowStockThreshold
}

// InventoryValue estimates the stock value at the standard cost factor
// (60% of sale price, the store's costing convention).
func (p *Product) InventoryValue() types.Money {
	return p.Price.
		Mul(decimal.NewFromInt(int64(p.Quantity))).
		Mul(decimal.NewFromFloat(0.6))
}
