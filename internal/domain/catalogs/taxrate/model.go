// Package taxrate provides the TaxRate catalog.
// At most one rate is active; the active rate is resolved once per
// checkout transaction and snapshotted onto the invoice.
package taxrate

import (
	"context"

	"github.com/shopspring/decimal"

	"invenpos/internal/core/apperror"
	"invenpos/internal/core/entity"
	"invenpos/internal/core/types"
)

// TaxRate is a named percentage applied to invoice subtotals.
type TaxRate struct {
	entity.Catalog

	// Percentage in the range [0, 100]
	Percentage types.Money `db:"percentage" json:"percentage"`

	// Active marks the single auto-applied rate
	Active bool `db:"active" json:"active"`
}

// NewTaxRate creates a new inactive TaxRate.
func NewTaxRate(code, name string, percentage types.Money) *TaxRate {
	return &TaxRate{
		Catalog:    entity.NewCatalog(code, name),
		Percentage: percentage,
	}
}

// Validate implements entity.Validatable interface.
func (t *TaxRate) Validate(ctx context.Context) error {
	if err := t.Catalog.Validate(ctx); err != nil {
		return err
	}

	if t.Percentage.IsNegative() || t.Percentage.GreaterThan(decimal.NewFromInt(100)) {
		return apperror.NewValidation("percentage must be between 0 and 100").
			WithDetail("field", "percentage").
			WithDetail("value", t.Percentage.String())
	}

	return nil
}

// Apply computes the tax amount for a subtotal, rounded to 2 decimal
// places. Zero or negative subtotals carry no tax.
func (t *TaxRate) Apply(subtotal types.Money) types.Money {
	if !subtotal.IsPositive() {
		return decimal.Zero
	}
	return types.Round2(subtotal.Mul(t.Percentage).Div(decimal.NewFromInt(100)))
}
