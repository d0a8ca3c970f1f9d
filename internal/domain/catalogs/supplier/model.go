// Package supplier provides the Supplier catalog.
// Suppliers are attributed on restocks and purchase orders. An inactive
// supplier is kept for history but cannot be used on new documents.
package supplier

import (
	"context"

	"invenpos/internal/core/entity"
)

// Supplier represents a goods supplier.
type Supplier struct {
	entity.Catalog

	// ContactPerson is the primary contact
	ContactPerson *string `db:"contact_person" json:"contactPerson,omitempty"`

	// Phone number
	Phone *string `db:"phone" json:"phone,omitempty"`

	// Email address
	Email *string `db:"email" json:"email,omitempty"`

	// Address is the postal address
	Address *string `db:"address" json:"address,omitempty"`

	// Active indicates the supplier can be used on new documents
	Active bool `db:"active" json:"active"`
}

// NewSupplier creates a new active Supplier.
func NewSupplier(code, name string) *Supplier {
	return &Supplier{
		Catalog: entity.NewCatalog(code, name),
		Active:  true,
	}
}

// Validate implements entity.Validatable interface.
func (s *Supplier) Validate(ctx context.Context) error {
	return s.Catalog.Validate(ctx)
}
