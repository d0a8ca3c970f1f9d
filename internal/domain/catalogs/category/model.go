// Package category provides the product Category catalog.
package category

import (
	"context"

	"invenpos/internal/core/entity"
)

// Category is a flat label grouping products.
type Category struct {
	entity.Catalog

	// Description is an optional note
	Description *string `db:"description" json:"description,omitempty"`
}

// NewCategory creates a new Category.
func NewCategory(code, name string) *Category {
	return &Category{
		Catalog: entity.NewCatalog(code, name),
	}
}

// Validate implements entity.Validatable interface.
func (c *Category) Validate(ctx context.Context) error {
	return c.Catalog.Validate(ctx)
}
