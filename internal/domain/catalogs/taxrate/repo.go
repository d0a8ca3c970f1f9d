package taxrate

import (
	"context"

	"invenpos/internal/core/id"
	"invenpos/internal/domain"
)

// Repository defines the interface for TaxRate persistence.
type Repository interface {
	domain.CatalogRepository[*TaxRate]

	// FindActive returns the single active rate, or a not-found error.
	FindActive(ctx context.Context) (*TaxRate, error)

	// DeactivateAll clears the active flag on every rate.
	DeactivateAll(ctx context.Context) error

	// SetActive flips the active flag on one rate.
	SetActive(ctx context.Context, id id.ID, active bool) error
}
