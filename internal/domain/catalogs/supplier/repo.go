package supplier

import (
	"context"

	"invenpos/internal/core/id"
	"invenpos/internal/domain"
)

// Repository defines the interface for Supplier persistence.
type Repository interface {
	domain.CatalogRepository[*Supplier]

	// FindByName retrieves a supplier by exact name.
	FindByName(ctx context.Context, name string) (*Supplier, error)

	// SetActive flips the active flag.
	SetActive(ctx context.Context, id id.ID, active bool) error
}
