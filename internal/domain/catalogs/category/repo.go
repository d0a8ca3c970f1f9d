package category

import (
	"context"

	"invenpos/internal/domain"
)

// Repository defines the interface for Category persistence.
type Repository interface {
	domain.CatalogRepository[*Category]

	// FindByName retrieves a category by exact name.
	FindByName(ctx context.Context, name string) (*Category, error)
}
