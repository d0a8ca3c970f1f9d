package product

import (
	"context"

	"invenpos/internal/core/id"
	"invenpos/internal/domain"
)

// Repository defines the interface for Product persistence.
type Repository interface {
	domain.CatalogRepository[*Product]

	// FindByName retrieves a product by exact name.
	FindByName(ctx context.Context, name string) (*Product, error)

	// GetForUpdate retrieves a product with a row lock. Must be called
	// inside a transaction; the lock serializes concurrent stock changes.
	GetForUpdate(ctx context.Context, id id.ID) (*Product, error)

	// DecrementStock atomically subtracts qty from on-hand stock.
	// It only succeeds when the remaining quantity stays non-negative;
	// otherwise it reports the current quantity with ok=false.
	DecrementStock(ctx context.Context, id id.ID, qty int) (remaining int, ok bool, err error)

	// IncrementStock atomically adds qty to on-hand stock.
	IncrementStock(ctx context.Context, id id.ID, qty int) (remaining int, err error)

	// FindLowStock retrieves products at or below their low stock threshold.
	FindLowStock(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Product], error)
}
