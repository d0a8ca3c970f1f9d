package stock

import (
	"context"
	"time"

	"invenpos/internal/core/id"
	"invenpos/internal/domain"
)

// Repository defines operations for restock history.
type Repository interface {
	Create(ctx context.Context, entry *RestockEntry) error
	List(ctx context.Context, filter HistoryFilter) (domain.ListResult[*RestockEntry], error)
}

// HistoryFilter for querying restock history.
type HistoryFilter struct {
	ProductID  *id.ID
	SupplierID *id.ID

	DateFrom *time.Time
	DateTo   *time.Time

	Limit  int
	Offset int
}
