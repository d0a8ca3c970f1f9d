package invoice

import (
	"context"
	"time"

	"invenpos/internal/core/id"
	"invenpos/internal/domain"
)

// Repository defines operations for invoice documents.
type Repository interface {
	Create(ctx context.Context, doc *Invoice) error
	GetByID(ctx context.Context, docID id.ID) (*Invoice, error)
	GetByNumber(ctx context.Context, number string) (*Invoice, error)
	Update(ctx context.Context, doc *Invoice) error

	// HardDelete permanently removes the invoice and its lines.
	HardDelete(ctx context.Context, docID id.ID) error

	GetLines(ctx context.Context, docID id.ID) ([]Line, error)
	SaveLines(ctx context.Context, docID id.ID, lines []Line) error

	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Invoice], error)
}

// ListFilter for filtering invoices.
type ListFilter struct {
	domain.ListFilter

	// Cashier matches staff name: exact when CashierExact, contains otherwise
	Cashier      string
	CashierExact bool

	// CustomerID substring match
	CustomerID string

	// Number substring match
	Number string

	// Status filters by lifecycle state; nil means active only unless
	// IncludeVoided is set
	Status        *Status
	IncludeVoided bool

	DateFrom *time.Time
	DateTo   *time.Time
}
