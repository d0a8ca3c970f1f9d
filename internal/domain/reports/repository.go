package reports

import (
	"context"
)

// Repository defines report data access.
type Repository interface {
	// Sales (active invoices only)
	GetSalesSummary(ctx context.Context, filter SalesFilter) (*SalesSummary, error)
	GetSalesByDay(ctx context.Context, filter SalesFilter) ([]SalesByDayItem, error)
	GetSalesByStaff(ctx context.Context, filter SalesFilter) ([]SalesByStaffItem, error)
	GetTopProducts(ctx context.Context, filter SalesFilter) ([]TopProductItem, error)

	// Purchasing (received orders only)
	GetPurchaseSummary(ctx context.Context, filter PurchaseFilter) (*PurchaseSummary, error)
	GetPurchasesBySupplier(ctx context.Context, filter PurchaseFilter) ([]PurchasesBySupplierItem, error)

	// Dashboard
	GetDashboardStats(ctx context.Context) (*DashboardStats, error)
}
