// Package reports provides sales, purchasing and dashboard reporting.
package reports

import (
	"time"

	"invenpos/internal/core/id"
	"invenpos/internal/core/types"
)

// PeriodFilter bounds a report to a date range. Zero bounds are open.
type PeriodFilter struct {
	FromDate *time.Time
	ToDate   *time.Time
}

// --- Sales reports ---

// SalesFilter defines filters for sales reports. Voided invoices are
// always excluded from sales figures.
type SalesFilter struct {
	PeriodFilter

	// StaffName limits the report to one cashier (exact match)
	StaffName string

	// CustomerID substring match
	CustomerID string

	// RankBy orders the top-products report, RankByUnits when empty
	RankBy string

	Limit  int
	Offset int
}

// Top-product rankings.
const (
	RankByUnits   = "units"
	RankByRevenue = "revenue"
)

// SalesSummary aggregates sales over a period.
type SalesSummary struct {
	FromDate *time.Time `json:"fromDate,omitempty"`
	ToDate   *time.Time `json:"toDate,omitempty"`

	InvoiceCount int         `json:"invoiceCount"`
	ItemsSold    int         `json:"itemsSold"`
	Subtotal     types.Money `json:"subtotal"`
	TaxCollected types.Money `json:"taxCollected"`
	Revenue      types.Money `json:"revenue"`

	// AverageSale is Revenue / InvoiceCount, zero when no invoices
	AverageSale types.Money `json:"averageSale"`
}

// SalesByDayItem is one calendar day of sales.
type SalesByDayItem struct {
	Day          time.Time   `json:"day"`
	InvoiceCount int         `json:"invoiceCount"`
	ItemsSold    int         `json:"itemsSold"`
	Revenue      types.Money `json:"revenue"`
}

// SalesByStaffItem aggregates sales per cashier.
type SalesByStaffItem struct {
	StaffName    string      `json:"staffName"`
	InvoiceCount int         `json:"invoiceCount"`
	ItemsSold    int         `json:"itemsSold"`
	Revenue      types.Money `json:"revenue"`
}

// TopProductItem is one product ranked by units sold.
type TopProductItem struct {
	ProductID   id.ID       `json:"productId"`
	ProductName string      `json:"productName"`
	UnitsSold   int         `json:"unitsSold"`
	Revenue     types.Money `json:"revenue"`
}

// --- Purchase reports ---

// PurchaseFilter defines filters for purchase reports. Only received
// orders count toward purchase figures.
type PurchaseFilter struct {
	PeriodFilter

	SupplierID *id.ID

	Limit  int
	Offset int
}

// PurchaseSummary aggregates received purchase orders over a period.
type PurchaseSummary struct {
	FromDate *time.Time `json:"fromDate,omitempty"`
	ToDate   *time.Time `json:"toDate,omitempty"`

	OrderCount    int         `json:"orderCount"`
	ItemsReceived int         `json:"itemsReceived"`
	TotalCost     types.Money `json:"totalCost"`
}

// PurchasesBySupplierItem aggregates received orders per supplier.
type PurchasesBySupplierItem struct {
	SupplierID   id.ID       `json:"supplierId"`
	SupplierName string      `json:"supplierName"`
	OrderCount   int         `json:"orderCount"`
	TotalCost    types.Money `json:"totalCost"`
}

// --- Dashboard ---

// DashboardStats is the storefront overview.
type DashboardStats struct {
	ProductCount  int `json:"productCount"`
	CategoryCount int `json:"categoryCount"`
	SupplierCount int `json:"supplierCount"`
	CashierCount  int `json:"cashierCount"`
	LowStockCount int `json:"lowStockCount"`

	// InventoryValue estimates stock at the standard cost factor
	// (60% of sale price)
	InventoryValue types.Money `json:"inventoryValue"`

	// All-time totals over active invoices and received orders
	TotalRevenue   types.Money `json:"totalRevenue"`
	TotalPurchases types.Money `json:"totalPurchases"`

	// GrossProfit = TotalRevenue - TotalPurchases
	GrossProfit types.Money `json:"grossProfit"`

	TodayInvoiceCount int         `json:"todayInvoiceCount"`
	TodayRevenue      types.Money `json:"todayRevenue"`

	PendingOrderCount int `json:"pendingOrderCount"`

	RecentSales     []RecentSaleItem     `json:"recentSales"`
	RecentPurchases []RecentPurchaseItem `json:"recentPurchases"`
}

// RecentSaleItem is one row of the dashboard's latest sales feed.
type RecentSaleItem struct {
	ID          id.ID       `json:"id"`
	Number      string      `json:"number"`
	CustomerID  string      `json:"customerId"`
	StaffName   string      `json:"staffName"`
	TotalAmount types.Money `json:"totalAmount"`
	Date        time.Time   `json:"date"`
}

// RecentPurchaseItem is one row of the dashboard's latest orders feed.
type RecentPurchaseItem struct {
	ID           id.ID       `json:"id"`
	Number       string      `json:"number"`
	SupplierName string      `json:"supplierName"`
	Status       string      `json:"status"`
	TotalCost    types.Money `json:"totalCost"`
	Date         time.Time   `json:"date"`
}
