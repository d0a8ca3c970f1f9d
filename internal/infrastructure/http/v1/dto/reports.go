package dto

import (
	"time"

	"invenpos/internal/core/apperror"
	"invenpos/internal/core/id"
	"invenpos/internal/domain/reports"
)

// --- Sales reports ---

// SalesReportQuery holds query parameters for sales reports.
type SalesReportQuery struct {
	FromDate   *time.Time `form:"fromDate" time_format:"2006-01-02"`
	ToDate     *time.Time `form:"toDate" time_format:"2006-01-02"`
	StaffName  string     `form:"staffName"`
	CustomerID string     `form:"customerId"`

	// RankBy applies to the top-products report only: units or revenue
	RankBy string `form:"by"`

	Limit  int `form:"limit"`
	Offset int `form:"offset"`
}

// ToFilter converts query parameters to the domain filter.
func (q *SalesReportQuery) ToFilter() reports.SalesFilter {
	return reports.SalesFilter{
		PeriodFilter: reports.PeriodFilter{
			FromDate: q.FromDate,
			ToDate:   q.ToDate,
		},
		StaffName:  q.StaffName,
		CustomerID: q.CustomerID,
		RankBy:     q.RankBy,
		Limit:      q.Limit,
		Offset:     q.Offset,
	}
}

// --- Purchase reports ---

// PurchaseReportQuery holds query parameters for purchase reports.
type PurchaseReportQuery struct {
	FromDate   *time.Time `form:"fromDate" time_format:"2006-01-02"`
	ToDate     *time.Time `form:"toDate" time_format:"2006-01-02"`
	SupplierID string     `form:"supplierId"`
	Limit      int        `form:"limit"`
	Offset     int        `form:"offset"`
}

// ToFilter converts query parameters to the domain filter.
func (q *PurchaseReportQuery) ToFilter() (reports.PurchaseFilter, error) {
	filter := reports.PurchaseFilter{
		PeriodFilter: reports.PeriodFilter{
			FromDate: q.FromDate,
			ToDate:   q.ToDate,
		},
		Limit:  q.Limit,
		Offset: q.Offset,
	}
	if q.SupplierID != "" {
		supplierID, err := id.Parse(q.SupplierID)
		if err != nil {
			return filter, apperror.NewValidation("invalid supplier id").
				WithDetail("field", "supplierId")
		}
		filter.SupplierID = &supplierID
	}
	return filter, nil
}

// --- Response DTOs ---

// Report payloads are returned as the domain report types; they already
// carry JSON tags and contain no persistence details worth hiding.

// SalesByDayResponse wraps per-day sales rows.
type SalesByDayResponse struct {
	Items []reports.SalesByDayItem `json:"items"`
}

// SalesByStaffResponse wraps per-cashier sales rows.
type SalesByStaffResponse struct {
	Items []reports.SalesByStaffItem `json:"items"`
}

// TopProductsResponse wraps ranked product rows.
type TopProductsResponse struct {
	Items []reports.TopProductItem `json:"items"`
}

// PurchasesBySupplierResponse wraps per-supplier purchase rows.
type PurchasesBySupplierResponse struct {
	Items []reports.PurchasesBySupplierItem `json:"items"`
}
