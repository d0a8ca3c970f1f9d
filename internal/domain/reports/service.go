package reports

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"invenpos/internal/core/apperror"
	"invenpos/internal/core/types"
)

// Service provides report generation operations.
type Service struct {
	repo Repository
}

// NewService creates a new reports service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func validatePeriod(p PeriodFilter) error {
	if p.FromDate != nil && p.ToDate != nil && p.FromDate.After(*p.ToDate) {
		return apperror.NewValidation("fromDate must not be after toDate").
			WithDetail("field", "fromDate")
	}
	return nil
}

func clampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}

// GetSalesSummary returns period sales totals and the derived average.
func (s *Service) GetSalesSummary(ctx context.Context, filter SalesFilter) (*SalesSummary, error) {
	if err := validatePeriod(filter.PeriodFilter); err != nil {
		return nil, err
	}

	summary, err := s.repo.GetSalesSummary(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("get sales summary: %w", err)
	}

	if summary.InvoiceCount > 0 {
		summary.AverageSale = types.Round2(summary.Revenue.Div(decimal.NewFromInt(int64(summary.InvoiceCount))))
	} else {
		summary.AverageSale = decimal.Zero
	}
	summary.FromDate = filter.FromDate
	summary.ToDate = filter.ToDate

	return summary, nil
}

// GetSalesByDay returns per-day sales for the period.
func (s *Service) GetSalesByDay(ctx context.Context, filter SalesFilter) ([]SalesByDayItem, error) {
	if err := validatePeriod(filter.PeriodFilter); err != nil {
		return nil, err
	}

	filter.Limit = clampLimit(filter.Limit, 100, 1000)
	items, err := s.repo.GetSalesByDay(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("get sales by day: %w", err)
	}
	return items, nil
}

// GetSalesByStaff returns per-cashier sales for the period.
func (s *Service) GetSalesByStaff(ctx context.Context, filter SalesFilter) ([]SalesByStaffItem, error) {
	if err := validatePeriod(filter.PeriodFilter); err != nil {
		return nil, err
	}

	filter.Limit = clampLimit(filter.Limit, 100, 1000)
	items, err := s.repo.GetSalesByStaff(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("get sales by staff: %w", err)
	}
	return items, nil
}

// GetTopProducts returns products ranked by units sold or by revenue
// over the period.
func (s *Service) GetTopProducts(ctx context.Context, filter SalesFilter) ([]TopProductItem, error) {
	if err := validatePeriod(filter.PeriodFilter); err != nil {
		return nil, err
	}

	switch filter.RankBy {
	case "":
		filter.RankBy = RankByUnits
	case RankByUnits, RankByRevenue:
	default:
		return nil, apperror.NewValidation("rank must be units or revenue").
			WithDetail("field", "by")
	}

	filter.Limit = clampLimit(filter.Limit, 10, 100)
	items, err := s.repo.GetTopProducts(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("get top products: %w", err)
	}
	return items, nil
}

// GetPurchaseSummary returns totals for received orders in the period.
func (s *Service) GetPurchaseSummary(ctx context.Context, filter PurchaseFilter) (*PurchaseSummary, error) {
	if err := validatePeriod(filter.PeriodFilter); err != nil {
		return nil, err
	}

	summary, err := s.repo.GetPurchaseSummary(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("get purchase summary: %w", err)
	}
	summary.FromDate = filter.FromDate
	summary.ToDate = filter.ToDate

	return summary, nil
}

// GetPurchasesBySupplier returns received order totals per supplier.
func (s *Service) GetPurchasesBySupplier(ctx context.Context, filter PurchaseFilter) ([]PurchasesBySupplierItem, error) {
	if err := validatePeriod(filter.PeriodFilter); err != nil {
		return nil, err
	}

	filter.Limit = clampLimit(filter.Limit, 100, 1000)
	items, err := s.repo.GetPurchasesBySupplier(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("get purchases by supplier: %w", err)
	}
	return items, nil
}

// GetDashboardStats returns the storefront overview.
func (s *Service) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	stats, err := s.repo.GetDashboardStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("get dashboard stats: %w", err)
	}

	stats.GrossProfit = stats.TotalRevenue.Sub(stats.TotalPurchases)

	return stats, nil
}
