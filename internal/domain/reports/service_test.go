package reports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invenpos/internal/core/types"
)

type fakeRepo struct {
	summary      *SalesSummary
	lastSales    SalesFilter
	lastPurchase PurchaseFilter
}

func (r *fakeRepo) GetSalesSummary(_ context.Context, filter SalesFilter) (*SalesSummary, error) {
	r.lastSales = filter
	cp := *r.summary
	return &cp, nil
}

func (r *fakeRepo) GetSalesByDay(_ context.Context, filter SalesFilter) ([]SalesByDayItem, error) {
	r.lastSales = filter
	return nil, nil
}

func (r *fakeRepo) GetSalesByStaff(_ context.Context, filter SalesFilter) ([]SalesByStaffItem, error) {
	r.lastSales = filter
	return nil, nil
}

func (r *fakeRepo) GetTopProducts(_ context.Context, filter SalesFilter) ([]TopProductItem, error) {
	r.lastSales = filter
	return nil, nil
}

func (r *fakeRepo) GetPurchaseSummary(_ context.Context, filter PurchaseFilter) (*PurchaseSummary, error) {
	r.lastPurchase = filter
	return &PurchaseSummary{}, nil
}

func (r *fakeRepo) GetPurchasesBySupplier(_ context.Context, filter PurchaseFilter) ([]PurchasesBySupplierItem, error) {
	r.lastPurchase = filter
	return nil, nil
}

func (r *fakeRepo) GetDashboardStats(_ context.Context) (*DashboardStats, error) {
	return &DashboardStats{
		TotalRevenue:   types.MustMoney("500.00"),
		TotalPurchases: types.MustMoney("320.00"),
	}, nil
}

func TestGetSalesSummary_AverageSale(t *testing.T) {
	repo := &fakeRepo{summary: &SalesSummary{
		InvoiceCount: 3,
		Revenue:      types.MustMoney("100"),
	}}
	svc := NewService(repo)

	summary, err := svc.GetSalesSummary(context.Background(), SalesFilter{})
	require.NoError(t, err)
	assert.True(t, summary.AverageSale.Equal(types.MustMoney("33.33")), "average = %s", summary.AverageSale)
}

func TestGetSalesSummary_NoSales(t *testing.T) {
	repo := &fakeRepo{summary: &SalesSummary{}}
	svc := NewService(repo)

	summary, err := svc.GetSalesSummary(context.Background(), SalesFilter{})
	require.NoError(t, err)
	assert.True(t, summary.AverageSale.IsZero())
}

func TestPeriodValidation(t *testing.T) {
	repo := &fakeRepo{summary: &SalesSummary{}}
	svc := NewService(repo)

	from := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, -7)

	_, err := svc.GetSalesSummary(context.Background(), SalesFilter{
		PeriodFilter: PeriodFilter{FromDate: &from, ToDate: &to},
	})
	assert.Error(t, err, "inverted period must be rejected")

	_, err = svc.GetPurchaseSummary(context.Background(), PurchaseFilter{
		PeriodFilter: PeriodFilter{FromDate: &from, ToDate: &to},
	})
	assert.Error(t, err)
}

func TestLimitClamping(t *testing.T) {
	repo := &fakeRepo{summary: &SalesSummary{}}
	svc := NewService(repo)
	ctx := context.Background()

	_, err := svc.GetTopProducts(ctx, SalesFilter{})
	require.NoError(t, err)
	assert.Equal(t, 10, repo.lastSales.Limit, "default top products limit")

	_, err = svc.GetTopProducts(ctx, SalesFilter{Limit: 5000})
	require.NoError(t, err)
	assert.Equal(t, 100, repo.lastSales.Limit, "limit is capped")

	_, err = svc.GetSalesByDay(ctx, SalesFilter{})
	require.NoError(t, err)
	assert.Equal(t, 100, repo.lastSales.Limit)
}

func TestGetTopProducts_Ranking(t *testing.T) {
	repo := &fakeRepo{summary: &SalesSummary{}}
	svc := NewService(repo)
	ctx := context.Background()

	_, err := svc.GetTopProducts(ctx, SalesFilter{})
	require.NoError(t, err)
	assert.Equal(t, RankByUnits, repo.lastSales.RankBy, "units is the default ranking")

	_, err = svc.GetTopProducts(ctx, SalesFilter{RankBy: RankByRevenue})
	require.NoError(t, err)
	assert.Equal(t, RankByRevenue, repo.lastSales.RankBy)

	_, err = svc.GetTopProducts(ctx, SalesFilter{RankBy: "popularity"})
	assert.Error(t, err, "unknown ranking must be rejected")
}

func TestGetDashboardStats_GrossProfit(t *testing.T) {
	repo := &fakeRepo{summary: &SalesSummary{}}
	svc := NewService(repo)

	stats, err := svc.GetDashboardStats(context.Background())
	require.NoError(t, err)
	assert.True(t, stats.GrossProfit.Equal(types.MustMoney("180.00")), "profit = %s", stats.GrossProfit)
}
