// Package report_repo provides PostgreSQL implementations for report repositories.
package report_repo

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"

	"invenpos/internal/domain/reports"
	"invenpos/internal/infrastructure/storage/postgres"
)

// ReportRepo implements reports.Repository with SQL aggregates.
// Sales figures count active invoices only; purchase figures count
// received orders only.
type ReportRepo struct {
	txManager *postgres.TxManager
}

// NewReportRepo creates a new report repository.
func NewReportRepo(txManager *postgres.TxManager) *ReportRepo {
	return &ReportRepo{txManager: txManager}
}

// salesConditions builds the shared WHERE clause for sales reports.
// The alias d refers to doc_invoices.
func salesConditions(filter reports.SalesFilter) (string, []any) {
	conditions := "d.status = 'active'"
	var args []any
	argIndex := 1

	if filter.FromDate != nil {
		conditions += fmt.Sprintf(" AND d.date >= $%d", argIndex)
		args = append(args, *filter.FromDate)
		argIndex++
	}
	if filter.ToDate != nil {
		conditions += fmt.Sprintf(" AND d.date <= $%d", argIndex)
		args = append(args, *filter.ToDate)
		argIndex++
	}
	if filter.StaffName != "" {
		conditions += fmt.Sprintf(" AND d.staff_name = $%d", argIndex)
		args = append(args, filter.StaffName)
		argIndex++
	}
	if filter.CustomerID != "" {
		conditions += fmt.Sprintf(" AND d.customer_id ILIKE $%d", argIndex)
		args = append(args, "%"+filter.CustomerID+"%")
	}

	return conditions, args
}

// purchaseConditions builds the shared WHERE clause for purchase reports.
// The alias d refers to doc_purchase_orders.
func purchaseConditions(filter reports.PurchaseFilter) (string, []any) {
	conditions := "d.status = 'received'"
	var args []any
	argIndex := 1

	if filter.FromDate != nil {
		conditions += fmt.Sprintf(" AND d.date >= $%d", argIndex)
		args = append(args, *filter.FromDate)
		argIndex++
	}
	if filter.ToDate != nil {
		conditions += fmt.Sprintf(" AND d.date <= $%d", argIndex)
		args = append(args, *filter.ToDate)
		argIndex++
	}
	if filter.SupplierID != nil {
		conditions += fmt.Sprintf(" AND d.supplier_id = $%d", argIndex)
		args = append(args, *filter.SupplierID)
	}

	return conditions, args
}

// GetSalesSummary aggregates sales totals over the period.
func (r *ReportRepo) GetSalesSummary(ctx context.Context, filter reports.SalesFilter) (*reports.SalesSummary, error) {
	conditions, args := salesConditions(filter)

	query := fmt.Sprintf(`
		SELECT
			COUNT(*) as invoice_count,
			COALESCE(SUM((SELECT SUM(l.quantity) FROM doc_invoice_lines l WHERE l.document_id = d.id)), 0) as items_sold,
			COALESCE(SUM(d.subtotal), 0) as subtotal,
			COALESCE(SUM(d.tax_amount), 0) as tax_collected,
			COALESCE(SUM(d.total_amount), 0) as revenue
		FROM doc_invoices d
		WHERE %s
	`, conditions)

	summary := &reports.SalesSummary{}
	querier := r.txManager.GetQuerier(ctx)
	err := querier.QueryRow(ctx, query, args...).Scan(
		&summary.InvoiceCount,
		&summary.ItemsSold,
		&summary.Subtotal,
		&summary.TaxCollected,
		&summary.Revenue,
	)
	if err != nil {
		return nil, fmt.Errorf("sales summary: %w", err)
	}

	return summary, nil
}

// GetSalesByDay groups sales by calendar day, most recent first.
func (r *ReportRepo) GetSalesByDay(ctx context.Context, filter reports.SalesFilter) ([]reports.SalesByDayItem, error) {
	conditions, args := salesConditions(filter)

	query := fmt.Sprintf(`
		SELECT
			date_trunc('day', d.date) as day,
			COUNT(*) as invoice_count,
			COALESCE(SUM((SELECT SUM(l.quantity) FROM doc_invoice_lines l WHERE l.document_id = d.id)), 0) as items_sold,
			COALESCE(SUM(d.total_amount), 0) as revenue
		FROM doc_invoices d
		WHERE %s
		GROUP BY date_trunc('day', d.date)
		ORDER BY day DESC
	`, conditions)

	query += limitOffset(filter.Limit, filter.Offset)

	var items []reports.SalesByDayItem
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &items, query, args...); err != nil {
		return nil, fmt.Errorf("sales by day: %w", err)
	}

	return items, nil
}

// GetSalesByStaff groups sales by cashier, highest revenue first.
func (r *ReportRepo) GetSalesByStaff(ctx context.Context, filter reports.SalesFilter) ([]reports.SalesByStaffItem, error) {
	conditions, args := salesConditions(filter)

	query := fmt.Sprintf(`
		SELECT
			d.staff_name as staff_name,
			COUNT(*) as invoice_count,
			COALESCE(SUM((SELECT SUM(l.quantity) FROM doc_invoice_lines l WHERE l.document_id = d.id)), 0) as items_sold,
			COALESCE(SUM(d.total_amount), 0) as revenue
		FROM doc_invoices d
		WHERE %s
		GROUP BY d.staff_name
		ORDER BY revenue DESC
	`, conditions)

	query += limitOffset(filter.Limit, filter.Offset)

	var items []reports.SalesByStaffItem
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &items, query, args...); err != nil {
		return nil, fmt.Errorf("sales by staff: %w", err)
	}

	return items, nil
}

// GetTopProducts ranks products across active invoices. Product names
// come from the line snapshots, so deleted catalog items still appear.
func (r *ReportRepo) GetTopProducts(ctx context.Context, filter reports.SalesFilter) ([]reports.TopProductItem, error) {
	conditions, args := salesConditions(filter)

	orderBy := "units_sold DESC, revenue DESC"
	if filter.RankBy == reports.RankByRevenue {
		orderBy = "revenue DESC, units_sold DESC"
	}

	query := fmt.Sprintf(`
		SELECT
			l.product_id as product_id,
			MAX(l.product_name) as product_name,
			COALESCE(SUM(l.quantity), 0) as units_sold,
			COALESCE(SUM(l.line_total), 0) as revenue
		FROM doc_invoice_lines l
		JOIN doc_invoices d ON l.document_id = d.id
		WHERE %s
		GROUP BY l.product_id
		ORDER BY %s
	`, conditions, orderBy)

	query += limitOffset(filter.Limit, filter.Offset)

	var items []reports.TopProductItem
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &items, query, args...); err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}

	return items, nil
}

// GetPurchaseSummary aggregates received orders over the period.
func (r *ReportRepo) GetPurchaseSummary(ctx context.Context, filter reports.PurchaseFilter) (*reports.PurchaseSummary, error) {
	conditions, args := purchaseConditions(filter)

	query := fmt.Sprintf(`
		SELECT
			COUNT(*) as order_count,
			COALESCE(SUM((SELECT SUM(l.quantity) FROM doc_po_lines l WHERE l.document_id = d.id)), 0) as items_received,
			COALESCE(SUM(d.total_cost), 0) as total_cost
		FROM doc_purchase_orders d
		WHERE %s
	`, conditions)

	summary := &reports.PurchaseSummary{}
	querier := r.txManager.GetQuerier(ctx)
	err := querier.QueryRow(ctx, query, args...).Scan(
		&summary.OrderCount,
		&summary.ItemsReceived,
		&summary.TotalCost,
	)
	if err != nil {
		return nil, fmt.Errorf("purchase summary: %w", err)
	}

	return summary, nil
}

// GetPurchasesBySupplier groups received orders by supplier.
func (r *ReportRepo) GetPurchasesBySupplier(ctx context.Context, filter reports.PurchaseFilter) ([]reports.PurchasesBySupplierItem, error) {
	conditions, args := purchaseConditions(filter)

	query := fmt.Sprintf(`
		SELECT
			d.supplier_id as supplier_id,
			MAX(d.supplier_name) as supplier_name,
			COUNT(*) as order_count,
			COALESCE(SUM(d.total_cost), 0) as total_cost
		FROM doc_purchase_orders d
		WHERE %s
		GROUP BY d.supplier_id
		ORDER BY total_cost DESC
	`, conditions)

	query += limitOffset(filter.Limit, filter.Offset)

	var items []reports.PurchasesBySupplierItem
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &items, query, args...); err != nil {
		return nil, fmt.Errorf("purchases by supplier: %w", err)
	}

	return items, nil
}

// GetDashboardStats collects the storefront overview counters.
func (r *ReportRepo) GetDashboardStats(ctx context.Context) (*reports.DashboardStats, error) {
	stats := &reports.DashboardStats{}
	querier := r.txManager.GetQuerier(ctx)

	productQuery := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE quantity <= low_stock_threshold),
			COALESCE(SUM(price * quantity * 0.6), 0)
		FROM cat_products
		WHERE deletion_mark = false
	`
	if err := querier.QueryRow(ctx, productQuery).Scan(
		&stats.ProductCount,
		&stats.LowStockCount,
		&stats.InventoryValue,
	); err != nil {
		return nil, fmt.Errorf("dashboard products: %w", err)
	}

	countsQuery := `
		SELECT
			(SELECT COUNT(*) FROM cat_categories WHERE deletion_mark = false),
			(SELECT COUNT(*) FROM cat_suppliers WHERE deletion_mark = false),
			(SELECT COUNT(*) FROM users WHERE role = 'cashier' AND is_active = TRUE)
	`
	if err := querier.QueryRow(ctx, countsQuery).Scan(
		&stats.CategoryCount,
		&stats.SupplierCount,
		&stats.CashierCount,
	); err != nil {
		return nil, fmt.Errorf("dashboard counts: %w", err)
	}

	totalsQuery := `
		SELECT
			(SELECT COALESCE(SUM(total_amount), 0) FROM doc_invoices WHERE status = 'active'),
			(SELECT COALESCE(SUM(total_cost), 0) FROM doc_purchase_orders WHERE status = 'received')
	`
	if err := querier.QueryRow(ctx, totalsQuery).Scan(
		&stats.TotalRevenue,
		&stats.TotalPurchases,
	); err != nil {
		return nil, fmt.Errorf("dashboard totals: %w", err)
	}

	todayQuery := `
		SELECT COUNT(*), COALESCE(SUM(total_amount), 0)
		FROM doc_invoices
		WHERE status = 'active' AND date >= date_trunc('day', NOW())
	`
	if err := querier.QueryRow(ctx, todayQuery).Scan(
		&stats.TodayInvoiceCount,
		&stats.TodayRevenue,
	); err != nil {
		return nil, fmt.Errorf("dashboard today sales: %w", err)
	}

	pendingQuery := `
		SELECT COUNT(*)
		FROM doc_purchase_orders
		WHERE status = 'pending'
	`
	if err := querier.QueryRow(ctx, pendingQuery).Scan(&stats.PendingOrderCount); err != nil {
		return nil, fmt.Errorf("dashboard pending orders: %w", err)
	}

	recentSalesQuery := `
		SELECT id, number, customer_id, staff_name, total_amount, date
		FROM doc_invoices
		WHERE status = 'active'
		ORDER BY date DESC
		LIMIT 5
	`
	if err := pgxscan.Select(ctx, querier, &stats.RecentSales, recentSalesQuery); err != nil {
		return nil, fmt.Errorf("dashboard recent sales: %w", err)
	}

	recentPurchasesQuery := `
		SELECT id, number, supplier_name, status, total_cost, date
		FROM doc_purchase_orders
		ORDER BY date DESC
		LIMIT 5
	`
	if err := pgxscan.Select(ctx, querier, &stats.RecentPurchases, recentPurchasesQuery); err != nil {
		return nil, fmt.Errorf("dashboard recent purchases: %w", err)
	}

	return stats, nil
}

func limitOffset(limit, offset int) string {
	clause := ""
	if limit > 0 {
		clause += fmt.Sprintf(" LIMIT %d", limit)
	}
	if offset > 0 {
		clause += fmt.Sprintf(" OFFSET %d", offset)
	}
	return clause
}

// Ensure interface compliance
var _ reports.Repository = (*ReportRepo)(nil)
