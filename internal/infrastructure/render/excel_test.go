package render

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invenpos/internal/core/id"
	"invenpos/internal/core/types"
	"invenpos/internal/domain/documents/invoice"
	"invenpos/internal/domain/reports"
)

func TestFormatPeriod(t *testing.T) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "all time", formatPeriod(reports.PeriodFilter{}))
	assert.Equal(t, "from 2026-01-01", formatPeriod(reports.PeriodFilter{FromDate: &from}))
	assert.Equal(t, "until 2026-01-31", formatPeriod(reports.PeriodFilter{ToDate: &to}))
	assert.Equal(t, "2026-01-01 to 2026-01-31", formatPeriod(reports.PeriodFilter{FromDate: &from, ToDate: &to}))
}

func TestSalesReport_Workbook(t *testing.T) {
	summary := &reports.SalesSummary{
		InvoiceCount: 3,
		ItemsSold:    7,
		Subtotal:     types.MustMoney("100.00"),
		TaxCollected: types.MustMoney("8.25"),
		Revenue:      types.MustMoney("108.25"),
		AverageSale:  types.MustMoney("36.08"),
	}
	byDay := []reports.SalesByDayItem{
		{Day: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), InvoiceCount: 3, ItemsSold: 7, Revenue: types.MustMoney("108.25")},
	}
	byStaff := []reports.SalesByStaffItem{
		{StaffName: "Alice", InvoiceCount: 3, ItemsSold: 7, Revenue: types.MustMoney("108.25")},
	}
	topProducts := []reports.TopProductItem{
		{ProductID: id.New(), ProductName: "Coffee", UnitsSold: 5, Revenue: types.MustMoney("17.50")},
	}

	f, err := SalesReport(reports.PeriodFilter{}, summary, byDay, byStaff, topProducts)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"Summary", "By Day", "By Cashier", "Top Products"}, f.GetSheetList())

	title, err := f.GetCellValue("Summary", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Sales Report", title)

	revenue, err := f.GetCellValue("Summary", "B7")
	require.NoError(t, err)
	assert.Equal(t, "108.25", revenue)

	day, err := f.GetCellValue("By Day", "A2")
	require.NoError(t, err)
	assert.Equal(t, "2026-02-01", day)

	cashier, err := f.GetCellValue("By Cashier", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Alice", cashier)

	product, err := f.GetCellValue("Top Products", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Coffee", product)
}

func TestPurchaseReport_Workbook(t *testing.T) {
	summary := &reports.PurchaseSummary{
		OrderCount:    2,
		ItemsReceived: 40,
		TotalCost:     types.MustMoney("250.00"),
	}
	bySupplier := []reports.PurchasesBySupplierItem{
		{SupplierID: id.New(), SupplierName: "Acme Wholesale", OrderCount: 2, TotalCost: types.MustMoney("250.00")},
	}

	f, err := PurchaseReport(reports.PeriodFilter{}, summary, bySupplier)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"Summary", "By Supplier"}, f.GetSheetList())

	cost, err := f.GetCellValue("Summary", "B5")
	require.NoError(t, err)
	assert.Equal(t, "250.00", cost)

	supplier, err := f.GetCellValue("By Supplier", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Acme Wholesale", supplier)
}

func TestInvoiceReceipt_Workbook(t *testing.T) {
	doc := invoice.NewInvoice("CUST-001", "Alice")
	doc.Number = "INV-000042"
	doc.AddLine(id.New(), "Coffee", 2, types.MustMoney("3.50"))
	doc.AddLine(id.New(), "Bagel", 1, types.MustMoney("1.25"))

	rateID := id.New().String()
	doc.ApplyTax(&rateID, types.MustMoney("8.25"))
	doc.SetCashReceived(types.MustMoney("10"))

	f, err := InvoiceReceipt(doc)
	require.NoError(t, err)
	defer f.Close()

	number, err := f.GetCellValue("Invoice", "B1")
	require.NoError(t, err)
	assert.Equal(t, "INV-000042", number)

	// Lines start after the 7 header rows
	firstLine, err := f.GetCellValue("Invoice", "B8")
	require.NoError(t, err)
	assert.Equal(t, "Coffee", firstLine)

	secondQty, err := f.GetCellValue("Invoice", "C9")
	require.NoError(t, err)
	assert.Equal(t, "1", secondQty)

	// Totals block follows the lines with one blank row
	subtotalLabel, err := f.GetCellValue("Invoice", "D11")
	require.NoError(t, err)
	assert.Equal(t, "Subtotal", subtotalLabel)

	total, err := f.GetCellValue("Invoice", "E13")
	require.NoError(t, err)
	assert.Equal(t, "8.93", total)
}
