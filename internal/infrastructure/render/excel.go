// Package render produces downloadable report workbooks.
package render

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"invenpos/internal/domain/documents/invoice"
	"invenpos/internal/domain/reports"
)

const dateLayout = "2006-01-02"

// setRow writes values into one row starting at column A.
func setRow(f *excelize.File, sheet string, row int, values ...any) error {
	for i, value := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return err
		}
	}
	return nil
}

func formatPeriod(filter reports.PeriodFilter) string {
	switch {
	case filter.FromDate != nil && filter.ToDate != nil:
		return filter.FromDate.Format(dateLayout) + " to " + filter.ToDate.Format(dateLayout)
	case filter.FromDate != nil:
		return "from " + filter.FromDate.Format(dateLayout)
	case filter.ToDate != nil:
		return "until " + filter.ToDate.Format(dateLayout)
	default:
		return "all time"
	}
}

// SalesReport builds a sales workbook: a summary sheet plus per-day,
// per-cashier and top product breakdowns.
func SalesReport(
	period reports.PeriodFilter,
	summary *reports.SalesSummary,
	byDay []reports.SalesByDayItem,
	byStaff []reports.SalesByStaffItem,
	topProducts []reports.TopProductItem,
) (*excelize.File, error) {
	f := excelize.NewFile()

	const summarySheet = "Summary"
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}

	rows := [][]any{
		{"Sales Report", formatPeriod(period)},
		{},
		{"Invoices", summary.InvoiceCount},
		{"Items sold", summary.ItemsSold},
		{"Subtotal", summary.Subtotal.String()},
		{"Tax collected", summary.TaxCollected.String()},
		{"Revenue", summary.Revenue.String()},
		{"Average sale", summary.AverageSale.String()},
	}
	for i, row := range rows {
		if err := setRow(f, summarySheet, i+1, row...); err != nil {
			return nil, err
		}
	}

	daySheet := "By Day"
	if _, err := f.NewSheet(daySheet); err != nil {
		return nil, err
	}
	if err := setRow(f, daySheet, 1, "Day", "Invoices", "Items sold", "Revenue"); err != nil {
		return nil, err
	}
	for i, item := range byDay {
		err := setRow(f, daySheet, i+2,
			item.Day.Format(dateLayout), item.InvoiceCount, item.ItemsSold, item.Revenue.String())
		if err != nil {
			return nil, err
		}
	}

	staffSheet := "By Cashier"
	if _, err := f.NewSheet(staffSheet); err != nil {
		return nil, err
	}
	if err := setRow(f, staffSheet, 1, "Cashier", "Invoices", "Items sold", "Revenue"); err != nil {
		return nil, err
	}
	for i, item := range byStaff {
		err := setRow(f, staffSheet, i+2,
			item.StaffName, item.InvoiceCount, item.ItemsSold, item.Revenue.String())
		if err != nil {
			return nil, err
		}
	}

	productSheet := "Top Products"
	if _, err := f.NewSheet(productSheet); err != nil {
		return nil, err
	}
	if err := setRow(f, productSheet, 1, "Product", "Units sold", "Revenue"); err != nil {
		return nil, err
	}
	for i, item := range topProducts {
		err := setRow(f, productSheet, i+2,
			item.ProductName, item.UnitsSold, item.Revenue.String())
		if err != nil {
			return nil, err
		}
	}

	return f, nil
}

// PurchaseReport builds a purchasing workbook: a summary sheet plus a
// per-supplier breakdown. Only received orders are counted.
func PurchaseReport(
	period reports.PeriodFilter,
	summary *reports.PurchaseSummary,
	bySupplier []reports.PurchasesBySupplierItem,
) (*excelize.File, error) {
	f := excelize.NewFile()

	const summarySheet = "Summary"
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}

	rows := [][]any{
		{"Purchase Report", formatPeriod(period)},
		{},
		{"Received orders", summary.OrderCount},
		{"Items received", summary.ItemsReceived},
		{"Total cost", summary.TotalCost.String()},
	}
	for i, row := range rows {
		if err := setRow(f, summarySheet, i+1, row...); err != nil {
			return nil, err
		}
	}

	supplierSheet := "By Supplier"
	if _, err := f.NewSheet(supplierSheet); err != nil {
		return nil, err
	}
	if err := setRow(f, supplierSheet, 1, "Supplier", "Orders", "Total cost"); err != nil {
		return nil, err
	}
	for i, item := range bySupplier {
		err := setRow(f, supplierSheet, i+2,
			item.SupplierName, item.OrderCount, item.TotalCost.String())
		if err != nil {
			return nil, err
		}
	}

	return f, nil
}

// InvoiceReceipt builds a single-invoice workbook with the header
// snapshot and the sold lines.
func InvoiceReceipt(doc *invoice.Invoice) (*excelize.File, error) {
	f := excelize.NewFile()

	const sheet = "Invoice"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	header := [][]any{
		{"Invoice", doc.Number},
		{"Date", doc.Date.Format("2006-01-02 15:04")},
		{"Customer", doc.CustomerID},
		{"Cashier", doc.StaffName},
		{"Status", string(doc.Status)},
		{},
		{"#", "Product", "Qty", "Unit price", "Line total"},
	}
	for i, row := range header {
		if err := setRow(f, sheet, i+1, row...); err != nil {
			return nil, err
		}
	}

	row := len(header) + 1
	for _, line := range doc.Lines {
		err := setRow(f, sheet, row,
			line.LineNo, line.ProductName, line.Quantity, line.UnitPrice.String(), line.LineTotal.String())
		if err != nil {
			return nil, err
		}
		row++
	}

	row++
	totals := [][]any{
		{"", "", "", "Subtotal", doc.Subtotal.String()},
		{"", "", "", fmt.Sprintf("Tax (%s%%)", doc.TaxPercentage.String()), doc.TaxAmount.String()},
		{"", "", "", "Total", doc.TotalAmount.String()},
		{"", "", "", "Cash received", doc.CashReceived.String()},
		{"", "", "", "Change due", doc.ChangeDue.String()},
	}
	for _, t := range totals {
		if err := setRow(f, sheet, row, t...); err != nil {
			return nil, err
		}
		row++
	}

	return f, nil
}
