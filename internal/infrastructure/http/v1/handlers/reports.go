package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"invenpos/internal/domain/reports"
	"invenpos/internal/infrastructure/http/v1/dto"
	"invenpos/internal/infrastructure/render"
)

const excelContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportsHandler handles reporting endpoints.
type ReportsHandler struct {
	*BaseHandler
	service *reports.Service
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(base *BaseHandler, service *reports.Service) *ReportsHandler {
	return &ReportsHandler{
		BaseHandler: base,
		service:     service,
	}
}

func (h *ReportsHandler) salesFilter(c *gin.Context) (reports.SalesFilter, bool) {
	var q dto.SalesReportQuery
	if !h.BindQuery(c, &q) {
		return reports.SalesFilter{}, false
	}
	return q.ToFilter(), true
}

func (h *ReportsHandler) purchaseFilter(c *gin.Context) (reports.PurchaseFilter, bool) {
	var q dto.PurchaseReportQuery
	if !h.BindQuery(c, &q) {
		return reports.PurchaseFilter{}, false
	}
	filter, err := q.ToFilter()
	if err != nil {
		h.Error(c, err)
		return filter, false
	}
	return filter, true
}

// GetSalesSummary handles GET /reports/sales/summary
func (h *ReportsHandler) GetSalesSummary(c *gin.Context) {
	filter, ok := h.salesFilter(c)
	if !ok {
		return
	}

	summary, err := h.service.GetSalesSummary(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetSalesByDay handles GET /reports/sales/by-day
func (h *ReportsHandler) GetSalesByDay(c *gin.Context) {
	filter, ok := h.salesFilter(c)
	if !ok {
		return
	}

	items, err := h.service.GetSalesByDay(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SalesByDayResponse{Items: items})
}

// GetSalesByStaff handles GET /reports/sales/by-staff
func (h *ReportsHandler) GetSalesByStaff(c *gin.Context) {
	filter, ok := h.salesFilter(c)
	if !ok {
		return
	}

	items, err := h.service.GetSalesByStaff(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SalesByStaffResponse{Items: items})
}

// GetTopProducts handles GET /reports/sales/top-products
func (h *ReportsHandler) GetTopProducts(c *gin.Context) {
	filter, ok := h.salesFilter(c)
	if !ok {
		return
	}

	items, err := h.service.GetTopProducts(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TopProductsResponse{Items: items})
}

// GetPurchaseSummary handles GET /reports/purchases/summary
func (h *ReportsHandler) GetPurchaseSummary(c *gin.Context) {
	filter, ok := h.purchaseFilter(c)
	if !ok {
		return
	}

	summary, err := h.service.GetPurchaseSummary(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetPurchasesBySupplier handles GET /reports/purchases/by-supplier
func (h *ReportsHandler) GetPurchasesBySupplier(c *gin.Context) {
	filter, ok := h.purchaseFilter(c)
	if !ok {
		return
	}

	items, err := h.service.GetPurchasesBySupplier(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.PurchasesBySupplierResponse{Items: items})
}

// GetDashboard handles GET /reports/dashboard
func (h *ReportsHandler) GetDashboard(c *gin.Context) {
	stats, err := h.service.GetDashboardStats(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ExportSales handles GET /reports/sales/export - sales workbook
// download.
func (h *ReportsHandler) ExportSales(c *gin.Context) {
	ctx := c.Request.Context()

	filter, ok := h.salesFilter(c)
	if !ok {
		return
	}

	summary, err := h.service.GetSalesSummary(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	byDay, err := h.service.GetSalesByDay(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	byStaff, err := h.service.GetSalesByStaff(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	topProducts, err := h.service.GetTopProducts(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	f, err := render.SalesReport(filter.PeriodFilter, summary, byDay, byStaff, topProducts)
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := writeWorkbook(c, f, fmt.Sprintf("sales-report-%s.xlsx", time.Now().Format("2006-01-02"))); err != nil {
		h.Error(c, err)
	}
}

// ExportPurchases handles GET /reports/purchases/export - purchasing
// workbook download.
func (h *ReportsHandler) ExportPurchases(c *gin.Context) {
	ctx := c.Request.Context()

	filter, ok := h.purchaseFilter(c)
	if !ok {
		return
	}

	summary, err := h.service.GetPurchaseSummary(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	bySupplier, err := h.service.GetPurchasesBySupplier(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	f, err := render.PurchaseReport(filter.PeriodFilter, summary, bySupplier)
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := writeWorkbook(c, f, fmt.Sprintf("purchase-report-%s.xlsx", time.Now().Format("2006-01-02"))); err != nil {
		h.Error(c, err)
	}
}

// writeWorkbook streams an xlsx file as an attachment.
func writeWorkbook(c *gin.Context, f *excelize.File, filename string) error {
	c.Header("Content-Type", excelContentType)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	return f.Write(c.Writer)
}
