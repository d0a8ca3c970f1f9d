package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"invenpos/internal/core/apperror"
	"invenpos/internal/core/id"
	"invenpos/internal/domain"
	"invenpos/internal/domain/documents/invoice"
	"invenpos/internal/infrastructure/http/v1/dto"
	"invenpos/internal/infrastructure/render"
)

// dateQueryFormats are accepted layouts for date query parameters.
var dateQueryFormats = []string{"2006-01-02", time.RFC3339}

// parseDateQuery parses an optional date query parameter.
func parseDateQuery(c *gin.Context, key string) (*time.Time, error) {
	val := c.Query(key)
	if val == "" {
		return nil, nil
	}
	for _, layout := range dateQueryFormats {
		if t, err := time.Parse(layout, val); err == nil {
			return &t, nil
		}
	}
	return nil, apperror.NewValidation("invalid date format").WithDetail("field", key)
}

// InvoiceHandler handles sales invoice endpoints.
type InvoiceHandler struct {
	*BaseHandler
	service *invoice.Service
}

// NewInvoiceHandler creates a new invoice handler.
func NewInvoiceHandler(base *BaseHandler, service *invoice.Service) *InvoiceHandler {
	return &InvoiceHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Checkout handles POST /invoices/checkout - converts a cart into a
// persisted invoice and decrements stock atomically.
func (h *InvoiceHandler) Checkout(c *gin.Context) {
	var req dto.CheckoutRequest
	if !h.BindJSON(c, &req) {
		return
	}

	serviceReq, err := req.ToServiceRequest()
	if err != nil {
		h.Error(c, err)
		return
	}

	doc, err := h.service.Checkout(c.Request.Context(), serviceReq)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromInvoice(doc))
}

// List handles GET /invoices - list with filtering and pagination.
func (h *InvoiceHandler) List(c *gin.Context) {
	filter := invoice.ListFilter{
		ListFilter: domain.ListFilter{
			Search:  c.Query("search"),
			Limit:   h.ParseIntQuery(c, "limit", 50),
			Offset:  h.ParseIntQuery(c, "offset", 0),
			OrderBy: c.DefaultQuery("orderBy", "-date"),
		},
		Cashier:       c.Query("cashier"),
		CashierExact:  c.Query("cashierExact") == "true",
		CustomerID:    c.Query("customerId"),
		Number:        c.Query("number"),
		IncludeVoided: c.Query("includeVoided") == "true",
	}

	if status := c.Query("status"); status != "" {
		st := invoice.Status(status)
		if st != invoice.StatusActive && st != invoice.StatusVoided {
			h.Error(c, apperror.NewValidation("unknown status").WithDetail("field", "status"))
			return
		}
		filter.Status = &st
	}

	var err error
	if filter.DateFrom, err = parseDateQuery(c, "dateFrom"); err != nil {
		h.Error(c, err)
		return
	}
	if filter.DateTo, err = parseDateQuery(c, "dateTo"); err != nil {
		h.Error(c, err)
		return
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]any, len(result.Items))
	for i, item := range result.Items {
		items[i] = dto.FromInvoice(item)
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Get handles GET /invoices/:id - invoice with lines.
func (h *InvoiceHandler) Get(c *gin.Context) {
	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	doc, err := h.service.GetByID(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromInvoice(doc))
}

// GetByNumber handles GET /invoices/number/:number
func (h *InvoiceHandler) GetByNumber(c *gin.Context) {
	doc, err := h.service.GetByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromInvoice(doc))
}

// Void handles POST /invoices/:id/void - marks the invoice voided.
// The record stays queryable; stock is not restored.
func (h *InvoiceHandler) Void(c *gin.Context) {
	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	if err := h.service.Void(c.Request.Context(), docID); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "invoice voided")
}

// Edit handles PUT /invoices/:id - administrative correction of the
// record. Totals are recomputed; stock is never touched.
func (h *InvoiceHandler) Edit(c *gin.Context) {
	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.EditInvoiceRequest
	if !h.BindJSON(c, &req) {
		return
	}

	edit, err := req.ToServiceEdit()
	if err != nil {
		h.Error(c, err)
		return
	}

	doc, err := h.service.Edit(c.Request.Context(), docID, edit)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromInvoice(doc))
}

// UpdateTaxRate handles PUT /invoices/:id/tax-rate - re-snapshots the
// tax rate and recomputes amounts. Null detaches tax.
func (h *InvoiceHandler) UpdateTaxRate(c *gin.Context) {
	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.UpdateInvoiceTaxRateRequest
	if !h.BindJSON(c, &req) {
		return
	}

	var rateID *id.ID
	if req.TaxRateID != nil && *req.TaxRateID != "" {
		parsed, err := id.Parse(*req.TaxRateID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid tax rate id").WithDetail("field", "taxRateId"))
			return
		}
		rateID = &parsed
	}

	if err := h.service.UpdateTaxRate(c.Request.Context(), docID, rateID); err != nil {
		h.Error(c, err)
		return
	}

	doc, err := h.service.GetByID(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromInvoice(doc))
}

// ExportReceipt handles GET /invoices/:id/export - xlsx receipt
// download.
func (h *InvoiceHandler) ExportReceipt(c *gin.Context) {
	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	doc, err := h.service.GetByID(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	f, err := render.InvoiceReceipt(doc)
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := writeWorkbook(c, f, fmt.Sprintf("invoice-%s.xlsx", doc.Number)); err != nil {
		h.Error(c, err)
	}
}

// Delete handles DELETE /invoices/:id - permanent removal.
func (h *InvoiceHandler) Delete(c *gin.Context) {
	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	if err := h.service.HardDelete(c.Request.Context(), docID); err != nil {
		h.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
