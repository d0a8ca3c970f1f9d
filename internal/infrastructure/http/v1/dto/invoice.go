package dto

import (
	"time"

	"invenpos/internal/core/apperror"
	"invenpos/internal/core/id"
	"invenpos/internal/core/types"
	"invenpos/internal/domain/documents/invoice"
)

// --- Request DTOs ---

// CheckoutLineRequest is one cart line in a checkout request.
type CheckoutLineRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`

	// UnitPrice overrides the catalog price when set
	UnitPrice *types.Money `json:"unitPrice"`
}

// CheckoutRequest is the request body for a checkout.
type CheckoutRequest struct {
	CustomerID   string                `json:"customerId"`
	CashReceived types.Money           `json:"cashReceived"`
	Comment      string                `json:"comment"`
	Lines        []CheckoutLineRequest `json:"lines" binding:"required"`
}

// ToServiceRequest converts the DTO to the domain checkout input.
func (r *CheckoutRequest) ToServiceRequest() (invoice.CheckoutRequest, error) {
	req := invoice.CheckoutRequest{
		CustomerID:   r.CustomerID,
		CashReceived: r.CashReceived,
		Comment:      r.Comment,
		Lines:        make([]invoice.CheckoutLine, 0, len(r.Lines)),
	}
	for i, line := range r.Lines {
		productID, err := id.Parse(line.ProductID)
		if err != nil {
			return req, apperror.NewValidation("invalid product id").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		req.Lines = append(req.Lines, invoice.CheckoutLine{
			ProductID: productID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}
	return req, nil
}

// EditInvoiceLineRequest corrects a single sold line.
type EditInvoiceLineRequest struct {
	LineID    string       `json:"lineId" binding:"required"`
	Quantity  *int         `json:"quantity"`
	UnitPrice *types.Money `json:"unitPrice"`
}

// EditInvoiceRequest is the request body for an administrative
// correction. Only the supplied fields change; stock is never touched.
type EditInvoiceRequest struct {
	StaffName    *string                  `json:"staffName"`
	CashReceived *types.Money             `json:"cashReceived"`
	Date         *time.Time               `json:"date"`
	Lines        []EditInvoiceLineRequest `json:"lines"`
}

// ToServiceEdit converts the DTO to the domain edit input.
func (r *EditInvoiceRequest) ToServiceEdit() (invoice.AdminEdit, error) {
	edit := invoice.AdminEdit{
		StaffName:    r.StaffName,
		CashReceived: r.CashReceived,
		Date:         r.Date,
		Lines:        make([]invoice.LineEdit, 0, len(r.Lines)),
	}
	for _, line := range r.Lines {
		lineID, err := id.Parse(line.LineID)
		if err != nil {
			return edit, apperror.NewValidation("invalid line id").
				WithDetail("field", "lines").
				WithDetail("lineId", line.LineID)
		}
		edit.Lines = append(edit.Lines, invoice.LineEdit{
			LineID:    lineID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}
	return edit, nil
}

// UpdateInvoiceTaxRateRequest re-snapshots the tax rate on an invoice.
// A null taxRateId detaches tax entirely.
type UpdateInvoiceTaxRateRequest struct {
	TaxRateID *string `json:"taxRateId"`
}

// --- Response DTOs ---

// InvoiceLineResponse is one sold item on an invoice.
type InvoiceLineResponse struct {
	LineID      string      `json:"lineId"`
	LineNo      int         `json:"lineNo"`
	ProductID   string      `json:"productId"`
	ProductName string      `json:"productName"`
	Quantity    int         `json:"quantity"`
	UnitPrice   types.Money `json:"unitPrice"`
	LineTotal   types.Money `json:"lineTotal"`
}

// InvoiceResponse is the response body for an invoice.
type InvoiceResponse struct {
	DocumentResponse

	CustomerID string `json:"customerId"`
	StaffName  string `json:"staffName"`

	Subtotal    types.Money `json:"subtotal"`
	TaxAmount   types.Money `json:"taxAmount"`
	TotalAmount types.Money `json:"totalAmount"`

	CashReceived types.Money `json:"cashReceived"`
	ChangeDue    types.Money `json:"changeDue"`

	TaxRateID     *string     `json:"taxRateId,omitempty"`
	TaxPercentage types.Money `json:"taxPercentage"`

	Status string `json:"status"`

	Lines []InvoiceLineResponse `json:"lines,omitempty"`
}

// FromInvoice creates response DTO from domain entity.
func FromInvoice(doc *invoice.Invoice) *InvoiceResponse {
	resp := &InvoiceResponse{
		DocumentResponse: FromDocument(doc.Document),
		CustomerID:       doc.CustomerID,
		StaffName:        doc.StaffName,
		Subtotal:         doc.Subtotal,
		TaxAmount:        doc.TaxAmount,
		TotalAmount:      doc.TotalAmount,
		CashReceived:     doc.CashReceived,
		ChangeDue:        doc.ChangeDue,
		TaxRateID:        doc.TaxRateID,
		TaxPercentage:    doc.TaxPercentage,
		Status:           string(doc.Status),
	}
	for _, line := range doc.Lines {
		resp.Lines = append(resp.Lines, InvoiceLineResponse{
			LineID:      line.LineID.String(),
			LineNo:      line.LineNo,
			ProductID:   line.ProductID.String(),
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			LineTotal:   line.LineTotal,
		})
	}
	return resp
}
