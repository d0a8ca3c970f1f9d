package dto

import (
	"time"

	"invenpos/internal/core/apperror"
	"invenpos/internal/core/id"
	"invenpos/internal/core/types"
	"invenpos/internal/domain/documents/purchase"
)

// --- Request DTOs ---

// PurchaseOrderLineRequest is one ordered line.
type PurchaseOrderLineRequest struct {
	ProductID string      `json:"productId" binding:"required"`
	Quantity  int         `json:"quantity" binding:"required"`
	UnitCost  types.Money `json:"unitCost"`
}

// CreatePurchaseOrderRequest is the request body for creating an order.
type CreatePurchaseOrderRequest struct {
	SupplierID   string                     `json:"supplierId" binding:"required"`
	ExpectedDate time.Time                  `json:"expectedDate" binding:"required"`
	Comment      string                     `json:"comment"`
	Lines        []PurchaseOrderLineRequest `json:"lines" binding:"required"`
}

// ToServiceRequest converts the DTO to the domain create input.
func (r *CreatePurchaseOrderRequest) ToServiceRequest() (purchase.CreateRequest, error) {
	supplierID, err := id.Parse(r.SupplierID)
	if err != nil {
		return purchase.CreateRequest{}, apperror.NewValidation("invalid supplier id").
			WithDetail("field", "supplierId")
	}

	req := purchase.CreateRequest{
		SupplierID:   supplierID,
		ExpectedDate: r.ExpectedDate,
		Comment:      r.Comment,
		Lines:        make([]purchase.CreateLine, 0, len(r.Lines)),
	}
	for i, line := range r.Lines {
		productID, err := id.Parse(line.ProductID)
		if err != nil {
			return req, apperror.NewValidation("invalid product id").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		req.Lines = append(req.Lines, purchase.CreateLine{
			ProductID: productID,
			Quantity:  line.Quantity,
			UnitCost:  line.UnitCost,
		})
	}
	return req, nil
}

// --- Response DTOs ---

// PurchaseOrderLineResponse is one ordered item on an order.
type PurchaseOrderLineResponse struct {
	LineID      string      `json:"lineId"`
	LineNo      int         `json:"lineNo"`
	ProductID   string      `json:"productId"`
	ProductName string      `json:"productName"`
	Quantity    int         `json:"quantity"`
	UnitCost    types.Money `json:"unitCost"`
	LineTotal   types.Money `json:"lineTotal"`
}

// PurchaseOrderResponse is the response body for a purchase order.
type PurchaseOrderResponse struct {
	DocumentResponse

	SupplierID   string `json:"supplierId"`
	SupplierName string `json:"supplierName"`

	ExpectedDate time.Time `json:"expectedDate"`

	Status    string      `json:"status"`
	TotalCost types.Money `json:"totalCost"`

	ReceivedAt *time.Time `json:"receivedAt,omitempty"`

	Lines []PurchaseOrderLineResponse `json:"lines,omitempty"`
}

// FromPurchaseOrder creates response DTO from domain entity.
func FromPurchaseOrder(doc *purchase.PurchaseOrder) *PurchaseOrderResponse {
	resp := &PurchaseOrderResponse{
		DocumentResponse: FromDocument(doc.Document),
		SupplierID:       doc.SupplierID.String(),
		SupplierName:     doc.SupplierName,
		ExpectedDate:     doc.ExpectedDate,
		Status:           string(doc.Status),
		TotalCost:        doc.TotalCost,
		ReceivedAt:       doc.ReceivedAt,
	}
	for _, line := range doc.Lines {
		resp.Lines = append(resp.Lines, PurchaseOrderLineResponse{
			LineID:      line.LineID.String(),
			LineNo:      line.LineNo,
			ProductID:   line.ProductID.String(),
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			UnitCost:    line.UnitCost,
			LineTotal:   line.LineTotal,
		})
	}
	return resp
}
