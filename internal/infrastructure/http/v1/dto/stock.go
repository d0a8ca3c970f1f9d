package dto

import (
	"time"

	"invenpos/internal/core/apperror"
	"invenpos/internal/core/id"
	"invenpos/internal/domain/stock"
)

// --- Request DTOs ---

// RestockRequest is the request body for a replenishment.
type RestockRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`

	// SupplierID optionally attributes the restock to a supplier
	SupplierID *string `json:"supplierId"`
}

// ToServiceRequest converts the DTO to the domain restock input.
func (r *RestockRequest) ToServiceRequest() (stock.RestockRequest, error) {
	productID, err := id.Parse(r.ProductID)
	if err != nil {
		return stock.RestockRequest{}, apperror.NewValidation("invalid product id").
			WithDetail("field", "productId")
	}

	req := stock.RestockRequest{
		ProductID: productID,
		Quantity:  r.Quantity,
	}
	if r.SupplierID != nil && *r.SupplierID != "" {
		supplierID, err := id.Parse(*r.SupplierID)
		if err != nil {
			return req, apperror.NewValidation("invalid supplier id").
				WithDetail("field", "supplierId")
		}
		req.SupplierID = &supplierID
	}
	return req, nil
}

// --- Response DTOs ---

// RestockEntryResponse is one replenishment event.
type RestockEntryResponse struct {
	ID            string    `json:"id"`
	ProductID     string    `json:"productId"`
	ProductName   string    `json:"productName"`
	SupplierID    *string   `json:"supplierId,omitempty"`
	SupplierName  *string   `json:"supplierName,omitempty"`
	Quantity      int       `json:"quantity"`
	QuantityAfter int       `json:"quantityAfter"`
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy,omitempty"`
}

// FromRestockEntry creates response DTO from domain entity.
func FromRestockEntry(entry *stock.RestockEntry) *RestockEntryResponse {
	resp := &RestockEntryResponse{
		ID:            entry.ID.String(),
		ProductID:     entry.ProductID.String(),
		ProductName:   entry.ProductName,
		SupplierName:  entry.SupplierName,
		Quantity:      entry.Quantity,
		QuantityAfter: entry.QuantityAfter,
		CreatedAt:     entry.CreatedAt,
		CreatedBy:     entry.CreatedBy,
	}
	if entry.SupplierID != nil {
		s := entry.SupplierID.String()
		resp.SupplierID = &s
	}
	return resp
}
