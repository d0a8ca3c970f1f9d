package dto

import (
	"invenpos/internal/core/types"
	"invenpos/internal/domain/catalogs/product"
)

// --- Request DTOs ---

// CreateProductRequest is the request body for creating a product.
type CreateProductRequest struct {
	Code              string      `json:"code"`
	Name              string      `json:"name" binding:"required"`
	CategoryID        *string     `json:"categoryId"`
	Price             types.Money `json:"price"`
	Quantity          int         `json:"quantity"`
	LowStockThreshold *int        `json:"lowStockThreshold"`
	Description       *string     `json:"description"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateProductRequest) ToEntity() *product.Product {
	item := product.NewProduct(r.Code, r.Name, r.Price)
	item.CategoryID = r.CategoryID
	item.Quantity = r.Quantity
	if r.LowStockThreshold != nil {
		item.LowStockThreshold = *r.LowStockThreshold
	}
	item.Description = r.Description
	return item
}

// UpdateProductRequest is the request body for updating a product.
// Quantity is absent on purpose: stock changes only through checkout
// and restock.
type UpdateProductRequest struct {
	Code              string      `json:"code"`
	Name              string      `json:"name" binding:"required"`
	CategoryID        *string     `json:"categoryId"`
	Price             types.Money `json:"price"`
	LowStockThreshold *int        `json:"lowStockThreshold"`
	Description       *string     `json:"description"`
	Version           int         `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateProductRequest) ApplyTo(item *product.Product) {
	if r.Code != "" {
		item.Code = r.Code
	}
	item.Name = r.Name
	item.CategoryID = r.CategoryID
	item.Price = r.Price
	if r.LowStockThreshold != nil {
		item.LowStockThreshold = *r.LowStockThreshold
	}
	item.Description = r.Description
	item.Version = r.Version
}

// --- Response DTOs ---

// ProductResponse is the response body for a product.
type ProductResponse struct {
	ID                string      `json:"id"`
	Code              string      `json:"code"`
	Name              string      `json:"name"`
	CategoryID        *string     `json:"categoryId,omitempty"`
	Price             types.Money `json:"price"`
	Quantity          int         `json:"quantity"`
	LowStockThreshold int         `json:"lowStockThreshold"`
	LowStock          bool        `json:"lowStock"`
	Description       *string     `json:"description,omitempty"`
	DeletionMark      bool        `json:"deletionMark"`
	Version           int         `json:"version"`
}

// FromProduct creates response DTO from domain entity.
func FromProduct(item *product.Product) *ProductResponse {
	return &ProductResponse{
		ID:                item.ID.String(),
		Code:              item.Code,
		Name:              item.Name,
		CategoryID:        item.CategoryID,
		Price:             item.Price,
		Quantity:          item.Quantity,
		LowStockThreshold: item.LowStockThreshold,
		LowStock:          item.IsLowStock(),
		Description:       item.Description,
		DeletionMark:      item.DeletionMark,
		Version:           item.Version,
	}
}
