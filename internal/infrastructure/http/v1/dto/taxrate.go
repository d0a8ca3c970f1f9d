package dto

import (
	"invenpos/internal/core/types"
	"invenpos/internal/domain/catalogs/taxrate"
)

// CreateTaxRateRequest is the request body for creating a tax rate.
// New rates start inactive; activation is a separate operation.
type CreateTaxRateRequest struct {
	Code       string      `json:"code"`
	Name       string      `json:"name" binding:"required"`
	Percentage types.Money `json:"percentage"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateTaxRateRequest) ToEntity() *taxrate.TaxRate {
	return taxrate.NewTaxRate(r.Code, r.Name, r.Percentage)
}

// UpdateTaxRateRequest is the request body for updating a tax rate.
type UpdateTaxRateRequest struct {
	Code       string      `json:"code"`
	Name       string      `json:"name" binding:"required"`
	Percentage types.Money `json:"percentage"`
	Version    int         `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateTaxRateRequest) ApplyTo(item *taxrate.TaxRate) {
	if r.Code != "" {
		item.Code = r.Code
	}
	item.Name = r.Name
	item.Percentage = r.Percentage
	item.Version = r.Version
}

// TaxRateResponse is the response body for a tax rate.
type TaxRateResponse struct {
	ID           string      `json:"id"`
	Code         string      `json:"code"`
	Name         string      `json:"name"`
	Percentage   types.Money `json:"percentage"`
	Active       bool        `json:"active"`
	DeletionMark bool        `json:"deletionMark"`
	Version      int         `json:"version"`
}

// FromTaxRate creates response DTO from domain entity.
func FromTaxRate(item *taxrate.TaxRate) *TaxRateResponse {
	return &TaxRateResponse{
		ID:           item.ID.String(),
		Code:         item.Code,
		Name:         item.Name,
		Percentage:   item.Percentage,
		Active:       item.Active,
		DeletionMark: item.DeletionMark,
		Version:      item.Version,
	}
}
