package dto

import (
	"invenpos/internal/domain/catalogs/category"
)

// CreateCategoryRequest is the request body for creating a category.
type CreateCategoryRequest struct {
	Code        string  `json:"code"`
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateCategoryRequest) ToEntity() *category.Category {
	item := category.NewCategory(r.Code, r.Name)
	item.Description = r.Description
	return item
}

// UpdateCategoryRequest is the request body for updating a category.
type UpdateCategoryRequest struct {
	Code        string  `json:"code"`
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
	Version     int     `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateCategoryRequest) ApplyTo(item *category.Category) {
	if r.Code != "" {
		item.Code = r.Code
	}
	item.Name = r.Name
	item.Description = r.Description
	item.Version = r.Version
}

// CategoryResponse is the response body for a category.
type CategoryResponse struct {
	ID           string  `json:"id"`
	Code         string  `json:"code"`
	Name         string  `json:"name"`
	Description  *string `json:"description,omitempty"`
	DeletionMark bool    `json:"deletionMark"`
	Version      int     `json:"version"`
}

// FromCategory creates response DTO from domain entity.
func FromCategory(item *category.Category) *CategoryResponse {
	return &CategoryResponse{
		ID:           item.ID.String(),
		Code:         item.Code,
		Name:         item.Name,
		Description:  item.Description,
		DeletionMark: item.DeletionMark,
		Version:      item.Version,
	}
}
