package handlers

import (
	"invenpos/internal/domain/catalogs/category"
	"invenpos/internal/infrastructure/http/v1/dto"
)

// CategoryHandler handles category catalog endpoints.
type CategoryHandler struct {
	*CatalogHandler[*category.Category, dto.CreateCategoryRequest, dto.UpdateCategoryRequest]
}

// NewCategoryHandler creates a new category handler.
func NewCategoryHandler(base *BaseHandler, service *category.Service) *CategoryHandler {
	return &CategoryHandler{
		CatalogHandler: NewCatalogHandler(base, CatalogHandlerConfig[*category.Category, dto.CreateCategoryRequest, dto.UpdateCategoryRequest]{
			Service:    service.CatalogService,
			EntityName: "category",
			MapCreateDTO: func(req dto.CreateCategoryRequest) *category.Category {
				return req.ToEntity()
			},
			MapUpdateDTO: func(req dto.UpdateCategoryRequest, existing *category.Category) *category.Category {
				req.ApplyTo(existing)
				return existing
			},
			MapToDTO: func(item *category.Category) any {
				return dto.FromCategory(item)
			},
		}),
	}
}
