package handlers

import (
	"github.com/gin-gonic/gin"

	"invenpos/internal/core/apperror"
	"invenpos/internal/core/id"
	"invenpos/internal/domain/catalogs/supplier"
	"invenpos/internal/infrastructure/http/v1/dto"
)

// SupplierHandler handles supplier catalog endpoints.
type SupplierHandler struct {
	*CatalogHandler[*supplier.Supplier, dto.CreateSupplierRequest, dto.UpdateSupplierRequest]
	service *supplier.Service
}

// NewSupplierHandler creates a new supplier handler.
func NewSupplierHandler(base *BaseHandler, service *supplier.Service) *SupplierHandler {
	return &SupplierHandler{
		CatalogHandler: NewCatalogHandler(base, CatalogHandlerConfig[*supplier.Supplier, dto.CreateSupplierRequest, dto.UpdateSupplierRequest]{
			Service:    service.CatalogService,
			EntityName: "supplier",
			MapCreateDTO: func(req dto.CreateSupplierRequest) *supplier.Supplier {
				return req.ToEntity()
			},
			MapUpdateDTO: func(req dto.UpdateSupplierRequest, existing *supplier.Supplier) *supplier.Supplier {
				req.ApplyTo(existing)
				return existing
			},
			MapToDTO: func(item *supplier.Supplier) any {
				return dto.FromSupplier(item)
			},
		}),
		service: service,
	}
}

// Activate handles POST /suppliers/:id/activate
func (h *SupplierHandler) Activate(c *gin.Context) {
	supplierID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	if err := h.service.Activate(c.Request.Context(), supplierID); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "supplier activated")
}

// Deactivate handles POST /suppliers/:id/deactivate
func (h *SupplierHandler) Deactivate(c *gin.Context) {
	supplierID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	if err := h.service.Deactivate(c.Request.Context(), supplierID); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "supplier deactivated")
}
