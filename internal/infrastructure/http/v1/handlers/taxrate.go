package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"invenpos/internal/core/apperror"
	"invenpos/internal/core/id"
	"invenpos/internal/domain/catalogs/taxrate"
	"invenpos/internal/infrastructure/http/v1/dto"
)

// TaxRateHandler handles tax rate catalog endpoints.
type TaxRateHandler struct {
	*CatalogHandler[*taxrate.TaxRate, dto.CreateTaxRateRequest, dto.UpdateTaxRateRequest]
	service *taxrate.Service
}

// NewTaxRateHandler creates a new tax rate handler.
func NewTaxRateHandler(base *BaseHandler, service *taxrate.Service) *TaxRateHandler {
	return &TaxRateHandler{
		CatalogHandler: NewCatalogHandler(base, CatalogHandlerConfig[*taxrate.TaxRate, dto.CreateTaxRateRequest, dto.UpdateTaxRateRequest]{
			Service:    service.CatalogService,
			EntityName: "tax rate",
			MapCreateDTO: func(req dto.CreateTaxRateRequest) *taxrate.TaxRate {
				return req.ToEntity()
			},
			MapUpdateDTO: func(req dto.UpdateTaxRateRequest, existing *taxrate.TaxRate) *taxrate.TaxRate {
				req.ApplyTo(existing)
				return existing
			},
			MapToDTO: func(item *taxrate.TaxRate) any {
				return dto.FromTaxRate(item)
			},
		}),
		service: service,
	}
}

// GetActive handles GET /tax-rates/active - the rate checkout would
// apply right now. Returns 204 when no rate is active.
func (h *TaxRateHandler) GetActive(c *gin.Context) {
	rate, err := h.service.ActiveRate(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	if rate == nil {
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, dto.FromTaxRate(rate))
}

// Activate handles POST /tax-rates/:id/activate - makes this the single
// active rate.
func (h *TaxRateHandler) Activate(c *gin.Context) {
	rateID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	if err := h.service.SetActive(c.Request.Context(), rateID); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "tax rate activated")
}

// Deactivate handles POST /tax-rates/:id/deactivate
func (h *TaxRateHandler) Deactivate(c *gin.Context) {
	rateID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	if err := h.service.Deactivate(c.Request.Context(), rateID); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "tax rate deactivated")
}
