package product

import (
	"context"
	"fmt"
	"time"

	"invenpos/internal/core/apperror"
	"invenpos/internal/core/id"
	"invenpos/internal/core/tx"
	"invenpos/internal/domain"
	"invenpos/pkg/numerator"
)

// Service provides business logic for the Product catalog.
// Uses composition with domain.CatalogService for common CRUD operations.
type Service struct {
	*domain.CatalogService[*Product]
	repo      Repository
	numerator *numerator.Service
}

// NewService creates a new Product service.
func NewService(repo Repository, txManager tx.Manager, num *numerator.Service) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Product]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "product",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		numerator:      num,
	}

	base.Hooks().On(domain.BeforeCreate, svc.prepareForCreate)
	base.Hooks().On(domain.BeforeUpdate, svc.checkNameUnique)

	return svc
}

// prepareForCreate handles code generation and uniqueness checks.
func (s *Service) prepareForCreate(ctx context.Context, item *Product) error {
	if item.Code == "" {
		cfg := numerator.Config{Prefix: "PRD", PadWidth: 5, ResetPeriod: "never"}
		code, err := s.numerator.GetNextNumber(ctx, cfg, &numerator.Options{Strategy: numerator.StrategyCached}, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		item.Code = code
	}

	return s.checkNameUnique(ctx, item)
}

// checkNameUnique rejects a second product with the same name.
func (s *Service) checkNameUnique(ctx context.Context, item *Product) error {
	existing, err := s.repo.FindByName(ctx, item.Name)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil
		}
		return err
	}
	if existing.ID != item.ID {
		return apperror.NewDuplicate("product", "name", item.Name)
	}
	return nil
}

// --- Entity-specific methods ---

// FindByName retrieves a product by exact name.
func (s *Service) FindByName(ctx context.Context, name string) (*Product, error) {
	p, err := s.repo.FindByName(ctx, name)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("product", name)
		}
		return nil, err
	}
	return p, nil
}

// FindLowStock retrieves products at or below their low stock threshold.
func (s *Service) FindLowStock(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Product], error) {
	return s.repo.FindLowStock(ctx, filter)
}

// GetForUpdate retrieves a product with a row lock for in-transaction use.
func (s *Service) GetForUpdate(ctx context.Context, productID id.ID) (*Product, error) {
	p, err := s.repo.GetForUpdate(ctx, productID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("product", productID.String())
		}
		return nil, err
	}
	return p, nil
}
