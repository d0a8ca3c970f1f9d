package supplier

import (
	"context"
	"fmt"
	"time"

	"invenpos/internal/core/apperror"
	"invenpos/internal/core/id"
	"invenpos/internal/core/tx"
	"invenpos/internal/domain"
	"invenpos/pkg/logger"
	"invenpos/pkg/numerator"
)

// Service provides business logic for the Supplier catalog.
type Service struct {
	*domain.CatalogService[*Supplier]
	repo      Repository
	numerator *numerator.Service
}

// NewService creates a new Supplier service.
func NewService(repo Repository, txManager tx.Manager, num *numerator.Service) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Supplier]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "supplier",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		numerator:      num,
	}

	base.Hooks().On(domain.BeforeCreate, svc.prepareForCreate)

	return svc
}

func (s *Service) prepareForCreate(ctx context.Context, item *Supplier) error {
	if item.Code == "" {
		cfg := numerator.Config{Prefix: "SUP", PadWidth: 5, ResetPeriod: "never"}
		code, err := s.numerator.GetNextNumber(ctx, cfg, &numerator.Options{Strategy: numerator.StrategyCached}, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		item.Code = code
	}
	return nil
}

// FindByName retrieves a supplier by exact name.
func (s *Service) FindByName(ctx context.Context, name string) (*Supplier, error) {
	sup, err := s.repo.FindByName(ctx, name)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("supplier", name)
		}
		return nil, err
	}
	return sup, nil
}

// Activate makes the supplier usable on new documents again.
func (s *Service) Activate(ctx context.Context, supplierID id.ID) error {
	return s.setActive(ctx, supplierID, true)
}

// Deactivate keeps the supplier for history but blocks new documents.
func (s *Service) Deactivate(ctx context.Context, supplierID id.ID) error {
	return s.setActive(ctx, supplierID, false)
}

func (s *Service) setActive(ctx context.Context, supplierID id.ID, active bool) error {
	if _, err := s.GetByID(ctx, supplierID); err != nil {
		return err
	}
	if err := s.repo.SetActive(ctx, supplierID, active); err != nil {
		return err
	}
	logger.Info(ctx, "supplier active flag changed", "supplier_id", supplierID, "active", active)
	return nil
}

// RequireActive returns the supplier only if it exists and is active.
func (s *Service) RequireActive(ctx context.Context, supplierID id.ID) (*Supplier, error) {
	sup, err := s.GetByID(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	if !sup.Active {
		return nil, apperror.NewBusinessRule(apperror.CodeBusinessRule, "supplier is inactive").
			WithDetail("supplier_id", supplierID.String())
	}
	return sup, nil
}
