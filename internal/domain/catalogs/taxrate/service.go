package taxrate

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

// Service provides business logic for the TaxRate catalog.
type Service struct {
	*domain.CatalogService[*TaxRate]
	repo      Repository
	txManager tx.Manager
	numerator *numerator.Service
}

// NewService creates a new TaxRate service.
func NewService(repo Repository, txManager tx.Manager, num *numerator.Service) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*TaxRate]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "tax rate",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		txManager:      txManager,
		numerator:      num,
	}

	base.Hooks().On(domain.BeforeCreate, svc.prepareForCreate)

	return svc
}

func (s *Service) prepareForCreate(ctx context.Context, item *TaxRate) error {
	if item.Code == "" {
		cfg := numerator.Config{Prefix: "TAX", PadWidth: 3, ResetPeriod: "never"}
		code, err := s.numerator.GetNextNumber(ctx, cfg, &numerator.Options{Strategy: numerator.StrategyCached}, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		item.Code = code
	}
	return nil
}

// ActiveRate resolves the currently active tax rate.
// Returns nil (no error) when no rate is active, meaning no tax applies.
func (s *Service) ActiveRate(ctx context.Context) (*TaxRate, error) {
	rate, err := s.repo.FindActive(ctx)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return rate, nil
}

// SetActive makes the given rate the single active one.
// All other rates are deactivated in the same transaction.
func (s *Service) SetActive(ctx context.Context, rateID id.ID) error {
	if _, err := s.GetByID(ctx, rateID); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.DeactivateAll(ctx); err != nil {
			return fmt.Errorf("deactivate rates: %w", err)
		}
		if err := s.repo.SetActive(ctx, rateID, true); err != nil {
			return fmt.Errorf("activate rate: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "tax rate activated", "tax_rate_id", rateID)
	return nil
}

// Deactivate clears the active flag so no tax is auto-applied.
func (s *Service) Deactivate(ctx context.Context, rateID id.ID) error {
	if _, err := s.GetByID(ctx, rateID); err != nil {
		return err
	}
	return s.repo.SetActive(ctx, rateID, false)
}
