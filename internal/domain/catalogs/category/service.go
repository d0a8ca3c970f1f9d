package category

import (
	"context"
	"fmt"
	"time"

	"invenpos/internal/core/apperror"
	"invenpos/internal/core/tx"
	"invenpos/internal/domain"
	"invenpos/pkg/numerator"
)

// Service provides business logic for the Category catalog.
type Service struct {
	*domain.CatalogService[*Category]
	repo      Repository
	numerator *numerator.Service
}

// NewService creates a new Category service.
func NewService(repo Repository, txManager tx.Manager, num *numerator.Service) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Category]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "category",
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

func (s *Service) prepareForCreate(ctx context.Context, item *Category) error {
	if item.Code == "" {
		cfg := numerator.Config{Prefix: "CAT", PadWidth: 5, ResetPeriod: "never"}
		code, err := s.numerator.GetNextNumber(ctx, cfg, &numerator.Options{Strategy: numerator.StrategyCached}, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		item.Code = code
	}

	return s.checkNameUnique(ctx, item)
}

func (s *Service) checkNameUnique(ctx context.Context, item *Category) error {
	existing, err := s.repo.FindByName(ctx, item.Name)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil
		}
		return err
	}
	if existing.ID != item.ID {
		return apperror.NewDuplicate("category", "name", item.Name)
	}
	return nil
}

// FindByName retrieves a category by exact name.
func (s *Service) FindByName(ctx context.Context, name string) (*Category, error) {
	c, err := s.repo.FindByName(ctx, name)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("category", name)
		}
		return nil, err
	}
	return c, nil
}
