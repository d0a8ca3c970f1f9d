package stock

import (
	"context"
	"fmt"
	"time"

	"invenpos/internal/core/apperror"
	appctx "invenpos/internal/core/context"
	"invenpos/internal/core/id"
	"invenpos/internal/core/tx"
	"invenpos/internal/domain"
	"invenpos/internal/domain/catalogs/product"
	"invenpos/internal/domain/catalogs/supplier"
	"invenpos/pkg/logger"
)

// ProductStore is the slice of the product repository restocking needs.
type ProductStore interface {
	GetForUpdate(ctx context.Context, productID id.ID) (*product.Product, error)
	IncrementStock(ctx context.Context, productID id.ID, qty int) (remaining int, err error)
}

// SupplierStore validates the attributed supplier.
type SupplierStore interface {
	RequireActive(ctx context.Context, supplierID id.ID) (*supplier.Supplier, error)
}

// Auditor records an audit trail entry for stock mutations.
type Auditor interface {
	LogChange(ctx context.Context, entityType string, entityID id.ID, action string, changes map[string]any) error
}

// RestockRequest is the input for a replenishment.
type RestockRequest struct {
	ProductID id.ID
	Quantity  int

	// SupplierID optionally attributes the restock to a supplier
	SupplierID *id.ID
}

// Service provides stock replenishment operations.
type Service struct {
	repo      Repository
	products  ProductStore
	suppliers SupplierStore
	txManager tx.Manager
	auditor   Auditor
}

// NewService creates a new stock service. auditor may be nil.
func NewService(
	repo Repository,
	products ProductStore,
	suppliers SupplierStore,
	txManager tx.Manager,
	auditor Auditor,
) *Service {
	return &Service{
		repo:      repo,
		products:  products,
		suppliers: suppliers,
		txManager: txManager,
		auditor:   auditor,
	}
}

// Restock increases a product's on-hand quantity and records a history
// entry. Both writes happen in one transaction, so history can never
// show a restock the stock level does not reflect.
func (s *Service) Restock(ctx context.Context, req RestockRequest) (*RestockEntry, error) {
	if req.Quantity <= 0 {
		return nil, apperror.NewValidation("quantity must be positive").
			WithDetail("field", "quantity")
	}

	entry := &RestockEntry{
		ID:        id.New(),
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		CreatedAt: time.Now().UTC(),
		CreatedBy: appctx.ActorName(ctx),
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		p, err := s.products.GetForUpdate(ctx, req.ProductID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewNotFound("product", req.ProductID.String())
			}
			return err
		}
		entry.ProductName = p.Name

		if req.SupplierID != nil {
			sup, err := s.suppliers.RequireActive(ctx, *req.SupplierID)
			if err != nil {
				return err
			}
			entry.SupplierID = &sup.ID
			entry.SupplierName = &sup.Name
		}

		after, err := s.products.IncrementStock(ctx, p.ID, req.Quantity)
		if err != nil {
			return fmt.Errorf("increment stock: %w", err)
		}
		entry.QuantityAfter = after

		if err := s.repo.Create(ctx, entry); err != nil {
			return fmt.Errorf("record restock: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.auditor != nil {
		_ = s.auditor.LogChange(ctx, "product", entry.ProductID, "restock", map[string]any{
			"quantity":       entry.Quantity,
			"quantity_after": entry.QuantityAfter,
		})
	}

	logger.Info(ctx, "product restocked",
		"product_id", entry.ProductID,
		"product", entry.ProductName,
		"quantity", entry.Quantity,
		"quantity_after", entry.QuantityAfter,
	)
	return entry, nil
}

// History retrieves restock entries, newest first.
func (s *Service) History(ctx context.Context, filter HistoryFilter) (domain.ListResult[*RestockEntry], error) {
	return s.repo.List(ctx, filter)
}
