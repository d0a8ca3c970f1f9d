package purchase

import (
	"context"
	"fmt"
	"time"

	"invenpos/internal/core/apperror"
	"invenpos/internal/core/id"
	"invenpos/internal/core/tx"
	"invenpos/internal/core/types"
	"invenpos/internal/domain"
	"invenpos/internal/domain/catalogs/product"
	"invenpos/internal/domain/catalogs/supplier"
	"invenpos/pkg/logger"
	"invenpos/pkg/numerator"
)

// ProductStore is the slice of the product catalog ordering needs.
type ProductStore interface {
	GetByID(ctx context.Context, productID id.ID) (*product.Product, error)
}

// SupplierStore validates the ordering supplier.
type SupplierStore interface {
	RequireActive(ctx context.Context, supplierID id.ID) (*supplier.Supplier, error)
}

// Auditor records an audit trail entry for document mutations.
type Auditor interface {
	LogChange(ctx context.Context, entityType string, entityID id.ID, action string, changes map[string]any) error
}

// CreateLine is one requested order line. Lines with non-positive
// quantity or unit cost are dropped, not rejected.
type CreateLine struct {
	ProductID id.ID
	Quantity  int
	UnitCost  types.Money
}

// CreateRequest is the input for creating a purchase order.
type CreateRequest struct {
	SupplierID   id.ID
	ExpectedDate time.Time
	Comment      string
	Lines        []CreateLine
}

// Service provides business operations for purchase orders.
type Service struct {
	repo      Repository
	products  ProductStore
	suppliers SupplierStore
	numerator *numerator.Service
	txManager tx.Manager
	auditor   Auditor
}

// NewService creates a new purchase order service. auditor may be nil.
func NewService(
	repo Repository,
	products ProductStore,
	suppliers SupplierStore,
	num *numerator.Service,
	txManager tx.Manager,
	auditor Auditor,
) *Service {
	return &Service{
		repo:      repo,
		products:  products,
		suppliers: suppliers,
		numerator: num,
		txManager: txManager,
		auditor:   auditor,
	}
}

// Create builds and persists a pending purchase order.
//
// Every referenced product must exist; an unknown product aborts the
// whole order. Lines that fail the quantity or cost check are skipped
// silently, but an order whose lines all get skipped is rejected.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*PurchaseOrder, error) {
	if id.IsNil(req.SupplierID) {
		return nil, apperror.NewValidation("supplier is required").
			WithDetail("field", "supplierId")
	}
	if req.ExpectedDate.IsZero() {
		return nil, apperror.NewValidation("expected date is required").
			WithDetail("field", "expectedDate")
	}
	if len(req.Lines) == 0 {
		return nil, apperror.NewValidation("at least one line is required").
			WithDetail("field", "lines")
	}

	sup, err := s.suppliers.RequireActive(ctx, req.SupplierID)
	if err != nil {
		return nil, err
	}

	po := NewPurchaseOrder(sup.ID, sup.Name, req.ExpectedDate)
	po.Comment = req.Comment

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		skipped := 0
		for _, line := range req.Lines {
			p, err := s.products.GetByID(ctx, line.ProductID)
			if err != nil {
				if apperror.IsNotFound(err) {
					return apperror.NewNotFound("product", line.ProductID.String())
				}
				return err
			}
			if !po.AddLine(p.ID, p.Name, line.Quantity, line.UnitCost) {
				skipped++
			}
		}

		if len(po.Lines) == 0 {
			return apperror.NewValidation("no valid lines: every line had a non-positive quantity or cost").
				WithDetail("field", "lines").
				WithDetail("skipped", skipped)
		}

		number, err := s.numerator.GetNextNumber(ctx, NumberConfig(), &numerator.Options{Strategy: NumeratorStrategy}, time.Now())
		if err != nil {
			return fmt.Errorf("generate number: %w", err)
		}
		po.Number = number

		if err := po.Validate(ctx); err != nil {
			return err
		}

		if err := s.repo.Create(ctx, po); err != nil {
			return fmt.Errorf("create purchase order: %w", err)
		}
		if err := s.repo.SaveLines(ctx, po.ID, po.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.auditor != nil {
		_ = s.auditor.LogChange(ctx, "purchase_order", po.ID, "create", map[string]any{
			"number":   po.Number,
			"supplier": po.SupplierName,
			"total":    po.TotalCost.String(),
		})
	}

	logger.Info(ctx, "purchase order created",
		"id", po.ID,
		"number", po.Number,
		"supplier", po.SupplierName,
		"total", po.TotalCost.String(),
	)
	return po, nil
}

// GetByID retrieves a purchase order with lines.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*PurchaseOrder, error) {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}

	lines, err := s.repo.GetLines(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	doc.Lines = lines

	return doc, nil
}

// GetByNumber retrieves a purchase order by its number.
func (s *Service) GetByNumber(ctx context.Context, number string) (*PurchaseOrder, error) {
	doc, err := s.repo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}

	lines, err := s.repo.GetLines(ctx, doc.ID)
	if err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	doc.Lines = lines

	return doc, nil
}

// MarkReceived transitions a pending order to received. Only the state
// and the received timestamp change; on-hand stock is adjusted through
// restock operations, not here.
func (s *Service) MarkReceived(ctx context.Context, docID id.ID) (*PurchaseOrder, error) {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}

	if err := doc.MarkReceived(time.Now().UTC()); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, doc); err != nil {
		return nil, err
	}

	if s.auditor != nil {
		_ = s.auditor.LogChange(ctx, "purchase_order", doc.ID, "receive", map[string]any{"number": doc.Number})
	}

	logger.Info(ctx, "purchase order received", "id", doc.ID, "number", doc.Number)
	return doc, nil
}

// Cancel transitions a pending order to cancelled.
func (s *Service) Cancel(ctx context.Context, docID id.ID) (*PurchaseOrder, error) {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}

	if err := doc.Cancel(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, doc); err != nil {
		return nil, err
	}

	if s.auditor != nil {
		_ = s.auditor.LogChange(ctx, "purchase_order", doc.ID, "cancel", map[string]any{"number": doc.Number})
	}

	logger.Info(ctx, "purchase order cancelled", "id", doc.ID, "number", doc.Number)
	return doc, nil
}

// HardDelete permanently removes a purchase order and its lines.
func (s *Service) HardDelete(ctx context.Context, docID id.ID) error {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.HardDelete(ctx, docID)
	})
	if err != nil {
		return err
	}

	if s.auditor != nil {
		_ = s.auditor.LogChange(ctx, "purchase_order", doc.ID, "delete", map[string]any{"number": doc.Number})
	}
	return nil
}

// List retrieves purchase orders with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*PurchaseOrder], error) {
	return s.repo.List(ctx, filter)
}
