package invoice

import (
	"context"
	"fmt"
	"time"

	"invenpos/internal/core/apperror"
	appctx "invenpos/internal/core/context"
	"invenpos/internal/core/id"
	"invenpos/internal/core/tx"
	"invenpos/internal/core/types"
	"invenpos/internal/domain"
	"invenpos/internal/domain/catalogs/product"
	"invenpos/internal/domain/catalogs/taxrate"
	"invenpos/pkg/logger"
	"invenpos/pkg/numerator"
)

// ProductStore is the slice of the product repository checkout needs.
// GetForUpdate must take a row lock so concurrent checkouts against the
// same product serialize; DecrementStock must refuse to go negative.
type ProductStore interface {
	GetForUpdate(ctx context.Context, id id.ID) (*product.Product, error)
	DecrementStock(ctx context.Context, id id.ID, qty int) (remaining int, ok bool, err error)
	IncrementStock(ctx context.Context, id id.ID, qty int) (remaining int, err error)
}

// TaxStore resolves tax rates for checkout and tax corrections.
type TaxStore interface {
	ActiveRate(ctx context.Context) (*taxrate.TaxRate, error)
	GetByID(ctx context.Context, id id.ID) (*taxrate.TaxRate, error)
}

// Auditor records an audit trail entry for document mutations.
type Auditor interface {
	LogChange(ctx context.Context, entityType string, entityID id.ID, action string, changes map[string]any) error
}

// CheckoutLine is one requested cart line.
type CheckoutLine struct {
	ProductID id.ID
	Quantity  int
	// UnitPrice overrides the catalog price when set (nil means catalog price)
	UnitPrice *types.Money
}

// CheckoutRequest is the input to a checkout operation.
type CheckoutRequest struct {
	// CustomerID is auto-assigned when blank or the placeholder CUST-000
	CustomerID   string
	CashReceived types.Money
	Comment      string
	Lines        []CheckoutLine
}

// Service provides business operations for invoices.
type Service struct {
	repo      Repository
	products  ProductStore
	taxes     TaxStore
	numerator *numerator.Service
	txManager tx.Manager
	auditor   Auditor
}

// NewService creates a new invoice service. auditor may be nil.
func NewService(
	repo Repository,
	products ProductStore,
	taxes TaxStore,
	num *numerator.Service,
	txManager tx.Manager,
	auditor Auditor,
) *Service {
	return &Service{
		repo:      repo,
		products:  products,
		taxes:     taxes,
		numerator: num,
		txManager: txManager,
		auditor:   auditor,
	}
}

// Checkout converts a cart into a persisted invoice plus stock decrements.
//
// Everything runs inside one transaction: tax resolution, number
// assignment, per-line lock + decrement, line and header insert. Any
// failure rolls the whole operation back, so a failed checkout leaves no
// invoice, no lines, and unchanged stock.
func (s *Service) Checkout(ctx context.Context, req CheckoutRequest) (*Invoice, error) {
	if len(req.Lines) == 0 {
		return nil, apperror.NewValidation("at least one line is required").
			WithDetail("field", "lines")
	}
	for i, line := range req.Lines {
		if line.Quantity <= 0 {
			return nil, apperror.NewValidation("quantity must be positive").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
	}
	if req.CashReceived.IsNegative() {
		return nil, apperror.NewValidation("cash received cannot be negative").
			WithDetail("field", "cashReceived")
	}

	staffName := appctx.ActorName(ctx)
	if staffName == "" {
		return nil, apperror.NewUnauthorized("cashier identity is required")
	}

	inv := NewInvoice(req.CustomerID, staffName)
	inv.Comment = req.Comment

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		// Tax rate is resolved exactly once and snapshotted; later
		// recomputation never re-queries it.
		rate, err := s.taxes.ActiveRate(ctx)
		if err != nil {
			return fmt.Errorf("resolve tax rate: %w", err)
		}

		if inv.CustomerID == "" || inv.CustomerID == UnassignedCustomerID {
			customerID, err := s.numerator.GetNextNumber(ctx, CustomerConfig(), nil, time.Now())
			if err != nil {
				return fmt.Errorf("assign customer id: %w", err)
			}
			inv.CustomerID = customerID
		}

		number, err := s.numerator.GetNextNumber(ctx, NumberConfig(), &numerator.Options{Strategy: NumeratorStrategy}, time.Now())
		if err != nil {
			return fmt.Errorf("generate number: %w", err)
		}
		inv.Number = number

		for _, line := range req.Lines {
			p, err := s.products.GetForUpdate(ctx, line.ProductID)
			if err != nil {
				if apperror.IsNotFound(err) {
					return apperror.NewNotFound("product", line.ProductID.String())
				}
				return err
			}

			remaining, ok, err := s.products.DecrementStock(ctx, p.ID, line.Quantity)
			if err != nil {
				return fmt.Errorf("decrement stock: %w", err)
			}
			if !ok {
				return apperror.NewInsufficientStock(p.ID.String(), p.Name, line.Quantity, p.Quantity)
			}
			_ = remaining

			unitPrice := p.Price
			if line.UnitPrice != nil {
				unitPrice = *line.UnitPrice
			}
			inv.AddLine(p.ID, p.Name, line.Quantity, unitPrice)
		}

		if rate != nil {
			rateID := rate.ID.String()
			inv.ApplyTax(&rateID, rate.Percentage)
		}
		inv.SetCashReceived(req.CashReceived)

		if err := inv.Validate(ctx); err != nil {
			return err
		}

		if err := s.repo.Create(ctx, inv); err != nil {
			return fmt.Errorf("create invoice: %w", err)
		}
		if err := s.repo.SaveLines(ctx, inv.ID, inv.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.auditor != nil {
		_ = s.auditor.LogChange(ctx, "invoice", inv.ID, "create", map[string]any{
			"number": inv.Number,
			"total":  inv.TotalAmount.String(),
		})
	}

	logger.Info(ctx, "checkout completed",
		"id", inv.ID,
		"number", inv.Number,
		"total", inv.TotalAmount.String(),
		"lines", len(inv.Lines),
	)
	return inv, nil
}

// GetByID retrieves an invoice with lines.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*Invoice, error) {
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

// GetByNumber retrieves an invoice by its number.
func (s *Service) GetByNumber(ctx context.Context, number string) (*Invoice, error) {
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

// Void transitions the invoice to the voided state. The invoice stays
// queryable; stock is not restored (records correction, not a return).
func (s *Service) Void(ctx context.Context, docID id.ID) error {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return err
	}

	if err := doc.Void(); err != nil {
		return err
	}

	if err := s.repo.Update(ctx, doc); err != nil {
		return err
	}

	if s.auditor != nil {
		_ = s.auditor.LogChange(ctx, "invoice", doc.ID, "void", map[string]any{"number": doc.Number})
	}

	logger.Info(ctx, "invoice voided", "id", doc.ID, "number", doc.Number)
	return nil
}

// HardDelete permanently removes an invoice and its lines.
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
		_ = s.auditor.LogChange(ctx, "invoice", doc.ID, "delete", map[string]any{"number": doc.Number})
	}
	return nil
}

// UpdateTaxRate re-snapshots the tax rate and recomputes the dependent
// amounts from the stored subtotal. Pass nil to detach tax.
func (s *Service) UpdateTaxRate(ctx context.Context, docID id.ID, taxRateID *id.ID) error {
	doc, err := s.GetByID(ctx, docID)
	if err != nil {
		return err
	}

	if taxRateID == nil {
		doc.ApplyTax(nil, types.Zero())
	} else {
		rate, err := s.taxes.GetByID(ctx, *taxRateID)
		if err != nil {
			return err
		}
		rateID := rate.ID.String()
		doc.ApplyTax(&rateID, rate.Percentage)
	}
	doc.Touch()

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Update(ctx, doc)
	})
}

// LineEdit corrects a single sold line.
type LineEdit struct {
	LineID    id.ID
	Quantity  *int
	UnitPrice *types.Money
}

// AdminEdit is an administrative correction of an invoice record.
// It adjusts the record only; stock is not touched.
type AdminEdit struct {
	StaffName    *string
	CashReceived *types.Money
	Date         *time.Time
	Lines        []LineEdit
}

// Edit applies an administrative correction and recomputes all derived
// amounts from the edited lines and the stored tax snapshot.
func (s *Service) Edit(ctx context.Context, docID id.ID, edit AdminEdit) (*Invoice, error) {
	doc, err := s.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}

	if edit.StaffName != nil {
		if *edit.StaffName == "" {
			return nil, apperror.NewValidation("staff name cannot be empty").
				WithDetail("field", "staffName")
		}
		doc.StaffName = *edit.StaffName
	}
	if edit.Date != nil {
		doc.Date = *edit.Date
	}

	for _, le := range edit.Lines {
		found := false
		for i := range doc.Lines {
			if doc.Lines[i].LineID != le.LineID {
				continue
			}
			found = true
			if le.Quantity != nil {
				if *le.Quantity <= 0 {
					return nil, apperror.NewValidation("quantity must be positive").
						WithDetail("field", "lines").
						WithDetail("lineId", le.LineID.String())
				}
				doc.Lines[i].Quantity = *le.Quantity
			}
			if le.UnitPrice != nil {
				if le.UnitPrice.IsNegative() {
					return nil, apperror.NewValidation("unit price cannot be negative").
						WithDetail("field", "lines").
						WithDetail("lineId", le.LineID.String())
				}
				doc.Lines[i].UnitPrice = *le.UnitPrice
			}
		}
		if !found {
			return nil, apperror.NewNotFound("invoice line", le.LineID.String())
		}
	}

	doc.Recalculate()
	if edit.CashReceived != nil {
		doc.SetCashReceived(*edit.CashReceived)
	}

	if err := doc.Validate(ctx); err != nil {
		return nil, err
	}
	doc.Touch()

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, doc); err != nil {
			return fmt.Errorf("update invoice: %w", err)
		}
		if len(edit.Lines) > 0 {
			if err := s.repo.SaveLines(ctx, doc.ID, doc.Lines); err != nil {
				return fmt.Errorf("save lines: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.auditor != nil {
		_ = s.auditor.LogChange(ctx, "invoice", doc.ID, "update", map[string]any{"number": doc.Number})
	}
	return doc, nil
}

// List retrieves invoices with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Invoice], error) {
	return s.repo.List(ctx, filter)
}
