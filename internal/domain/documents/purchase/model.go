// Package purchase provides the PurchaseOrder document.
// A purchase order tracks goods ordered from a supplier through a small
// lifecycle: pending until it is either received or cancelled. Receiving
// is a bookkeeping state change; stock adjustments go through restock.
package purchase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"invenpos/internal/core/apperror"
	"invenpos/internal/core/entity"
	"invenpos/internal/core/id"
	"invenpos/internal/core/types"
)

// Status is the purchase order lifecycle state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusReceived  Status = "received"
	StatusCancelled Status = "cancelled"
)

// PurchaseOrder represents goods ordered from a supplier.
type PurchaseOrder struct {
	entity.Document

	SupplierID id.ID `db:"supplier_id" json:"supplierId"`

	// SupplierName is snapshotted so the order survives catalog edits
	SupplierName string `db:"supplier_name" json:"supplierName"`

	// ExpectedDate is when the goods are due from the supplier
	ExpectedDate time.Time `db:"expected_date" json:"expectedDate"`

	Status Status `db:"status" json:"status"`

	// TotalCost is the sum of accepted line totals
	TotalCost types.Money `db:"total_cost" json:"totalCost"`

	// ReceivedAt is set when the order transitions to received
	ReceivedAt *time.Time `db:"received_at" json:"receivedAt,omitempty"`

	// Table part: ordered items
	Lines []Line `db:"-" json:"lines"`
}

// Line represents an ordered item on a purchase order.
type Line struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	ProductID id.ID `db:"product_id" json:"productId"`

	// ProductName is snapshotted at order time
	ProductName string `db:"product_name" json:"productName"`

	Quantity int         `db:"quantity" json:"quantity"`
	UnitCost types.Money `db:"unit_cost" json:"unitCost"`

	// LineTotal = Quantity * UnitCost
	LineTotal types.Money `db:"line_total" json:"lineTotal"`
}

// NewPurchaseOrder creates a new pending order.
func NewPurchaseOrder(supplierID id.ID, supplierName string, expectedDate time.Time) *PurchaseOrder {
	return &PurchaseOrder{
		Document:     entity.NewDocument(),
		SupplierID:   supplierID,
		SupplierName: supplierName,
		ExpectedDate: expectedDate,
		Status:       StatusPending,
		TotalCost:    decimal.Zero,
		Lines:        make([]Line, 0),
	}
}

// AddLine appends an ordered item. Lines with a non-positive quantity or
// unit cost are dropped without error; the return value reports whether
// the line was accepted.
func (po *PurchaseOrder) AddLine(productID id.ID, productName string, quantity int, unitCost types.Money) bool {
	if quantity <= 0 || !unitCost.IsPositive() {
		return false
	}

	line := Line{
		LineID:      id.New(),
		LineNo:      len(po.Lines) + 1,
		ProductID:   productID,
		ProductName: productName,
		Quantity:    quantity,
		UnitCost:    unitCost,
		LineTotal:   unitCost.Mul(decimal.NewFromInt(int64(quantity))),
	}

	po.Lines = append(po.Lines, line)
	po.Recalculate()
	return true
}

// Recalculate rebuilds line totals and the order total.
func (po *PurchaseOrder) Recalculate() {
	total := decimal.Zero
	for i := range po.Lines {
		po.Lines[i].LineTotal = po.Lines[i].UnitCost.Mul(decimal.NewFromInt(int64(po.Lines[i].Quantity)))
		total = total.Add(po.Lines[i].LineTotal)
	}
	po.TotalCost = types.Round2(total)
}

// Validate implements entity.Validatable.
func (po *PurchaseOrder) Validate(ctx context.Context) error {
	if err := po.Document.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(po.SupplierID) {
		return apperror.NewValidation("supplier is required").
			WithDetail("field", "supplierId")
	}

	if po.ExpectedDate.IsZero() {
		return apperror.NewValidation("expected date is required").
			WithDetail("field", "expectedDate")
	}

	if len(po.Lines) == 0 {
		return apperror.NewValidation("at least one valid line is required").
			WithDetail("field", "lines")
	}

	return nil
}

// IsPending reports whether the order can still transition.
func (po *PurchaseOrder) IsPending() bool {
	return po.Status == StatusPending
}

// MarkReceived transitions a pending order to received and records when.
func (po *PurchaseOrder) MarkReceived(at time.Time) error {
	if po.Status != StatusPending {
		return apperror.NewStateConflict("purchase order", string(po.Status), string(StatusReceived))
	}
	po.Status = StatusReceived
	po.ReceivedAt = &at
	po.Touch()
	return nil
}

// Cancel transitions a pending order to cancelled.
func (po *PurchaseOrder) Cancel() error {
	if po.Status != StatusPending {
		return apperror.NewStateConflict("purchase order", string(po.Status), string(StatusCancelled))
	}
	po.Status = StatusCancelled
	po.Touch()
	return nil
}

// TotalQuantity returns the number of pieces ordered.
func (po *PurchaseOrder) TotalQuantity() int {
	total := 0
	for _, line := range po.Lines {
		total += line.Quantity
	}
	return total
}
