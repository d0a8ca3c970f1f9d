// Package invoice provides the Invoice document and the checkout workflow.
// An invoice and its sold lines are created together in one transaction;
// afterwards the document is immutable except for administrative
// correction and voiding.
package invoice

import (
	"context"

	"github.com/shopspring/decimal"

	"invenpos/internal/core/apperror"
	"invenpos/internal/core/entity"
	"invenpos/internal/core/id"
	"invenpos/internal/core/types"
)

// Status is the invoice lifecycle state. Voided invoices stay queryable;
// voiding is terminal.
type Status string

const (
	StatusActive Status = "active"
	StatusVoided Status = "voided"
)

// Invoice represents a completed sale.
type Invoice struct {
	entity.Document

	// CustomerID is the customer label (CUST-NNN), auto-assigned when blank
	CustomerID string `db:"customer_id" json:"customerId"`

	// StaffName is the cashier display name snapshot
	StaffName string `db:"staff_name" json:"staffName"`

	// Totals. TotalAmount = Subtotal + TaxAmount always.
	Subtotal    types.Money `db:"subtotal" json:"subtotal"`
	TaxAmount   types.Money `db:"tax_amount" json:"taxAmount"`
	TotalAmount types.Money `db:"total_amount" json:"totalAmount"`

	// Cash handling
	CashReceived types.Money `db:"cash_received" json:"cashReceived"`
	ChangeDue    types.Money `db:"change_due" json:"changeDue"`

	// Tax snapshot: the rate reference and its percentage as resolved at
	// checkout time. Recomputation always uses the snapshot, never a
	// live lookup.
	TaxRateID     *string     `db:"tax_rate_id" json:"taxRateId,omitempty"`
	TaxPercentage types.Money `db:"tax_percentage" json:"taxPercentage"`

	// Status is the lifecycle state
	Status Status `db:"status" json:"status"`

	// Table part: sold items
	Lines []Line `db:"-" json:"lines"`
}

// Line represents a sold item on an invoice.
type Line struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	ProductID id.ID `db:"product_id" json:"productId"`

	// ProductName is snapshotted so the invoice survives catalog edits
	ProductName string `db:"product_name" json:"productName"`

	Quantity  int         `db:"quantity" json:"quantity"`
	UnitPrice types.Money `db:"unit_price" json:"unitPrice"`

	// LineTotal = Quantity * UnitPrice
	LineTotal types.Money `db:"line_total" json:"lineTotal"`
}

// NewInvoice creates a new active invoice.
func NewInvoice(customerID, staffName string) *Invoice {
	return &Invoice{
		Document:      entity.NewDocument(),
		CustomerID:    customerID,
		StaffName:     staffName,
		Subtotal:      decimal.Zero,
		TaxAmount:     decimal.Zero,
		TotalAmount:   decimal.Zero,
		CashReceived:  decimal.Zero,
		ChangeDue:     decimal.Zero,
		TaxPercentage: decimal.Zero,
		Status:        StatusActive,
		Lines:         make([]Line, 0),
	}
}

// AddLine appends a sold item and recalculates totals.
func (inv *Invoice) AddLine(productID id.ID, productName string, quantity int, unitPrice types.Money) {
	line := Line{
		LineID:      id.New(),
		LineNo:      len(inv.Lines) + 1,
		ProductID:   productID,
		ProductName: productName,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		LineTotal:   unitPrice.Mul(decimal.NewFromInt(int64(quantity))),
	}

	inv.Lines = append(inv.Lines, line)
	inv.Recalculate()
}

// ApplyTax snapshots the tax rate reference and percentage, then
// recalculates. Pass nil to detach tax entirely.
func (inv *Invoice) ApplyTax(taxRateID *string, percentage types.Money) {
	inv.TaxRateID = taxRateID
	if taxRateID == nil {
		inv.TaxPercentage = decimal.Zero
	} else {
		inv.TaxPercentage = percentage
	}
	inv.Recalculate()
}

// SetCashReceived records the cash handed over and recalculates change.
func (inv *Invoice) SetCashReceived(cash types.Money) {
	inv.CashReceived = cash
	inv.Recalculate()
}

// Recalculate rebuilds every derived amount from the lines and the tax
// snapshot. Line totals are recomputed first so edits can never leave a
// stale total behind.
func (inv *Invoice) Recalculate() {
	subtotal := decimal.Zero
	for i := range inv.Lines {
		inv.Lines[i].LineTotal = inv.Lines[i].UnitPrice.Mul(decimal.NewFromInt(int64(inv.Lines[i].Quantity)))
		subtotal = subtotal.Add(inv.Lines[i].LineTotal)
	}
	inv.Subtotal = types.Round2(subtotal)

	if inv.TaxRateID != nil && inv.Subtotal.IsPositive() {
		inv.TaxAmount = types.Round2(inv.Subtotal.Mul(inv.TaxPercentage).Div(decimal.NewFromInt(100)))
	} else {
		inv.TaxAmount = decimal.Zero
	}

	inv.TotalAmount = inv.Subtotal.Add(inv.TaxAmount)

	if inv.CashReceived.IsPositive() {
		inv.ChangeDue = inv.CashReceived.Sub(inv.TotalAmount)
	} else {
		inv.ChangeDue = decimal.Zero
	}
}

// Validate implements entity.Validatable.
func (inv *Invoice) Validate(ctx context.Context) error {
	if err := inv.Document.Validate(ctx); err != nil {
		return err
	}

	if inv.StaffName == "" {
		return apperror.NewValidation("cashier identity is required").
			WithDetail("field", "staffName")
	}

	if len(inv.Lines) == 0 {
		return apperror.NewValidation("at least one line is required").
			WithDetail("field", "lines")
	}

	for i, line := range inv.Lines {
		if id.IsNil(line.ProductID) {
			return apperror.NewValidation("product is required").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if line.Quantity <= 0 {
			return apperror.NewValidation("quantity must be positive").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if line.UnitPrice.IsNegative() {
			return apperror.NewValidation("unit price cannot be negative").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
	}

	if inv.CashReceived.IsNegative() {
		return apperror.NewValidation("cash received cannot be negative").
			WithDetail("field", "cashReceived")
	}

	if inv.CashReceived.IsPositive() && inv.CashReceived.LessThan(inv.TotalAmount) {
		return apperror.NewValidation("cash received is less than the total").
			WithDetail("field", "cashReceived").
			WithDetail("total", inv.TotalAmount.String())
	}

	return nil
}

// IsActive reports whether the invoice has not been voided.
func (inv *Invoice) IsActive() bool {
	return inv.Status == StatusActive
}

// Void transitions the invoice to the voided state.
// Only an active invoice can be voided.
func (inv *Invoice) Void() error {
	if inv.Status != StatusActive {
		return apperror.NewStateConflict("invoice", string(inv.Status), string(StatusVoided))
	}
	inv.Status = StatusVoided
	inv.Touch()
	return nil
}

// TotalQuantity returns the number of pieces sold.
func (inv *Invoice) TotalQuantity() int {
	total := 0
	for _, line := range inv.Lines {
		total += line.Quantity
	}
	return total
}
