package invoice

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invenpos/internal/core/id"
	"invenpos/internal/core/types"
)

func TestRecalculate_Totals(t *testing.T) {
	inv := NewInvoice("CUST-001", "Alice")
	inv.AddLine(id.New(), "Coffee", 2, types.MustMoney("3.50"))
	inv.AddLine(id.New(), "Bagel", 3, types.MustMoney("1.25"))

	assert.True(t, inv.Subtotal.Equal(types.MustMoney("10.75")), "subtotal = %s", inv.Subtotal)
	assert.True(t, inv.TaxAmount.IsZero(), "no tax attached yet")
	assert.True(t, inv.TotalAmount.Equal(types.MustMoney("10.75")))

	rateID := id.New().String()
	inv.ApplyTax(&rateID, types.MustMoney("8.25"))

	assert.True(t, inv.TaxAmount.Equal(types.MustMoney("0.89")), "tax = %s", inv.TaxAmount)
	assert.True(t, inv.TotalAmount.Equal(types.MustMoney("11.64")))

	inv.SetCashReceived(types.MustMoney("20"))
	assert.True(t, inv.ChangeDue.Equal(types.MustMoney("8.36")), "change = %s", inv.ChangeDue)
}

func TestRecalculate_DetachTaxZeroesAmount(t *testing.T) {
	inv := NewInvoice("CUST-001", "Alice")
	inv.AddLine(id.New(), "Coffee", 1, types.MustMoney("100"))

	rateID := id.New().String()
	inv.ApplyTax(&rateID, types.MustMoney("10"))
	require.True(t, inv.TaxAmount.Equal(types.MustMoney("10")))

	inv.ApplyTax(nil, types.Zero())
	assert.Nil(t, inv.TaxRateID)
	assert.True(t, inv.TaxAmount.IsZero())
	assert.True(t, inv.TotalAmount.Equal(types.MustMoney("100")))
}

func TestRecalculate_LineTotalsRebuiltAfterEdit(t *testing.T) {
	inv := NewInvoice("CUST-001", "Alice")
	inv.AddLine(id.New(), "Coffee", 2, types.MustMoney("3.50"))

	inv.Lines[0].Quantity = 5
	inv.Recalculate()

	assert.True(t, inv.Lines[0].LineTotal.Equal(types.MustMoney("17.50")))
	assert.True(t, inv.Subtotal.Equal(types.MustMoney("17.50")))
}

func TestValidate_CashRules(t *testing.T) {
	ctx := context.Background()

	inv := NewInvoice("CUST-001", "Alice")
	inv.AddLine(id.New(), "Coffee", 1, types.MustMoney("10"))

	// zero cash is allowed (unpaid or card sale recorded without change)
	require.NoError(t, inv.Validate(ctx))

	inv.SetCashReceived(types.MustMoney("5"))
	assert.Error(t, inv.Validate(ctx), "positive cash below total must be rejected")

	inv.SetCashReceived(types.MustMoney("10"))
	assert.NoError(t, inv.Validate(ctx))
	assert.True(t, inv.ChangeDue.IsZero())
}

func TestVoid_Transitions(t *testing.T) {
	inv := NewInvoice("CUST-001", "Alice")
	inv.AddLine(id.New(), "Coffee", 1, types.MustMoney("10"))

	require.True(t, inv.IsActive())
	require.NoError(t, inv.Void())
	assert.Equal(t, StatusVoided, inv.Status)

	err := inv.Void()
	assert.Error(t, err, "voiding twice must fail")
}

func TestTotalQuantity(t *testing.T) {
	inv := NewInvoice("CUST-001", "Alice")
	inv.AddLine(id.New(), "Coffee", 2, types.MustMoney("3.50"))
	inv.AddLine(id.New(), "Bagel", 3, types.MustMoney("1.25"))

	assert.Equal(t, 5, inv.TotalQuantity())
}
