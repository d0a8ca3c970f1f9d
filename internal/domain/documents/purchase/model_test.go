package purchase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invenpos/internal/core/id"
	"invenpos/internal/core/types"
)

func dueDate() time.Time {
	return time.Now().UTC().AddDate(0, 0, 7)
}

func TestAddLine_SkipsInvalidLines(t *testing.T) {
	po := NewPurchaseOrder(id.New(), "Acme Wholesale", dueDate())

	assert.True(t, po.AddLine(id.New(), "Coffee", 10, types.MustMoney("2.10")))
	assert.False(t, po.AddLine(id.New(), "Bagel", 0, types.MustMoney("0.75")), "zero quantity is dropped")
	assert.False(t, po.AddLine(id.New(), "Tea", -3, types.MustMoney("1.00")), "negative quantity is dropped")
	assert.False(t, po.AddLine(id.New(), "Water", 5, types.MustMoney("0")), "zero cost is dropped")
	assert.False(t, po.AddLine(id.New(), "Juice", 5, types.MustMoney("-1")), "negative cost is dropped")

	require.Len(t, po.Lines, 1)
	assert.True(t, po.TotalCost.Equal(types.MustMoney("21.00")), "total = %s", po.TotalCost)
}

func TestRecalculate_TotalFromAcceptedLines(t *testing.T) {
	po := NewPurchaseOrder(id.New(), "Acme Wholesale", dueDate())
	po.AddLine(id.New(), "Coffee", 10, types.MustMoney("2.10"))
	po.AddLine(id.New(), "Bagel", 4, types.MustMoney("0.55"))

	assert.True(t, po.TotalCost.Equal(types.MustMoney("23.20")), "total = %s", po.TotalCost)
	assert.Equal(t, 14, po.TotalQuantity())
}

func TestLifecycle_Transitions(t *testing.T) {
	now := time.Now().UTC()

	po := NewPurchaseOrder(id.New(), "Acme Wholesale", dueDate())
	po.AddLine(id.New(), "Coffee", 1, types.MustMoney("2"))
	require.True(t, po.IsPending())

	require.NoError(t, po.MarkReceived(now))
	assert.Equal(t, StatusReceived, po.Status)
	require.NotNil(t, po.ReceivedAt)
	assert.Equal(t, now, *po.ReceivedAt)

	assert.Error(t, po.MarkReceived(now), "received order cannot be received again")
	assert.Error(t, po.Cancel(), "received order cannot be cancelled")
}

func TestLifecycle_CancelIsTerminal(t *testing.T) {
	po := NewPurchaseOrder(id.New(), "Acme Wholesale", dueDate())
	po.AddLine(id.New(), "Coffee", 1, types.MustMoney("2"))

	require.NoError(t, po.Cancel())
	assert.Equal(t, StatusCancelled, po.Status)
	assert.Nil(t, po.ReceivedAt)

	assert.Error(t, po.MarkReceived(time.Now()), "cancelled order cannot be received")
}

func TestValidate(t *testing.T) {
	ctx := context.Background()

	po := NewPurchaseOrder(id.Nil(), "Acme Wholesale", dueDate())
	po.AddLine(id.New(), "Coffee", 1, types.MustMoney("2"))
	assert.Error(t, po.Validate(ctx), "supplier is required")

	po = NewPurchaseOrder(id.New(), "Acme Wholesale", time.Time{})
	po.AddLine(id.New(), "Coffee", 1, types.MustMoney("2"))
	assert.Error(t, po.Validate(ctx), "expected date is required")

	po = NewPurchaseOrder(id.New(), "Acme Wholesale", dueDate())
	assert.Error(t, po.Validate(ctx), "at least one line is required")

	po.AddLine(id.New(), "Coffee", 1, types.MustMoney("2"))
	assert.NoError(t, po.Validate(ctx))
}
