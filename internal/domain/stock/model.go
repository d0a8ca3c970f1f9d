// Package stock provides stock replenishment and its history trail.
// Restocking is the only operation that increases on-hand quantity;
// each restock writes a history entry in the same transaction as the
// quantity change.
package stock

import (
	"time"

	"invenpos/internal/core/id"
)

// RestockEntry is one replenishment event.
type RestockEntry struct {
	ID id.ID `db:"id" json:"id"`

	ProductID id.ID `db:"product_id" json:"productId"`

	// ProductName is snapshotted at restock time
	ProductName string `db:"product_name" json:"productName"`

	// SupplierID is optional; counter purchases have no supplier
	SupplierID   *id.ID  `db:"supplier_id" json:"supplierId,omitempty"`
	SupplierName *string `db:"supplier_name" json:"supplierName,omitempty"`

	// Quantity added by this restock (always positive)
	Quantity int `db:"quantity" json:"quantity"`

	// QuantityAfter is the on-hand level right after the restock
	QuantityAfter int `db:"quantity_after" json:"quantityAfter"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	CreatedBy string    `db:"created_by" json:"createdBy"`
}
