package stock

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invenpos/internal/core/apperror"
	appctx "invenpos/internal/core/context"
	"invenpos/internal/core/id"
	"invenpos/internal/core/types"
	"invenpos/internal/domain"
	"invenpos/internal/domain/catalogs/product"
	"invenpos/internal/domain/catalogs/supplier"
)

type fakeRepo struct {
	entries []*RestockEntry
}

func (r *fakeRepo) Create(_ context.Context, entry *RestockEntry) error {
	cp := *entry
	r.entries = append(r.entries, &cp)
	return nil
}

func (r *fakeRepo) List(_ context.Context, filter HistoryFilter) (domain.ListResult[*RestockEntry], error) {
	var items []*RestockEntry
	for _, e := range r.entries {
		if filter.ProductID != nil && e.ProductID != *filter.ProductID {
			continue
		}
		items = append(items, e)
	}
	return domain.ListResult[*RestockEntry]{Items: items, TotalCount: int64(len(items))}, nil
}

type fakeProducts struct {
	byID map[id.ID]*product.Product
}

func (p *fakeProducts) GetForUpdate(_ context.Context, productID id.ID) (*product.Product, error) {
	pr, ok := p.byID[productID]
	if !ok {
		return nil, apperror.NewNotFound("product", productID.String())
	}
	cp := *pr
	return &cp, nil
}

func (p *fakeProducts) IncrementStock(_ context.Context, productID id.ID, qty int) (int, error) {
	pr, ok := p.byID[productID]
	if !ok {
		return 0, apperror.NewNotFound("product", productID.String())
	}
	pr.Quantity += qty
	return pr.Quantity, nil
}

type fakeSuppliers struct {
	byID map[id.ID]*supplier.Supplier
}

func (s *fakeSuppliers) RequireActive(_ context.Context, supplierID id.ID) (*supplier.Supplier, error) {
	sup, ok := s.byID[supplierID]
	if !ok {
		return nil, apperror.NewNotFound("supplier", supplierID.String())
	}
	if !sup.Active {
		return nil, apperror.NewBusinessRule(apperror.CodeBusinessRule, "supplier is inactive")
	}
	return sup, nil
}

type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newFixture(t *testing.T) (*Service, *fakeRepo, *product.Product, *supplier.Supplier) {
	t.Helper()

	coffee := product.NewProduct("PRD-00001", "Coffee", types.MustMoney("3.50"))
	coffee.Quantity = 2
	products := &fakeProducts{byID: map[id.ID]*product.Product{coffee.ID: coffee}}

	acme := supplier.NewSupplier("SUP-00001", "Acme Wholesale")
	suppliers := &fakeSuppliers{byID: map[id.ID]*supplier.Supplier{acme.ID: acme}}

	repo := &fakeRepo{}
	svc := NewService(repo, products, suppliers, passthroughTx{}, nil)
	return svc, repo, coffee, acme
}

func actorCtx() context.Context {
	return appctx.WithUser(context.Background(), &appctx.UserContext{
		Username: "alice",
		FullName: "Alice Smith",
		Role:     appctx.RoleAdmin,
		IsAdmin:  true,
	})
}

func TestRestock(t *testing.T) {
	svc, repo, coffee, acme := newFixture(t)

	entry, err := svc.Restock(actorCtx(), RestockRequest{
		ProductID:  coffee.ID,
		Quantity:   10,
		SupplierID: &acme.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, "Coffee", entry.ProductName)
	assert.Equal(t, 10, entry.Quantity)
	assert.Equal(t, 12, entry.QuantityAfter)
	assert.Equal(t, "Alice Smith", entry.CreatedBy)
	require.NotNil(t, entry.SupplierName)
	assert.Equal(t, "Acme Wholesale", *entry.SupplierName)

	assert.Equal(t, 12, coffee.Quantity)
	assert.Len(t, repo.entries, 1)
}

func TestRestock_WithoutSupplier(t *testing.T) {
	svc, _, coffee, _ := newFixture(t)

	entry, err := svc.Restock(actorCtx(), RestockRequest{ProductID: coffee.ID, Quantity: 3})
	require.NoError(t, err)
	assert.Nil(t, entry.SupplierID)
	assert.Equal(t, 5, entry.QuantityAfter)
}

func TestRestock_RejectsNonPositiveQuantity(t *testing.T) {
	svc, repo, coffee, _ := newFixture(t)

	_, err := svc.Restock(actorCtx(), RestockRequest{ProductID: coffee.ID, Quantity: 0})
	assert.Error(t, err)

	_, err = svc.Restock(actorCtx(), RestockRequest{ProductID: coffee.ID, Quantity: -5})
	assert.Error(t, err)

	assert.Empty(t, repo.entries)
	assert.Equal(t, 2, coffee.Quantity)
}

func TestRestock_UnknownProduct(t *testing.T) {
	svc, repo, _, _ := newFixture(t)

	_, err := svc.Restock(actorCtx(), RestockRequest{ProductID: id.New(), Quantity: 5})
	assert.True(t, apperror.IsNotFound(err))
	assert.Empty(t, repo.entries)
}

func TestRestock_InactiveSupplier(t *testing.T) {
	svc, repo, coffee, acme := newFixture(t)
	acme.Active = false

	_, err := svc.Restock(actorCtx(), RestockRequest{
		ProductID:  coffee.ID,
		Quantity:   5,
		SupplierID: &acme.ID,
	})
	require.Error(t, err)
	assert.Empty(t, repo.entries)
}

func TestHistory_FilterByProduct(t *testing.T) {
	svc, _, coffee, _ := newFixture(t)
	ctx := actorCtx()

	_, err := svc.Restock(ctx, RestockRequest{ProductID: coffee.ID, Quantity: 5})
	require.NoError(t, err)
	_, err = svc.Restock(ctx, RestockRequest{ProductID: coffee.ID, Quantity: 7})
	require.NoError(t, err)

	result, err := svc.History(ctx, HistoryFilter{ProductID: &coffee.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.TotalCount)
}
