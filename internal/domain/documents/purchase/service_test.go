package purchase

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invenpos/internal/core/apperror"
	"invenpos/internal/core/id"
	"invenpos/internal/core/types"
	"invenpos/internal/domain"
	"invenpos/internal/domain/catalogs/product"
	"invenpos/internal/domain/catalogs/supplier"
	"invenpos/pkg/numerator"
)

// --- fakes ---

type fakeRepo struct {
	orders map[id.ID]*PurchaseOrder
	lines  map[id.ID][]Line
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		orders: make(map[id.ID]*PurchaseOrder),
		lines:  make(map[id.ID][]Line),
	}
}

func (r *fakeRepo) Create(_ context.Context, doc *PurchaseOrder) error {
	cp := *doc
	cp.Lines = nil
	r.orders[doc.ID] = &cp
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, docID id.ID) (*PurchaseOrder, error) {
	doc, ok := r.orders[docID]
	if !ok {
		return nil, apperror.NewNotFound("purchase order", docID.String())
	}
	cp := *doc
	return &cp, nil
}

func (r *fakeRepo) GetByNumber(_ context.Context, number string) (*PurchaseOrder, error) {
	for _, doc := range r.orders {
		if doc.Number == number {
			cp := *doc
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("purchase order", number)
}

func (r *fakeRepo) Update(_ context.Context, doc *PurchaseOrder) error {
	if _, ok := r.orders[doc.ID]; !ok {
		return apperror.NewNotFound("purchase order", doc.ID.String())
	}
	cp := *doc
	cp.Lines = nil
	r.orders[doc.ID] = &cp
	return nil
}

func (r *fakeRepo) HardDelete(_ context.Context, docID id.ID) error {
	delete(r.orders, docID)
	delete(r.lines, docID)
	return nil
}

func (r *fakeRepo) GetLines(_ context.Context, docID id.ID) ([]Line, error) {
	return append([]Line(nil), r.lines[docID]...), nil
}

func (r *fakeRepo) SaveLines(_ context.Context, docID id.ID, lines []Line) error {
	r.lines[docID] = append([]Line(nil), lines...)
	return nil
}

func (r *fakeRepo) List(_ context.Context, _ ListFilter) (domain.ListResult[*PurchaseOrder], error) {
	result := domain.ListResult[*PurchaseOrder]{TotalCount: int64(len(r.orders))}
	for _, doc := range r.orders {
		result.Items = append(result.Items, doc)
	}
	return result, nil
}

type fakeProducts struct {
	byID map[id.ID]*product.Product
}

func (p *fakeProducts) GetByID(_ context.Context, productID id.ID) (*product.Product, error) {
	pr, ok := p.byID[productID]
	if !ok {
		return nil, apperror.NewNotFound("product", productID.String())
	}
	return pr, nil
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

type fakeSequences struct {
	vals map[string]int64
}

type seqRow struct{ val int64 }

func (r seqRow) Scan(dest ...any) error {
	*(dest[0].(*int64)) = r.val
	return nil
}

func (f *fakeSequences) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	key := args[0].(string)
	inc := int64(1)
	if len(args) > 1 {
		inc = args[1].(int64)
	}
	f.vals[key] += inc
	return seqRow{f.vals[key]}
}

type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixture struct {
	svc      *Service
	repo     *fakeRepo
	acme     *supplier.Supplier
	inactive *supplier.Supplier
	coffee   *product.Product
	bagel    *product.Product
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	coffee := product.NewProduct("PRD-00001", "Coffee", types.MustMoney("3.50"))
	bagel := product.NewProduct("PRD-00002", "Bagel", types.MustMoney("1.25"))
	products := &fakeProducts{byID: map[id.ID]*product.Product{
		coffee.ID: coffee,
		bagel.ID:  bagel,
	}}

	acme := supplier.NewSupplier("SUP-00001", "Acme Wholesale")
	inactive := supplier.NewSupplier("SUP-00002", "Closed Down Ltd")
	inactive.Active = false
	suppliers := &fakeSuppliers{byID: map[id.ID]*supplier.Supplier{
		acme.ID:     acme,
		inactive.ID: inactive,
	}}

	repo := newFakeRepo()
	num := numerator.New(&fakeSequences{vals: make(map[string]int64)})

	return &fixture{
		svc:      NewService(repo, products, suppliers, num, passthroughTx{}, nil),
		repo:     repo,
		acme:     acme,
		inactive: inactive,
		coffee:   coffee,
		bagel:    bagel,
	}
}

// --- tests ---

func TestCreate_HappyPath(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	po, err := f.svc.Create(ctx, CreateRequest{
		SupplierID:   f.acme.ID,
		ExpectedDate: dueDate(),
		Lines: []CreateLine{
			{ProductID: f.coffee.ID, Quantity: 10, UnitCost: types.MustMoney("2.10")},
			{ProductID: f.bagel.ID, Quantity: 4, UnitCost: types.MustMoney("0.55")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "PO-000001", po.Number)
	assert.Equal(t, "Acme Wholesale", po.SupplierName)
	assert.False(t, po.ExpectedDate.IsZero())
	assert.Equal(t, StatusPending, po.Status)
	assert.True(t, po.TotalCost.Equal(types.MustMoney("23.20")), "total = %s", po.TotalCost)
	require.Len(t, po.Lines, 2)
	assert.Equal(t, "Coffee", po.Lines[0].ProductName)

	stored, err := f.svc.GetByID(ctx, po.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Lines, 2)
}

func TestCreate_SkipsInvalidLinesSilently(t *testing.T) {
	f := newFixture(t)

	po, err := f.svc.Create(context.Background(), CreateRequest{
		SupplierID:   f.acme.ID,
		ExpectedDate: dueDate(),
		Lines: []CreateLine{
			{ProductID: f.coffee.ID, Quantity: 10, UnitCost: types.MustMoney("2.10")},
			{ProductID: f.bagel.ID, Quantity: 0, UnitCost: types.MustMoney("0.55")},
			{ProductID: f.bagel.ID, Quantity: 3, UnitCost: types.MustMoney("-1")},
		},
	})
	require.NoError(t, err)

	require.Len(t, po.Lines, 1)
	assert.True(t, po.TotalCost.Equal(types.MustMoney("21.00")))
}

func TestCreate_ExpectedDateRequired(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), CreateRequest{
		SupplierID: f.acme.ID,
		Lines:      []CreateLine{{ProductID: f.coffee.ID, Quantity: 1, UnitCost: types.MustMoney("2")}},
	})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	assert.Equal(t, "expectedDate", appErr.Details["field"])
	assert.Empty(t, f.repo.orders)
}

func TestCreate_ExpectedDatePersisted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	due := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	po, err := f.svc.Create(ctx, CreateRequest{
		SupplierID:   f.acme.ID,
		ExpectedDate: due,
		Lines:        []CreateLine{{ProductID: f.coffee.ID, Quantity: 1, UnitCost: types.MustMoney("2")}},
	})
	require.NoError(t, err)
	assert.Equal(t, due, po.ExpectedDate)

	stored, err := f.svc.GetByID(ctx, po.ID)
	require.NoError(t, err)
	assert.Equal(t, due, stored.ExpectedDate)
}

func TestCreate_AllLinesInvalid(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), CreateRequest{
		SupplierID:   f.acme.ID,
		ExpectedDate: dueDate(),
		Lines: []CreateLine{
			{ProductID: f.coffee.ID, Quantity: 0, UnitCost: types.MustMoney("2.10")},
		},
	})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	assert.Empty(t, f.repo.orders)
}

func TestCreate_UnknownProductAborts(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), CreateRequest{
		SupplierID:   f.acme.ID,
		ExpectedDate: dueDate(),
		Lines: []CreateLine{
			{ProductID: f.coffee.ID, Quantity: 1, UnitCost: types.MustMoney("2")},
			{ProductID: id.New(), Quantity: 1, UnitCost: types.MustMoney("2")},
		},
	})
	assert.True(t, apperror.IsNotFound(err))
	assert.Empty(t, f.repo.orders)
}

func TestCreate_InactiveSupplierRejected(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), CreateRequest{
		SupplierID:   f.inactive.ID,
		ExpectedDate: dueDate(),
		Lines:        []CreateLine{{ProductID: f.coffee.ID, Quantity: 1, UnitCost: types.MustMoney("2")}},
	})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeBusinessRule, appErr.Code)
}

func TestMarkReceived(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	po, err := f.svc.Create(ctx, CreateRequest{
		SupplierID:   f.acme.ID,
		ExpectedDate: dueDate(),
		Lines:        []CreateLine{{ProductID: f.coffee.ID, Quantity: 5, UnitCost: types.MustMoney("2")}},
	})
	require.NoError(t, err)

	received, err := f.svc.MarkReceived(ctx, po.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusReceived, received.Status)
	require.NotNil(t, received.ReceivedAt)

	// receiving changes the record only; on-hand stock is untouched
	assert.Equal(t, 0, f.coffee.Quantity)

	_, err = f.svc.MarkReceived(ctx, po.ID)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeStateConflict, appErr.Code)
}

func TestCancel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	po, err := f.svc.Create(ctx, CreateRequest{
		SupplierID:   f.acme.ID,
		ExpectedDate: dueDate(),
		Lines:        []CreateLine{{ProductID: f.coffee.ID, Quantity: 5, UnitCost: types.MustMoney("2")}},
	})
	require.NoError(t, err)

	cancelled, err := f.svc.Cancel(ctx, po.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.Status)

	_, err = f.svc.MarkReceived(ctx, po.ID)
	require.Error(t, err)
}

func TestSequentialNumbers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.Create(ctx, CreateRequest{
		SupplierID:   f.acme.ID,
		ExpectedDate: dueDate(),
		Lines:        []CreateLine{{ProductID: f.coffee.ID, Quantity: 1, UnitCost: types.MustMoney("2")}},
	})
	require.NoError(t, err)

	second, err := f.svc.Create(ctx, CreateRequest{
		SupplierID:   f.acme.ID,
		ExpectedDate: dueDate(),
		Lines:        []CreateLine{{ProductID: f.coffee.ID, Quantity: 1, UnitCost: types.MustMoney("2")}},
	})
	require.NoError(t, err)

	assert.Equal(t, "PO-000001", first.Number)
	assert.Equal(t, "PO-000002", second.Number)
}
