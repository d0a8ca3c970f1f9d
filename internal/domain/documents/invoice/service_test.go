package invoice

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invenpos/internal/core/apperror"
	appctx "invenpos/internal/core/context"
	"invenpos/internal/core/id"
	"invenpos/internal/core/types"
	"invenpos/internal/domain"
	"invenpos/internal/domain/catalogs/product"
	"invenpos/internal/domain/catalogs/taxrate"
	"invenpos/pkg/numerator"
)

// --- fakes ---

type fakeRepo struct {
	invoices map[id.ID]*Invoice
	lines    map[id.ID][]Line
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		invoices: make(map[id.ID]*Invoice),
		lines:    make(map[id.ID][]Line),
	}
}

func (r *fakeRepo) Create(_ context.Context, doc *Invoice) error {
	cp := *doc
	cp.Lines = nil
	r.invoices[doc.ID] = &cp
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, docID id.ID) (*Invoice, error) {
	doc, ok := r.invoices[docID]
	if !ok {
		return nil, apperror.NewNotFound("invoice", docID.String())
	}
	cp := *doc
	return &cp, nil
}

func (r *fakeRepo) GetByNumber(_ context.Context, number string) (*Invoice, error) {
	for _, doc := range r.invoices {
		if doc.Number == number {
			cp := *doc
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("invoice", number)
}

func (r *fakeRepo) Update(_ context.Context, doc *Invoice) error {
	if _, ok := r.invoices[doc.ID]; !ok {
		return apperror.NewNotFound("invoice", doc.ID.String())
	}
	cp := *doc
	cp.Lines = nil
	r.invoices[doc.ID] = &cp
	return nil
}

func (r *fakeRepo) HardDelete(_ context.Context, docID id.ID) error {
	delete(r.invoices, docID)
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

func (r *fakeRepo) List(_ context.Context, _ ListFilter) (domain.ListResult[*Invoice], error) {
	result := domain.ListResult[*Invoice]{TotalCount: int64(len(r.invoices))}
	for _, doc := range r.invoices {
		result.Items = append(result.Items, doc)
	}
	return result, nil
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

func (p *fakeProducts) DecrementStock(_ context.Context, productID id.ID, qty int) (int, bool, error) {
	pr, ok := p.byID[productID]
	if !ok {
		return 0, false, apperror.NewNotFound("product", productID.String())
	}
	if pr.Quantity < qty {
		return pr.Quantity, false, nil
	}
	pr.Quantity -= qty
	return pr.Quantity, true, nil
}

func (p *fakeProducts) IncrementStock(_ context.Context, productID id.ID, qty int) (int, error) {
	pr, ok := p.byID[productID]
	if !ok {
		return 0, apperror.NewNotFound("product", productID.String())
	}
	pr.Quantity += qty
	return pr.Quantity, nil
}

type fakeTaxes struct {
	active *taxrate.TaxRate
	byID   map[id.ID]*taxrate.TaxRate
}

func (t *fakeTaxes) ActiveRate(_ context.Context) (*taxrate.TaxRate, error) {
	return t.active, nil
}

func (t *fakeTaxes) GetByID(_ context.Context, rateID id.ID) (*taxrate.TaxRate, error) {
	rate, ok := t.byID[rateID]
	if !ok {
		return nil, apperror.NewNotFound("tax rate", rateID.String())
	}
	return rate, nil
}

// fakeSequences backs the numerator with an in-memory counter table.
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

// fakeTxManager mimics rollback by snapshotting all mutable state before
// fn runs and restoring it when fn fails.
type fakeTxManager struct {
	repo      *fakeRepo
	products  *fakeProducts
	sequences *fakeSequences
}

func (m *fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	repoSnap := make(map[id.ID]Invoice, len(m.repo.invoices))
	for k, v := range m.repo.invoices {
		repoSnap[k] = *v
	}
	lineSnap := make(map[id.ID][]Line, len(m.repo.lines))
	for k, v := range m.repo.lines {
		lineSnap[k] = append([]Line(nil), v...)
	}
	stockSnap := make(map[id.ID]int, len(m.products.byID))
	for k, v := range m.products.byID {
		stockSnap[k] = v.Quantity
	}
	seqSnap := make(map[string]int64, len(m.sequences.vals))
	for k, v := range m.sequences.vals {
		seqSnap[k] = v
	}

	if err := fn(ctx); err != nil {
		m.repo.invoices = make(map[id.ID]*Invoice, len(repoSnap))
		for k, v := range repoSnap {
			cp := v
			m.repo.invoices[k] = &cp
		}
		m.repo.lines = lineSnap
		for k, v := range stockSnap {
			m.products.byID[k].Quantity = v
		}
		m.sequences.vals = seqSnap
		return err
	}
	return nil
}

type fixture struct {
	svc      *Service
	repo     *fakeRepo
	products *fakeProducts
	taxes    *fakeTaxes
	coffee   *product.Product
	bagel    *product.Product
}

func newFixture(t *testing.T, activeTaxPct string) *fixture {
	t.Helper()

	coffee := product.NewProduct("PRD-00001", "Coffee", types.MustMoney("3.50"))
	coffee.Quantity = 5
	bagel := product.NewProduct("PRD-00002", "Bagel", types.MustMoney("1.25"))
	bagel.Quantity = 3

	products := &fakeProducts{byID: map[id.ID]*product.Product{
		coffee.ID: coffee,
		bagel.ID:  bagel,
	}}

	taxes := &fakeTaxes{byID: make(map[id.ID]*taxrate.TaxRate)}
	if activeTaxPct != "" {
		rate := taxrate.NewTaxRate("TAX-001", "VAT", types.MustMoney(activeTaxPct))
		rate.Active = true
		taxes.active = rate
		taxes.byID[rate.ID] = rate
	}

	repo := newFakeRepo()
	sequences := &fakeSequences{vals: make(map[string]int64)}
	txm := &fakeTxManager{repo: repo, products: products, sequences: sequences}
	num := numerator.New(sequences)

	return &fixture{
		svc:      NewService(repo, products, taxes, num, txm, nil),
		repo:     repo,
		products: products,
		taxes:    taxes,
		coffee:   coffee,
		bagel:    bagel,
	}
}

func cashierCtx() context.Context {
	return appctx.WithUser(context.Background(), &appctx.UserContext{
		UserID:   id.New().String(),
		Username: "alice",
		FullName: "Alice Smith",
		Role:     appctx.RoleCashier,
	})
}

// --- tests ---

func TestCheckout_HappyPath(t *testing.T) {
	f := newFixture(t, "10")
	ctx := cashierCtx()

	inv, err := f.svc.Checkout(ctx, CheckoutRequest{
		CashReceived: types.MustMoney("50"),
		Lines: []CheckoutLine{
			{ProductID: f.coffee.ID, Quantity: 2},
			{ProductID: f.bagel.ID, Quantity: 1},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "INV-000001", inv.Number)
	assert.Equal(t, "CUST-001", inv.CustomerID)
	assert.Equal(t, "Alice Smith", inv.StaffName)
	assert.Equal(t, StatusActive, inv.Status)

	// 2*3.50 + 1*1.25 = 8.25, tax 10% = 0.83 (rounded), total 9.08
	assert.True(t, inv.Subtotal.Equal(types.MustMoney("8.25")), "subtotal = %s", inv.Subtotal)
	assert.True(t, inv.TaxAmount.Equal(types.MustMoney("0.83")), "tax = %s", inv.TaxAmount)
	assert.True(t, inv.TotalAmount.Equal(types.MustMoney("9.08")))
	assert.True(t, inv.ChangeDue.Equal(types.MustMoney("40.92")))

	require.Len(t, inv.Lines, 2)
	assert.Equal(t, "Coffee", inv.Lines[0].ProductName, "product name is snapshotted")
	assert.True(t, inv.Lines[0].UnitPrice.Equal(types.MustMoney("3.50")), "catalog price is snapshotted")

	assert.Equal(t, 3, f.coffee.Quantity)
	assert.Equal(t, 2, f.bagel.Quantity)

	stored, err := f.svc.GetByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Lines, 2)
}

func TestCheckout_SequentialNumbers(t *testing.T) {
	f := newFixture(t, "")
	ctx := cashierCtx()

	first, err := f.svc.Checkout(ctx, CheckoutRequest{
		Lines: []CheckoutLine{{ProductID: f.coffee.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	second, err := f.svc.Checkout(ctx, CheckoutRequest{
		Lines: []CheckoutLine{{ProductID: f.coffee.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	assert.Equal(t, "INV-000001", first.Number)
	assert.Equal(t, "INV-000002", second.Number)
}

func TestCheckout_CustomerAssignment(t *testing.T) {
	f := newFixture(t, "")
	ctx := cashierCtx()

	blank, err := f.svc.Checkout(ctx, CheckoutRequest{
		Lines: []CheckoutLine{{ProductID: f.coffee.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, "CUST-001", blank.CustomerID)

	placeholder, err := f.svc.Checkout(ctx, CheckoutRequest{
		CustomerID: UnassignedCustomerID,
		Lines:      []CheckoutLine{{ProductID: f.coffee.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, "CUST-002", placeholder.CustomerID)

	explicit, err := f.svc.Checkout(ctx, CheckoutRequest{
		CustomerID: "CUST-042",
		Lines:      []CheckoutLine{{ProductID: f.coffee.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, "CUST-042", explicit.CustomerID)
}

func TestCheckout_InsufficientStockRollsBack(t *testing.T) {
	f := newFixture(t, "10")
	ctx := cashierCtx()

	_, err := f.svc.Checkout(ctx, CheckoutRequest{
		Lines: []CheckoutLine{
			{ProductID: f.bagel.ID, Quantity: 1},
			{ProductID: f.coffee.ID, Quantity: 10},
		},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Contains(t, appErr.Message, "Coffee")
	assert.Contains(t, appErr.Message, "Available: 5")
	assert.Contains(t, appErr.Message, "Requested: 10")

	// nothing persisted, no stock consumed, not even by the bagel line
	assert.Empty(t, f.repo.invoices)
	assert.Empty(t, f.repo.lines)
	assert.Equal(t, 5, f.coffee.Quantity)
	assert.Equal(t, 3, f.bagel.Quantity)

	// the aborted attempt must not burn an invoice number
	inv, err := f.svc.Checkout(ctx, CheckoutRequest{
		Lines: []CheckoutLine{{ProductID: f.coffee.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, "INV-000001", inv.Number)
}

func TestCheckout_ContendingCheckoutsOnlyOneSucceeds(t *testing.T) {
	f := newFixture(t, "")
	ctx := cashierCtx()

	// Two carts want 3 units each with 5 on hand. Row locking serializes
	// them, so whichever commits second sees the decremented stock.
	first, err := f.svc.Checkout(ctx, CheckoutRequest{
		Lines: []CheckoutLine{{ProductID: f.coffee.ID, Quantity: 3}},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, f.coffee.Quantity)

	_, err = f.svc.Checkout(ctx, CheckoutRequest{
		Lines: []CheckoutLine{{ProductID: f.coffee.ID, Quantity: 3}},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Contains(t, appErr.Message, "Available: 2")
	assert.Contains(t, appErr.Message, "Requested: 3")

	// exactly one invoice exists and the loser left stock untouched
	assert.Len(t, f.repo.invoices, 1)
	assert.Equal(t, 2, f.coffee.Quantity)
	assert.Equal(t, "INV-000001", first.Number)

	// the failed attempt burned neither stock nor a number
	next, err := f.svc.Checkout(ctx, CheckoutRequest{
		Lines: []CheckoutLine{{ProductID: f.coffee.ID, Quantity: 2}},
	})
	require.NoError(t, err)
	assert.Equal(t, "INV-000002", next.Number)
	assert.Equal(t, 0, f.coffee.Quantity)
}

func TestCheckout_UnknownProductRollsBack(t *testing.T) {
	f := newFixture(t, "")
	ctx := cashierCtx()

	_, err := f.svc.Checkout(ctx, CheckoutRequest{
		Lines: []CheckoutLine{
			{ProductID: f.coffee.ID, Quantity: 1},
			{ProductID: id.New(), Quantity: 1},
		},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
	assert.Empty(t, f.repo.invoices)
	assert.Equal(t, 5, f.coffee.Quantity)
}

func TestCheckout_CashBelowTotalRollsBack(t *testing.T) {
	f := newFixture(t, "")
	ctx := cashierCtx()

	_, err := f.svc.Checkout(ctx, CheckoutRequest{
		CashReceived: types.MustMoney("1"),
		Lines:        []CheckoutLine{{ProductID: f.coffee.ID, Quantity: 2}},
	})
	require.Error(t, err)
	assert.Empty(t, f.repo.invoices)
	assert.Equal(t, 5, f.coffee.Quantity)
}

func TestCheckout_NoActiveTaxRate(t *testing.T) {
	f := newFixture(t, "")
	ctx := cashierCtx()

	inv, err := f.svc.Checkout(ctx, CheckoutRequest{
		Lines: []CheckoutLine{{ProductID: f.coffee.ID, Quantity: 2}},
	})
	require.NoError(t, err)

	assert.Nil(t, inv.TaxRateID)
	assert.True(t, inv.TaxAmount.IsZero())
	assert.True(t, inv.TotalAmount.Equal(inv.Subtotal))
}

func TestCheckout_RejectsEmptyCartAndBadQuantity(t *testing.T) {
	f := newFixture(t, "")
	ctx := cashierCtx()

	_, err := f.svc.Checkout(ctx, CheckoutRequest{})
	assert.Error(t, err)

	_, err = f.svc.Checkout(ctx, CheckoutRequest{
		Lines: []CheckoutLine{{ProductID: f.coffee.ID, Quantity: 0}},
	})
	assert.Error(t, err)
}

func TestCheckout_RequiresCashierIdentity(t *testing.T) {
	f := newFixture(t, "")

	_, err := f.svc.Checkout(context.Background(), CheckoutRequest{
		Lines: []CheckoutLine{{ProductID: f.coffee.ID, Quantity: 1}},
	})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)
}

func TestVoid(t *testing.T) {
	f := newFixture(t, "")
	ctx := cashierCtx()

	inv, err := f.svc.Checkout(ctx, CheckoutRequest{
		Lines: []CheckoutLine{{ProductID: f.coffee.ID, Quantity: 2}},
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.Void(ctx, inv.ID))

	stored, err := f.svc.GetByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusVoided, stored.Status)

	// voiding does not restore stock
	assert.Equal(t, 3, f.coffee.Quantity)

	err = f.svc.Void(ctx, inv.ID)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeStateConflict, appErr.Code)
}

func TestHardDelete(t *testing.T) {
	f := newFixture(t, "")
	ctx := cashierCtx()

	inv, err := f.svc.Checkout(ctx, CheckoutRequest{
		Lines: []CheckoutLine{{ProductID: f.coffee.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.HardDelete(ctx, inv.ID))

	_, err = f.svc.GetByID(ctx, inv.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestUpdateTaxRate_Resnapshot(t *testing.T) {
	f := newFixture(t, "")
	ctx := cashierCtx()

	inv, err := f.svc.Checkout(ctx, CheckoutRequest{
		Lines: []CheckoutLine{{ProductID: f.coffee.ID, Quantity: 2}},
	})
	require.NoError(t, err)
	require.True(t, inv.TaxAmount.IsZero())

	rate := taxrate.NewTaxRate("TAX-002", "GST", types.MustMoney("5"))
	f.taxes.byID[rate.ID] = rate

	require.NoError(t, f.svc.UpdateTaxRate(ctx, inv.ID, &rate.ID))

	stored, err := f.svc.GetByID(ctx, inv.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.TaxRateID)
	assert.True(t, stored.TaxPercentage.Equal(types.MustMoney("5")))
	// 7.00 subtotal * 5% = 0.35
	assert.True(t, stored.TaxAmount.Equal(types.MustMoney("0.35")), "tax = %s", stored.TaxAmount)
	assert.True(t, stored.TotalAmount.Equal(types.MustMoney("7.35")))
}

func TestEdit_RecomputesDerivedAmounts(t *testing.T) {
	f := newFixture(t, "10")
	ctx := cashierCtx()

	inv, err := f.svc.Checkout(ctx, CheckoutRequest{
		CashReceived: types.MustMoney("20"),
		Lines:        []CheckoutLine{{ProductID: f.coffee.ID, Quantity: 2}},
	})
	require.NoError(t, err)

	qty := 3
	cash := types.MustMoney("15")
	edited, err := f.svc.Edit(ctx, inv.ID, AdminEdit{
		CashReceived: &cash,
		Lines:        []LineEdit{{LineID: inv.Lines[0].LineID, Quantity: &qty}},
	})
	require.NoError(t, err)

	// 3*3.50 = 10.50, tax snapshot 10% = 1.05, total 11.55
	assert.True(t, edited.Subtotal.Equal(types.MustMoney("10.50")))
	assert.True(t, edited.TaxAmount.Equal(types.MustMoney("1.05")))
	assert.True(t, edited.TotalAmount.Equal(types.MustMoney("11.55")))
	assert.True(t, edited.ChangeDue.Equal(types.MustMoney("3.45")))

	// editing the record never touches stock
	assert.Equal(t, 3, f.coffee.Quantity)
}

func TestEdit_UnknownLine(t *testing.T) {
	f := newFixture(t, "")
	ctx := cashierCtx()

	inv, err := f.svc.Checkout(ctx, CheckoutRequest{
		Lines: []CheckoutLine{{ProductID: f.coffee.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	qty := 2
	_, err = f.svc.Edit(ctx, inv.ID, AdminEdit{
		Lines: []LineEdit{{LineID: id.New(), Quantity: &qty}},
	})
	assert.True(t, apperror.IsNotFound(err))
}
