package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"invenpos/internal/core/id"
	"invenpos/internal/domain"
	"invenpos/internal/domain/documents/invoice"
	"invenpos/internal/infrastructure/storage/postgres"
)

const (
	invoicesTable     = "doc_invoices"
	invoiceLinesTable = "doc_invoice_lines"
)

var invoiceLineColumns = []string{
	"line_id", "document_id", "line_no", "product_id",
	"product_name", "quantity", "unit_price", "line_total",
}

// InvoiceRepo implements invoice.Repository.
type InvoiceRepo struct {
	*BaseDocumentRepo[*invoice.Invoice]
}

// NewInvoiceRepo creates a new invoice repository.
func NewInvoiceRepo(txManager *postgres.TxManager) *InvoiceRepo {
	return &InvoiceRepo{
		BaseDocumentRepo: NewBaseDocumentRepo[*invoice.Invoice](
			txManager,
			invoicesTable,
			postgres.ExtractDBColumns[invoice.Invoice](),
			func() *invoice.Invoice { return &invoice.Invoice{} },
		),
	}
}

func (r *InvoiceRepo) GetLines(ctx context.Context, docID id.ID) ([]invoice.Line, error) {
	q := r.Builder().
		Select(
			"line_id", "line_no", "product_id",
			"product_name", "quantity", "unit_price", "line_total",
		).
		From(invoiceLinesTable).
		Where(squirrel.Eq{"document_id": docID}).
		OrderBy("line_no")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []invoice.Line
	if err := pgxscan.Select(ctx, r.Querier(ctx), &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}

	return lines, nil
}

func (r *InvoiceRepo) SaveLines(ctx context.Context, docID id.ID, lines []invoice.Line) error {
	if err := r.deleteLines(ctx, invoiceLinesTable, docID); err != nil {
		return err
	}

	rows := make([][]any, 0, len(lines))
	for _, line := range lines {
		rows = append(rows, []any{
			line.LineID, docID, line.LineNo, line.ProductID,
			line.ProductName, line.Quantity, line.UnitPrice, line.LineTotal,
		})
	}

	return r.copyLines(ctx, invoiceLinesTable, invoiceLineColumns, rows)
}

// HardDelete permanently removes the invoice and its lines.
func (r *InvoiceRepo) HardDelete(ctx context.Context, docID id.ID) error {
	if err := r.deleteLines(ctx, invoiceLinesTable, docID); err != nil {
		return err
	}
	return r.deleteHeader(ctx, docID)
}

func (r *InvoiceRepo) List(ctx context.Context, filter invoice.ListFilter) (domain.ListResult[*invoice.Invoice], error) {
	result := domain.ListResult[*invoice.Invoice]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.baseSelect()

	switch {
	case filter.Status != nil:
		q = q.Where(squirrel.Eq{"status": *filter.Status})
	case !filter.IncludeVoided:
		q = q.Where(squirrel.Eq{"status": invoice.StatusActive})
	}

	if filter.Cashier != "" {
		if filter.CashierExact {
			q = q.Where(squirrel.Eq{"staff_name": filter.Cashier})
		} else {
			q = q.Where(squirrel.ILike{"staff_name": "%" + filter.Cashier + "%"})
		}
	}

	if filter.CustomerID != "" {
		q = q.Where(squirrel.ILike{"customer_id": "%" + filter.CustomerID + "%"})
	}

	if filter.Number != "" {
		q = q.Where(squirrel.ILike{"number": "%" + filter.Number + "%"})
	}

	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"date": *filter.DateFrom})
	}

	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"date": *filter.DateTo})
	}

	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"number": searchPattern},
			squirrel.ILike{"customer_id": searchPattern},
			squirrel.ILike{"staff_name": searchPattern},
		})
	}

	countQ := r.Builder().Select("COUNT(*)").FromSelect(q, "sub")
	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}

	querier := r.Querier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	orderBy, err := r.parseOrderBy(filter.OrderBy)
	if err != nil {
		return result, err
	}
	q = q.OrderBy(orderBy)

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("select: %w", err)
	}

	return result, nil
}
