// Package register_repo provides PostgreSQL implementations for register repositories.
package register_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"invenpos/internal/domain"
	"invenpos/internal/domain/stock"
	"invenpos/internal/infrastructure/storage/postgres"
)

const restockEntriesTable = "reg_restock_entries"

var restockColumns = []string{
	"id", "product_id", "product_name",
	"supplier_id", "supplier_name",
	"quantity", "quantity_after",
	"created_at", "created_by",
}

// StockRepo implements stock.Repository on the restock history register.
type StockRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewStockRepo creates a new restock register repository.
func NewStockRepo(txManager *postgres.TxManager) *StockRepo {
	return &StockRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a replenishment entry.
// Called inside the restock transaction alongside the quantity update.
func (r *StockRepo) Create(ctx context.Context, entry *stock.RestockEntry) error {
	q := r.builder.Insert(restockEntriesTable).
		Columns(restockColumns...).
		Values(
			entry.ID, entry.ProductID, entry.ProductName,
			entry.SupplierID, entry.SupplierName,
			entry.Quantity, entry.QuantityAfter,
			entry.CreatedAt, entry.CreatedBy,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert restock entry: %w", err)
	}

	return nil
}

// List retrieves restock history, newest first.
func (r *StockRepo) List(ctx context.Context, filter stock.HistoryFilter) (domain.ListResult[*stock.RestockEntry], error) {
	result := domain.ListResult[*stock.RestockEntry]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.builder.Select(restockColumns...).From(restockEntriesTable)

	if filter.ProductID != nil {
		q = q.Where(squirrel.Eq{"product_id": *filter.ProductID})
	}

	if filter.SupplierID != nil {
		q = q.Where(squirrel.Eq{"supplier_id": *filter.SupplierID})
	}

	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"created_at": *filter.DateFrom})
	}

	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"created_at": *filter.DateTo})
	}

	countQ := r.builder.Select("COUNT(*)").FromSelect(q, "sub")
	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	q = q.OrderBy("created_at DESC")

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

// Ensure interface compliance.
var _ stock.Repository = (*StockRepo)(nil)
