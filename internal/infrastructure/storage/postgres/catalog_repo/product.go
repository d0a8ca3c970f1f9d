package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"invenpos/internal/core/apperror"
	"invenpos/internal/core/id"
	"invenpos/internal/domain"
	"invenpos/internal/domain/catalogs/product"
	"invenpos/internal/infrastructure/storage/postgres"
)

const productTable = "cat_products"

// ProductRepo implements product.Repository.
type ProductRepo struct {
	*BaseCatalogRepo[*product.Product]
}

// NewProductRepo creates a new product repository.
func NewProductRepo(txManager *postgres.TxManager) *ProductRepo {
	return &ProductRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*product.Product](
			txManager,
			productTable,
			postgres.ExtractDBColumns[product.Product](),
			func() *product.Product { return &product.Product{} },
		),
	}
}

// FindByName retrieves a product by exact name.
func (r *ProductRepo) FindByName(ctx context.Context, name string) (*product.Product, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"name": name}).
		Where(squirrel.Eq{"deletion_mark": false}).
		Limit(1)

	p, err := r.FindOne(ctx, q)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("product", name)
		}
		return nil, err
	}
	return p, nil
}

// DecrementStock atomically subtracts qty from on-hand stock. The
// conditional UPDATE never lets the quantity go negative: when stock is
// short no row matches and ok=false is returned with the current level.
func (r *ProductRepo) DecrementStock(ctx context.Context, productID id.ID, qty int) (int, bool, error) {
	querier := r.Querier(ctx)

	var remaining int
	err := querier.QueryRow(ctx, `
		UPDATE cat_products
		SET quantity = quantity - $2, updated_at = now()
		WHERE id = $1 AND quantity >= $2
		RETURNING quantity
	`, productID, qty).Scan(&remaining)
	if err == nil {
		return remaining, true, nil
	}
	if !pgxscan.NotFound(err) {
		return 0, false, fmt.Errorf("decrement stock: %w", err)
	}

	// No row matched: either short stock or unknown product
	var current int
	err = querier.QueryRow(ctx, `SELECT quantity FROM cat_products WHERE id = $1`, productID).Scan(&current)
	if err != nil {
		if pgxscan.NotFound(err) {
			return 0, false, apperror.NewNotFound("product", productID.String())
		}
		return 0, false, fmt.Errorf("read stock: %w", err)
	}
	return current, false, nil
}

// IncrementStock atomically adds qty to on-hand stock.
func (r *ProductRepo) IncrementStock(ctx context.Context, productID id.ID, qty int) (int, error) {
	var remaining int
	err := r.Querier(ctx).QueryRow(ctx, `
		UPDATE cat_products
		SET quantity = quantity + $2, updated_at = now()
		WHERE id = $1
		RETURNING quantity
	`, productID, qty).Scan(&remaining)
	if err != nil {
		if pgxscan.NotFound(err) {
			return 0, apperror.NewNotFound("product", productID.String())
		}
		return 0, fmt.Errorf("increment stock: %w", err)
	}
	return remaining, nil
}

// FindLowStock retrieves products at or below their low stock threshold.
func (r *ProductRepo) FindLowStock(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*product.Product], error) {
	result := domain.ListResult[*product.Product]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.baseSelect().
		Where(squirrel.Expr("quantity <= low_stock_threshold")).
		Where(squirrel.Eq{"deletion_mark": false})

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"code": pattern},
		})
	}

	countQ := r.Builder().Select("COUNT(*)").FromSelect(q, "sub")
	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}

	querier := r.Querier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	q = q.OrderBy("quantity ASC, name ASC")
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
		return result, fmt.Errorf("find low stock: %w", err)
	}

	return result, nil
}
