package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"invenpos/internal/core/apperror"
	"invenpos/internal/core/id"
	"invenpos/internal/domain/catalogs/taxrate"
	"invenpos/internal/infrastructure/storage/postgres"
)

const taxRateTable = "cat_tax_rates"

// TaxRateRepo implements taxrate.Repository.
type TaxRateRepo struct {
	*BaseCatalogRepo[*taxrate.TaxRate]
}

// NewTaxRateRepo creates a new tax rate repository.
func NewTaxRateRepo(txManager *postgres.TxManager) *TaxRateRepo {
	return &TaxRateRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*taxrate.TaxRate](
			txManager,
			taxRateTable,
			postgres.ExtractDBColumns[taxrate.TaxRate](),
			func() *taxrate.TaxRate { return &taxrate.TaxRate{} },
		),
	}
}

// FindActive retrieves the single active rate.
func (r *TaxRateRepo) FindActive(ctx context.Context) (*taxrate.TaxRate, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"active": true}).
		Where(squirrel.Eq{"deletion_mark": false}).
		Limit(1)

	rate, err := r.FindOne(ctx, q)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("tax rate", "active")
		}
		return nil, err
	}
	return rate, nil
}

// DeactivateAll clears the active flag on every rate.
func (r *TaxRateRepo) DeactivateAll(ctx context.Context) error {
	q := r.Builder().
		Update(taxRateTable).
		Set("active", false).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"active": true})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build deactivate all: %w", err)
	}

	if _, err := r.Querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("deactivate all: %w", err)
	}
	return nil
}

// SetActive flips the active flag on one rate.
func (r *TaxRateRepo) SetActive(ctx context.Context, rateID id.ID, active bool) error {
	q := r.Builder().
		Update(taxRateTable).
		Set("active", active).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": rateID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build set active: %w", err)
	}

	result, err := r.Querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("set active: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("tax rate", rateID.String())
	}
	return nil
}
