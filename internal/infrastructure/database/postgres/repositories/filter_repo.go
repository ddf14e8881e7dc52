package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/turtacn/PatentLens/internal/domain/filter"
	"github.com/turtacn/PatentLens/internal/infrastructure/monitoring/logging"
	apperrors "github.com/turtacn/PatentLens/pkg/errors"
)

// FilterRepository is the PostgreSQL implementation of filter.Repository.
type FilterRepository struct {
	pool   *pgxpool.Pool
	logger logging.Logger
}

// NewFilterRepository constructs a ready-to-use FilterRepository.
func NewFilterRepository(pool *pgxpool.Pool, logger logging.Logger) *FilterRepository {
	return &FilterRepository{pool: pool, logger: logger}
}

func (r *FilterRepository) Save(ctx context.Context, f *filter.Filter) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeDatabaseError, "begin filter transaction")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	err = tx.QueryRow(ctx,
		`INSERT INTO filters (name) VALUES ($1) RETURNING id, created_at`,
		f.Name).Scan(&f.ID, &f.CreatedAt)
	if err != nil {
		r.logger.Error("insert filter failed", logging.String("name", f.Name), logging.Err(err))
		return apperrors.Wrap(err, apperrors.CodeDatabaseError, "insert filter")
	}

	for _, tn := range f.TaxNumbers {
		if _, err := tx.Exec(ctx,
			`INSERT INTO filter_tax_numbers (filter_id, tax_number) VALUES ($1, $2)`,
			f.ID, tn); err != nil {
			r.logger.Error("insert filter tax number failed",
				logging.Int64("filter_id", f.ID), logging.Err(err))
			return apperrors.Wrap(err, apperrors.CodeDatabaseError, "insert filter tax number")
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return apperrors.Wrap(err, apperrors.CodeDatabaseError, "commit filter transaction")
	}
	return nil
}

func (r *FilterRepository) FindByID(ctx context.Context, id int64) (*filter.Filter, error) {
	f := &filter.Filter{ID: id}
	err := r.pool.QueryRow(ctx,
		`SELECT name, created_at FROM filters WHERE id = $1`, id).
		Scan(&f.Name, &f.CreatedAt)
	if err != nil {
		if stderrIs(err, pgx.ErrNoRows) {
			return nil, apperrors.New(apperrors.ErrCodeFilterNotFound,
				fmt.Sprintf("filter %d not found", id))
		}
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "find filter")
	}

	taxNumbers, err := r.ResolveTaxNumbers(ctx, id)
	if err != nil {
		return nil, err
	}
	f.TaxNumbers = taxNumbers
	return f, nil
}

func (r *FilterRepository) List(ctx context.Context) ([]*filter.Filter, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT f.id, f.name, f.created_at,
		       COALESCE(array_agg(ft.tax_number ORDER BY ft.tax_number)
		           FILTER (WHERE ft.tax_number IS NOT NULL), '{}')
		FROM filters f
		LEFT JOIN filter_tax_numbers ft ON ft.filter_id = f.id
		GROUP BY f.id
		ORDER BY f.created_at DESC, f.id DESC`)
	if err != nil {
		r.logger.Error("list filters failed", logging.Err(err))
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "list filters")
	}
	defer rows.Close()

	filters := []*filter.Filter{}
	for rows.Next() {
		f := &filter.Filter{}
		if err := rows.Scan(&f.ID, &f.Name, &f.CreatedAt, &f.TaxNumbers); err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "scan filter row")
		}
		filters = append(filters, f)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "iterate filter rows")
	}
	return filters, nil
}

func (r *FilterRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM filters WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("delete filter failed", logging.Int64("filter_id", id), logging.Err(err))
		return apperrors.Wrap(err, apperrors.CodeDatabaseError, "delete filter")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.New(apperrors.ErrCodeFilterNotFound,
			fmt.Sprintf("filter %d not found", id))
	}
	return nil
}

// ResolveTaxNumbers returns the filter's tax-number set. An unknown filter
// yields an empty, non-nil set.
func (r *FilterRepository) ResolveTaxNumbers(ctx context.Context, id int64) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT tax_number FROM filter_tax_numbers WHERE filter_id = $1 ORDER BY tax_number`, id)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "resolve filter tax numbers")
	}
	defer rows.Close()

	taxNumbers := []string{}
	for rows.Next() {
		var tn string
		if err := rows.Scan(&tn); err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "scan filter tax number")
		}
		taxNumbers = append(taxNumbers, tn)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "iterate filter tax numbers")
	}
	return taxNumbers, nil
}

var _ filter.Repository = (*FilterRepository)(nil)
