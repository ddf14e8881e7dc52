package filter

import "context"

// Repository is the persistence port of the filter domain.
type Repository interface {
	// Save inserts a filter and its tax-number rows, assigning Filter.ID.
	Save(ctx context.Context, f *Filter) error

	// FindByID loads a filter with its tax numbers. Returns
	// ErrCodeFilterNotFound when the id is unknown.
	FindByID(ctx context.Context, id int64) (*Filter, error)

	// List returns all filters ordered by creation time descending.
	List(ctx context.Context) ([]*Filter, error)

	// Delete removes a filter and its tax-number rows.
	Delete(ctx context.Context, id int64) error

	// ResolveTaxNumbers returns the filter's tax-number set. An unknown
	// or empty filter resolves to an empty, non-nil set; narrowing by it
	// then matches nothing. It is never an error at this layer.
	ResolveTaxNumbers(ctx context.Context, id int64) ([]string, error)
}
