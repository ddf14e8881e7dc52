package patent

import (
	"context"

	"github.com/turtacn/PatentLens/internal/domain/analytics"
)

// ListQuery carries the validated parameters of a patent listing request.
// Page is 1-based; the repository computes the offset.
type ListQuery struct {
	Page     int
	PageSize int

	// Kind and Actual are optional facets; nil means "no restriction".
	Kind   *Kind
	Actual *bool

	// TaxNumbers, when non-nil, restricts the listing to patents owned by at
	// least one person in the set.  An empty non-nil set matches nothing.
	TaxNumbers []string
}

// Offset returns the SQL offset for the query's page window.
func (q ListQuery) Offset() int {
	return (q.Page - 1) * q.PageSize
}

// Stats is the raw patent statistics record assembled by the repository from
// one consistent snapshot.
type Stats struct {
	TotalPatents       int64
	TotalRUPatents     int64
	TotalWithHolders   int64
	TotalRUWithHolders int64

	// ByAuthorCount maps bucket labels ("0", "1", "2–5", "5+") to counts.
	ByAuthorCount map[string]int64

	// ByKind maps the numeric patent kind to a count.
	ByKind map[int]int64
}

// Repository is the persistence contract for the patent aggregate.
type Repository interface {
	// Save inserts or fully replaces a patent by its composite key.
	Save(ctx context.Context, p *Patent) error

	// Update applies a partial update; nil fields in upd are left unchanged.
	Update(ctx context.Context, key Key, upd *PartialUpdate) (*Patent, error)

	// FindByKey loads one patent with its aggregated holders and the joined
	// owner short-name string. Returns ErrCodePatentNotFound when absent.
	FindByKey(ctx context.Context, key Key) (*Detail, error)

	// Delete removes the patent; ownership rows cascade away atomically.
	// Returns ErrCodePatentNotFound when no row matched.
	Delete(ctx context.Context, key Key) error

	// List returns one page of patents with aggregated holders plus the
	// total count of patents matching the same predicate (filter included).
	List(ctx context.Context, q ListQuery) ([]*WithHolders, int64, error)

	// CountOwnershipPairs counts (patent, matching-owner) pairs for the
	// given tax-number set.  Kept alongside the distinct-patent total so the
	// two readings of the filtered count stay observable.
	CountOwnershipPairs(ctx context.Context, taxNumbers []string) (int64, error)

	// CollectStats runs all statistic counts on one repeatable-read snapshot.
	// A nil taxNumbers means unfiltered; empty non-nil matches nothing.
	CollectStats(ctx context.Context, taxNumbers []string) (*Stats, error)

	// SubcategoryCounts returns (subcategory, patent count) pairs over owned
	// patents of the given kinds, ordered by count descending with the label
	// as a deterministic tie-break.
	SubcategoryCounts(ctx context.Context, kinds []Kind) ([]analytics.Entry, error)
}

// PartialUpdate lists the mutable patent fields; nil pointers are skipped.
type PartialUpdate struct {
	Name           *string
	AuthorRaw      *string
	OwnerRaw       *string
	CountryCode    *string
	Address        *string
	Subcategory    *string
	Actual         *bool
	PublicationURL *string
}

// Empty reports whether the update carries no changes.
func (u *PartialUpdate) Empty() bool {
	return u == nil || *u == (PartialUpdate{})
}

// Detail is the single-patent read model: the entity plus its holders and
// the aggregated owner short names.
type Detail struct {
	WithHolders
	OwnerNames string `json:"owner_names"`
}
