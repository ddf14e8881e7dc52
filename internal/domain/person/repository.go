package person

import (
	"context"
	"time"

	"github.com/turtacn/PatentLens/internal/domain/analytics"
)

// ListQuery carries the parameters of a paginated person listing.
type ListQuery struct {
	Page     int
	PageSize int

	// Kind narrows the listing to one person kind when non-nil.
	Kind *Kind

	// TaxNumbers narrows the listing to the given set when non-nil. An
	// empty non-nil slice matches nothing.
	TaxNumbers []string
}

// Offset returns the SQL offset for the query's page.
func (q ListQuery) Offset() int {
	return (q.Page - 1) * q.PageSize
}

// Totals is the aggregate person statistics snapshot. All counts come from
// a single consistent read.
type Totals struct {
	TotalPersons int64            `json:"total_persons"`
	ByKind       map[int]int64    `json:"by_kind"`
	ByCategory   map[string]int64 `json:"by_category"`
}

// MoscowStats extends Totals with the cluster and support counters used by
// the regional breakdown. Percentages are computed by the service layer.
type MoscowStats struct {
	Totals
	ClusterMembers int64 `json:"cluster_members"`
	WithSupport    int64 `json:"with_support"`
}

// PatentRef is a slim reference to a patent held by a person, embedded in
// Detail so the person surface does not depend on the patent package.
type PatentRef struct {
	Kind      int    `json:"kind"`
	RegNumber int64  `json:"reg_number"`
	Name      string `json:"name"`
	Actual    bool   `json:"actual"`
}

// Detail is a person together with the patents it holds.
type Detail struct {
	Person
	Patents []PatentRef `json:"patents"`
}

// PartialUpdate describes the fields of a person update. Nil pointers mean
// "leave unchanged".
type PartialUpdate struct {
	Kind         *Kind
	FullName     *string
	ShortName    *string
	LegalAddress *string
	FactAddress  *string
	Region       *string
	RegDate      *time.Time
	OGRN         *string
	INN          *string
	Category     *string
	OKOPF        *string
	OKVAD        *string
	InCluster    *bool
	SupportType  *string
	Active       *bool
}

// Empty reports whether the update carries no changes.
func (u *PartialUpdate) Empty() bool {
	return u == nil || *u == (PartialUpdate{})
}

// Repository is the persistence port of the person domain.
type Repository interface {
	// Save inserts a new person. Returns ErrCodePersonAlreadyExists when
	// the tax number or OGRN is taken.
	Save(ctx context.Context, p *Person) error

	// Update applies a partial update. Returns ErrCodePersonNotFound when
	// no person has the tax number.
	Update(ctx context.Context, taxNumber string, upd *PartialUpdate) error

	// FindByTaxNumber loads a person with its patents list.
	FindByTaxNumber(ctx context.Context, taxNumber string) (*Detail, error)

	// Delete removes a person and, via cascade, its ownership edges.
	Delete(ctx context.Context, taxNumber string) error

	// List returns one page of persons plus the total matching count.
	List(ctx context.Context, q ListQuery) ([]*Person, int64, error)

	// Totals collects the aggregate counters, narrowed to the tax-number
	// set when taxNumbers is non-nil.
	Totals(ctx context.Context, taxNumbers []string) (*Totals, error)

	// MoscowStats collects the same counters restricted to persons whose
	// region contains "москва" case-insensitively, plus the cluster and
	// support counts.
	MoscowStats(ctx context.Context, taxNumbers []string) (*MoscowStats, error)

	// OkopfCounts returns per-OKOPF person counts ordered by count
	// descending, label ascending.
	OkopfCounts(ctx context.Context) ([]analytics.Entry, error)

	// OkvadCounts returns per-OKVAD person counts ordered by count
	// descending, label ascending.
	OkvadCounts(ctx context.Context) ([]analytics.Entry, error)
}
