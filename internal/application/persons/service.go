// Package persons provides the application-level service for person
// operations: totals, the Moscow regional breakdown, the category top-N
// surfaces, and CRUD.
package persons

import (
	"context"
	"fmt"

	"github.com/turtacn/PatentLens/internal/domain/analytics"
	"github.com/turtacn/PatentLens/internal/domain/filter"
	"github.com/turtacn/PatentLens/internal/domain/patent"
	"github.com/turtacn/PatentLens/internal/domain/person"
	"github.com/turtacn/PatentLens/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PatentLens/pkg/errors"
)

// MaxPageSize bounds a single listing page.
const MaxPageSize = 100

// Service defines the person application operations.
type Service interface {
	List(ctx context.Context, input *ListInput) (*ListResult, error)
	Totals(ctx context.Context, filterID *int64) (*TotalsResult, error)
	MoscowStats(ctx context.Context, filterID *int64) (*MoscowResult, error)
	CategoryStats(ctx context.Context) (*CategoryStats, error)
	Create(ctx context.Context, p *person.Person) error
	Update(ctx context.Context, taxNumber string, upd *person.PartialUpdate) error
	Get(ctx context.Context, taxNumber string) (*person.Detail, error)
	Delete(ctx context.Context, taxNumber string) error
}

// ListInput contains input for the paginated person listing.
type ListInput struct {
	Page     int
	PageSize int
	Kind     *int
	FilterID *int64
}

// ListResult is one page of persons.
type ListResult struct {
	Items      []*person.Person `json:"items"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalPages int              `json:"total_pages"`
}

// TotalsResult is the aggregate person statistics snapshot.
type TotalsResult struct {
	TotalPersons int64            `json:"total_persons"`
	ByKind       map[string]int64 `json:"by_kind"`
	ByCategory   map[string]int64 `json:"by_category"`
}

// MoscowResult is the same snapshot restricted to Moscow-region persons,
// plus cluster-membership and state-support shares. A zero person count
// yields zero percentages.
type MoscowResult struct {
	TotalsResult
	ClusterMembers int64   `json:"cluster_members"`
	WithSupport    int64   `json:"with_support"`
	ClusterPercent float64 `json:"cluster_percent"`
	SupportPercent float64 `json:"support_percent"`
}

// CategoryStats carries the three independent top-5-plus-others breakdowns.
type CategoryStats struct {
	OkopfStats []analytics.Entry `json:"okopf_stats"`
	OkvadStats []analytics.Entry `json:"okvad_stats"`
	MpkStats   []analytics.Entry `json:"mpk_stats"`
}

type serviceImpl struct {
	repo    person.Repository
	patents patent.Repository
	filters filter.Repository
	logger  logging.Logger
}

// NewService creates the person application service. The patent repository
// backs the MPK subcategory breakdown.
func NewService(repo person.Repository, patents patent.Repository, filters filter.Repository, logger logging.Logger) Service {
	return &serviceImpl{
		repo:    repo,
		patents: patents,
		filters: filters,
		logger:  logger,
	}
}

func (s *serviceImpl) resolveFilter(ctx context.Context, filterID *int64) ([]string, error) {
	if filterID == nil {
		return nil, nil
	}
	taxNumbers, err := s.filters.ResolveTaxNumbers(ctx, *filterID)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "resolve tax-number filter")
	}
	if taxNumbers == nil {
		taxNumbers = []string{}
	}
	return taxNumbers, nil
}

func (s *serviceImpl) List(ctx context.Context, input *ListInput) (*ListResult, error) {
	if input.Page < 1 {
		return nil, errors.InvalidParam("page must be >= 1")
	}
	if input.PageSize < 1 || input.PageSize > MaxPageSize {
		return nil, errors.InvalidParam(fmt.Sprintf("page_size must be in [1, %d]", MaxPageSize))
	}

	q := person.ListQuery{Page: input.Page, PageSize: input.PageSize}
	if input.Kind != nil {
		k := person.Kind(*input.Kind)
		if !k.Valid() {
			return nil, errors.New(errors.ErrCodePersonKindInvalid,
				fmt.Sprintf("unknown person kind %d", *input.Kind))
		}
		q.Kind = &k
	}

	taxNumbers, err := s.resolveFilter(ctx, input.FilterID)
	if err != nil {
		return nil, err
	}
	q.TaxNumbers = taxNumbers

	items, total, err := s.repo.List(ctx, q)
	if err != nil {
		s.logger.Error("person listing failed", logging.Err(err))
		return nil, err
	}
	if items == nil {
		items = []*person.Person{}
	}

	return &ListResult{
		Items:      items,
		Total:      total,
		Page:       input.Page,
		PageSize:   input.PageSize,
		TotalPages: totalPages(total, input.PageSize),
	}, nil
}

func (s *serviceImpl) Totals(ctx context.Context, filterID *int64) (*TotalsResult, error) {
	taxNumbers, err := s.resolveFilter(ctx, filterID)
	if err != nil {
		return nil, err
	}

	raw, err := s.repo.Totals(ctx, taxNumbers)
	if err != nil {
		s.logger.Error("person totals failed", logging.Err(err))
		return nil, err
	}
	return totalsToResult(raw), nil
}

func (s *serviceImpl) MoscowStats(ctx context.Context, filterID *int64) (*MoscowResult, error) {
	taxNumbers, err := s.resolveFilter(ctx, filterID)
	if err != nil {
		return nil, err
	}

	raw, err := s.repo.MoscowStats(ctx, taxNumbers)
	if err != nil {
		s.logger.Error("moscow person stats failed", logging.Err(err))
		return nil, err
	}

	return &MoscowResult{
		TotalsResult:   *totalsToResult(&raw.Totals),
		ClusterMembers: raw.ClusterMembers,
		WithSupport:    raw.WithSupport,
		ClusterPercent: analytics.PercentF(raw.ClusterMembers, raw.TotalPersons),
		SupportPercent: analytics.PercentF(raw.WithSupport, raw.TotalPersons),
	}, nil
}

func (s *serviceImpl) CategoryStats(ctx context.Context) (*CategoryStats, error) {
	okopf, err := s.repo.OkopfCounts(ctx)
	if err != nil {
		s.logger.Error("okopf counts failed", logging.Err(err))
		return nil, err
	}
	okvad, err := s.repo.OkvadCounts(ctx)
	if err != nil {
		s.logger.Error("okvad counts failed", logging.Err(err))
		return nil, err
	}
	// MPK is collected over inventions and utility models only.
	mpk, err := s.patents.SubcategoryCounts(ctx,
		[]patent.Kind{patent.KindInvention, patent.KindUtilityModel})
	if err != nil {
		s.logger.Error("mpk counts failed", logging.Err(err))
		return nil, err
	}

	return &CategoryStats{
		OkopfStats: analytics.Fold(okopf),
		OkvadStats: analytics.Fold(okvad),
		MpkStats:   analytics.Fold(mpk),
	}, nil
}

func (s *serviceImpl) Create(ctx context.Context, p *person.Person) error {
	if err := p.Validate(); err != nil {
		return err
	}
	p.Normalize()
	if err := s.repo.Save(ctx, p); err != nil {
		s.logger.Error("person create failed",
			logging.String("tax_number", p.TaxNumber), logging.Err(err))
		return err
	}
	return nil
}

func (s *serviceImpl) Update(ctx context.Context, taxNumber string, upd *person.PartialUpdate) error {
	if taxNumber == "" {
		return errors.InvalidParam("tax_number is required")
	}
	if upd.Empty() {
		return errors.InvalidParam("update carries no fields")
	}
	if upd.Kind != nil && !upd.Kind.Valid() {
		return errors.New(errors.ErrCodePersonKindInvalid,
			fmt.Sprintf("unknown person kind %d", int(*upd.Kind)))
	}
	return s.repo.Update(ctx, taxNumber, upd)
}

func (s *serviceImpl) Get(ctx context.Context, taxNumber string) (*person.Detail, error) {
	if taxNumber == "" {
		return nil, errors.InvalidParam("tax_number is required")
	}
	return s.repo.FindByTaxNumber(ctx, taxNumber)
}

func (s *serviceImpl) Delete(ctx context.Context, taxNumber string) error {
	if taxNumber == "" {
		return errors.InvalidParam("tax_number is required")
	}
	return s.repo.Delete(ctx, taxNumber)
}

func totalsToResult(raw *person.Totals) *TotalsResult {
	byKind := make(map[string]int64, len(raw.ByKind))
	for k, n := range raw.ByKind {
		byKind[person.Kind(k).String()] = n
	}
	byCategory := raw.ByCategory
	if byCategory == nil {
		byCategory = map[string]int64{}
	}
	return &TotalsResult{
		TotalPersons: raw.TotalPersons,
		ByKind:       byKind,
		ByCategory:   byCategory,
	}
}

func totalPages(total int64, pageSize int) int {
	if total <= 0 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}
