// Package patents provides the application-level service for patent
// operations: the paginated enriched listing, the statistics snapshot, and
// CRUD. It validates inputs, resolves tax-number filters, and delegates
// reads to a single repository so every surface shares one join shape.
package patents

import (
	"context"
	"fmt"

	"github.com/turtacn/PatentLens/internal/domain/analytics"
	"github.com/turtacn/PatentLens/internal/domain/filter"
	"github.com/turtacn/PatentLens/internal/domain/patent"
	"github.com/turtacn/PatentLens/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PatentLens/pkg/errors"
)

// MaxPageSize bounds a single listing page.
const MaxPageSize = 100

// Service defines the patent application operations.
type Service interface {
	List(ctx context.Context, input *ListInput) (*ListResult, error)
	Stats(ctx context.Context, filterID *int64) (*Stats, error)
	Create(ctx context.Context, p *patent.Patent) error
	Update(ctx context.Context, key patent.Key, upd *patent.PartialUpdate) (*patent.Patent, error)
	Get(ctx context.Context, key patent.Key) (*patent.Detail, error)
	Delete(ctx context.Context, key patent.Key) error
}

// ListInput contains input for the paginated patent listing.
type ListInput struct {
	Page     int
	PageSize int
	Kind     *int
	Actual   *bool
	FilterID *int64
}

// ListResult is one page of holder-enriched patents.
type ListResult struct {
	Items      []*patent.WithHolders `json:"items"`
	Total      int64                 `json:"total"`
	Page       int                   `json:"page"`
	PageSize   int                   `json:"page_size"`
	TotalPages int                   `json:"total_pages"`
}

// Stats is the patent statistics snapshot. Percentages are computed over
// the same consistent read as the counts; a zero denominator yields zero.
type Stats struct {
	TotalPatents         int64            `json:"total_patents"`
	TotalRUPatents       int64            `json:"total_ru_patents"`
	TotalWithHolders     int64            `json:"total_with_holders"`
	TotalRUWithHolders   int64            `json:"total_ru_with_holders"`
	WithHoldersPercent   int              `json:"with_holders_percent"`
	RUWithHoldersPercent int              `json:"ru_with_holders_percent"`
	ByAuthorCount        map[string]int64 `json:"by_author_count"`
	ByPatentKind         map[string]int64 `json:"by_patent_kind"`
}

type serviceImpl struct {
	repo    patent.Repository
	filters filter.Repository
	logger  logging.Logger
}

// NewService creates the patent application service.
func NewService(repo patent.Repository, filters filter.Repository, logger logging.Logger) Service {
	return &serviceImpl{
		repo:    repo,
		filters: filters,
		logger:  logger,
	}
}

// resolveFilter maps an optional filter id to a tax-number set. A nil id
// means "no narrowing" and resolves to nil; an unknown or empty filter
// resolves to an empty set that matches nothing.
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

	q := patent.ListQuery{
		Page:     input.Page,
		PageSize: input.PageSize,
		Actual:   input.Actual,
	}
	if input.Kind != nil {
		k := patent.Kind(*input.Kind)
		if !k.Valid() {
			return nil, errors.New(errors.ErrCodePatentKindInvalid,
				fmt.Sprintf("unknown patent kind %d", *input.Kind))
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
		s.logger.Error("patent listing failed", logging.Err(err))
		return nil, err
	}
	if items == nil {
		items = []*patent.WithHolders{}
	}

	return &ListResult{
		Items:      items,
		Total:      total,
		Page:       input.Page,
		PageSize:   input.PageSize,
		TotalPages: totalPages(total, input.PageSize),
	}, nil
}

func (s *serviceImpl) Stats(ctx context.Context, filterID *int64) (*Stats, error) {
	taxNumbers, err := s.resolveFilter(ctx, filterID)
	if err != nil {
		return nil, err
	}

	raw, err := s.repo.CollectStats(ctx, taxNumbers)
	if err != nil {
		s.logger.Error("patent stats collection failed", logging.Err(err))
		return nil, err
	}

	byKind := make(map[string]int64, len(raw.ByKind))
	for k, n := range raw.ByKind {
		byKind[patent.Kind(k).String()] = n
	}
	byAuthor := raw.ByAuthorCount
	if byAuthor == nil {
		byAuthor = map[string]int64{}
	}

	return &Stats{
		TotalPatents:         raw.TotalPatents,
		TotalRUPatents:       raw.TotalRUPatents,
		TotalWithHolders:     raw.TotalWithHolders,
		TotalRUWithHolders:   raw.TotalRUWithHolders,
		WithHoldersPercent:   analytics.Percent(raw.TotalWithHolders, raw.TotalPatents),
		RUWithHoldersPercent: analytics.Percent(raw.TotalRUWithHolders, raw.TotalRUPatents),
		ByAuthorCount:        byAuthor,
		ByPatentKind:         byKind,
	}, nil
}

func (s *serviceImpl) Create(ctx context.Context, p *patent.Patent) error {
	if err := p.Validate(); err != nil {
		return err
	}
	p.Normalize()
	if err := s.repo.Save(ctx, p); err != nil {
		s.logger.Error("patent create failed",
			logging.String("key", p.Key().String()), logging.Err(err))
		return err
	}
	return nil
}

func (s *serviceImpl) Update(ctx context.Context, key patent.Key, upd *patent.PartialUpdate) (*patent.Patent, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}
	if upd.Empty() {
		return nil, errors.InvalidParam("update carries no fields")
	}
	return s.repo.Update(ctx, key, upd)
}

func (s *serviceImpl) Get(ctx context.Context, key patent.Key) (*patent.Detail, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}
	return s.repo.FindByKey(ctx, key)
}

func (s *serviceImpl) Delete(ctx context.Context, key patent.Key) error {
	if err := key.Validate(); err != nil {
		return err
	}
	return s.repo.Delete(ctx, key)
}

func totalPages(total int64, pageSize int) int {
	if total <= 0 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}
