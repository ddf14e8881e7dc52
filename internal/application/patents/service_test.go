package patents

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/PatentLens/internal/domain/patent"
	"github.com/turtacn/PatentLens/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PatentLens/pkg/errors"
)

func newTestService(repo *MockPatentRepository, filters *MockFilterRepository) Service {
	return NewService(repo, filters, logging.NewNopLogger())
}

func TestListRejectsInvalidParams(t *testing.T) {
	repo := new(MockPatentRepository)
	filters := new(MockFilterRepository)
	svc := newTestService(repo, filters)
	ctx := context.Background()

	_, err := svc.List(ctx, &ListInput{Page: 0, PageSize: 10})
	assert.True(t, errors.IsInvalidParam(err))

	_, err = svc.List(ctx, &ListInput{Page: 1, PageSize: 0})
	assert.True(t, errors.IsInvalidParam(err))

	_, err = svc.List(ctx, &ListInput{Page: 1, PageSize: MaxPageSize + 1})
	assert.True(t, errors.IsInvalidParam(err))

	badKind := 7
	_, err = svc.List(ctx, &ListInput{Page: 1, PageSize: 10, Kind: &badKind})
	assert.True(t, errors.IsCode(err, errors.ErrCodePatentKindInvalid))

	repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
	filters.AssertNotCalled(t, "ResolveTaxNumbers", mock.Anything, mock.Anything)
}

func TestListPassesQueryThrough(t *testing.T) {
	repo := new(MockPatentRepository)
	filters := new(MockFilterRepository)
	svc := newTestService(repo, filters)
	ctx := context.Background()

	kind := int(patent.KindInvention)
	actual := true
	items := []*patent.WithHolders{
		{Patent: patent.Patent{Kind: patent.KindInvention, RegNumber: 2791442, Name: "Pump"}},
	}

	repo.On("List", mock.Anything, mock.MatchedBy(func(q patent.ListQuery) bool {
		return q.Page == 2 && q.PageSize == 10 &&
			q.Kind != nil && *q.Kind == patent.KindInvention &&
			q.Actual != nil && *q.Actual &&
			q.TaxNumbers == nil
	})).Return(items, int64(21), nil)

	res, err := svc.List(ctx, &ListInput{Page: 2, PageSize: 10, Kind: &kind, Actual: &actual})
	require.NoError(t, err)
	assert.Equal(t, int64(21), res.Total)
	assert.Equal(t, 3, res.TotalPages)
	assert.Len(t, res.Items, 1)
	repo.AssertExpectations(t)
}

func TestListResolvesFilterToTaxNumbers(t *testing.T) {
	repo := new(MockPatentRepository)
	filters := new(MockFilterRepository)
	svc := newTestService(repo, filters)
	ctx := context.Background()
	filterID := int64(42)

	filters.On("ResolveTaxNumbers", mock.Anything, filterID).
		Return([]string{"770", "771"}, nil)
	repo.On("List", mock.Anything, mock.MatchedBy(func(q patent.ListQuery) bool {
		return assert.ObjectsAreEqual([]string{"770", "771"}, q.TaxNumbers)
	})).Return([]*patent.WithHolders{}, int64(0), nil)

	res, err := svc.List(ctx, &ListInput{Page: 1, PageSize: 10, FilterID: &filterID})
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.Total)
	repo.AssertExpectations(t)
	filters.AssertExpectations(t)
}

func TestListUnknownFilterMatchesNothing(t *testing.T) {
	repo := new(MockPatentRepository)
	filters := new(MockFilterRepository)
	svc := newTestService(repo, filters)
	ctx := context.Background()
	filterID := int64(999)

	// An unknown filter resolves to an empty set, not an error.
	filters.On("ResolveTaxNumbers", mock.Anything, filterID).Return(nil, nil)
	repo.On("List", mock.Anything, mock.MatchedBy(func(q patent.ListQuery) bool {
		return q.TaxNumbers != nil && len(q.TaxNumbers) == 0
	})).Return([]*patent.WithHolders{}, int64(0), nil)

	res, err := svc.List(ctx, &ListInput{Page: 1, PageSize: 10, FilterID: &filterID})
	require.NoError(t, err)
	assert.Empty(t, res.Items)
	assert.Equal(t, 0, res.TotalPages)
	repo.AssertExpectations(t)
}

func TestStatsRegistrySnapshot(t *testing.T) {
	repo := new(MockPatentRepository)
	filters := new(MockFilterRepository)
	svc := newTestService(repo, filters)
	ctx := context.Background()

	// Three patents: two RU, two with holders, one RU with a holder.
	repo.On("CollectStats", mock.Anything, []string(nil)).Return(&patent.Stats{
		TotalPatents:       3,
		TotalRUPatents:     2,
		TotalWithHolders:   2,
		TotalRUWithHolders: 1,
		ByAuthorCount:      map[string]int64{"0": 1, "2–5": 1, "5+": 1},
		ByKind:             map[int]int64{1: 2, 2: 1},
	}, nil)

	stats, err := svc.Stats(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalPatents)
	assert.Equal(t, 67, stats.WithHoldersPercent)
	assert.Equal(t, 50, stats.RUWithHoldersPercent)
	assert.Equal(t, map[string]int64{"0": 1, "2–5": 1, "5+": 1}, stats.ByAuthorCount)
	assert.Equal(t, map[string]int64{"invention": 2, "utility_model": 1}, stats.ByPatentKind)
}

func TestStatsZeroDenominators(t *testing.T) {
	repo := new(MockPatentRepository)
	filters := new(MockFilterRepository)
	svc := newTestService(repo, filters)
	ctx := context.Background()

	repo.On("CollectStats", mock.Anything, []string(nil)).Return(&patent.Stats{}, nil)

	stats, err := svc.Stats(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.WithHoldersPercent)
	assert.Equal(t, 0, stats.RUWithHoldersPercent)
	assert.NotNil(t, stats.ByAuthorCount)
}

func TestStatsWithFilterNarrows(t *testing.T) {
	repo := new(MockPatentRepository)
	filters := new(MockFilterRepository)
	svc := newTestService(repo, filters)
	ctx := context.Background()
	filterID := int64(7)

	filters.On("ResolveTaxNumbers", mock.Anything, filterID).
		Return([]string{"7701234567"}, nil)
	repo.On("CollectStats", mock.Anything, []string{"7701234567"}).Return(&patent.Stats{
		TotalPatents:     1,
		TotalWithHolders: 1,
	}, nil)

	stats, err := svc.Stats(ctx, &filterID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalPatents)
	assert.Equal(t, 100, stats.WithHoldersPercent)
	repo.AssertExpectations(t)
}

func TestCreateValidatesAndNormalizes(t *testing.T) {
	repo := new(MockPatentRepository)
	filters := new(MockFilterRepository)
	svc := newTestService(repo, filters)
	ctx := context.Background()

	bad := &patent.Patent{Kind: patent.Kind(9), RegNumber: 1, Name: "X"}
	err := svc.Create(ctx, bad)
	assert.True(t, errors.IsCode(err, errors.ErrCodePatentKindInvalid))
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)

	p := &patent.Patent{
		Kind:        patent.KindInvention,
		RegNumber:   2791442,
		Name:        "Pump",
		AuthorRaw:   "Ivanov I.I., Petrov P.P.",
		CountryCode: "ru",
	}
	repo.On("Save", mock.Anything, p).Return(nil)
	require.NoError(t, svc.Create(ctx, p))
	assert.Equal(t, 2, p.AuthorCount)
	assert.Equal(t, "RU", p.CountryCode)
}

func TestUpdateRejectsEmptyUpdate(t *testing.T) {
	repo := new(MockPatentRepository)
	filters := new(MockFilterRepository)
	svc := newTestService(repo, filters)
	ctx := context.Background()

	_, err := svc.Update(ctx, patent.Key{Kind: patent.KindInvention, RegNumber: 1}, &patent.PartialUpdate{})
	assert.True(t, errors.IsInvalidParam(err))
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetPropagatesNotFound(t *testing.T) {
	repo := new(MockPatentRepository)
	filters := new(MockFilterRepository)
	svc := newTestService(repo, filters)
	ctx := context.Background()
	key := patent.Key{Kind: patent.KindInvention, RegNumber: 404}

	repo.On("FindByKey", mock.Anything, key).
		Return(nil, errors.New(errors.ErrCodePatentNotFound, "patent not found"))

	_, err := svc.Get(ctx, key)
	assert.True(t, errors.IsNotFound(err))
}
