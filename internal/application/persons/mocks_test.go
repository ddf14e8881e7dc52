package persons

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/turtacn/PatentLens/internal/domain/analytics"
	"github.com/turtacn/PatentLens/internal/domain/filter"
	"github.com/turtacn/PatentLens/internal/domain/patent"
	"github.com/turtacn/PatentLens/internal/domain/person"
)

// MockPersonRepository implements person.Repository.
type MockPersonRepository struct {
	mock.Mock
}

func (m *MockPersonRepository) Save(ctx context.Context, p *person.Person) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPersonRepository) Update(ctx context.Context, taxNumber string, upd *person.PartialUpdate) error {
	args := m.Called(ctx, taxNumber, upd)
	return args.Error(0)
}

func (m *MockPersonRepository) FindByTaxNumber(ctx context.Context, taxNumber string) (*person.Detail, error) {
	args := m.Called(ctx, taxNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*person.Detail), args.Error(1)
}

func (m *MockPersonRepository) Delete(ctx context.Context, taxNumber string) error {
	args := m.Called(ctx, taxNumber)
	return args.Error(0)
}

func (m *MockPersonRepository) List(ctx context.Context, q person.ListQuery) ([]*person.Person, int64, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*person.Person), args.Get(1).(int64), args.Error(2)
}

func (m *MockPersonRepository) Totals(ctx context.Context, taxNumbers []string) (*person.Totals, error) {
	args := m.Called(ctx, taxNumbers)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*person.Totals), args.Error(1)
}

func (m *MockPersonRepository) MoscowStats(ctx context.Context, taxNumbers []string) (*person.MoscowStats, error) {
	args := m.Called(ctx, taxNumbers)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*person.MoscowStats), args.Error(1)
}

func (m *MockPersonRepository) OkopfCounts(ctx context.Context) ([]analytics.Entry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]analytics.Entry), args.Error(1)
}

func (m *MockPersonRepository) OkvadCounts(ctx context.Context) ([]analytics.Entry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]analytics.Entry), args.Error(1)
}

// MockPatentRepository implements patent.Repository for the MPK breakdown.
type MockPatentRepository struct {
	mock.Mock
}

func (m *MockPatentRepository) Save(ctx context.Context, p *patent.Patent) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPatentRepository) Update(ctx context.Context, key patent.Key, upd *patent.PartialUpdate) (*patent.Patent, error) {
	args := m.Called(ctx, key, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*patent.Patent), args.Error(1)
}

func (m *MockPatentRepository) FindByKey(ctx context.Context, key patent.Key) (*patent.Detail, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*patent.Detail), args.Error(1)
}

func (m *MockPatentRepository) Delete(ctx context.Context, key patent.Key) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockPatentRepository) List(ctx context.Context, q patent.ListQuery) ([]*patent.WithHolders, int64, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*patent.WithHolders), args.Get(1).(int64), args.Error(2)
}

func (m *MockPatentRepository) CountOwnershipPairs(ctx context.Context, taxNumbers []string) (int64, error) {
	args := m.Called(ctx, taxNumbers)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPatentRepository) CollectStats(ctx context.Context, taxNumbers []string) (*patent.Stats, error) {
	args := m.Called(ctx, taxNumbers)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*patent.Stats), args.Error(1)
}

func (m *MockPatentRepository) SubcategoryCounts(ctx context.Context, kinds []patent.Kind) ([]analytics.Entry, error) {
	args := m.Called(ctx, kinds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]analytics.Entry), args.Error(1)
}

// MockFilterRepository implements filter.Repository.
type MockFilterRepository struct {
	mock.Mock
}

func (m *MockFilterRepository) Save(ctx context.Context, f *filter.Filter) error {
	args := m.Called(ctx, f)
	return args.Error(0)
}

func (m *MockFilterRepository) FindByID(ctx context.Context, id int64) (*filter.Filter, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*filter.Filter), args.Error(1)
}

func (m *MockFilterRepository) List(ctx context.Context) ([]*filter.Filter, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*filter.Filter), args.Error(1)
}

func (m *MockFilterRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockFilterRepository) ResolveTaxNumbers(ctx context.Context, id int64) ([]string, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
