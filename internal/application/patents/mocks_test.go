package patents

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/turtacn/PatentLens/internal/domain/analytics"
	"github.com/turtacn/PatentLens/internal/domain/filter"
	"github.com/turtacn/PatentLens/internal/domain/patent"
)

// MockPatentRepository implements patent.Repository.
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
