package handlers

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/turtacn/PatentLens/internal/application/export"
	"github.com/turtacn/PatentLens/internal/application/patents"
	"github.com/turtacn/PatentLens/internal/application/persons"
	"github.com/turtacn/PatentLens/internal/domain/filter"
	"github.com/turtacn/PatentLens/internal/domain/patent"
	"github.com/turtacn/PatentLens/internal/domain/person"
)

type mockPatentService struct {
	mock.Mock
}

func (m *mockPatentService) List(ctx context.Context, input *patents.ListInput) (*patents.ListResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*patents.ListResult), args.Error(1)
}

func (m *mockPatentService) Stats(ctx context.Context, filterID *int64) (*patents.Stats, error) {
	args := m.Called(ctx, filterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*patents.Stats), args.Error(1)
}

func (m *mockPatentService) Create(ctx context.Context, p *patent.Patent) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockPatentService) Update(ctx context.Context, key patent.Key, upd *patent.PartialUpdate) (*patent.Patent, error) {
	args := m.Called(ctx, key, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*patent.Patent), args.Error(1)
}

func (m *mockPatentService) Get(ctx context.Context, key patent.Key) (*patent.Detail, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*patent.Detail), args.Error(1)
}

func (m *mockPatentService) Delete(ctx context.Context, key patent.Key) error {
	return m.Called(ctx, key).Error(0)
}

type mockPersonService struct {
	mock.Mock
}

func (m *mockPersonService) List(ctx context.Context, input *persons.ListInput) (*persons.ListResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*persons.ListResult), args.Error(1)
}

func (m *mockPersonService) Totals(ctx context.Context, filterID *int64) (*persons.TotalsResult, error) {
	args := m.Called(ctx, filterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*persons.TotalsResult), args.Error(1)
}

func (m *mockPersonService) MoscowStats(ctx context.Context, filterID *int64) (*persons.MoscowResult, error) {
	args := m.Called(ctx, filterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*persons.MoscowResult), args.Error(1)
}

func (m *mockPersonService) CategoryStats(ctx context.Context) (*persons.CategoryStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*persons.CategoryStats), args.Error(1)
}

func (m *mockPersonService) Create(ctx context.Context, p *person.Person) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockPersonService) Update(ctx context.Context, taxNumber string, upd *person.PartialUpdate) error {
	return m.Called(ctx, taxNumber, upd).Error(0)
}

func (m *mockPersonService) Get(ctx context.Context, taxNumber string) (*person.Detail, error) {
	args := m.Called(ctx, taxNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*person.Detail), args.Error(1)
}

func (m *mockPersonService) Delete(ctx context.Context, taxNumber string) error {
	return m.Called(ctx, taxNumber).Error(0)
}

type mockFilterService struct {
	mock.Mock
}

func (m *mockFilterService) Create(ctx context.Context, name string, taxNumbers []string) (*filter.Filter, error) {
	args := m.Called(ctx, name, taxNumbers)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*filter.Filter), args.Error(1)
}

func (m *mockFilterService) CreateFromCSV(ctx context.Context, name string, r io.Reader) (*filter.Filter, error) {
	args := m.Called(ctx, name, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*filter.Filter), args.Error(1)
}

func (m *mockFilterService) List(ctx context.Context) ([]*filter.Filter, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*filter.Filter), args.Error(1)
}

func (m *mockFilterService) Get(ctx context.Context, id int64) (*filter.Filter, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*filter.Filter), args.Error(1)
}

func (m *mockFilterService) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type mockExportService struct {
	mock.Mock
}

func (m *mockExportService) Enqueue(ctx context.Context, req *export.Request) (*export.Status, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*export.Status), args.Error(1)
}

func (m *mockExportService) Status(ctx context.Context, id string) (*export.Status, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*export.Status), args.Error(1)
}
