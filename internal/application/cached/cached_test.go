package cached

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/PatentLens/internal/application/patents"
	"github.com/turtacn/PatentLens/internal/domain/patent"
	"github.com/turtacn/PatentLens/internal/infrastructure/monitoring/logging"
)

// memStore is an in-memory Store for decorator tests.
type memStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{data: map[string][]byte{}}
}

func (s *memStore) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	s.mu.Lock()
	raw, ok := s.data[key]
	s.mu.Unlock()
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (s *memStore) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.data[key] = raw
	s.mu.Unlock()
	return nil
}

func (s *memStore) DeleteByPrefix(_ context.Context, prefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.data {
		if strings.HasPrefix(k, prefix) {
			delete(s.data, k)
		}
	}
	return nil
}

type mockPatentsService struct {
	mock.Mock
}

func (m *mockPatentsService) List(ctx context.Context, input *patents.ListInput) (*patents.ListResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*patents.ListResult), args.Error(1)
}

func (m *mockPatentsService) Stats(ctx context.Context, filterID *int64) (*patents.Stats, error) {
	args := m.Called(ctx, filterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*patents.Stats), args.Error(1)
}

func (m *mockPatentsService) Create(ctx context.Context, p *patent.Patent) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockPatentsService) Update(ctx context.Context, key patent.Key, upd *patent.PartialUpdate) (*patent.Patent, error) {
	args := m.Called(ctx, key, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*patent.Patent), args.Error(1)
}

func (m *mockPatentsService) Get(ctx context.Context, key patent.Key) (*patent.Detail, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*patent.Detail), args.Error(1)
}

func (m *mockPatentsService) Delete(ctx context.Context, key patent.Key) error {
	return m.Called(ctx, key).Error(0)
}

func TestKeyRendering(t *testing.T) {
	kind := 1
	filterID := int64(42)
	assert.Equal(t, "patents:list:1:10:1:-:42",
		key("patents:list", 1, 10, &kind, (*bool)(nil), &filterID))
	assert.Equal(t, "patents:stats:-", key("patents:stats", (*int64)(nil)))
}

func TestStatsReadThrough(t *testing.T) {
	inner := new(mockPatentsService)
	store := newMemStore()
	svc := NewPatentService(inner, store, time.Minute, logging.NewNopLogger())
	ctx := context.Background()

	inner.On("Stats", mock.Anything, (*int64)(nil)).
		Return(&patents.Stats{TotalPatents: 3}, nil).Once()

	first, err := svc.Stats(ctx, nil)
	require.NoError(t, err)
	second, err := svc.Stats(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, first.TotalPatents, second.TotalPatents)

	// Second call was served from cache.
	inner.AssertNumberOfCalls(t, "Stats", 1)
}

func TestErrorsAreNotCached(t *testing.T) {
	inner := new(mockPatentsService)
	store := newMemStore()
	svc := NewPatentService(inner, store, time.Minute, logging.NewNopLogger())
	ctx := context.Background()

	inner.On("Stats", mock.Anything, (*int64)(nil)).
		Return(nil, assert.AnError).Once()
	inner.On("Stats", mock.Anything, (*int64)(nil)).
		Return(&patents.Stats{TotalPatents: 1}, nil).Once()

	_, err := svc.Stats(ctx, nil)
	require.Error(t, err)

	res, err := svc.Stats(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.TotalPatents)
	inner.AssertNumberOfCalls(t, "Stats", 2)
}

func TestConcurrentMissesShareOneLoad(t *testing.T) {
	inner := new(mockPatentsService)
	store := newMemStore()
	svc := NewPatentService(inner, store, time.Minute, logging.NewNopLogger())
	ctx := context.Background()

	entered := make(chan struct{})
	release := make(chan struct{})
	inner.On("Stats", mock.Anything, (*int64)(nil)).
		Run(func(mock.Arguments) {
			close(entered)
			<-release
		}).
		Return(&patents.Stats{TotalPatents: 7}, nil).Once()

	const readers = 8
	results := make([]*patents.Stats, readers)
	errs := make([]error, readers)
	var wg sync.WaitGroup
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.Stats(ctx, nil)
		}(i)
	}

	// Hold the first load open so the remaining readers pile up behind it,
	// then let everyone through.
	<-entered
	close(release)
	wg.Wait()

	for i := 0; i < readers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, int64(7), results[i].TotalPatents)
	}
	inner.AssertNumberOfCalls(t, "Stats", 1)
}

func TestMutationInvalidatesListings(t *testing.T) {
	inner := new(mockPatentsService)
	store := newMemStore()
	svc := NewPatentService(inner, store, time.Minute, logging.NewNopLogger())
	ctx := context.Background()

	input := &patents.ListInput{Page: 1, PageSize: 10}
	inner.On("List", mock.Anything, input).
		Return(&patents.ListResult{Total: 1, Items: []*patent.WithHolders{}}, nil)
	inner.On("Create", mock.Anything, mock.Anything).Return(nil)

	_, err := svc.List(ctx, input)
	require.NoError(t, err)
	inner.AssertNumberOfCalls(t, "List", 1)

	_, err = svc.List(ctx, input)
	require.NoError(t, err)
	inner.AssertNumberOfCalls(t, "List", 1)

	p := &patent.Patent{Kind: patent.KindInvention, RegNumber: 1, Name: "Pump"}
	require.NoError(t, svc.Create(ctx, p))

	_, err = svc.List(ctx, input)
	require.NoError(t, err)
	inner.AssertNumberOfCalls(t, "List", 2)
}
