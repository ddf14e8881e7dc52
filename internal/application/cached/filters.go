package cached

import (
	"context"
	"io"

	"github.com/turtacn/PatentLens/internal/application/filters"
	"github.com/turtacn/PatentLens/internal/domain/filter"
	"github.com/turtacn/PatentLens/internal/infrastructure/monitoring/logging"
)

// FilterService decorates filters.Service. Filter reads are cheap and stay
// uncached, but filter mutations change how every filtered query resolves,
// so they flush the patent and person caches.
type FilterService struct {
	inner  filters.Service
	store  Store
	logger logging.Logger
}

// NewFilterService wraps svc with cache invalidation on mutation.
func NewFilterService(svc filters.Service, store Store, logger logging.Logger) *FilterService {
	return &FilterService{inner: svc, store: store, logger: logger}
}

func (s *FilterService) Create(ctx context.Context, name string, taxNumbers []string) (*filter.Filter, error) {
	f, err := s.inner.Create(ctx, name, taxNumbers)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return f, nil
}

func (s *FilterService) CreateFromCSV(ctx context.Context, name string, r io.Reader) (*filter.Filter, error) {
	f, err := s.inner.CreateFromCSV(ctx, name, r)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return f, nil
}

func (s *FilterService) List(ctx context.Context) ([]*filter.Filter, error) {
	return s.inner.List(ctx)
}

func (s *FilterService) Get(ctx context.Context, id int64) (*filter.Filter, error) {
	return s.inner.Get(ctx, id)
}

func (s *FilterService) Delete(ctx context.Context, id int64) error {
	if err := s.inner.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *FilterService) invalidate(ctx context.Context) {
	for _, prefix := range []string{patentPrefix + ":", personPrefix + ":"} {
		if err := s.store.DeleteByPrefix(ctx, prefix); err != nil {
			s.logger.Warn("cache invalidation failed",
				logging.String("prefix", prefix), logging.Err(err))
		}
	}
}

var _ filters.Service = (*FilterService)(nil)
