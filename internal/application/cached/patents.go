package cached

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/turtacn/PatentLens/internal/application/patents"
	"github.com/turtacn/PatentLens/internal/domain/patent"
	"github.com/turtacn/PatentLens/internal/infrastructure/monitoring/logging"
)

const patentPrefix = "patents"

// PatentService is a caching decorator around patents.Service. Reads for
// the same key are collapsed through a singleflight group, so concurrent
// misses trigger one inner call and the rest read the stored result.
type PatentService struct {
	inner  patents.Service
	store  Store
	ttl    time.Duration
	logger logging.Logger
	flight singleflight.Group
}

// NewPatentService wraps svc with a read-through cache.
func NewPatentService(svc patents.Service, store Store, ttl time.Duration, logger logging.Logger) *PatentService {
	return &PatentService{inner: svc, store: store, ttl: ttl, logger: logger}
}

func (s *PatentService) List(ctx context.Context, input *patents.ListInput) (*patents.ListResult, error) {
	k := key(patentPrefix+":list", input.Page, input.PageSize, input.Kind, input.Actual, input.FilterID)

	v, err, _ := s.flight.Do(k, func() (interface{}, error) {
		var cachedRes patents.ListResult
		if found, err := s.store.Get(ctx, k, &cachedRes); err != nil {
			s.logger.Warn("cache read failed", logging.String("key", k), logging.Err(err))
		} else if found {
			return &cachedRes, nil
		}

		res, err := s.inner.List(ctx, input)
		if err != nil {
			return nil, err
		}
		if err := s.store.Set(ctx, k, res, s.ttl); err != nil {
			s.logger.Warn("cache write failed", logging.String("key", k), logging.Err(err))
		}
		return res, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*patents.ListResult), nil
}

func (s *PatentService) Stats(ctx context.Context, filterID *int64) (*patents.Stats, error) {
	k := key(patentPrefix+":stats", filterID)

	v, err, _ := s.flight.Do(k, func() (interface{}, error) {
		var cachedRes patents.Stats
		if found, err := s.store.Get(ctx, k, &cachedRes); err != nil {
			s.logger.Warn("cache read failed", logging.String("key", k), logging.Err(err))
		} else if found {
			return &cachedRes, nil
		}

		res, err := s.inner.Stats(ctx, filterID)
		if err != nil {
			return nil, err
		}
		if err := s.store.Set(ctx, k, res, s.ttl); err != nil {
			s.logger.Warn("cache write failed", logging.String("key", k), logging.Err(err))
		}
		return res, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*patents.Stats), nil
}

func (s *PatentService) Create(ctx context.Context, p *patent.Patent) error {
	if err := s.inner.Create(ctx, p); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *PatentService) Update(ctx context.Context, k patent.Key, upd *patent.PartialUpdate) (*patent.Patent, error) {
	p, err := s.inner.Update(ctx, k, upd)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return p, nil
}

func (s *PatentService) Get(ctx context.Context, k patent.Key) (*patent.Detail, error) {
	return s.inner.Get(ctx, k)
}

func (s *PatentService) Delete(ctx context.Context, k patent.Key) error {
	if err := s.inner.Delete(ctx, k); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *PatentService) invalidate(ctx context.Context) {
	if err := s.store.DeleteByPrefix(ctx, patentPrefix+":"); err != nil {
		s.logger.Warn("cache invalidation failed",
			logging.String("prefix", patentPrefix), logging.Err(err))
	}
}

var _ patents.Service = (*PatentService)(nil)
