package cached

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/turtacn/PatentLens/internal/application/persons"
	"github.com/turtacn/PatentLens/internal/domain/person"
	"github.com/turtacn/PatentLens/internal/infrastructure/monitoring/logging"
)

const personPrefix = "persons"

// PersonService is a caching decorator around persons.Service. Reads are
// collapsed per key the same way PatentService does it.
type PersonService struct {
	inner  persons.Service
	store  Store
	ttl    time.Duration
	logger logging.Logger
	flight singleflight.Group
}

// NewPersonService wraps svc with a read-through cache.
func NewPersonService(svc persons.Service, store Store, ttl time.Duration, logger logging.Logger) *PersonService {
	return &PersonService{inner: svc, store: store, ttl: ttl, logger: logger}
}

func (s *PersonService) List(ctx context.Context, input *persons.ListInput) (*persons.ListResult, error) {
	k := key(personPrefix+":list", input.Page, input.PageSize, input.Kind, input.FilterID)

	v, err, _ := s.flight.Do(k, func() (interface{}, error) {
		var cachedRes persons.ListResult
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
	return v.(*persons.ListResult), nil
}

func (s *PersonService) Totals(ctx context.Context, filterID *int64) (*persons.TotalsResult, error) {
	k := key(personPrefix+":totals", filterID)

	v, err, _ := s.flight.Do(k, func() (interface{}, error) {
		var cachedRes persons.TotalsResult
		if found, err := s.store.Get(ctx, k, &cachedRes); err != nil {
			s.logger.Warn("cache read failed", logging.String("key", k), logging.Err(err))
		} else if found {
			return &cachedRes, nil
		}

		res, err := s.inner.Totals(ctx, filterID)
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
	return v.(*persons.TotalsResult), nil
}

func (s *PersonService) MoscowStats(ctx context.Context, filterID *int64) (*persons.MoscowResult, error) {
	k := key(personPrefix+":moscow", filterID)

	v, err, _ := s.flight.Do(k, func() (interface{}, error) {
		var cachedRes persons.MoscowResult
		if found, err := s.store.Get(ctx, k, &cachedRes); err != nil {
			s.logger.Warn("cache read failed", logging.String("key", k), logging.Err(err))
		} else if found {
			return &cachedRes, nil
		}

		res, err := s.inner.MoscowStats(ctx, filterID)
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
	return v.(*persons.MoscowResult), nil
}

func (s *PersonService) CategoryStats(ctx context.Context) (*persons.CategoryStats, error) {
	k := key(personPrefix + ":categories")

	v, err, _ := s.flight.Do(k, func() (interface{}, error) {
		var cachedRes persons.CategoryStats
		if found, err := s.store.Get(ctx, k, &cachedRes); err != nil {
			s.logger.Warn("cache read failed", logging.String("key", k), logging.Err(err))
		} else if found {
			return &cachedRes, nil
		}

		res, err := s.inner.CategoryStats(ctx)
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
	return v.(*persons.CategoryStats), nil
}

func (s *PersonService) Create(ctx context.Context, p *person.Person) error {
	if err := s.inner.Create(ctx, p); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *PersonService) Update(ctx context.Context, taxNumber string, upd *person.PartialUpdate) error {
	if err := s.inner.Update(ctx, taxNumber, upd); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *PersonService) Get(ctx context.Context, taxNumber string) (*person.Detail, error) {
	return s.inner.Get(ctx, taxNumber)
}

func (s *PersonService) Delete(ctx context.Context, taxNumber string) error {
	if err := s.inner.Delete(ctx, taxNumber); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// invalidate clears both prefixes: person mutations change holder names in
// the patent listing join as well.
func (s *PersonService) invalidate(ctx context.Context) {
	for _, prefix := range []string{personPrefix + ":", patentPrefix + ":"} {
		if err := s.store.DeleteByPrefix(ctx, prefix); err != nil {
			s.logger.Warn("cache invalidation failed",
				logging.String("prefix", prefix), logging.Err(err))
		}
	}
}

var _ persons.Service = (*PersonService)(nil)
