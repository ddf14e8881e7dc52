package export

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/PatentLens/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PatentLens/pkg/errors"
)

// Request describes the listing predicate of a new export.
type Request struct {
	Kind     *int
	Actual   *bool
	FilterID *int64
}

// Service is the enqueue-and-poll side of the export surface.
type Service interface {
	Enqueue(ctx context.Context, req *Request) (*Status, error)
	Status(ctx context.Context, id string) (*Status, error)
}

type serviceImpl struct {
	queue    Queue
	statuses StatusStore
	logger   logging.Logger
}

// NewService creates the export application service.
func NewService(queue Queue, statuses StatusStore, logger logging.Logger) Service {
	return &serviceImpl{queue: queue, statuses: statuses, logger: logger}
}

func (s *serviceImpl) Enqueue(ctx context.Context, req *Request) (*Status, error) {
	job := &Job{
		ID:        uuid.NewString(),
		Kind:      req.Kind,
		Actual:    req.Actual,
		FilterID:  req.FilterID,
		CreatedAt: time.Now().UTC(),
	}

	st := &Status{ID: job.ID, State: StatePending, UpdatedAt: job.CreatedAt}
	if err := s.statuses.Set(ctx, st); err != nil {
		return nil, errors.Wrap(err, errors.CodeCacheError, "record export status")
	}
	if err := s.queue.Enqueue(ctx, job); err != nil {
		s.logger.Error("export enqueue failed",
			logging.String("job_id", job.ID), logging.Err(err))
		return nil, errors.Wrap(err, errors.ErrCodeExportEnqueueFail, "enqueue export job")
	}

	s.logger.Info("export job enqueued", logging.String("job_id", job.ID))
	return st, nil
}

func (s *serviceImpl) Status(ctx context.Context, id string) (*Status, error) {
	if id == "" {
		return nil, errors.InvalidParam("export id is required")
	}
	return s.statuses.Get(ctx, id)
}
