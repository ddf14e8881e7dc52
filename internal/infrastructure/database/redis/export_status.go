package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/turtacn/PatentLens/internal/application/export"
	"github.com/turtacn/PatentLens/pkg/errors"
)

const exportStatusPrefix = "export:status:"

// ExportStatusStore keeps export job statuses in Redis with a bounded
// lifetime, implementing the export status port.
type ExportStatusStore struct {
	cache *Cache
	ttl   time.Duration
}

// NewExportStatusStore creates a status store; ttl bounds how long a
// finished job stays pollable.
func NewExportStatusStore(cache *Cache, ttl time.Duration) *ExportStatusStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &ExportStatusStore{cache: cache, ttl: ttl}
}

func (s *ExportStatusStore) Set(ctx context.Context, st *export.Status) error {
	return s.cache.Set(ctx, exportStatusPrefix+st.ID, st, s.ttl)
}

func (s *ExportStatusStore) Get(ctx context.Context, id string) (*export.Status, error) {
	var st export.Status
	err := s.cache.Get(ctx, exportStatusPrefix+id, &st)
	if err != nil {
		if errors.IsCode(err, errors.ErrCodeNotFound) {
			return nil, errors.New(errors.ErrCodeExportNotFound,
				fmt.Sprintf("export job %s not found", id))
		}
		return nil, err
	}
	return &st, nil
}

var _ export.StatusStore = (*ExportStatusStore)(nil)
