// Package export orchestrates asynchronous spreadsheet exports of the
// patent listing. The HTTP side enqueues a job and polls its status; a
// separate worker process consumes jobs, materializes the filtered listing
// page by page, and uploads the resulting CSV artifact.
package export

import (
	"context"
	"io"
	"time"
)

// Job is the unit of work carried on the export queue. It captures the
// listing predicate at enqueue time.
type Job struct {
	ID        string    `json:"id"`
	Kind      *int      `json:"kind,omitempty"`
	Actual    *bool     `json:"actual,omitempty"`
	FilterID  *int64    `json:"filter_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Job states.
const (
	StatePending = "pending"
	StateRunning = "running"
	StateDone    = "done"
	StateFailed  = "failed"
)

// Status is the observable state of an export job.
type Status struct {
	ID        string    `json:"id"`
	State     string    `json:"state"`
	URL       string    `json:"url,omitempty"`
	Error     string    `json:"error,omitempty"`
	RowCount  int       `json:"row_count"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Queue is the transport port jobs are enqueued on.
type Queue interface {
	Enqueue(ctx context.Context, job *Job) error
}

// StatusStore persists job statuses with a bounded lifetime.
type StatusStore interface {
	Set(ctx context.Context, st *Status) error
	// Get returns ErrCodeExportNotFound for unknown or expired job ids.
	Get(ctx context.Context, id string) (*Status, error)
}

// ArtifactStore persists finished export artifacts and hands out
// time-limited download links.
type ArtifactStore interface {
	Upload(ctx context.Context, objectName string, r io.Reader, size int64, contentType string) error
	PresignedURL(ctx context.Context, objectName string, expiry time.Duration) (string, error)
}
