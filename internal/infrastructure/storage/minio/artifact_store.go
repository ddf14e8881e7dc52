package minio

import (
	"context"
	"io"
	"time"

	"github.com/minio/minio-go/v7"

	"github.com/turtacn/PatentLens/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PatentLens/pkg/errors"
)

// ArtifactStore persists export artifacts under the client's bucket. It
// implements export.ArtifactStore.
type ArtifactStore struct {
	client        *Client
	defaultExpiry time.Duration
	logger        logging.Logger
}

// NewArtifactStore creates a store; defaultExpiry bounds presigned links
// when the caller passes a non-positive expiry.
func NewArtifactStore(client *Client, defaultExpiry time.Duration, logger logging.Logger) *ArtifactStore {
	if defaultExpiry <= 0 {
		defaultExpiry = time.Hour
	}
	return &ArtifactStore{client: client, defaultExpiry: defaultExpiry, logger: logger}
}

func (s *ArtifactStore) Upload(ctx context.Context, objectName string, r io.Reader, size int64, contentType string) error {
	if objectName == "" {
		return errors.New(errors.ErrCodeValidation, "object name required")
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	info, err := s.client.api.PutObject(ctx, s.client.bucket, objectName, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "upload artifact")
	}

	s.logger.Debug("artifact uploaded",
		logging.String("object", objectName),
		logging.Int64("size", info.Size))
	return nil
}

func (s *ArtifactStore) PresignedURL(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	if objectName == "" {
		return "", errors.New(errors.ErrCodeValidation, "object name required")
	}
	if expiry <= 0 {
		expiry = s.defaultExpiry
	}

	u, err := s.client.api.PresignedGetObject(ctx, s.client.bucket, objectName, expiry, nil)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeInternal, "presign artifact url")
	}
	return u.String(), nil
}

// Remove deletes an artifact, used by retention cleanup.
func (s *ArtifactStore) Remove(ctx context.Context, objectName string) error {
	if err := s.client.api.RemoveObject(ctx, s.client.bucket, objectName, minio.RemoveObjectOptions{}); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "remove artifact")
	}
	return nil
}
