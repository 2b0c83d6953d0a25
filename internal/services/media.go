package services

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"
)

// MediaProcessor stores uploaded files and resized images.
// *media.Processor is the production implementation.
type MediaProcessor interface {
	SaveFile(ctx context.Context, key string, r io.Reader, size int64) error
	SaveImage(ctx context.Context, key string, src io.Reader, width, height int) error
	Delete(ctx context.Context, key string) error
	URL(key string) string
	BaseURL() string
}

// discardMedia removes objects stored for a write that did not go through.
// Failures are only logged; the caller already has an error to return.
func discardMedia(ctx context.Context, m MediaProcessor, logger *logrus.Logger, keys ...string) {
	for _, key := range keys {
		if err := m.Delete(ctx, key); err != nil {
			logger.WithError(err).WithField("key", key).Warn("failed to remove orphaned media")
		}
	}
}
