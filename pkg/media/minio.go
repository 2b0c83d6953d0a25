package media

import (
	"context"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// MinioConfig holds the connection settings of the object store backend
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	PublicURL string // e.g. https://cdn.example.com/nanotube; defaults to the endpoint
}

// MinioStore keeps media in an S3-compatible bucket
type MinioStore struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

// NewMinioStore connects to MinIO and makes sure the bucket exists
func NewMinioStore(ctx context.Context, cfg MinioConfig, logger *logrus.Logger) (*MinioStore, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create MinIO client")
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to check bucket %s", cfg.Bucket)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, errors.Wrapf(err, "failed to create bucket %s", cfg.Bucket)
		}
		logger.WithField("bucket", cfg.Bucket).Info("created media bucket")
	}

	baseURL := cfg.PublicURL
	if baseURL == "" {
		scheme := "http://"
		if cfg.UseSSL {
			scheme = "https://"
		}
		baseURL = scheme + cfg.Endpoint + "/" + cfg.Bucket
	}

	return &MinioStore{client: client, bucket: cfg.Bucket, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Put uploads r as key. A negative size streams with multipart upload.
func (s *MinioStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	key, err := cleanKey(key)
	if err != nil {
		return err
	}
	_, err = s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{ContentType: contentType})
	return errors.WithMessagef(err, "failed to upload %s", key)
}

// Delete removes the object stored as key
func (s *MinioStore) Delete(ctx context.Context, key string) error {
	key, err := cleanKey(key)
	if err != nil {
		return err
	}
	err = s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
	return errors.WithMessagef(err, "failed to delete %s", key)
}

// URL returns the public URL of key
func (s *MinioStore) URL(key string) string {
	if key == "" {
		return ""
	}
	return s.baseURL + "/" + strings.TrimLeft(key, "/")
}

// BaseURL implements Store
func (s *MinioStore) BaseURL() string {
	return s.baseURL + "/"
}
