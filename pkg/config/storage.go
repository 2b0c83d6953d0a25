package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/anonto42/nano-tube/backend/internal/repositories"
	"github.com/anonto42/nano-tube/backend/pkg/geoip"
	"github.com/anonto42/nano-tube/backend/pkg/media"
	"github.com/sirupsen/logrus"
)

// InitStorage loads every JSON collection from the data directory.
// A corrupt file aborts start-up instead of being replaced by an empty list.
func InitStorage(cfg *Config, log *logrus.Logger) (*repositories.Store, error) {
	store, err := repositories.OpenStore(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load data from %s: %w", cfg.DataDir, err)
	}
	log.WithField("dir", cfg.DataDir).Info("Successfully loaded JSON collections!")
	return store, nil
}

// InitMedia builds the media store selected by MEDIA_BACKEND
func InitMedia(cfg *Config, log *logrus.Logger) (media.Store, error) {
	switch cfg.MediaBackend {
	case "", "local":
		root := filepath.Join(cfg.StaticDir, "users")
		log.WithField("root", root).Info("Using local media storage")
		return media.NewLocalStore(root, "/static/users"), nil
	case "minio":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		store, err := media.NewMinioStore(ctx, media.MinioConfig{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
			PublicURL: cfg.MinioPublicURL,
		}, log)
		if err != nil {
			return nil, err
		}
		log.WithField("bucket", cfg.MinioBucket).Info("Successfully connected to MinIO!")
		return store, nil
	}
	return nil, fmt.Errorf("unknown MEDIA_BACKEND %q", cfg.MediaBackend)
}

// InitGeoIP opens the GeoLite2 database. Without one, country blocking is
// disabled and a warning is logged.
func InitGeoIP(cfg *Config, log *logrus.Logger) (geoip.Locator, func()) {
	if cfg.GeoIPDBPath == "" {
		return geoip.Static{}, func() {}
	}
	reader, err := geoip.Open(cfg.GeoIPDBPath)
	if err != nil {
		if len(cfg.BlockedCountries) > 0 {
			log.WithError(err).Warn("GeoIP database unavailable, country blocking disabled")
		}
		return geoip.Static{}, func() {}
	}
	return reader, func() {
		if err := reader.Close(); err != nil {
			log.WithError(err).Error("Error closing GeoIP database")
		}
	}
}
