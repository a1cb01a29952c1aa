package infrastructure

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"user-registration-service/internal/adapter/storage"
	"user-registration-service/internal/config"
)

// NewAssetStore builds the profile picture store for the configured backend
func NewAssetStore(ctx context.Context, cfg *config.Config, l *zap.Logger) (storage.AssetStore, error) {
	namer := storage.NewNamer(cfg.Storage.Naming, time.Now)

	switch cfg.Storage.Backend {
	case config.StorageLocal:
		store, err := storage.NewLocalStore(afero.NewOsFs(), cfg.Storage.UploadDir, namer, l)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.StorageS3:
		s3cfg := storage.S3Config{
			Bucket:       cfg.Storage.S3Bucket,
			Region:       cfg.Storage.S3Region,
			Endpoint:     cfg.Storage.S3Endpoint,
			AccessKey:    cfg.Storage.S3AccessKey,
			SecretKey:    cfg.Storage.S3SecretKey,
			UsePathStyle: cfg.Storage.S3UsePathStyle,
			KeyPrefix:    cfg.Storage.S3KeyPrefix,
			CreateBucket: cfg.Storage.S3CreateIfAbsent,
		}
		client, err := storage.NewS3Client(ctx, s3cfg)
		if err != nil {
			return nil, err
		}
		store, err := storage.NewS3Store(ctx, client, s3cfg, namer, l)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", cfg.Storage.Backend)
	}
}
