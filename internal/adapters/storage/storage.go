package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ammerola/stockroom/internal/core/ports"
	"github.com/ammerola/stockroom/internal/pkg/config"
)

// New returns the export destination selected by EXPORT_DRIVER
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (ports.ObjectStorage, error) {
	switch cfg.Files.ExportDriver {
	case "", "local":
		return NewLocalStorage(cfg.Files.ExportDir, logger)
	case "s3":
		return NewS3Storage(ctx, &S3Config{
			Region:          cfg.AWS.Region,
			Bucket:          cfg.AWS.S3Bucket,
			AccessKeyID:     cfg.AWS.AccessKeyID,
			SecretAccessKey: cfg.AWS.SecretAccessKey,
			Endpoint:        cfg.AWS.S3Endpoint,
			UsePathStyle:    cfg.AWS.UsePathStyle,
		}, logger)
	default:
		return nil, fmt.Errorf("unknown export driver %q", cfg.Files.ExportDriver)
	}
}
