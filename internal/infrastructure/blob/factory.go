package blob

import (
	"context"
	"fmt"

	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/infrastructure/config"
)

// Open builds the store selected by cfg.BlobDriver.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch Driver(cfg.BlobDriver) {
	case DriverS3:
		return NewS3Store(ctx, S3Config{
			Region:        cfg.BlobS3Region,
			Bucket:        cfg.BlobS3Bucket,
			Endpoint:      cfg.BlobS3Endpoint,
			PathStyle:     cfg.BlobS3PathStyle,
			PublicBaseURL: cfg.BlobPublicBaseURL,
		})
	case DriverMemory, "":
		return NewMemoryStore(cfg.BlobPublicBaseURL), nil
	}
	return nil, fmt.Errorf("unsupported blob driver %q", cfg.BlobDriver)
}
