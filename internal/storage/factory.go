package storage

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/option"

	"tmyreport/internal/config"
)

// NewStorageClient creates a storage client for the configured deployment mode.
// opts are passed to the GCS client only.
func NewStorageClient(ctx context.Context, cfg *config.Config, opts ...option.ClientOption) (StorageClient, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}

	switch cfg.DeploymentMode {
	case config.DeploymentLocal, "":
		localClient, err := NewLocalStorageClient(cfg.LocalReportsDir)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize local storage client: %w", err)
		}
		return localClient, nil

	case config.DeploymentGCS:
		if cfg.GCPProjectID != "" {
			opts = append(opts, option.WithQuotaProject(cfg.GCPProjectID))
		}
		gcsClient, err := NewGCSClient(ctx, cfg.GCSBucket, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize GCS client: %w", err)
		}
		return gcsClient, nil

	default:
		return nil, fmt.Errorf("unsupported deployment mode: %s", cfg.DeploymentMode)
	}
}
