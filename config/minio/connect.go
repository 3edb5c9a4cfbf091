package minio

import (
	"context"
	"fmt"

	"stock-stream-srv/config"
	"stock-stream-srv/pkg/minio"
)

// connectRetries bounds the initial connection attempts.
const connectRetries = 3

// Connect creates a MinIO client and connects with retry.
func Connect(ctx context.Context, cfg config.MinIOConfig) (minio.MinIO, error) {
	client, err := minio.NewMinIOWithRetry(ctx, &cfg, connectRetries)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MinIO: %w", err)
	}
	return client, nil
}
