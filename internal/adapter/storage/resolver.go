// Package storage resolves object keys of the media bucket into
// time-limited download URLs.
package storage

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/heartmarshall/jpkr-backend/internal/config"
)

// Resolver presigns GET requests against an S3-compatible bucket.
type Resolver struct {
	client *minio.Client
	bucket string
	log    *slog.Logger
}

// NewResolver creates a Resolver for cfg. Presigning is local: with the
// region set, no request reaches the storage endpoint.
func NewResolver(cfg config.StorageConfig, logger *slog.Logger) (*Resolver, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("storage: create client: %w", err)
	}
	return &Resolver{
		client: client,
		bucket: cfg.Bucket,
		log:    logger.With("adapter", "storage"),
	}, nil
}

// Resolve returns a URL granting read access to key for ttl. An empty key
// resolves to "".
func (r *Resolver) Resolve(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if key == "" {
		return "", nil
	}

	u, err := r.client.PresignedGetObject(ctx, r.bucket, key, ttl, url.Values{})
	if err != nil {
		return "", fmt.Errorf("storage: presign %s: %w", key, err)
	}

	r.log.DebugContext(ctx, "presigned object url", slog.String("key", key), slog.Duration("ttl", ttl))
	return u.String(), nil
}

// Ping checks that the bucket exists and the credentials can reach it.
func (r *Resolver) Ping(ctx context.Context) error {
	ok, err := r.client.BucketExists(ctx, r.bucket)
	if err != nil {
		return fmt.Errorf("storage: bucket %s: %w", r.bucket, err)
	}
	if !ok {
		return fmt.Errorf("storage: bucket %s does not exist", r.bucket)
	}
	return nil
}

// Noop resolves every key to "". Used when storage is disabled.
type Noop struct{}

// Ping always succeeds.
func (Noop) Ping(context.Context) error { return nil }

// Resolve implements the resolver contract without a backing store.
func (Noop) Resolve(context.Context, string, time.Duration) (string, error) {
	return "", nil
}
