// Package objectstore stages deployment bundles and pipeline artifacts in
// an S3-compatible object store.
package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog/log"
)

// Config describes the staging store connection.
type Config struct {
	Endpoint  string `json:"endpoint"   mapstructure:"endpoint"`
	AccessKey string `json:"access_key" mapstructure:"access_key"`
	SecretKey string `json:"secret_key" mapstructure:"secret_key"`
	Region    string `json:"region"     mapstructure:"region"`
	UseSSL    bool   `json:"use_ssl"    mapstructure:"use_ssl"`
	Bucket    string `json:"bucket"     mapstructure:"bucket"`
}

// Validate checks that every connection field is present and well-formed.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Endpoint) == "" {
		return errors.New("staging endpoint is required")
	}
	if strings.Contains(c.Endpoint, "://") {
		return fmt.Errorf("staging endpoint must not include scheme: %q", c.Endpoint)
	}
	if strings.TrimSpace(c.AccessKey) == "" {
		return errors.New("staging access key is required")
	}
	if strings.TrimSpace(c.SecretKey) == "" {
		return errors.New("staging secret key is required")
	}
	if strings.TrimSpace(c.Bucket) == "" {
		return errors.New("staging bucket is required")
	}
	return nil
}

// Store wraps a minio client bound to one bucket.
type Store struct {
	client *minio.Client
	bucket string
}

// New connects to the staging store.
func New(cfg Config) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("staging store client: %w", err)
	}
	return &Store{client: client, bucket: cfg.Bucket}, nil
}

// Put uploads an object and returns its s3:// URI.
func (s *Store) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("stage object %s: %w", key, err)
	}
	uri := fmt.Sprintf("s3://%s/%s", s.bucket, key)
	log.Debug().Str("uri", uri).Msg("object staged")
	return uri, nil
}
