// Package minio mirrors finished case output trees into an S3-compatible
// bucket so the filesystem copy under the output root is not the only one.
// The mirror is an optional pipeline adapter; a nil archiver disables it.
package minio

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/caselens/tiger/internal/infrastructure/monitoring/logging"
	"github.com/caselens/tiger/pkg/errors"
)

// ErrClientClosed is returned by any operation on a closed client.
var ErrClientClosed = errors.New(errors.ErrCodeInternal, "minio client is closed")

// MinIOAPI is the slice of the minio-go client the archive mirror uses.
// minio.Client is a struct, so tests substitute this interface instead.
type MinIOAPI interface {
	ListBuckets(ctx context.Context) ([]minio.BucketInfo, error)
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	ListObjects(ctx context.Context, bucketName string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo
}

// Config carries the connection settings for the archive bucket.
type Config struct {
	Endpoint        string        `mapstructure:"endpoint" yaml:"endpoint" json:"endpoint"`
	AccessKeyID     string        `mapstructure:"access_key_id" yaml:"access_key_id" json:"access_key_id"`
	SecretAccessKey string        `mapstructure:"secret_access_key" yaml:"secret_access_key" json:"secret_access_key"`
	UseSSL          bool          `mapstructure:"use_ssl" yaml:"use_ssl" json:"use_ssl"`
	Region          string        `mapstructure:"region" yaml:"region" json:"region"`
	Bucket          string        `mapstructure:"bucket" yaml:"bucket" json:"bucket"`
	ConnectTimeout  time.Duration `mapstructure:"connect_timeout" yaml:"connect_timeout" json:"connect_timeout"`
}

// Client wraps a MinIOAPI together with the bucket it archives into.
type Client struct {
	api    MinIOAPI
	config *Config
	logger logging.Logger

	mu     sync.RWMutex
	closed bool
}

// NewClient connects to the object store, verifies the connection and makes
// sure the archive bucket exists.
func NewClient(cfg *Config, log logging.Logger) (*Client, error) {
	if cfg == nil || cfg.Endpoint == "" {
		return nil, errors.InvalidParam("minio endpoint is required")
	}
	if log == nil {
		log = logging.Default()
	}
	applyDefaults(cfg)

	api, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInvalidParam, "invalid minio endpoint")
	}

	client := &Client{
		api:    api,
		config: cfg,
		logger: log.Named("minio"),
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()

	if _, err := api.ListBuckets(ctx); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeUnavailable, "minio connection failed")
	}
	if err := client.EnsureBucket(ctx); err != nil {
		return nil, err
	}

	client.logger.Info("MinIO client connected",
		logging.String("endpoint", cfg.Endpoint),
		logging.String("bucket", cfg.Bucket),
		logging.Bool("ssl", cfg.UseSSL),
	)
	return client, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}
	if cfg.Bucket == "" {
		cfg.Bucket = "tiger-case-archive"
	}
	if cfg.ConnectTimeout == 0 {
		cfg.ConnectTimeout = 10 * time.Second
	}
}

// EnsureBucket creates the archive bucket when it does not exist yet.
func (c *Client) EnsureBucket(ctx context.Context) error {
	if err := c.guard(); err != nil {
		return err
	}

	exists, err := c.api.BucketExists(ctx, c.config.Bucket)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeArchiveError, "failed to check archive bucket")
	}
	if exists {
		return nil
	}

	err = c.api.MakeBucket(ctx, c.config.Bucket, minio.MakeBucketOptions{Region: c.config.Region})
	if err != nil {
		// A concurrent writer may have created it between the two calls.
		if minio.ToErrorResponse(err).Code == "BucketAlreadyOwnedByYou" {
			return nil
		}
		return errors.Wrap(err, errors.ErrCodeArchiveError, "failed to create archive bucket")
	}

	c.logger.Info("Created archive bucket", logging.String("bucket", c.config.Bucket))
	return nil
}

// Ping verifies the object store is reachable.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.guard(); err != nil {
		return err
	}
	if _, err := c.api.ListBuckets(ctx); err != nil {
		return errors.Wrap(err, errors.ErrCodeUnavailable, "minio ping failed")
	}
	return nil
}

// Close marks the client closed. The minio-go client holds no connection
// state of its own, so this only stops further use.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	c.logger.Info("MinIO client closed")
	return nil
}

// API exposes the underlying object-store handle for integration tests.
func (c *Client) API() MinIOAPI {
	return c.api
}

// Bucket returns the archive bucket name.
func (c *Client) Bucket() string {
	return c.config.Bucket
}

func (c *Client) guard() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrClientClosed
	}
	return nil
}
