// Package opensearch indexes consolidated case records so finished cases
// stay searchable across pipeline runs. Indexing is an optional adapter; a
// nil indexer disables it.
package opensearch

import (
	"context"
	"crypto/tls"
	"net/http"
	"time"

	"github.com/opensearch-project/opensearch-go/v2"

	"github.com/caselens/tiger/internal/infrastructure/monitoring/logging"
	"github.com/caselens/tiger/pkg/errors"
)

// DefaultIndex is the case index name used when the config leaves it empty.
const DefaultIndex = "tiger-cases"

// Config carries the connection settings for the case index cluster.
type Config struct {
	Addresses      []string      `mapstructure:"addresses" yaml:"addresses" json:"addresses"`
	Username       string        `mapstructure:"username" yaml:"username" json:"username"`
	Password       string        `mapstructure:"password" yaml:"password" json:"password"`
	Index          string        `mapstructure:"index" yaml:"index" json:"index"`
	MaxRetries     int           `mapstructure:"max_retries" yaml:"max_retries" json:"max_retries"`
	RetryBackoff   time.Duration `mapstructure:"retry_backoff" yaml:"retry_backoff" json:"retry_backoff"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout" json:"request_timeout"`

	// InsecureTLS skips certificate verification for self-signed dev clusters.
	InsecureTLS bool `mapstructure:"insecure_tls" yaml:"insecure_tls" json:"insecure_tls"`
}

func (c *Config) applyDefaults() {
	if c.Index == "" {
		c.Index = DefaultIndex
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = 3
	}
	if c.RetryBackoff == 0 {
		c.RetryBackoff = 100 * time.Millisecond
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = 30 * time.Second
	}
}

// Client wraps the OpenSearch connection shared by the indexer and searcher.
type Client struct {
	client *opensearch.Client
	config *Config
	logger logging.Logger
}

// NewClient connects to the cluster and verifies it responds to a ping.
func NewClient(cfg *Config, log logging.Logger) (*Client, error) {
	if cfg == nil || len(cfg.Addresses) == 0 {
		return nil, errors.InvalidParam("opensearch addresses are required")
	}
	if log == nil {
		log = logging.Default()
	}
	cfg.applyDefaults()

	transport := &http.Transport{MaxIdleConnsPerHost: 10}
	if cfg.InsecureTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	osClient, err := opensearch.NewClient(opensearch.Config{
		Addresses:     cfg.Addresses,
		Username:      cfg.Username,
		Password:      cfg.Password,
		MaxRetries:    cfg.MaxRetries,
		RetryBackoff:  func(int) time.Duration { return cfg.RetryBackoff },
		RetryOnStatus: []int{429, 502, 503, 504},
		Transport:     transport,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInvalidParam, "invalid opensearch configuration")
	}

	client := &Client{
		client: osClient,
		config: cfg,
		logger: log.Named("opensearch"),
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout)
	defer cancel()
	if err := client.Ping(ctx); err != nil {
		return nil, err
	}

	client.logger.Info("OpenSearch client connected",
		logging.Any("addresses", cfg.Addresses),
		logging.String("index", cfg.Index),
	)
	return client, nil
}

// Ping checks that the cluster is reachable and answering.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.client.Ping(c.client.Ping.WithContext(ctx))
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeUnavailable, "opensearch ping failed")
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return errors.New(errors.ErrCodeUnavailable, "opensearch ping returned error status")
	}
	return nil
}

// GetClient returns the underlying OpenSearch client.
func (c *Client) GetClient() *opensearch.Client {
	return c.client
}

// IndexName returns the configured case index.
func (c *Client) IndexName() string {
	return c.config.Index
}
