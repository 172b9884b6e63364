package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/caselens/tiger/internal/domain/document"
	"github.com/caselens/tiger/internal/infrastructure/monitoring/logging"
	"github.com/caselens/tiger/pkg/errors"
)

var (
	ErrCacheMiss        = errors.New(errors.ErrCodeNotFound, "extraction cache miss")
	ErrCacheUnavailable = errors.New(errors.ErrCodeUnavailable, "extraction cache unavailable")
)

// Digest returns the cache key material for a source file: the hex SHA-256
// of its raw bytes. Renamed or copied files with identical content share one
// cache entry.
func Digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ExtractionCache stores successful extraction results keyed by file digest,
// so reprocessing a folder skips every document whose bytes have not changed.
// Entries are immutable per digest; expiry exists only to bound memory.
type ExtractionCache struct {
	client *Client
	logger logging.Logger
	prefix string
	ttl    time.Duration
}

type CacheOption func(*ExtractionCache)

func WithCachePrefix(prefix string) CacheOption {
	return func(c *ExtractionCache) { c.prefix = prefix }
}

func WithCacheTTL(ttl time.Duration) CacheOption {
	return func(c *ExtractionCache) { c.ttl = ttl }
}

func NewExtractionCache(client *Client, log logging.Logger, opts ...CacheOption) *ExtractionCache {
	if log == nil {
		log = logging.Default()
	}
	c := &ExtractionCache{
		client: client,
		logger: log.Named("extraction-cache"),
		prefix: "tiger:extract:",
		ttl:    7 * 24 * time.Hour,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *ExtractionCache) fullKey(digest string) string {
	return c.prefix + digest
}

// jitterTTL spreads expiry by +/- 10% so a bulk run's entries do not all
// lapse in the same second.
func (c *ExtractionCache) jitterTTL(ttl time.Duration) time.Duration {
	if ttl == 0 {
		return 0
	}
	jitter := float64(ttl) * 0.1 * (rand.Float64()*2 - 1)
	return ttl + time.Duration(jitter)
}

// Get returns the cached result for a digest, or ErrCacheMiss. A corrupt
// entry is deleted and reported as a miss so the caller re-extracts instead
// of failing the run.
func (c *ExtractionCache) Get(ctx context.Context, digest string) (*document.ExtractionResult, error) {
	if digest == "" {
		return nil, errors.InvalidParam("digest is required")
	}
	key := c.fullKey(digest)
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCacheError, "failed to read extraction cache")
	}

	var result document.ExtractionResult
	if err := json.Unmarshal(data, &result); err != nil {
		c.logger.Warn("Dropping corrupt extraction cache entry",
			logging.String("digest", digest),
			logging.Err(err),
		)
		c.client.Del(ctx, key)
		return nil, ErrCacheMiss
	}
	return &result, nil
}

// Set caches a successful extraction. Failed results are never cached;
// a failure may be transient and must be retried on the next run.
func (c *ExtractionCache) Set(ctx context.Context, digest string, result *document.ExtractionResult) error {
	if digest == "" {
		return errors.InvalidParam("digest is required")
	}
	if result == nil {
		return errors.InvalidParam("extraction result is required")
	}
	if !result.Success {
		c.logger.Debug("Not caching failed extraction",
			logging.String("file", result.FileName),
			logging.String("digest", digest),
		)
		return nil
	}

	data, err := json.Marshal(result)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode extraction result")
	}
	if err := c.client.Set(ctx, c.fullKey(digest), data, c.jitterTTL(c.ttl)).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "failed to write extraction cache")
	}
	return nil
}

// Invalidate removes entries for the given digests.
func (c *ExtractionCache) Invalidate(ctx context.Context, digests ...string) error {
	if len(digests) == 0 {
		return nil
	}
	keys := make([]string, len(digests))
	for i, d := range digests {
		keys[i] = c.fullKey(d)
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "failed to invalidate extraction cache")
	}
	return nil
}

// Ping reports whether the cache backend is reachable. The pipeline checks
// this once at startup and runs uncached when it fails.
func (c *ExtractionCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx); err != nil {
		return ErrCacheUnavailable
	}
	return nil
}
