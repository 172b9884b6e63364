package redis

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/caselens/tiger/internal/infrastructure/monitoring/logging"
	"github.com/caselens/tiger/pkg/errors"
)

var (
	ErrLockNotAcquired = errors.New(errors.ErrCodeLockError, "case lock not acquired")
	ErrLockNotHeld     = errors.New(errors.ErrCodeLockError, "case lock not held by this owner")
)

// CaseLock serializes writers of one case directory. Two pipeline runs that
// resolve the same case name would otherwise interleave artifact writes.
type CaseLock interface {
	Lock(ctx context.Context) error
	TryLock(ctx context.Context) (bool, error)
	Unlock(ctx context.Context) error
	Extend(ctx context.Context, ttl time.Duration) (bool, error)
	TTL(ctx context.Context) (time.Duration, error)
}

// LockFactory builds locks bound to case names.
type LockFactory interface {
	ForCase(caseName string, opts ...LockOption) CaseLock
}

type LockOption func(*lockConfig)

func WithLockTTL(ttl time.Duration) LockOption {
	return func(c *lockConfig) { c.ttl = ttl }
}

func WithRetryDelay(delay time.Duration) LockOption {
	return func(c *lockConfig) { c.retryDelay = delay }
}

func WithRetryCount(count int) LockOption {
	return func(c *lockConfig) { c.retryCount = count }
}

func WithWatchdog(enabled bool) LockOption {
	return func(c *lockConfig) { c.watchdogEnabled = enabled }
}

func WithWatchdogInterval(interval time.Duration) LockOption {
	return func(c *lockConfig) { c.watchdogInterval = interval }
}

type lockConfig struct {
	ttl              time.Duration
	retryDelay       time.Duration
	retryCount       int
	watchdogEnabled  bool
	watchdogInterval time.Duration
}

type redisLockFactory struct {
	client *Client
	log    logging.Logger
}

func NewLockFactory(client *Client, log logging.Logger) LockFactory {
	if log == nil {
		log = logging.Default()
	}
	return &redisLockFactory{
		client: client,
		log:    log.Named("case-lock"),
	}
}

func (f *redisLockFactory) ForCase(caseName string, opts ...LockOption) CaseLock {
	cfg := lockConfig{
		ttl:              30 * time.Second,
		retryDelay:       100 * time.Millisecond,
		retryCount:       30,
		watchdogInterval: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.watchdogInterval == 0 && cfg.watchdogEnabled {
		cfg.watchdogInterval = cfg.ttl / 3
	}

	return &caseLock{
		client: f.client,
		key:    lockKey(caseName),
		token:  uuid.New().String(),
		config: cfg,
		logger: f.log,
	}
}

// caseLock is a single-holder mutex: SET NX with a per-holder token, and Lua
// scripts that mutate the key only while the token still matches.
type caseLock struct {
	client         *Client
	key            string
	token          string
	config         lockConfig
	logger         logging.Logger
	watchdogCancel context.CancelFunc
	watchdogDone   chan struct{}
}

var unlockScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("DEL", KEYS[1])
	else
		return 0
	end
`)

var extendScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("PEXPIRE", KEYS[1], ARGV[2])
	else
		return 0
	end
`)

func (l *caseLock) Lock(ctx context.Context) error {
	for i := 0; i < l.config.retryCount; i++ {
		success, err := l.client.SetNX(ctx, l.key, l.token, l.config.ttl).Result()
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeLockError, "failed to set case lock")
		}
		if success {
			if l.config.watchdogEnabled {
				l.startWatchdog()
			}
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(l.config.retryDelay):
		}
	}
	return ErrLockNotAcquired
}

func (l *caseLock) TryLock(ctx context.Context) (bool, error) {
	success, err := l.client.SetNX(ctx, l.key, l.token, l.config.ttl).Result()
	if err != nil {
		return false, errors.Wrap(err, errors.ErrCodeLockError, "failed to set case lock")
	}
	if success && l.config.watchdogEnabled {
		l.startWatchdog()
	}
	return success, nil
}

func (l *caseLock) Unlock(ctx context.Context) error {
	l.stopWatchdog()
	res, err := unlockScript.Run(ctx, l.client.GetUnderlyingClient(), []string{l.key}, l.token).Result()
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeLockError, "failed to release case lock")
	}
	if res.(int64) == 0 {
		return ErrLockNotHeld
	}
	return nil
}

func (l *caseLock) Extend(ctx context.Context, ttl time.Duration) (bool, error) {
	res, err := extendScript.Run(ctx, l.client.GetUnderlyingClient(), []string{l.key}, l.token, ttl.Milliseconds()).Result()
	if err != nil {
		return false, errors.Wrap(err, errors.ErrCodeLockError, "failed to extend case lock")
	}
	return res.(int64) == 1, nil
}

func (l *caseLock) TTL(ctx context.Context) (time.Duration, error) {
	return l.client.PTTL(ctx, l.key).Result()
}

func (l *caseLock) startWatchdog() {
	ctx, cancel := context.WithCancel(context.Background())
	l.watchdogCancel = cancel
	l.watchdogDone = make(chan struct{})

	go runWatchdog(ctx, l.Extend, l.config.watchdogInterval, l.config.ttl, l.logger, l.watchdogDone)
}

func (l *caseLock) stopWatchdog() {
	if l.watchdogCancel != nil {
		l.watchdogCancel()
		<-l.watchdogDone
		l.watchdogCancel = nil
	}
}

func lockKey(caseName string) string {
	return "tiger:lock:case:" + caseName
}

// runWatchdog re-extends the lock while its holder works. OCR-heavy cases
// routinely outlive the default TTL.
func runWatchdog(ctx context.Context, extendFn func(context.Context, time.Duration) (bool, error), interval, ttl time.Duration, log logging.Logger, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			ok, err := extendFn(ctx, ttl)
			if err != nil {
				log.Error("Watchdog failed to extend case lock", logging.Err(err))
				return
			}
			if !ok {
				log.Warn("Watchdog lost case lock")
				return
			}
		}
	}
}
