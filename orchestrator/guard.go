package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"newsdash/config"
)

// ErrRunInProgress is returned when a fetch run is requested while another
// one holds the guard.
var ErrRunInProgress = errors.New("fetch run already in progress")

// RunGuard admits at most one fetch run at a time. Acquire never waits: it
// either grants the slot or returns ErrRunInProgress.
type RunGuard interface {
	Acquire(ctx context.Context) (release func(), err error)
}

// LocalGuard is a single-slot in-process guard.
type LocalGuard struct {
	slot chan struct{}
}

func NewLocalGuard() *LocalGuard {
	return &LocalGuard{slot: make(chan struct{}, 1)}
}

func (g *LocalGuard) Acquire(ctx context.Context) (func(), error) {
	select {
	case g.slot <- struct{}{}:
		var once sync.Once
		return func() { once.Do(func() { <-g.slot }) }, nil
	default:
		return nil, ErrRunInProgress
	}
}

// DefaultLockKey is the Redis key holding the run lock.
const DefaultLockKey = "newsdash:fetch:lock"

// releaseScript deletes the lock only if it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisGuard shares the run slot between processes through a Redis key.
// The TTL bounds how long a crashed holder can block later runs.
type RedisGuard struct {
	client *redis.Client
	key    string
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisGuard connects to Redis and verifies connectivity.
func NewRedisGuard(ctx context.Context, cfg config.RedisConfig) (*RedisGuard, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}
	return NewRedisGuardWithClient(client, DefaultLockKey, cfg.LockTTL), nil
}

func NewRedisGuardWithClient(client *redis.Client, key string, ttl time.Duration) *RedisGuard {
	if ttl <= 0 {
		ttl = config.DefaultRunLockTTL
	}
	return &RedisGuard{client: client, key: key, ttl: ttl, logger: slog.Default()}
}

// WithLogger sets the logger used to report failed releases.
func (g *RedisGuard) WithLogger(l *slog.Logger) *RedisGuard {
	g.logger = l
	return g
}

func (g *RedisGuard) Acquire(ctx context.Context) (func(), error) {
	token := uuid.NewString()
	ok, err := g.client.SetNX(ctx, g.key, token, g.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire run lock: %w", err)
	}
	if !ok {
		return nil, ErrRunInProgress
	}

	var once sync.Once
	release := func() {
		once.Do(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := releaseScript.Run(ctx, g.client, []string{g.key}, token).Err(); err != nil {
				// The key still expires after the TTL.
				g.logger.Error("Failed to release run lock", "key", g.key, "error", err)
			}
		})
	}
	return release, nil
}

// Close closes the underlying Redis client
func (g *RedisGuard) Close() error {
	return g.client.Close()
}
