package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ikkim/hairable-backend/config"
	"github.com/ikkim/hairable-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

var ErrLockTimeout = errors.New("timed out waiting for lock")

// releaseScript deletes the key only when it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Locker is a SET NX based mutual exclusion lock shared by every API instance.
type Locker struct {
	client     *redis.Client
	ttl        time.Duration
	retryDelay time.Duration
	prefix     string
}

func NewLocker(client *redis.Client, ttl time.Duration) *Locker {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &Locker{
		client:     client,
		ttl:        ttl,
		retryDelay: 50 * time.Millisecond,
		prefix:     "lock:",
	}
}

// DialLocker connects to the configured redis and returns a locker that owns the connection.
func DialLocker(ctx context.Context, cfg config.RedisConfig) (*Locker, error) {
	addr := fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	logger.Info("Redis booking lock ready", map[string]interface{}{
		"addr": addr,
		"db":   cfg.DB,
		"ttl":  cfg.LockTTL.String(),
	})
	return NewLocker(client, cfg.LockTTL), nil
}

func (l *Locker) Close() error {
	return l.client.Close()
}

// Acquire blocks until key is held or ctx is done. The returned func releases the lock.
func (l *Locker) Acquire(ctx context.Context, key string) (func(), error) {
	token := uuid.NewString()
	redisKey := l.prefix + key

	for {
		ok, err := l.client.SetNX(ctx, redisKey, token, l.ttl).Result()
		if err != nil {
			logger.Error("Failed to acquire redis lock", err, map[string]interface{}{
				"key": redisKey,
			})
			return nil, err
		}
		if ok {
			break
		}

		select {
		case <-ctx.Done():
			logger.Warn("Gave up waiting for redis lock", map[string]interface{}{
				"key": redisKey,
			})
			return nil, fmt.Errorf("%w: %w", ErrLockTimeout, ctx.Err())
		case <-time.After(l.retryDelay):
		}
	}

	logger.Debug("Redis lock acquired", map[string]interface{}{
		"key": redisKey,
	})

	return func() {
		// ctx may already be cancelled here
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(releaseCtx, l.client, []string{redisKey}, token).Err(); err != nil {
			logger.Error("Failed to release redis lock", err, map[string]interface{}{
				"key": redisKey,
			})
		}
	}, nil
}
