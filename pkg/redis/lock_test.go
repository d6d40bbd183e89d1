package redis

import (
	"context"
	"testing"
	"time"

	"github.com/ikkim/hairable-backend/config"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLocker_DefaultTTL(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	defer client.Close()

	locker := NewLocker(client, 0)
	assert.Equal(t, 10*time.Second, locker.ttl)
	assert.Equal(t, "lock:", locker.prefix)

	locker = NewLocker(client, 3*time.Second)
	assert.Equal(t, 3*time.Second, locker.ttl)
}

func TestDialLocker_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	locker, err := DialLocker(ctx, config.RedisConfig{Host: "127.0.0.1", Port: "1"})
	require.Error(t, err)
	assert.Nil(t, locker)
	assert.Contains(t, err.Error(), "127.0.0.1:1")
}
