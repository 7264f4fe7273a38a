package resource

import (
	"fmt"
	"sync"

	"segment-service/pkg/assert"
	"segment-service/pkg/config"
	"segment-service/pkg/logger"
	"segment-service/pkg/redisclient"
)

var (
	redisResourceOnce      sync.Once
	singletonRedisResource *RedisResource
)

// RedisResource owns the shared redis client used for the sweep leader lock.
type RedisResource struct {
	client *redisclient.Client
}

// DefaultRedisResource returns the redis resource singleton.
func DefaultRedisResource() *RedisResource {
	assert.NotCircular()
	redisResourceOnce.Do(func() {
		singletonRedisResource = &RedisResource{}
	})
	assert.NotNil(singletonRedisResource)
	return singletonRedisResource
}

// MustOpen connects to redis and validates the connection.
func (r *RedisResource) MustOpen() {
	cfg := config.GetGlobalConfig()
	if cfg == nil {
		panic("global config not initialized before RedisResource")
	}

	client, err := redisclient.New(cfg.Redis)
	if err != nil {
		panic(fmt.Sprintf("failed to connect redis: %v", err))
	}
	r.client = client

	logger.Info("Redis resource initialized", map[string]interface{}{
		"addr": cfg.Redis.GetRedisAddr(),
	})
}

// Client returns the wrapped redis client, nil when not opened.
func (r *RedisResource) Client() *redisclient.Client {
	return r.client
}

// Close releases pooled connections.
func (r *RedisResource) Close() {
	if r.client != nil {
		_ = r.client.Close()
	}
}
