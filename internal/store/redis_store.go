package store

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/fullstack-project/fullstack-go/internal/logger"
	"github.com/go-redis/redis/v8"
)

type RedisProvider struct {
	client     *redis.Client
	ctx        context.Context
	prefix     keyPrefix
	expiration time.Duration
}

func NewRedisProvider(addr, password, prefix string) *RedisProvider {
	return &RedisProvider{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       0,
		}),
		ctx:        context.Background(),
		prefix:     keyPrefix(prefix),
		expiration: getExpiration(),
	}
}

func (p *RedisProvider) GetValue(storeName, key string) (interface{}, bool) {
	val, err := p.client.HGet(p.ctx, storeName, p.prefix.apply(key)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false
	} else if err != nil {
		logger.Errorf("failed to get item: %v", err)
		return nil, false
	}
	var value interface{}
	if err := json.Unmarshal([]byte(val), &value); err != nil {
		logger.Errorf("failed to unmarshal value: %v", err)
		return nil, false
	}
	return value, true
}

func (p *RedisProvider) StoreValue(storeName, key string, value interface{}) {
	valueBytes, err := json.Marshal(value)
	if err != nil {
		logger.Errorf("failed to marshal value: %v", err)
		return
	}
	if err := p.client.HSet(p.ctx, storeName, p.prefix.apply(key), valueBytes).Err(); err != nil {
		logger.Errorf("failed to set item: %v", err)
		return
	}
	if err := p.client.Expire(p.ctx, storeName, p.expiration).Err(); err != nil {
		logger.Errorf("failed to set expiration: %v", err)
	}
}

func (p *RedisProvider) GetAllValues(storeName, keyPrefix string) map[string]interface{} {
	match := p.prefix.apply(keyPrefix)
	vals, err := p.client.HGetAll(p.ctx, storeName).Result()
	if err != nil {
		logger.Errorf("failed to get items: %v", err)
		return nil
	}
	items := make(map[string]interface{})
	for key, val := range vals {
		if !strings.HasPrefix(key, match) {
			continue
		}
		var value interface{}
		if err := json.Unmarshal([]byte(val), &value); err != nil {
			logger.Errorf("failed to unmarshal value: %v", err)
			continue
		}
		items[p.prefix.remove(key)] = value
	}
	return items
}

func (p *RedisProvider) DeleteValue(storeName, key string) {
	if err := p.client.HDel(p.ctx, storeName, p.prefix.apply(key)).Err(); err != nil {
		logger.Errorf("failed to delete item: %v", err)
	}
}

func (p *RedisProvider) DeleteStore(storeName string) {
	if err := p.client.Del(p.ctx, storeName).Err(); err != nil {
		logger.Errorf("failed to delete store: %v", err)
	}
}

func getExpiration() time.Duration {
	expirationStr := os.Getenv("FULLSTACK_STORE_REDIS_EXPIRY")
	if expirationStr == "" {
		return 30 * time.Minute
	}
	expiration, err := time.ParseDuration(expirationStr)
	if err != nil {
		logger.Errorf("invalid expiration duration: %v", err)
		return 30 * time.Minute
	}
	return expiration
}
