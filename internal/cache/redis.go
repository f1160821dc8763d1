package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aurelia-jewels/storefront/internal/config"

	"github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

// RedisStore 基于 Redis 的存储实现
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore 创建 Redis 存储
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "aj"
	}
	return &RedisStore{client: client, prefix: prefix}
}

// InitRedis 初始化 Redis 客户端，未启用时使用内存存储
func InitRedis(cfg *config.RedisConfig) error {
	if cfg == nil || !cfg.Enabled {
		redisClient = nil
		SetDefault(nil)
		return nil
	}
	addr := strings.TrimSpace(cfg.Host)
	if addr == "" {
		addr = "127.0.0.1"
	}
	port := cfg.Port
	if port <= 0 {
		port = 6379
	}

	redisClient = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", addr, port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	SetDefault(NewRedisStore(redisClient, cfg.Prefix))
	return nil
}

// Enabled 判断 Redis 是否启用
func Enabled() bool {
	return redisClient != nil
}

// Client 获取 Redis 客户端
func Client() *redis.Client {
	return redisClient
}

// Close 关闭 Redis 连接
func Close() error {
	if redisClient == nil {
		return nil
	}
	return redisClient.Close()
}

// GetJSON 获取 JSON 缓存
func (s *RedisStore) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	val, err := s.client.Get(ctx, s.buildKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON 写入 JSON 缓存
func (s *RedisStore) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.buildKey(key), payload, ttl).Err()
}

// Del 删除缓存
func (s *RedisStore) Del(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.buildKey(key)).Err()
}

// PushCapped 列表头部写入并截断
func (s *RedisStore) PushCapped(ctx context.Context, key, value string, limit int, ttl time.Duration) error {
	if limit <= 0 {
		return nil
	}
	fullKey := s.buildKey(key)
	pipe := s.client.TxPipeline()
	pipe.LRem(ctx, fullKey, 0, value)
	pipe.LPush(ctx, fullKey, value)
	pipe.LTrim(ctx, fullKey, 0, int64(limit-1))
	if ttl > 0 {
		pipe.Expire(ctx, fullKey, ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// ListRange 读取列表前 limit 个元素
func (s *RedisStore) ListRange(ctx context.Context, key string, limit int) ([]string, error) {
	if limit <= 0 {
		return []string{}, nil
	}
	return s.client.LRange(ctx, s.buildKey(key), 0, int64(limit-1)).Result()
}

func (s *RedisStore) buildKey(key string) string {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return s.prefix
	}
	return fmt.Sprintf("%s:%s", s.prefix, trimmed)
}
