package cache

import (
	"context"
	"time"
)

// Store 键值存储抽象（Redis 或进程内存）
type Store interface {
	GetJSON(ctx context.Context, key string, dest interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Del(ctx context.Context, key string) error
	// PushCapped 将 value 置于列表头部，去重并截断到 limit 个
	PushCapped(ctx context.Context, key, value string, limit int, ttl time.Duration) error
	ListRange(ctx context.Context, key string, limit int) ([]string, error)
}

var defaultStore Store = NewMemoryStore()

// Default 返回当前全局存储
func Default() Store {
	return defaultStore
}

// SetDefault 替换全局存储，nil 时恢复为内存存储
func SetDefault(store Store) {
	if store == nil {
		defaultStore = NewMemoryStore()
		return
	}
	defaultStore = store
}

// GetJSON 获取 JSON 缓存
func GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	return defaultStore.GetJSON(ctx, key, dest)
}

// SetJSON 写入 JSON 缓存
func SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return defaultStore.SetJSON(ctx, key, value, ttl)
}

// Del 删除缓存
func Del(ctx context.Context, key string) error {
	return defaultStore.Del(ctx, key)
}
