package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

type memoryEntry struct {
	payload   []byte
	list      []string
	expiresAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// MemoryStore 进程内存储，Redis 未启用时使用
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryStore 创建内存存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// GetJSON 获取 JSON 缓存
func (s *MemoryStore) GetJSON(_ context.Context, key string, dest interface{}) (bool, error) {
	s.mu.Lock()
	entry, ok := s.lookup(key)
	s.mu.Unlock()
	if !ok || entry.payload == nil {
		return false, nil
	}
	if err := json.Unmarshal(entry.payload, dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON 写入 JSON 缓存
func (s *MemoryStore) SetJSON(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = memoryEntry{payload: payload, expiresAt: s.deadline(ttl)}
	return nil
}

// Del 删除缓存
func (s *MemoryStore) Del(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

// PushCapped 列表头部写入并截断
func (s *MemoryStore) PushCapped(_ context.Context, key, value string, limit int, ttl time.Duration) error {
	if limit <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, _ := s.lookup(key)
	list := make([]string, 0, limit)
	list = append(list, value)
	for _, existing := range entry.list {
		if existing == value {
			continue
		}
		if len(list) >= limit {
			break
		}
		list = append(list, existing)
	}
	expiresAt := entry.expiresAt
	if ttl > 0 {
		expiresAt = s.deadline(ttl)
	}
	s.entries[key] = memoryEntry{list: list, expiresAt: expiresAt}
	return nil
}

// ListRange 读取列表前 limit 个元素
func (s *MemoryStore) ListRange(_ context.Context, key string, limit int) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.lookup(key)
	if !ok || limit <= 0 {
		return []string{}, nil
	}
	if len(entry.list) < limit {
		limit = len(entry.list)
	}
	out := make([]string, limit)
	copy(out, entry.list[:limit])
	return out, nil
}

// lookup 调用方需持有锁
func (s *MemoryStore) lookup(key string) (memoryEntry, bool) {
	entry, ok := s.entries[key]
	if !ok {
		return memoryEntry{}, false
	}
	if entry.expired(s.now()) {
		delete(s.entries, key)
		return memoryEntry{}, false
	}
	return entry, true
}

func (s *MemoryStore) deadline(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return s.now().Add(ttl)
}
