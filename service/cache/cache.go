package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Memory 进程内缓存，带过期时间；未配置 Redis 时使用
type Memory struct {
	items *gocache.Cache
}

// NewMemory ttl <= 0 表示不过期
func NewMemory(ttl time.Duration) *Memory {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	cleanup := ttl
	if cleanup == gocache.NoExpiration {
		cleanup = 0
	}
	return &Memory{items: gocache.New(ttl, cleanup)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := m.items.Get(key)
	if !ok {
		return nil, false, nil
	}
	return v.([]byte), true, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.items.SetDefault(key, value)
	return nil
}

// Purge 清空，刷新首屏数据前调用
func (m *Memory) Purge(_ context.Context) error {
	m.items.Flush()
	return nil
}
