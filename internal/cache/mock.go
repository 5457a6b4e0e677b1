package cache

import (
	"context"
	"sync"
	"time"
)

// MockRedisClient is the in-process Guard used when Redis is not
// configured.
type MockRedisClient struct {
	mu     sync.Mutex
	data   map[string]time.Time
	prefix string
	now    func() time.Time
}

func NewMockRedisClient(prefix string) *MockRedisClient {
	return &MockRedisClient{
		data:   make(map[string]time.Time),
		prefix: prefix,
		now:    time.Now,
	}
}

func (m *MockRedisClient) Close() error {
	return nil
}

func (m *MockRedisClient) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	k := m.prefix + key
	if exp, ok := m.data[k]; ok && now.Before(exp) {
		return false, nil
	}
	m.data[k] = now.Add(ttl)
	return true, nil
}

func (m *MockRedisClient) Release(ctx context.Context, key string) error {
	m.mu.Lock()
	delete(m.data, m.prefix+key)
	m.mu.Unlock()
	return nil
}
