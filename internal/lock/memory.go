package lock

import (
	"context"
	"sync"
	"time"
)

// MemoryLock is a single-process Locker for local runs and tests.
type MemoryLock struct {
	mu    sync.Mutex
	held  map[string]time.Time
	clock func() time.Time
}

func NewMemoryLock() *MemoryLock {
	return &MemoryLock{
		held:  make(map[string]time.Time),
		clock: time.Now,
	}
}

func (m *MemoryLock) Lock(_ context.Context, key string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if expires, ok := m.held[key]; ok && m.clock().Before(expires) {
		return false, nil
	}

	m.held[key] = m.clock().Add(ttl)
	return true, nil
}

func (m *MemoryLock) Unlock(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.held, key)
	return nil
}
