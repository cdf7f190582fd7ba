package session

import (
	"context"
	"sync"
	"time"
)

// Store 记录存活的会话，注销即从中删除
type Store interface {
	Put(ctx context.Context, id string, identity Identity, ttl time.Duration) error
	// Get 会话不存在或已过期时 ok 为 false
	Get(ctx context.Context, id string) (identity Identity, ok bool, err error)
	Delete(ctx context.Context, id string) error
	Close() error
}

type memoryEntry struct {
	identity  Identity
	expiresAt time.Time
}

// MemoryStore 进程内会话存储，重启后所有会话失效
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]memoryEntry
	now      func() time.Time
}

// NewMemoryStore 创建内存存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]memoryEntry),
		now:      time.Now,
	}
}

func (s *MemoryStore) Put(_ context.Context, id string, identity Identity, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweep()
	s.sessions[id] = memoryEntry{identity: identity, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (Identity, bool, error) {
	s.mu.RLock()
	entry, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok || !s.now().Before(entry.expiresAt) {
		return Identity{}, false, nil
	}
	return entry.identity, true, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}

// Len 存活会话数
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	now := s.now()
	for _, e := range s.sessions {
		if now.Before(e.expiresAt) {
			n++
		}
	}
	return n
}

// sweep 清理过期会话，调用方持有写锁
func (s *MemoryStore) sweep() {
	now := s.now()
	for id, e := range s.sessions {
		if !now.Before(e.expiresAt) {
			delete(s.sessions, id)
		}
	}
}
