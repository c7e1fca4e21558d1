package session

import (
	"context"
	"sync"
)

// MemoryStore keeps sessions in process memory. Sessions are lost on restart.
type MemoryStore struct {
	locks *keyedMutex

	mu    sync.Mutex
	store map[int64]Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		locks: newKeyedMutex(),
		store: make(map[int64]Session),
	}
}

func (m *MemoryStore) With(ctx context.Context, userID int64, fn func(*Session) error) error {
	unlock := m.locks.lock(userID)
	defer unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	sess := m.load(userID)
	if err := fn(&sess); err != nil {
		return err
	}
	m.save(userID, sess)
	return nil
}

func (m *MemoryStore) load(userID int64) Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.store[userID]; ok {
		return s
	}
	return *New()
}

func (m *MemoryStore) save(userID int64, s Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store[userID] = s
}
